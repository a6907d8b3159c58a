// Package server exposes the lookup pipeline over HTTP for the note-taking
// plugin. Every client keeps its own lookup session, identified by the
// X-Session-ID header.
package server
