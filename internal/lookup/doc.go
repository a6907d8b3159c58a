// Package lookup turns a term into a normalized word.Record.
//
// A Session composes a completion.Completer with a phonetic resolver and
// enforces single flight: while one lookup is running, further lookups on the
// same session are rejected with a failure.Busy error instead of being queued.
// Every lookup ends in Completed or Failed, including when a collaborator
// panics.
package lookup
