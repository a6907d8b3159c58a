// Package artifact generates and remembers the audio clips of a word record.
//
// EnsureArtifacts synthesizes the pronunciation of the term and one clip per
// example, hands the bytes to a Store and remembers only the metadata in an
// Index keyed by the record's identity. Asking again for the same record
// returns the remembered set without synthesizing anything.
package artifact
