// Package phonetic resolves IPA transcriptions for English words from a public
// dictionary API. Resolution never fails: when the dictionary is unreachable,
// returns nothing, or the circuit breaker is open, a synthetic "/word/"
// transcription is used instead.
package phonetic
