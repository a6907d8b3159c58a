// Package vault writes looked-up words as markdown notes.
//
// A note carries the definition, translation, transcription, examples and the
// embeds of the audio clips produced for the record, so the same clips can be
// attached to an Anki card later.
package vault
