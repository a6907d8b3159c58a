// Package processor wires the lookup pipeline together. It builds the
// completion, phonetic, speech and Anki clients from the resolved settings
// and offers the operations the CLI and the HTTP server call: look a term
// up, export it as a card, save it as a note, and process batch files.
package processor
