// Package anki delivers notes to Anki.
//
// Bridge talks to the HTTP bridge in front of AnkiConnect: it lists decks,
// note types and their fields, and adds notes. Schema lookups degrade to
// built-in defaults when the bridge is unreachable. Exporter turns a filled
// field mapping into one add-note request. Package collects the same notes
// offline and writes them as an .apkg collection or a CSV file.
package anki
