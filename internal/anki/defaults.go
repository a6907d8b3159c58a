package anki

import "strings"

// Fallbacks used when the bridge cannot be asked.
var (
	DefaultDecks     = []string{"Default"}
	DefaultNoteTypes = []string{"Basic", "English Vocabulary"}
)

var (
	vocabularyFields = []string{"Term", "Definition", "Type", "Examples", "Vietnamese", "IPA", "Synonyms", "Antonyms", "Audio_Term", "Source", "ID"}
	languageFields   = []string{"Term", "Definition", "Vietnamese", "Audio_Term", "Examples"}
	basicFields      = []string{"Front", "Back"}
)

// DefaultFields guesses the fields of a note type from its name.
func DefaultFields(noteType string) []string {
	lower := strings.ToLower(noteType)

	var fields []string
	switch {
	case strings.Contains(lower, "english") && strings.Contains(lower, "vocabulary"), lower == "advance":
		fields = vocabularyFields
	case strings.Contains(lower, "vocabulary"), strings.Contains(lower, "language"):
		fields = languageFields
	default:
		fields = basicFields
	}
	return append([]string(nil), fields...)
}

// PreferredNoteType picks an English vocabulary note type when one exists,
// otherwise fallback if it is listed, otherwise the first type.
func PreferredNoteType(noteTypes []string, fallback string) string {
	for _, nt := range noteTypes {
		lower := strings.ToLower(nt)
		if strings.Contains(lower, "english") && strings.Contains(lower, "vocabulary") {
			return nt
		}
	}
	for _, nt := range noteTypes {
		if nt == fallback {
			return nt
		}
	}
	if len(noteTypes) > 0 {
		return noteTypes[0]
	}
	return fallback
}
