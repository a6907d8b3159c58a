package lookup

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/ankidict/internal/completion"
	"codeberg.org/snonux/ankidict/internal/word"
)

// Fallbacks for fields the model left out.
const (
	NoDefinition  = "No definition available"
	NoTranslation = "Không có nghĩa tiếng Việt"
	UnknownType   = "unknown"
)

// normalize builds a record from a raw entry. term is the caller's exact term;
// whatever the model put in "Term" is ignored.
func normalize(entry completion.Entry, term string) word.Record {
	return word.Record{
		Term:         term,
		PartOfSpeech: firstString(entry, UnknownType, "Type", "Part_of_speech"),
		Definition:   firstString(entry, NoDefinition, "Definition"),
		Translation:  firstString(entry, NoTranslation, "Vietnamese"),
		Phonetic:     firstString(entry, "", "IPA"),
		Examples:     examples(entry["Examples"], term),
		Synonyms:     stringList(entry["Synonyms"]),
		Antonyms:     stringList(entry["Antonyms"]),
	}
}

func firstString(entry completion.Entry, fallback string, keys ...string) string {
	for _, k := range keys {
		if s := scalar(entry[k]); s != "" {
			return s
		}
	}
	return fallback
}

// scalar renders a JSON scalar as trimmed text; objects and arrays are empty.
func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// examples repairs the bolding of every example. Anything but a list or a
// single string yields the placeholder example.
func examples(v any, term string) []string {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{word.PlaceholderExample(term)}
		}
		raw = []any{t}
	default:
		return []string{word.PlaceholderExample(term)}
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, word.RepairBold(scalar(item), term))
	}
	return out
}

// stringList coerces a list, a scalar or nothing into a non-nil slice.
func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := scalar(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := scalar(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sourceLink renders a source as a wiki link, leaving existing links alone.
func sourceLink(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "Unknown"
	}
	if strings.HasPrefix(source, "[[") && strings.HasSuffix(source, "]]") {
		return source
	}
	return "[[" + source + "]]"
}
