package completion

import (
	"encoding/json"
	"regexp"
	"strings"

	"codeberg.org/snonux/ankidict/internal/word"
)

// Stage tells which recovery step produced an entry.
type Stage int

const (
	StageDirect      Stage = iota // whole body parsed after stripping code fences
	StageExtracted                // first {...} span parsed
	StagePlaceholder              // nothing parsed, placeholder synthesized
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageExtracted:
		return "extracted"
	default:
		return "placeholder"
	}
}

var objectSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ParseEntry recovers a JSON object from completion text. It never fails: when
// neither the fenced body nor the first brace span parses, a placeholder entry
// for term is returned.
func ParseEntry(content, term string) (Entry, Stage) {
	if entry, ok := decodeObject(stripFences(content)); ok {
		return entry, StageDirect
	}

	if span := objectSpan.FindString(content); span != "" {
		if entry, ok := decodeObject(span); ok {
			return entry, StageExtracted
		}
	}

	return PlaceholderEntry(term), StagePlaceholder
}

// PlaceholderEntry is the entry used when a completion could not be parsed.
func PlaceholderEntry(term string) Entry {
	return Entry{
		"Term":       term,
		"Definition": "Could not parse definition",
		"Vietnamese": "Không thể phân tích nghĩa tiếng Việt",
		"Type":       "unknown",
		"IPA":        "",
		"Examples":   []any{word.PlaceholderExample(term)},
		"Synonyms":   []any{},
		"Antonyms":   []any{},
	}
}

func stripFences(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeObject(s string) (Entry, bool) {
	var entry Entry
	if err := json.Unmarshal([]byte(s), &entry); err != nil || entry == nil {
		return nil, false
	}
	return entry, true
}
