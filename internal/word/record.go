package word

import (
	"fmt"
	"regexp"
	"strings"
)

// Record is the normalized result of looking up one term.
type Record struct {
	Term            string   `json:"term"`
	PartOfSpeech    string   `json:"partOfSpeech"`
	Definition      string   `json:"definition"`
	Translation     string   `json:"translation"`
	Phonetic        string   `json:"phonetic"`
	Examples        []string `json:"examples"`
	Synonyms        []string `json:"synonyms"`
	Antonyms        []string `json:"antonyms"`
	SourceReference string   `json:"sourceReference"`
	RecordID        string   `json:"recordId"`
}

// Key identifies the record for artifact ownership. Two lookups of the same
// term produce different keys.
func (r *Record) Key() string {
	return r.RecordID + "|" + r.Term
}

var boldSpan = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// Bold marks text the way examples mark their term.
func Bold(text string) string {
	return "**" + text + "**"
}

// StripBold removes bold markup, keeping the enclosed text.
func StripBold(text string) string {
	return boldSpan.ReplaceAllString(text, "$1")
}

// RepairBold makes sure example marks exactly term in bold. An exact
// whole-word occurrence wins. Otherwise the model's first bolded span is
// replaced by term, which also undoes lemmatized or re-cased spans. Without
// bold markup, term is searched as a substring and then case-insensitively;
// when it is missing the bolded term is appended.
func RepairBold(example, term string) string {
	stripped := StripBold(example)
	if strings.TrimSpace(stripped) == "" {
		return PlaceholderExample(term)
	}

	quoted := regexp.QuoteMeta(term)
	if loc := regexp.MustCompile(`\b` + quoted + `\b`).FindStringIndex(stripped); loc != nil {
		return stripped[:loc[0]] + Bold(term) + stripped[loc[1]:]
	}

	if loc := boldSpan.FindStringIndex(example); loc != nil {
		return StripBold(example[:loc[0]]) + Bold(term) + StripBold(example[loc[1]:])
	}

	for _, p := range []string{quoted, `(?i)\b` + quoted + `\b`, `(?i)` + quoted} {
		if loc := regexp.MustCompile(p).FindStringIndex(stripped); loc != nil {
			return stripped[:loc[0]] + Bold(term) + stripped[loc[1]:]
		}
	}
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(stripped), Bold(term))
}

// PlaceholderExample is the example used when the model supplied none.
func PlaceholderExample(term string) string {
	return "Example with " + Bold(term)
}

// PlaceholderPhonetic is the synthetic transcription used when none is known.
func PlaceholderPhonetic(term string) string {
	return "/" + term + "/"
}
