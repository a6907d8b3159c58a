package fieldmap

import "strings"

// Rule is the role a field plays in a note.
type Rule int

const (
	RuleNone Rule = iota
	RuleTerm
	RuleDefinition
	RuleTranslation
	RulePhonetic
	RuleType
	RuleExamples
	RuleSynonyms
	RuleAntonyms
	RuleAudio
	RuleExampleAudio
	RuleSource
	RuleID
	RuleFront
	RuleBack
)

var ruleNames = map[Rule]string{
	RuleNone:         "none",
	RuleTerm:         "term",
	RuleDefinition:   "definition",
	RuleTranslation:  "translation",
	RulePhonetic:     "phonetic",
	RuleType:         "type",
	RuleExamples:     "examples",
	RuleSynonyms:     "synonyms",
	RuleAntonyms:     "antonyms",
	RuleAudio:        "audio",
	RuleExampleAudio: "example-audio",
	RuleSource:       "source",
	RuleID:           "id",
	RuleFront:        "front",
	RuleBack:         "back",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "unknown"
}

// exact maps upper-cased field names to their rule.
var exact = map[string]Rule{
	"TERM":       RuleTerm,
	"DEFINITION": RuleDefinition,
	"VIETNAMESE": RuleTranslation,
	"IPA":        RulePhonetic,
	"TYPE":       RuleType,
	"EXAMPLES":   RuleExamples,
	"SYNONYMS":   RuleSynonyms,
	"ANTONYMS":   RuleAntonyms,
	"AUDIO_TERM": RuleAudio,
	"SOURCE":     RuleSource,
	"ID":         RuleID,
	"FRONT":      RuleFront,
	"BACK":       RuleBack,
}

// Classify returns the rule for a field name. Exact matches win over the
// substring heuristics, which are tried in order.
func Classify(field string) Rule {
	if rule, ok := exact[strings.ToUpper(strings.TrimSpace(field))]; ok {
		return rule
	}

	lower := strings.ToLower(field)
	switch {
	case strings.Contains(lower, "meaning"):
		return RuleDefinition
	case strings.Contains(lower, "pronunciation"):
		return RulePhonetic
	case strings.Contains(lower, "audio") || strings.Contains(lower, "sound"):
		if strings.Contains(lower, "example") {
			return RuleExampleAudio
		}
		return RuleAudio
	default:
		return RuleNone
	}
}
