package fieldmap

import (
	"strings"

	"codeberg.org/snonux/ankidict/internal/word"
)

// Field is one filled note field.
type Field struct {
	Name  string
	Value string
}

// Mapping holds the fields in schema order.
type Mapping []Field

// Get returns the value of the first field called name.
func (m Mapping) Get(name string) string {
	for _, f := range m {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Values returns the mapping as a map, the shape the note store expects.
func (m Mapping) Values() map[string]string {
	values := make(map[string]string, len(m))
	for _, f := range m {
		values[f.Name] = f.Value
	}
	return values
}

// Names returns the field names in order.
func (m Mapping) Names() []string {
	names := make([]string, len(m))
	for i, f := range m {
		names[i] = f.Name
	}
	return names
}

type handler func(rec *word.Record, artifacts word.Artifacts) string

var handlers = map[Rule]handler{
	RuleNone:         func(*word.Record, word.Artifacts) string { return "" },
	RuleTerm:         func(r *word.Record, _ word.Artifacts) string { return r.Term },
	RuleFront:        func(r *word.Record, _ word.Artifacts) string { return r.Term },
	RuleDefinition:   func(r *word.Record, _ word.Artifacts) string { return r.Definition },
	RuleTranslation:  func(r *word.Record, _ word.Artifacts) string { return r.Translation },
	RulePhonetic:     func(r *word.Record, _ word.Artifacts) string { return r.Phonetic },
	RuleType:         func(r *word.Record, _ word.Artifacts) string { return r.PartOfSpeech },
	RuleExamples:     func(r *word.Record, _ word.Artifacts) string { return bullets(r.Examples) },
	RuleSynonyms:     func(r *word.Record, _ word.Artifacts) string { return strings.Join(r.Synonyms, ", ") },
	RuleAntonyms:     func(r *word.Record, _ word.Artifacts) string { return strings.Join(r.Antonyms, ", ") },
	RuleSource:       func(r *word.Record, _ word.Artifacts) string { return r.SourceReference },
	RuleID:           func(r *word.Record, _ word.Artifacts) string { return r.RecordID },
	RuleBack:         func(r *word.Record, _ word.Artifacts) string { return back(r) },
	RuleAudio:        audioRef,
	RuleExampleAudio: exampleAudioRefs,
}

// Map fills every field of schema. artifacts may be nil.
func Map(schema []string, rec *word.Record, artifacts word.Artifacts) Mapping {
	m := make(Mapping, 0, len(schema))
	for _, name := range schema {
		m = append(m, Field{Name: name, Value: handlers[Classify(name)](rec, artifacts)})
	}
	return m
}

func bullets(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "• " + l
	}
	return strings.Join(out, "\n")
}

// back renders the one-field summary of simple Front/Back notes.
func back(r *word.Record) string {
	var sections []string
	if r.Definition != "" {
		sections = append(sections, r.Definition)
	}
	if r.Translation != "" {
		sections = append(sections, "Vietnamese: "+r.Translation)
	}
	if r.Phonetic != "" {
		sections = append(sections, "Pronunciation: "+r.Phonetic)
	}
	if len(r.Examples) > 0 {
		sections = append(sections, "Examples:\n"+bullets(r.Examples))
	}
	return strings.Join(sections, "\n\n")
}

func audioRef(_ *word.Record, artifacts word.Artifacts) string {
	if a, ok := artifacts.Pronunciation(); ok {
		return a.SoundRef()
	}
	return ""
}

func exampleAudioRefs(_ *word.Record, artifacts word.Artifacts) string {
	var refs []string
	for _, a := range artifacts.Examples() {
		refs = append(refs, a.SoundRef())
	}
	return strings.Join(refs, " ")
}
