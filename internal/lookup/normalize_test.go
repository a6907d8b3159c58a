package lookup

import (
	"reflect"
	"testing"

	"codeberg.org/snonux/ankidict/internal/completion"
)

func TestNormalizeFallbacks(t *testing.T) {
	rec := normalize(completion.Entry{"Part_of_speech": "noun"}, "cat")

	if rec.PartOfSpeech != "noun" {
		t.Errorf("PartOfSpeech = %q", rec.PartOfSpeech)
	}
	if rec.Definition != NoDefinition {
		t.Errorf("Definition = %q", rec.Definition)
	}
	if !reflect.DeepEqual(rec.Examples, []string{"Example with **cat**"}) {
		t.Errorf("Examples = %q", rec.Examples)
	}
	if rec.Synonyms == nil || rec.Antonyms == nil {
		t.Error("lists must be non-nil")
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "missing", in: nil, want: []string{}},
		{name: "scalar", in: "quick", want: []string{"quick"}},
		{name: "list", in: []any{"a", " b ", "", 3.0}, want: []string{"a", "b", "3"}},
		{name: "object", in: map[string]any{"x": 1}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("stringList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceLink(t *testing.T) {
	tests := map[string]string{
		"":               "[[Unknown]]",
		"Reading list":   "[[Reading list]]",
		"[[Book notes]]": "[[Book notes]]",
	}
	for in, want := range tests {
		if got := sourceLink(in); got != want {
			t.Errorf("sourceLink(%q) = %q, want %q", in, got, want)
		}
	}
}
