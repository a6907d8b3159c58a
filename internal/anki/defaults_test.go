package anki

import (
	"reflect"
	"testing"
)

func TestDefaultFields(t *testing.T) {
	tests := []struct {
		noteType string
		want     int
		first    string
	}{
		{"English Vocabulary", 11, "Term"},
		{"english vocabulary (advanced)", 11, "Term"},
		{"Advance", 11, "Term"},
		{"Advanced", 2, "Front"},
		{"Spanish Vocabulary", 5, "Term"},
		{"Language Drill", 5, "Term"},
		{"Basic", 2, "Front"},
		{"Cloze", 2, "Front"},
	}

	for _, tt := range tests {
		t.Run(tt.noteType, func(t *testing.T) {
			got := DefaultFields(tt.noteType)
			if len(got) != tt.want || got[0] != tt.first {
				t.Errorf("DefaultFields(%q) = %v", tt.noteType, got)
			}
		})
	}
}

func TestDefaultFieldsReturnsCopy(t *testing.T) {
	a := DefaultFields("Basic")
	a[0] = "changed"
	if DefaultFields("Basic")[0] != "Front" {
		t.Error("DefaultFields must not share its backing array")
	}
}

func TestPreferredNoteType(t *testing.T) {
	tests := []struct {
		name      string
		noteTypes []string
		fallback  string
		want      string
	}{
		{name: "english vocabulary wins", noteTypes: []string{"Basic", "English Vocabulary"}, fallback: "Basic", want: "English Vocabulary"},
		{name: "configured default", noteTypes: []string{"Cloze", "Basic"}, fallback: "Basic", want: "Basic"},
		{name: "first listed", noteTypes: []string{"Cloze"}, fallback: "Basic", want: "Cloze"},
		{name: "nothing listed", noteTypes: nil, fallback: "Basic", want: "Basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreferredNoteType(tt.noteTypes, tt.fallback); got != tt.want {
				t.Errorf("PreferredNoteType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultLists(t *testing.T) {
	if !reflect.DeepEqual(DefaultDecks, []string{"Default"}) {
		t.Errorf("DefaultDecks = %v", DefaultDecks)
	}
	if !reflect.DeepEqual(DefaultNoteTypes, []string{"Basic", "English Vocabulary"}) {
		t.Errorf("DefaultNoteTypes = %v", DefaultNoteTypes)
	}
}
