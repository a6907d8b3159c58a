package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Provider", flags.Provider, "groq"},
		{"Language", flags.Language, "English"},
		{"DeckName", flags.DeckName, "Default"},
		{"NoteType", flags.NoteType, "Basic"},
		{"Addr", flags.Addr, DefaultServerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Debug", flags.Debug},
		{"NoAudio", flags.NoAudio},
		{"Export", flags.Export},
		{"SaveNote", flags.SaveNote},
		{"GenerateAnki", flags.GenerateAnki},
		{"AnkiCSV", flags.AnkiCSV},
		{"ListModels", flags.ListModels},
		{"ArchiveAudio", flags.ArchiveAudio},
		{"CheckOnly", flags.CheckOnly},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"APIKey", flags.APIKey},
		{"Model", flags.Model},
		{"Context", flags.Context},
		{"BatchFile", flags.BatchFile},
		{"OutputDir", flags.OutputDir},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}
