package word

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRepairBold(t *testing.T) {
	tests := []struct {
		name    string
		example string
		term    string
		want    string
	}{
		{"already correct", "I **run** daily.", "run", "I **run** daily."},
		{"lemmatized bold", "She **ran** fast.", "running", "She **running** fast."},
		{"bold on wrong token", "The **dog** likes to run.", "run", "The dog likes to **run**."},
		{"whole word preferred", "At brunch I run.", "run", "At brunch I **run**."},
		{"case drift", "**Run** every day.", "run", "**run** every day."},
		{"inflected bold replaced whole", "**Running** is fun.", "run", "**run** is fun."},
		{"inflected bold mid sentence", "I like **Running** too.", "run", "I like **run** too."},
		{"case drift without bold", "Run every day.", "run", "**run** every day."},
		{"several bold spans", "I **run** and **jump**.", "run", "I **run** and jump."},
		{"no bold but present", "I run daily.", "run", "I **run** daily."},
		{"missing term", "Nothing here.", "run", "Nothing here. (**run**)"},
		{"empty", "  ", "run", "Example with **run**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairBold(tt.example, tt.term)
			if got != tt.want {
				t.Errorf("RepairBold(%q, %q) = %q, want %q", tt.example, tt.term, got, tt.want)
			}
			if !strings.Contains(got, Bold(tt.term)) {
				t.Errorf("repaired example %q does not contain %q", got, tt.term)
			}
		})
	}
}

func TestStripBold(t *testing.T) {
	if got := StripBold("I **run** and **jump**."); got != "I run and jump." {
		t.Errorf("StripBold() = %q", got)
	}
}

func TestRecordKey(t *testing.T) {
	a := &Record{Term: "run", RecordID: "1_aaaa"}
	b := &Record{Term: "run", RecordID: "2_aaaa"}
	if a.Key() == b.Key() {
		t.Error("records with different IDs share a key")
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{PronunciationRole(), ExampleRole(1), ExampleRole(3)} {
		parsed, err := ParseRole(role.String())
		if err != nil {
			t.Fatalf("ParseRole(%q) failed: %v", role.String(), err)
		}
		if parsed != role {
			t.Errorf("ParseRole(%q) = %+v, want %+v", role.String(), parsed, role)
		}
	}

	if _, err := ParseRole("example#0"); err == nil {
		t.Error("expected error for example#0")
	}
	if PronunciationRole().Tag() != "ipa" {
		t.Errorf("Tag() = %q", PronunciationRole().Tag())
	}
	if ExampleRole(2).Tag() != "example_2" {
		t.Errorf("Tag() = %q", ExampleRole(2).Tag())
	}
}

func TestArtifactJSON(t *testing.T) {
	in := Artifact{SourceText: "I run daily.", Role: ExampleRole(1), Filename: "a.mp3", SizeBytes: 2048}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"role":"example#1"`) {
		t.Errorf("role not encoded as text: %s", data)
	}

	var out Artifact
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("decoded %+v, want %+v", out, in)
	}
}

func TestArtifactsLookup(t *testing.T) {
	set := Artifacts{
		{Role: PronunciationRole(), Filename: "p.mp3"},
		{Role: ExampleRole(1), Filename: "e1.mp3"},
		{Role: ExampleRole(2), Filename: "e2.mp3"},
	}

	p, ok := set.Pronunciation()
	if !ok || p.SoundRef() != "[sound:p.mp3]" {
		t.Errorf("Pronunciation() = %+v, %v", p, ok)
	}
	if len(set.Examples()) != 2 {
		t.Errorf("Examples() len = %d", len(set.Examples()))
	}
	if e, ok := set.ForExample(2); !ok || e.Filename != "e2.mp3" {
		t.Errorf("ForExample(2) = %+v, %v", e, ok)
	}
	if _, ok := (Artifacts{}).Pronunciation(); ok {
		t.Error("empty set reported a pronunciation")
	}
}
