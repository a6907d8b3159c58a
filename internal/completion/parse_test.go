package completion

import "testing"

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantStage Stage
		wantDef   string
	}{
		{
			name:      "clean json",
			content:   `{"Term":"run","Definition":"to move fast"}`,
			wantStage: StageDirect,
			wantDef:   "to move fast",
		},
		{
			name:      "fenced json",
			content:   "```json\n{\"Term\":\"run\",\"Definition\":\"to move fast\"}\n```",
			wantStage: StageDirect,
			wantDef:   "to move fast",
		},
		{
			name:      "prose around object",
			content:   "Sure! Here is the entry:\n{\"Term\":\"run\",\"Definition\":\"to move fast\"}\nHope it helps.",
			wantStage: StageExtracted,
			wantDef:   "to move fast",
		},
		{
			name:      "no object",
			content:   "I cannot help with that.",
			wantStage: StagePlaceholder,
			wantDef:   "Could not parse definition",
		},
		{
			name:      "broken object",
			content:   `{"Term": "run", "Definition": }`,
			wantStage: StagePlaceholder,
			wantDef:   "Could not parse definition",
		},
		{
			name:      "top level array",
			content:   `[1, 2, 3]`,
			wantStage: StagePlaceholder,
			wantDef:   "Could not parse definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, stage := ParseEntry(tt.content, "run")
			if stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", stage, tt.wantStage)
			}
			if got := entry["Definition"]; got != tt.wantDef {
				t.Errorf("Definition = %v, want %q", got, tt.wantDef)
			}
		})
	}
}

func TestPlaceholderEntry(t *testing.T) {
	entry := PlaceholderEntry("running")

	if entry["Term"] != "running" {
		t.Errorf("Term = %v", entry["Term"])
	}
	if entry["Type"] != "unknown" {
		t.Errorf("Type = %v", entry["Type"])
	}
	examples, ok := entry["Examples"].([]any)
	if !ok || len(examples) != 1 || examples[0] != "Example with **running**" {
		t.Errorf("Examples = %#v", entry["Examples"])
	}
}
