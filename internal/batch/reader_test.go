package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []WordEntry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "terms with context",
			fileContent: `run | She runs a small shop.
bank | We sat on the river bank.`,
			want: []WordEntry{
				{Term: "run", Context: "She runs a small shop."},
				{Term: "bank", Context: "We sat on the river bank."},
			},
		},
		{
			name: "mixed format",
			fileContent: `apple
bank | river bank
ice cream`,
			want: []WordEntry{
				{Term: "apple"},
				{Term: "bank", Context: "river bank"},
				{Term: "ice cream"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "apple\r\nbank | money\r\n",
			want: []WordEntry{
				{Term: "apple"},
				{Term: "bank", Context: "money"},
			},
		},
		{
			name: "comments and empty terms",
			fileContent: `# vocabulary for chapter 3
  run  
| no term here
walk |
`,
			want: []WordEntry{
				{Term: "run"},
				{Term: "walk"},
			},
		},
		{
			name:        "context keeps further separators",
			fileContent: "or | this | that",
			want:        []WordEntry{{Term: "or", Context: "this | that"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words.txt")
			if err := os.WriteFile(path, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to write batch file: %v", err)
			}

			got, err := ReadBatchFile(path)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFileMissing(t *testing.T) {
	_, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("ReadBatchFile() should fail for a missing file")
	}
}
