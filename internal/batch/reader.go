package batch

import (
	"fmt"
	"os"
	"strings"
)

// WordEntry represents a term with an optional context sentence
type WordEntry struct {
	Term    string
	Context string
}

// ReadBatchFile reads terms from a file and returns WordEntry slice
// Supports formats:
// - Term only: "run"
// - With context: "run | She runs a small shop." (context disambiguates the sense)
// Blank lines and lines starting with '#' are ignored, as are lines whose
// term part is empty.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(string(content)), nil
}

// ParseBatch parses batch file content.
func ParseBatch(content string) []WordEntry {
	var entries []WordEntry

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		term, context, _ := strings.Cut(line, "|")
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		entries = append(entries, WordEntry{
			Term:    term,
			Context: strings.TrimSpace(context),
		})
	}

	return entries
}
