package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateAudioDirectory creates an audio directory holding the named mp3 files.
func CreateAudioDirectory(t *testing.T, filenames ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "Audio")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create audio directory: %v", err)
	}
	for _, name := range filenames {
		CreateTestFile(t, filepath.Join(dir, name), AudioBytes(1200))
	}
	return dir
}

// AudioBytes returns n bytes starting with an MP3 frame header.
func AudioBytes(n int) []byte {
	data := make([]byte, n)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x00})
	return data
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
