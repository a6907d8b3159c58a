package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/ankidict/internal/testutil"
)

func TestArchiveAudio(t *testing.T) {
	audioDir := testutil.CreateAudioDirectory(t, "audio_ipa_run_1.mp3", "audio_example_1_irundaily_2.mp3")
	tmpDir := filepath.Dir(audioDir)

	archivedPath, err := ArchiveAudio(audioDir)
	if err != nil {
		t.Fatalf("ArchiveAudio failed: %v", err)
	}

	// Check that audio directory no longer exists
	testutil.AssertFileNotExists(t, audioDir)

	if filepath.Dir(archivedPath) != filepath.Join(tmpDir, "archive") {
		t.Errorf("archived to %s, want below %s/archive", archivedPath, tmpDir)
	}
	if !strings.HasPrefix(filepath.Base(archivedPath), "Audio-") {
		t.Errorf("Archived directory name doesn't start with 'Audio-': %s", archivedPath)
	}

	testutil.AssertFileExists(t, filepath.Join(archivedPath, "audio_ipa_run_1.mp3"))
	testutil.AssertFileExists(t, filepath.Join(archivedPath, "audio_example_1_irundaily_2.mp3"))
}

func TestArchiveAudio_NonExistentDirectory(t *testing.T) {
	_, err := ArchiveAudio(filepath.Join(t.TempDir(), "nonexistent"))
	if err == nil {
		t.Fatal("Expected error for non-existent directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestArchiveAudio_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Audio")
	testutil.CreateTestFile(t, path, []byte("not a directory"))

	if _, err := ArchiveAudio(path); err == nil {
		t.Error("Expected error when archiving a file")
	}
}

func TestArchiveAudio_SameTimestamp(t *testing.T) {
	tmpDir := t.TempDir()
	audioDir := filepath.Join(tmpDir, "Audio")
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	var names []string
	for i := 0; i < 3; i++ {
		if err := os.MkdirAll(audioDir, 0755); err != nil {
			t.Fatalf("Failed to create audio directory: %v", err)
		}
		path, err := archiveAt(audioDir, now)
		if err != nil {
			t.Fatalf("archiveAt failed on iteration %d: %v", i, err)
		}
		names = append(names, filepath.Base(path))
	}

	want := []string{"Audio-20240309-120000", "Audio-20240309-120000-2", "Audio-20240309-120000-3"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("archive %d = %s, want %s", i, names[i], want[i])
		}
	}
}
