// Package archive moves a generated audio directory out of the way so the
// next session starts with an empty one.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveAudio moves the audio directory to <parent>/archive/<name>-<timestamp>
// and returns the new location.
func ArchiveAudio(audioDir string) (string, error) {
	return archiveAt(audioDir, time.Now())
}

func archiveAt(audioDir string, now time.Time) (string, error) {
	// Check if audio directory exists
	info, err := os.Stat(audioDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("audio directory does not exist: %s", audioDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect audio directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", audioDir)
	}

	// Get parent directory and create archive path
	audioDir = filepath.Clean(audioDir)
	archiveDir := filepath.Join(filepath.Dir(audioDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := fmt.Sprintf("%s-%s", filepath.Base(audioDir), now.Format("20060102-150405"))
	archivePath := filepath.Join(archiveDir, base)

	// Same second twice: add a counter to keep names unique
	for n := 2; ; n++ {
		if _, err := os.Stat(archivePath); os.IsNotExist(err) {
			break
		}
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%d", base, n))
	}

	if err := os.Rename(audioDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive audio directory: %w", err)
	}
	return archivePath, nil
}
