package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateRecordID creates a unique ID for a word record based on the creation
// time and the term.
// Format: epochMillis_md5(term)[:8]
func GenerateRecordID(term string) string {
	return RecordIDAt(term, time.Now())
}

// RecordIDAt is GenerateRecordID with an explicit creation time.
func RecordIDAt(term string, now time.Time) string {
	epochMillis := now.UnixNano() / 1000000

	hash := md5.Sum([]byte(term))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// CompactText keeps only the ASCII letters and digits of s, lower-cased and cut
// to at most max runes. Audio artifact filenames embed it.
func CompactText(s string, max int) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n >= max {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			n++
		}
	}
	return strings.ToLower(b.String())
}

// isAlphaNumeric checks if a rune is alphanumeric
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
