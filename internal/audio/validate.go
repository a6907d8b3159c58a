package audio

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/ankidict/internal/failure"
)

// ValidateText checks that text is worth sending to a synthesizer.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return failure.New(failure.InvalidInput, "synthesize", "text cannot be empty")
	}
	return nil
}

// CheckPayload rejects audio payloads too small to be real speech.
func CheckPayload(data []byte, minBytes int) error {
	if len(data) < minBytes {
		return failure.New(failure.SynthesisFailure, "synthesize",
			fmt.Sprintf("audio payload too small: %d bytes, want at least %d", len(data), minBytes))
	}
	return nil
}
