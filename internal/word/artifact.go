package word

import (
	"fmt"
	"strconv"
	"strings"
)

// RoleKind says what an artifact pronounces.
type RoleKind int

const (
	Pronunciation RoleKind = iota
	Example
)

// Role identifies an artifact within its record. Index is 1-based for examples
// and zero for the pronunciation.
type Role struct {
	Kind  RoleKind
	Index int
}

// PronunciationRole is the role of the term's own audio.
func PronunciationRole() Role {
	return Role{Kind: Pronunciation}
}

// ExampleRole is the role of the i-th example (1-based).
func ExampleRole(i int) Role {
	return Role{Kind: Example, Index: i}
}

// String renders "pronunciation" or "example#i".
func (r Role) String() string {
	if r.Kind == Pronunciation {
		return "pronunciation"
	}
	return fmt.Sprintf("example#%d", r.Index)
}

// Tag is the filename-safe form of the role: "ipa" or "example_i".
func (r Role) Tag() string {
	if r.Kind == Pronunciation {
		return "ipa"
	}
	return strings.ReplaceAll(r.String(), "#", "_")
}

// ParseRole reverses String.
func ParseRole(s string) (Role, error) {
	if s == "pronunciation" {
		return PronunciationRole(), nil
	}
	if rest, ok := strings.CutPrefix(s, "example#"); ok {
		i, err := strconv.Atoi(rest)
		if err == nil && i > 0 {
			return ExampleRole(i), nil
		}
	}
	return Role{}, fmt.Errorf("unknown artifact role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Artifact is one synthesized speech clip tied to a record.
type Artifact struct {
	SourceText string `json:"sourceText"`
	Role       Role   `json:"role"`
	Filename   string `json:"filename"`
	SizeBytes  int    `json:"sizeBytes"`
}

// SoundRef is the Anki embed for the artifact.
func (a Artifact) SoundRef() string {
	return fmt.Sprintf("[sound:%s]", a.Filename)
}

// Artifacts is the ordered artifact set of one record.
type Artifacts []Artifact

// Pronunciation returns the pronunciation artifact, if any.
func (as Artifacts) Pronunciation() (Artifact, bool) {
	for _, a := range as {
		if a.Role.Kind == Pronunciation {
			return a, true
		}
	}
	return Artifact{}, false
}

// Examples returns the example artifacts in order.
func (as Artifacts) Examples() []Artifact {
	var out []Artifact
	for _, a := range as {
		if a.Role.Kind == Example {
			out = append(out, a)
		}
	}
	return out
}

// ForExample returns the artifact of the i-th example (1-based).
func (as Artifacts) ForExample(i int) (Artifact, bool) {
	for _, a := range as {
		if a.Role.Kind == Example && a.Role.Index == i {
			return a, true
		}
	}
	return Artifact{}, false
}
