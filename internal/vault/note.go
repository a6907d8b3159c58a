package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/word"
)

// DefaultDir is where notes go unless configured otherwise.
const DefaultDir = "Vocabulary"

// DefaultSource is written when the record names no source.
const DefaultSource = "ankidict"

var unsafeChars = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

// Writer saves notes below Dir. AudioDir is the embed prefix of audio clips.
type Writer struct {
	Dir      string
	AudioDir string

	now      func() time.Time
	markdown goldmark.Markdown
}

// NewWriter creates a writer for dir, embedding clips from audioDir.
func NewWriter(dir, audioDir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{
		Dir:      dir,
		AudioDir: audioDir,
		now:      time.Now,
		markdown: goldmark.New(),
	}
}

// Path is the note file of term.
func (w *Writer) Path(term string) string {
	name := unsafeChars.Replace(strings.TrimSpace(term))
	return filepath.Join(w.Dir, "Dictionary - "+name+".md")
}

// Save writes the note of rec and returns its path. An existing note is
// never overwritten.
func (w *Writer) Save(rec *word.Record, artifacts word.Artifacts) (string, error) {
	if rec == nil || strings.TrimSpace(rec.Term) == "" {
		return "", failure.New(failure.InvalidInput, "save note", "nothing to save; look up a word first")
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create notes directory: %w", err)
	}

	notePath := w.Path(rec.Term)
	f, err := os.OpenFile(notePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", failure.New(failure.InvalidInput, "save note", "note already exists: "+notePath).
				WithHint("Delete or rename the existing note first.")
		}
		return "", fmt.Errorf("failed to create note: %w", err)
	}

	_, werr := f.WriteString(w.Render(rec, artifacts))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("failed to write note: %w", werr)
	}
	return notePath, nil
}

// Render produces the markdown of the note.
func (w *Writer) Render(rec *word.Record, artifacts word.Artifacts) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Term)
	fmt.Fprintf(&b, "**Definition:** %s\n", rec.Definition)
	fmt.Fprintf(&b, "**Translation:** %s\n", rec.Translation)

	ipa := rec.Phonetic
	pron, hasPron := artifacts.Pronunciation()
	if hasPron {
		ipa += " " + w.embed(pron)
	}
	fmt.Fprintf(&b, "**IPA:** %s\n", ipa)
	fmt.Fprintf(&b, "**Type:** %s\n\n", rec.PartOfSpeech)

	fmt.Fprintf(&b, "## Synonyms\n%s\n\n", strings.Join(rec.Synonyms, ", "))
	fmt.Fprintf(&b, "## Antonyms\n%s\n\n", strings.Join(rec.Antonyms, ", "))

	b.WriteString("## Examples\n")
	for i, ex := range rec.Examples {
		line := fmt.Sprintf("%d. %s", i+1, ex)
		if a, ok := artifacts.ForExample(i + 1); ok {
			line += " " + w.embed(a)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	source := strings.TrimSpace(rec.SourceReference)
	if source == "" {
		source = DefaultSource
	}
	fmt.Fprintf(&b, "**Source:** %s\n", source)
	fmt.Fprintf(&b, "**Date:** %s\n", w.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "**Audio Files:** %d files\n", len(artifacts))
	fmt.Fprintf(&b, "**Audio Info:** %s\n", audioInfo(artifacts))

	return b.String()
}

// Preview renders the note as HTML.
func (w *Writer) Preview(rec *word.Record, artifacts word.Artifacts) (string, error) {
	var buf bytes.Buffer
	if err := w.markdown.Convert([]byte(w.Render(rec, artifacts)), &buf); err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return buf.String(), nil
}

func (w *Writer) embed(a word.Artifact) string {
	target := a.Filename
	if w.AudioDir != "" {
		target = path.Join(filepath.ToSlash(w.AudioDir), a.Filename)
	}
	return "![[" + target + "]]"
}

type info struct {
	IPA      *string  `json:"ipa"`
	Examples []string `json:"examples"`
}

func audioInfo(artifacts word.Artifacts) string {
	in := info{Examples: []string{}}
	if a, ok := artifacts.Pronunciation(); ok {
		in.IPA = &a.Filename
	}
	for _, a := range artifacts.Examples() {
		in.Examples = append(in.Examples, a.Filename)
	}
	data, _ := json.MarshalIndent(in, "", "  ")
	return string(data)
}
