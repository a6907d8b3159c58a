package anki

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/fieldmap"
	"codeberg.org/snonux/ankidict/internal/logging"
)

// Note is one note ready for the store.
type Note struct {
	Deck     string
	NoteType string
	Fields   fieldmap.Mapping
	Tags     []string
}

// NoteAdder creates notes; *Bridge is the production implementation.
type NoteAdder interface {
	AddNote(ctx context.Context, req AddNoteRequest) (string, error)
}

// ExporterOptions tune an Exporter.
type ExporterOptions struct {
	// RenderHTML converts markdown in field values (bold terms, bullet
	// lines) to HTML before sending.
	RenderHTML bool
	// AudioDir is where referenced sound files live, so the bridge can copy
	// them into Anki's media folder. Empty disables the hint.
	AudioDir string
}

// Exporter sends notes to the note store.
type Exporter struct {
	adder    NoteAdder
	options  ExporterOptions
	markdown goldmark.Markdown
	log      *zap.Logger
}

// NewExporter creates an exporter.
func NewExporter(adder NoteAdder, options ExporterOptions, log *zap.Logger) *Exporter {
	return &Exporter{
		adder:    adder,
		options:  options,
		markdown: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		log:      logging.OrNop(log),
	}
}

// Export creates one note and returns its id.
func (e *Exporter) Export(ctx context.Context, note Note) (string, error) {
	if strings.TrimSpace(note.Deck) == "" || strings.TrimSpace(note.NoteType) == "" {
		return "", failure.New(failure.InvalidInput, "export", "deck and note type are required")
	}

	fields := note.Fields.Values()
	if e.options.RenderHTML {
		for name, value := range fields {
			fields[name] = e.render(value)
		}
	}

	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	req := AddNoteRequest{
		Deck:     note.Deck,
		NoteType: note.NoteType,
		Fields:   fields,
		Tags:     tags,
	}
	if e.options.AudioDir != "" {
		req.AudioFiles = audioFiles(note.Fields, e.options.AudioDir)
		if len(req.AudioFiles) > 0 {
			req.VaultPath = filepath.Dir(e.options.AudioDir)
		}
	}

	id, err := e.adder.AddNote(ctx, req)
	if err != nil {
		e.log.Warn("note export failed",
			zap.String("deck", note.Deck),
			zap.String("note_type", note.NoteType),
			zap.Error(err))
		return "", err
	}

	e.log.Info("note exported",
		zap.String("deck", note.Deck),
		zap.String("note_type", note.NoteType),
		zap.String("note_id", id))
	return id, nil
}

var soundRef = regexp.MustCompile(`\[sound:([^\]]+)\]`)

// audioFiles lists the first sound file referenced by each field.
func audioFiles(fields fieldmap.Mapping, dir string) map[string]AudioFile {
	files := map[string]AudioFile{}
	for _, f := range fields {
		m := soundRef.FindStringSubmatch(f.Value)
		if m == nil {
			continue
		}
		files[f.Name] = AudioFile{Filename: m[1], ObsidianPath: filepath.Join(dir, m[1])}
	}
	return files
}

// render converts one field value; a lone paragraph loses its <p> wrapper.
func (e *Exporter) render(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(value), &buf); err != nil {
		e.log.Debug("markdown rendering failed, sending raw value", zap.Error(err))
		return value
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}
