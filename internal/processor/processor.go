package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/anki"
	"codeberg.org/snonux/ankidict/internal/artifact"
	"codeberg.org/snonux/ankidict/internal/audio"
	"codeberg.org/snonux/ankidict/internal/cli"
	"codeberg.org/snonux/ankidict/internal/completion"
	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/fieldmap"
	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/lookup"
	"codeberg.org/snonux/ankidict/internal/phonetic"
	"codeberg.org/snonux/ankidict/internal/vault"
	"codeberg.org/snonux/ankidict/internal/word"
)

// Processor handles the main word processing logic
type Processor struct {
	settings *cli.Settings
	log      *zap.Logger
	out      io.Writer

	completer completion.Completer
	resolver  *phonetic.Resolver
	synth     audio.Synthesizer // nil when speech is disabled
	store     *artifact.DirStore
	shared    *artifact.RedisIndex // nil unless cache.redis_url is set
	bridge    *anki.Bridge
	exporter  *anki.Exporter
	notes     *vault.Writer

	mu      sync.Mutex
	pkg     *anki.Package // set while collecting an offline package
	pkgDeck string
}

// NewProcessor creates a new word processor
func NewProcessor(ctx context.Context, settings *cli.Settings, log *zap.Logger) (*Processor, error) {
	log = logging.OrNop(log)

	completer, err := completion.NewCompleter(settings.Completion, log)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		settings:  settings,
		log:       log,
		out:       os.Stdout,
		completer: completer,
		resolver:  phonetic.NewResolver(phonetic.WithBaseURL(settings.PhoneticURL), phonetic.WithLogger(log)),
		store:     artifact.NewDirStore(settings.AudioDir),
		bridge:    anki.NewBridge(settings.AnkiURL, settings.AnkiTimeout, log),
		notes:     vault.NewWriter(settings.NotesDir, settings.AudioDir),
	}
	p.exporter = anki.NewExporter(p.bridge, anki.ExporterOptions{
		RenderHTML: settings.RenderHTML,
		AudioDir:   settings.AudioDir,
	}, log)

	if settings.TTSEnabled {
		p.synth, err = audio.NewSynthesizer(settings.TTS, log)
		if err != nil {
			return nil, err
		}
	}

	if settings.RedisURL != "" {
		p.shared, err = artifact.NewRedisIndex(ctx, settings.RedisURL)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Close releases the shared artifact index.
func (p *Processor) Close() error {
	if p.shared != nil {
		return p.shared.Close()
	}
	return nil
}

// Settings returns the settings the processor was built from.
func (p *Processor) Settings() *cli.Settings {
	return p.settings
}

// Session is the state of one user: the single-flight lookup and the audio
// generated for its records.
type Session struct {
	lookup    *lookup.Session
	artifacts *artifact.Cache // nil when speech is disabled
}

// State returns the lookup state.
func (s *Session) State() lookup.State {
	return s.lookup.State()
}

// Last returns the most recent successfully looked-up record.
func (s *Session) Last() *word.Record {
	return s.lookup.Last()
}

// NewSession starts a session with an empty lookup state.
func (p *Processor) NewSession() *Session {
	s := &Session{
		lookup: lookup.NewSession(lookup.Config{
			APIKey:   p.settings.APIKey,
			Language: p.settings.Language,
			Source:   p.settings.Source,
		}, p.completer, p.resolver, p.log),
	}

	if p.synth != nil {
		var index artifact.Index = artifact.NewMemoryIndex()
		if p.shared != nil {
			index = p.shared
		}
		s.artifacts = artifact.NewCache(p.synth, p.store, index, artifact.Config{
			Options: p.settings.TTS.Options(),
			Workers: p.settings.TTSWorkers,
		}, p.log)
	}
	return s
}

// Lookup resolves one term within session s.
func (p *Processor) Lookup(ctx context.Context, s *Session, req lookup.Request) (*word.Record, error) {
	return s.lookup.Lookup(ctx, req)
}

// Artifacts returns the audio of rec, synthesizing it on first use. It is
// empty when speech is disabled or the synthesizer is unavailable.
func (p *Processor) Artifacts(ctx context.Context, s *Session, rec *word.Record) word.Artifacts {
	if s.artifacts == nil {
		return word.Artifacts{}
	}
	return s.artifacts.EnsureArtifacts(ctx, rec)
}

// ExportOptions select where a card goes. Empty values use the configured
// defaults.
type ExportOptions struct {
	Deck     string
	NoteType string
	Tags     []string
}

// ExportCard adds rec, or the session's last record when rec is nil, to Anki
// and returns the new note id.
func (p *Processor) ExportCard(ctx context.Context, s *Session, rec *word.Record, opts ExportOptions) (string, error) {
	note, err := p.buildNote(ctx, s, rec, opts, p.bridge.Fields)
	if err != nil {
		return "", err
	}
	return p.exporter.Export(ctx, note)
}

// SaveNote writes rec, or the session's last record, as a markdown note with
// its audio and returns the note path. The audio stays remembered, so a later
// export of the same record reuses it.
func (p *Processor) SaveNote(ctx context.Context, s *Session, rec *word.Record) (string, error) {
	rec = recordOrLast(s, rec)
	if rec == nil {
		return "", nothingLookedUp("save note")
	}
	return p.notes.Save(rec, p.Artifacts(ctx, s, rec))
}

// PreviewNote renders the markdown note of rec as HTML without writing it.
func (p *Processor) PreviewNote(ctx context.Context, s *Session, rec *word.Record) (string, error) {
	rec = recordOrLast(s, rec)
	if rec == nil {
		return "", nothingLookedUp("preview note")
	}
	artifacts, _ := p.remembered(ctx, s, rec)
	return p.notes.Preview(rec, artifacts)
}

// Decks lists the decks known to Anki.
func (p *Processor) Decks(ctx context.Context) []string {
	return p.bridge.Decks(ctx)
}

// NoteTypes lists the note types known to Anki.
func (p *Processor) NoteTypes(ctx context.Context) []string {
	return p.bridge.NoteTypes(ctx)
}

// Fields lists the fields of noteType.
func (p *Processor) Fields(ctx context.Context, noteType string) []string {
	return p.bridge.Fields(ctx, noteType)
}

// PreferredNoteType picks the note type to preselect: an English vocabulary
// type when Anki has one, the configured default otherwise.
func (p *Processor) PreferredNoteType(ctx context.Context) string {
	return anki.PreferredNoteType(p.bridge.NoteTypes(ctx), p.settings.NoteType)
}

// ConnectionStatus is the result of CheckConnections.
type ConnectionStatus struct {
	Synthesizer     bool
	SynthesizerName string
	Bridge          error
}

// CheckConnections probes the synthesizer and the Anki bridge.
func (p *Processor) CheckConnections(ctx context.Context) ConnectionStatus {
	var status ConnectionStatus
	if p.synth != nil {
		status.SynthesizerName = p.synth.Name()
		status.Synthesizer = p.synth.Probe(ctx)
	}
	status.Bridge = p.bridge.Test(ctx)
	return status
}

type schemaFunc func(ctx context.Context, noteType string) []string

func (p *Processor) buildNote(ctx context.Context, s *Session, rec *word.Record, opts ExportOptions, schema schemaFunc) (anki.Note, error) {
	rec = recordOrLast(s, rec)
	if rec == nil {
		return anki.Note{}, nothingLookedUp("export")
	}

	deck := firstNonEmpty(opts.Deck, p.settings.Deck)
	noteType := firstNonEmpty(opts.NoteType, p.settings.NoteType)
	tags := opts.Tags
	if tags == nil {
		tags = p.settings.Tags
	}

	var artifacts word.Artifacts
	if p.settings.AutoAudio {
		artifacts = p.Artifacts(ctx, s, rec)
	} else {
		artifacts, _ = p.remembered(ctx, s, rec)
	}

	return anki.Note{
		Deck:     deck,
		NoteType: noteType,
		Fields:   fieldmap.Map(schema(ctx, noteType), rec, artifacts),
		Tags:     tags,
	}, nil
}

func (p *Processor) remembered(ctx context.Context, s *Session, rec *word.Record) (word.Artifacts, bool) {
	if s.artifacts == nil {
		return nil, false
	}
	return s.artifacts.Remembered(ctx, rec)
}

func recordOrLast(s *Session, rec *word.Record) *word.Record {
	if rec != nil {
		return rec
	}
	return s.Last()
}

func nothingLookedUp(op string) error {
	return failure.New(failure.InvalidInput, op, "no word looked up yet").
		WithHint("Look up a word first.")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// printf writes a progress line for the user.
func (p *Processor) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
