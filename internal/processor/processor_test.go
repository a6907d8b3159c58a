package processor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/ankidict/internal/audio"
	"codeberg.org/snonux/ankidict/internal/cli"
	"codeberg.org/snonux/ankidict/internal/completion"
	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/lookup"
	"codeberg.org/snonux/ankidict/internal/testutil"
)

const runEntry = `{"Term":"run","Type":"verb","Definition":"to move fast","Vietnamese":"chạy",
	"Examples":["I **run** daily.","We **run** together."],"Synonyms":["sprint"],"Antonyms":["walk"]}`

type fixture struct {
	p          *Processor
	settings   *cli.Settings
	completion *testutil.CompletionServer
	tts        *testutil.TTSServer
	bridge     *testutil.BridgeServer
	dir        string
	out        *bytes.Buffer
}

func newFixture(t *testing.T, mutate func(*cli.Settings)) *fixture {
	t.Helper()

	f := &fixture{
		completion: testutil.NewCompletionServer(t, runEntry),
		tts:        testutil.NewTTSServer(t),
		bridge:     testutil.NewBridgeServer(t),
		dir:        t.TempDir(),
		out:        &bytes.Buffer{},
	}
	dict := testutil.NewDictionaryServer(t, "/rʌn/")

	tts := audio.DefaultConfig()
	tts.URL = f.tts.URL

	f.settings = &cli.Settings{
		Completion: completion.Config{
			Provider: "openai-compatible",
			BaseURL:  f.completion.URL,
			Model:    "test-model",
		},
		APIKey:      "test-key",
		Language:    "English",
		Source:      "ankidict",
		PhoneticURL: dict.URL,
		TTSEnabled:  true,
		TTS:         tts,
		TTSWorkers:  1,
		AudioDir:    filepath.Join(f.dir, "Audio"),
		AnkiURL:     f.bridge.BaseURL(),
		AnkiTimeout: 5 * time.Second,
		Deck:        "Default",
		NoteType:    "Basic",
		AutoAudio:   true,
		Tags:        cli.DefaultTags,
		NotesDir:    filepath.Join(f.dir, "Vocabulary"),
	}
	if mutate != nil {
		mutate(f.settings)
	}

	p, err := NewProcessor(context.Background(), f.settings, nil)
	if err != nil {
		t.Fatalf("NewProcessor() failed: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	p.out = f.out
	f.p = p
	return f
}

func (f *fixture) lookup(t *testing.T, s *Session, term string) {
	t.Helper()
	if _, err := f.p.Lookup(context.Background(), s, lookup.Request{Term: term}); err != nil {
		t.Fatalf("Lookup(%q) failed: %v", term, err)
	}
}

func TestNewProcessorErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cli.Settings)
	}{
		{"unknown provider", func(s *cli.Settings) { s.Completion.Provider = "bogus" }},
		{"unknown fallback", func(s *cli.Settings) { s.TTS.Fallback = "bogus" }},
		{"invalid redis url", func(s *cli.Settings) { s.RedisURL = "not-a-redis-url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tts := audio.DefaultConfig()
			settings := &cli.Settings{TTSEnabled: true, TTS: tts, Completion: completion.Config{Provider: "groq"}}
			tt.mutate(settings)
			if _, err := NewProcessor(context.Background(), settings, nil); err == nil {
				t.Error("NewProcessor() should fail")
			}
		})
	}
}

func TestLookupAndExportBasicCard(t *testing.T) {
	f := newFixture(t, nil)
	s := f.p.NewSession()
	f.lookup(t, s, "run")

	id, err := f.p.ExportCard(context.Background(), s, nil, ExportOptions{})
	if err != nil {
		t.Fatalf("ExportCard() failed: %v", err)
	}
	if id != "1700000000001" {
		t.Errorf("note id = %q", id)
	}

	notes := f.bridge.Notes()
	if len(notes) != 1 {
		t.Fatalf("bridge received %d notes, want 1", len(notes))
	}
	note := notes[0]
	if note.Deck != "Default" || note.NoteType != "Basic" {
		t.Errorf("deck/type = %q/%q", note.Deck, note.NoteType)
	}
	if note.Fields["Front"] != "run" {
		t.Errorf("Front = %q", note.Fields["Front"])
	}
	for _, want := range []string{"to move fast", "Vietnamese: chạy", "Pronunciation: /rʌn/", "• I **run** daily."} {
		if !strings.Contains(note.Fields["Back"], want) {
			t.Errorf("Back missing %q:\n%s", want, note.Fields["Back"])
		}
	}
	if !reflect.DeepEqual(note.Tags, cli.DefaultTags) {
		t.Errorf("Tags = %v", note.Tags)
	}

	// Term plus two examples
	if got := f.tts.SynthCalls(); got != 3 {
		t.Errorf("synthesis calls = %d, want 3", got)
	}
	entries, err := os.ReadDir(f.settings.AudioDir)
	if err != nil || len(entries) != 3 {
		t.Errorf("audio dir holds %d files (err %v), want 3", len(entries), err)
	}
}

func TestExportVocabularyCard(t *testing.T) {
	f := newFixture(t, nil)
	s := f.p.NewSession()
	f.lookup(t, s, "run")

	_, err := f.p.ExportCard(context.Background(), s, nil, ExportOptions{
		Deck:     "English",
		NoteType: "English Vocabulary",
		Tags:     []string{"reading"},
	})
	if err != nil {
		t.Fatalf("ExportCard() failed: %v", err)
	}

	note := f.bridge.Notes()[0]
	want := map[string]string{
		"Term":       "run",
		"Definition": "to move fast",
		"Vietnamese": "chạy",
		"IPA":        "/rʌn/",
		"Examples":   "• I **run** daily.\n• We **run** together.",
	}
	for field, value := range want {
		if note.Fields[field] != value {
			t.Errorf("%s = %q, want %q", field, note.Fields[field], value)
		}
	}
	if !strings.HasPrefix(note.Fields["Audio_Term"], "[sound:audio_ipa_run_") {
		t.Errorf("Audio_Term = %q", note.Fields["Audio_Term"])
	}
	if note.Deck != "English" || !reflect.DeepEqual(note.Tags, []string{"reading"}) {
		t.Errorf("deck = %q, tags = %v", note.Deck, note.Tags)
	}
}

func TestSaveNoteThenExportReusesAudio(t *testing.T) {
	f := newFixture(t, nil)
	s := f.p.NewSession()
	f.lookup(t, s, "run")

	path, err := f.p.SaveNote(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("SaveNote() failed: %v", err)
	}
	if want := filepath.Join(f.settings.NotesDir, "Dictionary - run.md"); path != want {
		t.Errorf("note path = %q, want %q", path, want)
	}
	testutil.AssertFileContains(t, path, "**Audio Files:** 3 files")

	if _, err := f.p.ExportCard(context.Background(), s, nil, ExportOptions{}); err != nil {
		t.Fatalf("ExportCard() failed: %v", err)
	}
	if got := f.tts.SynthCalls(); got != 3 {
		t.Errorf("synthesis calls = %d, want 3 (audio reused)", got)
	}

	html, err := f.p.PreviewNote(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("PreviewNote() failed: %v", err)
	}
	if !strings.Contains(html, "<h1>run</h1>") {
		t.Errorf("PreviewNote() = %s", html)
	}
}

func TestNothingLookedUp(t *testing.T) {
	f := newFixture(t, nil)
	s := f.p.NewSession()
	ctx := context.Background()

	if _, err := f.p.ExportCard(ctx, s, nil, ExportOptions{}); !failure.Is(err, failure.InvalidInput) {
		t.Errorf("ExportCard() error = %v, want InvalidInput", err)
	}
	if _, err := f.p.SaveNote(ctx, s, nil); !failure.Is(err, failure.InvalidInput) {
		t.Errorf("SaveNote() error = %v, want InvalidInput", err)
	}
	if len(f.bridge.Notes()) != 0 || f.tts.SynthCalls() != 0 {
		t.Error("nothing should reach the bridge or the synthesizer")
	}
}

func TestExportFailureSurfacesStoreMessage(t *testing.T) {
	f := newFixture(t, nil)
	f.bridge.AddError = "cannot create note because it is a duplicate"
	s := f.p.NewSession()
	f.lookup(t, s, "run")

	_, err := f.p.ExportCard(context.Background(), s, nil, ExportOptions{})
	if !failure.Is(err, failure.ExportFailure) {
		t.Fatalf("ExportCard() error = %v, want ExportFailure", err)
	}
	if !strings.Contains(err.Error(), "cannot create note because it is a duplicate") {
		t.Errorf("error %q does not carry the store message", err)
	}
}

func TestAudioSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cli.Settings)
	}{
		{"auto audio off", func(s *cli.Settings) { s.AutoAudio = false }},
		{"speech disabled", func(s *cli.Settings) { s.TTSEnabled = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)
			s := f.p.NewSession()
			f.lookup(t, s, "run")

			_, err := f.p.ExportCard(context.Background(), s, nil, ExportOptions{NoteType: "English Vocabulary"})
			if err != nil {
				t.Fatalf("ExportCard() failed: %v", err)
			}
			if got := f.tts.SynthCalls(); got != 0 {
				t.Errorf("synthesis calls = %d, want 0", got)
			}
			if got := f.bridge.Notes()[0].Fields["Audio_Term"]; got != "" {
				t.Errorf("Audio_Term = %q, want empty", got)
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t, nil)
	a, b := f.p.NewSession(), f.p.NewSession()
	f.lookup(t, a, "run")

	if a.Last() == nil || a.State() != lookup.Completed {
		t.Errorf("session a: last = %v, state = %v", a.Last(), a.State())
	}
	if b.Last() != nil || b.State() != lookup.Idle {
		t.Errorf("session b: last = %v, state = %v", b.Last(), b.State())
	}
}

func TestCheckConnections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	status := f.p.CheckConnections(ctx)
	if !status.Synthesizer || status.SynthesizerName == "" || status.Bridge != nil {
		t.Errorf("healthy status = %+v", status)
	}

	f.tts.Status = "starting"
	f.bridge.Down = true
	status = f.p.CheckConnections(ctx)
	if status.Synthesizer {
		t.Error("synthesizer reported ready while starting")
	}
	if status.Bridge == nil {
		t.Error("bridge reported reachable while down")
	}
}

func TestPreferredNoteType(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if got := f.p.PreferredNoteType(ctx); got != "English Vocabulary" {
		t.Errorf("PreferredNoteType() = %q, want English Vocabulary", got)
	}

	f.bridge.NoteTypes = []string{"Cloze", "Basic"}
	if got := f.p.PreferredNoteType(ctx); got != "Basic" {
		t.Errorf("PreferredNoteType() = %q, want configured Basic", got)
	}
}

func TestSchemaFallsBackWhenBridgeDown(t *testing.T) {
	f := newFixture(t, nil)
	f.bridge.Down = true
	ctx := context.Background()

	if got := f.p.Decks(ctx); !reflect.DeepEqual(got, []string{"Default"}) {
		t.Errorf("Decks() = %v", got)
	}
	if got := f.p.Fields(ctx, "Basic"); !reflect.DeepEqual(got, []string{"Front", "Back"}) {
		t.Errorf("Fields() = %v", got)
	}
}
