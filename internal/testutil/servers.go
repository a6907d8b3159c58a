package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// TTSServer fakes the local synthesizer.
type TTSServer struct {
	*httptest.Server

	Status    string // reported by /health, "running" by default
	AudioSize int    // bytes returned by /synthesize
	FailTexts map[string]bool

	synthCalls atomic.Int32
	mu         sync.Mutex
	texts      []string
}

// NewTTSServer starts a healthy fake synthesizer.
func NewTTSServer(t *testing.T) *TTSServer {
	t.Helper()

	s := &TTSServer{Status: "running", AudioSize: 1200, FailTexts: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": s.Status})
	})
	mux.HandleFunc("/synthesize", func(w http.ResponseWriter, r *http.Request) {
		s.synthCalls.Add(1)

		var req struct {
			Text    string `json:"text"`
			Voice   string `json:"voice"`
			Quality string `json:"quality"`
			Format  string `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || r.Method != http.MethodPost {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.texts = append(s.texts, req.Text)
		s.mu.Unlock()

		if s.FailTexts[req.Text] {
			http.Error(w, "synthesis failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(AudioBytes(s.AudioSize))
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SynthCalls returns how many synthesis requests were served.
func (s *TTSServer) SynthCalls() int {
	return int(s.synthCalls.Load())
}

// Texts returns the synthesized texts in arrival order.
func (s *TTSServer) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// AddedNote is a note received by the fake bridge.
type AddedNote struct {
	Deck     string            `json:"deck"`
	NoteType string            `json:"noteType"`
	Fields   map[string]string `json:"fields"`
	Tags     []string          `json:"tags"`
}

// BridgeServer fakes the note-store bridge.
type BridgeServer struct {
	*httptest.Server

	Decks     []string
	NoteTypes []string
	Fields    map[string][]string
	AddError  string // when set, add-note answers 500 success:false with it
	Down      bool   // when set, every endpoint answers 503

	mu    sync.Mutex
	notes []AddedNote
}

// NewBridgeServer starts a fake bridge knowing a Basic and an English
// Vocabulary note type.
func NewBridgeServer(t *testing.T) *BridgeServer {
	t.Helper()

	b := &BridgeServer{
		Decks:     []string{"Default", "English"},
		NoteTypes: []string{"Basic", "English Vocabulary"},
		Fields: map[string][]string{
			"Basic":              {"Front", "Back"},
			"English Vocabulary": {"Term", "Definition", "Vietnamese", "IPA", "Examples", "Audio_Term"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/anki/test", func(w http.ResponseWriter, r *http.Request) {
		if b.guard(w) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		}
	})
	mux.HandleFunc("/anki/decks", func(w http.ResponseWriter, r *http.Request) {
		if b.guard(w) {
			writeJSON(w, http.StatusOK, b.Decks)
		}
	})
	mux.HandleFunc("/anki/note-types", func(w http.ResponseWriter, r *http.Request) {
		if b.guard(w) {
			writeJSON(w, http.StatusOK, b.NoteTypes)
		}
	})
	mux.HandleFunc("/anki/fields/", func(w http.ResponseWriter, r *http.Request) {
		if !b.guard(w) {
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/anki/fields/")
		fields, ok := b.Fields[name]
		if !ok {
			http.Error(w, "unknown note type", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, fields)
	})
	mux.HandleFunc("/anki/add-note", func(w http.ResponseWriter, r *http.Request) {
		if !b.guard(w) {
			return
		}
		var note AddedNote
		if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			return
		}
		if b.AddError != "" {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": b.AddError})
			return
		}

		b.mu.Lock()
		b.notes = append(b.notes, note)
		id := 1700000000000 + len(b.notes)
		b.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "noteId": id})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// BaseURL is the bridge root to configure clients with.
func (b *BridgeServer) BaseURL() string {
	return b.URL + "/anki"
}

// Notes returns the notes added so far.
func (b *BridgeServer) Notes() []AddedNote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]AddedNote(nil), b.notes...)
}

func (b *BridgeServer) guard(w http.ResponseWriter) bool {
	if b.Down {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// CompletionServer fakes an OpenAI-compatible chat completions endpoint that
// always answers with Content.
type CompletionServer struct {
	*httptest.Server

	Content string
	Status  int

	calls atomic.Int32
	gate  chan struct{}
}

// NewCompletionServer starts a fake completion endpoint.
func NewCompletionServer(t *testing.T, content string) *CompletionServer {
	t.Helper()

	c := &CompletionServer{Content: content, Status: http.StatusOK}
	c.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.calls.Add(1)
		if c.gate != nil {
			<-c.gate
		}
		if c.Status != http.StatusOK {
			writeJSON(w, c.Status, map[string]any{"error": map[string]any{"message": "upstream error"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": c.Content}}},
		})
	}))
	t.Cleanup(func() {
		c.Release()
		c.Close()
	})
	return c
}

// Hold makes requests block until Release is called.
func (c *CompletionServer) Hold() {
	c.gate = make(chan struct{})
}

// Release unblocks held requests.
func (c *CompletionServer) Release() {
	if c.gate != nil {
		select {
		case <-c.gate:
		default:
			close(c.gate)
		}
	}
}

// Calls returns how many completions were requested.
func (c *CompletionServer) Calls() int {
	return int(c.calls.Load())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewDictionaryServer fakes the public dictionary, answering every word
// with the transcription ipa.
func NewDictionaryServer(t *testing.T, ipa string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{
			"word":      strings.TrimPrefix(r.URL.Path, "/"),
			"phonetics": []map[string]string{{"text": ipa}},
		}})
	}))
	t.Cleanup(srv.Close)
	return srv
}
