package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
)

// DefaultBridgeURL is where the bridge listens by default.
const DefaultBridgeURL = "http://localhost:6789/anki"

// DefaultTimeout bounds every bridge request.
const DefaultTimeout = 10 * time.Second

// Bridge is a client of the note-store bridge.
type Bridge struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewBridge creates a bridge client. timeout <= 0 means DefaultTimeout.
func NewBridge(baseURL string, timeout time.Duration, log *zap.Logger) *Bridge {
	if baseURL == "" {
		baseURL = DefaultBridgeURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	b := &Bridge{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logging.OrNop(log),
	}
	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "anki-bridge",
		Timeout: 20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: reachedStore,
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	return b
}

// BaseURL returns the bridge root.
func (b *Bridge) BaseURL() string {
	return b.baseURL
}

// Test checks that the bridge can reach Anki.
func (b *Bridge) Test(ctx context.Context) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := b.get(ctx, "/test", &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "bridge reports Anki unavailable"
		}
		return errors.New(msg)
	}
	return nil
}

// Decks lists deck names, falling back to DefaultDecks.
func (b *Bridge) Decks(ctx context.Context) []string {
	return b.list(ctx, "/decks", DefaultDecks)
}

// NoteTypes lists note type names, falling back to DefaultNoteTypes.
func (b *Bridge) NoteTypes(ctx context.Context) []string {
	return b.list(ctx, "/note-types", DefaultNoteTypes)
}

// Fields returns the field names of noteType, falling back to DefaultFields.
func (b *Bridge) Fields(ctx context.Context, noteType string) []string {
	return b.list(ctx, "/fields/"+url.PathEscape(noteType), DefaultFields(noteType))
}

// list GETs a string list. Failures are logged as schema fetch failures and
// answered with fallback.
func (b *Bridge) list(ctx context.Context, path string, fallback []string) []string {
	var raw json.RawMessage
	err := b.get(ctx, path, &raw)
	if err == nil {
		var names []string
		if jerr := json.Unmarshal(raw, &names); jerr == nil && len(names) > 0 {
			return names
		}
		err = bridgeError(raw)
	}

	b.log.Warn("using default schema",
		zap.String("kind", string(failure.SchemaFetchFailure)),
		zap.String("path", path),
		zap.Error(err))
	return append([]string(nil), fallback...)
}

func bridgeError(raw json.RawMessage) error {
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Error != "" {
		return errors.New(obj.Error)
	}
	return errors.New("empty list")
}

// AudioFile tells the bridge where the audio of a field lives so it can copy
// it into Anki's media folder.
type AudioFile struct {
	Filename     string `json:"filename"`
	ObsidianPath string `json:"obsidianPath,omitempty"`
}

// AddNoteRequest is the add-note payload.
type AddNoteRequest struct {
	Deck       string               `json:"deck"`
	NoteType   string               `json:"noteType"`
	Fields     map[string]string    `json:"fields"`
	Tags       []string             `json:"tags"`
	AudioFiles map[string]AudioFile `json:"existingAudioFiles,omitempty"`
	VaultPath  string               `json:"vaultPath,omitempty"`
}

type addNoteResponse struct {
	Success bool            `json:"success"`
	NoteID  json.RawMessage `json:"noteId"`
	Error   string          `json:"error"`
}

// AddNote creates one note and returns its id. A rejection carries the
// bridge's message unmodified.
func (b *Bridge) AddNote(ctx context.Context, req AddNoteRequest) (string, error) {
	var resp addNoteResponse
	if err := b.post(ctx, "/add-note", req, &resp); err != nil {
		var httpErr *statusError
		if errors.As(err, &httpErr) && httpErr.body.Error != "" {
			return "", failure.New(failure.ExportFailure, "export", httpErr.body.Error).WithStatus(httpErr.status)
		}
		return "", failure.Wrap(failure.ExportFailure, "export", err).
			WithHint("is the bridge running at " + b.baseURL + "?")
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "note store rejected the note"
		}
		return "", failure.New(failure.ExportFailure, "export", msg)
	}

	return strings.Trim(string(resp.NoteID), `"`), nil
}

type statusError struct {
	status int
	body   struct {
		Error string `json:"error"`
	}
}

func (e *statusError) Error() string {
	if e.body.Error != "" {
		return fmt.Sprintf("bridge returned %d: %s", e.status, e.body.Error)
	}
	return fmt.Sprintf("bridge returned %d", e.status)
}

// reachedStore reports whether err still proves the bridge healthy. A
// rejection with a message (duplicate note, bad field) comes back as a 5xx
// from a working bridge and must not trip the breaker.
func reachedStore(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *statusError
	return errors.As(err, &httpErr) && httpErr.body.Error != ""
}

func (b *Bridge) get(ctx context.Context, path string, out any) error {
	return b.do(ctx, http.MethodGet, path, nil, out)
}

func (b *Bridge) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return b.do(ctx, http.MethodPost, path, body, out)
}

func (b *Bridge) do(ctx context.Context, method, path string, body []byte, out any) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			se := &statusError{status: resp.StatusCode}
			_ = json.Unmarshal(data, &se.body)
			return nil, se
		}

		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("failed to decode bridge response: %w", err)
		}
		return nil, nil
	})
	return err
}
