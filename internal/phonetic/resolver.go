package phonetic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/word"
)

// DefaultURL is the dictionaryapi.dev entries endpoint for English.
const DefaultURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// DefaultTimeout bounds one dictionary request.
const DefaultTimeout = 10 * time.Second

var errNotFound = errors.New("word not in dictionary")

// Resolver looks up transcriptions.
type Resolver struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at another dictionary deployment.
func WithBaseURL(u string) Option {
	return func(r *Resolver) {
		if u != "" {
			r.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) { r.log = logging.OrNop(log) }
}

// NewResolver creates a resolver for the public dictionary.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: DefaultURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "phonetic",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	return r
}

// Resolve returns the transcription of w, or "/w/" when none can be found.
func (r *Resolver) Resolve(ctx context.Context, w string) string {
	w = strings.TrimSpace(w)
	if w == "" {
		return word.PlaceholderPhonetic(w)
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.fetch(ctx, w)
	})
	if err != nil {
		r.log.Debug("phonetic lookup fell back to placeholder",
			zap.String("word", w),
			zap.Error(err))
		return word.PlaceholderPhonetic(w)
	}
	return result.(string)
}

type entry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
}

func (r *Resolver) fetch(ctx context.Context, w string) (string, error) {
	endpoint := r.baseURL + "/" + url.PathEscape(strings.ToLower(w))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("dictionary request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("dictionary returned status %d", resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("failed to decode dictionary response: %w", err)
	}

	if ipa := firstTranscription(entries); ipa != "" {
		return ipa, nil
	}
	return "", errNotFound
}

// firstTranscription picks the first non-blank phonetics text of the first
// entry, then the entry's headline phonetic.
func firstTranscription(entries []entry) string {
	if len(entries) == 0 {
		return ""
	}
	for _, p := range entries[0].Phonetics {
		if text := strings.TrimSpace(p.Text); text != "" {
			return text
		}
	}
	return strings.TrimSpace(entries[0].Phonetic)
}
