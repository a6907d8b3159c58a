package completion

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/failure"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 30 * time.Second

// excerptLen caps how much of an upstream error body ends up in a failure.
const excerptLen = 200

// Request describes one lookup.
type Request struct {
	APIKey         string
	Term           string
	Context        string
	TargetLanguage string
}

// Entry is the raw JSON object recovered from a completion.
type Entry map[string]any

// Completer issues completion requests.
type Completer interface {
	Complete(ctx context.Context, req Request) (Entry, error)
}

// Config selects and configures a completion backend.
type Config struct {
	Provider string // "groq", "openai", "openai-compatible" or "gemini"
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// Provider defaults.
const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	GroqModel     = "llama3-70b-8192"
	OpenAIBaseURL = "https://api.openai.com/v1"
	OpenAIModel   = "gpt-4o-mini"
	GeminiModel   = "gemini-2.0-flash"
)

// NewCompleter creates the backend named by config.Provider.
func NewCompleter(config Config, log *zap.Logger) (Completer, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	switch normalizeProvider(config.Provider) {
	case "", "groq":
		return NewOpenAIClient(withDefaults(config, GroqBaseURL, GroqModel), log), nil
	case "openai":
		return NewOpenAIClient(withDefaults(config, OpenAIBaseURL, OpenAIModel), log), nil
	case "openai-compatible":
		if config.BaseURL == "" {
			return nil, fmt.Errorf("llm.base_url is required for the openai-compatible provider")
		}
		return NewOpenAIClient(withDefaults(config, "", OpenAIModel), log), nil
	case "gemini":
		return NewGeminiClient(withDefaults(config, "", GeminiModel), log), nil
	default:
		return nil, fmt.Errorf("unknown completion provider: %s", config.Provider)
	}
}

// ChatBaseURL returns the OpenAI-compatible endpoint config talks to, or ""
// when the provider has none.
func (c Config) ChatBaseURL() string {
	switch normalizeProvider(c.Provider) {
	case "", "groq":
		return withDefaults(c, GroqBaseURL, "").BaseURL
	case "openai":
		return withDefaults(c, OpenAIBaseURL, "").BaseURL
	case "openai-compatible":
		return c.BaseURL
	default:
		return ""
	}
}

func normalizeProvider(raw string) string {
	p := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(p, "_", "-")
}

func withDefaults(config Config, baseURL, model string) Config {
	if config.BaseURL == "" {
		config.BaseURL = baseURL
	}
	if config.Model == "" {
		config.Model = model
	}
	return config
}

// newFailure builds the CompletionFailure for an upstream error.
func newFailure(status int, body string, cause error) *failure.Error {
	msg := "completion request failed"
	if status > 0 {
		msg = fmt.Sprintf("API error %d", status)
	}
	if excerpt := excerpt(body); excerpt != "" {
		msg += ": " + excerpt
	}

	fe := &failure.Error{
		Kind:    failure.CompletionFailure,
		Op:      "completion",
		Message: msg,
		Status:  status,
		Err:     cause,
	}
	switch {
	case status == 401 || status == 403:
		fe.Hint = "check the configured API key"
	case status == 429:
		fe.Hint = "rate limited, try again shortly"
	case status == 0:
		fe.Hint = "check the network connection and llm.base_url"
	}
	return fe
}

func excerpt(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= excerptLen {
		return body
	}
	cut := excerptLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "…"
}
