package audio

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/logging"
)

// Timeouts used when the caller's context carries no deadline.
const (
	DefaultProbeTimeout      = 5 * time.Second
	DefaultSynthesizeTimeout = 60 * time.Second
)

// DefaultMinBytes is the smallest payload accepted as real audio.
const DefaultMinBytes = 1000

// Options select the voice for one synthesis.
type Options struct {
	Voice   string
	Quality string
}

// Synthesizer converts text to encoded audio.
type Synthesizer interface {
	// Probe reports whether the service is reachable and ready.
	Probe(ctx context.Context) bool

	// Synthesize returns the mp3 encoded audio for text.
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)

	// Name returns the backend name
	Name() string
}

// Config holds the configuration for building a synthesizer.
type Config struct {
	URL      string // local synthesizer base URL
	Voice    string
	Quality  string
	MinBytes int

	ProbeTimeout      time.Duration
	SynthesizeTimeout time.Duration

	// Fallback names a hosted backend tried when the local one fails: "" or "openai".
	Fallback string

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice string
	OpenAISpeed float64
}

// DefaultConfig returns the defaults for a local synthesizer on port 6789.
func DefaultConfig() *Config {
	return &Config{
		URL:               "http://localhost:6789",
		Voice:             "en-us",
		Quality:           "high",
		MinBytes:          DefaultMinBytes,
		ProbeTimeout:      DefaultProbeTimeout,
		SynthesizeTimeout: DefaultSynthesizeTimeout,
		OpenAIModel:       "tts-1",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
	}
}

// Options returns the per-call options implied by the config.
func (c *Config) Options() Options {
	return Options{Voice: c.Voice, Quality: c.Quality}
}

// NewSynthesizer creates the local client, wrapped with the hosted fallback
// when one is configured.
func NewSynthesizer(config *Config, log *zap.Logger) (Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	local := NewLocalClient(config, log)

	switch config.Fallback {
	case "":
		return local, nil
	case "openai":
		hosted, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback synthesizer: %w", err)
		}
		return WithFallback(local, hosted, log), nil
	default:
		return nil, fmt.Errorf("unknown fallback synthesizer: %s", config.Fallback)
	}
}

// Fallback wraps a primary synthesizer with a secondary one.
type Fallback struct {
	primary  Synthesizer
	fallback Synthesizer
	log      *zap.Logger
}

// WithFallback creates a synthesizer that tries fallback when primary fails.
func WithFallback(primary, fallback Synthesizer, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, fallback: fallback, log: logging.OrNop(log)}
}

// Synthesize tries the primary synthesizer first.
func (f *Fallback) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	data, err := f.primary.Synthesize(ctx, text, opts)
	if err == nil {
		return data, nil
	}

	f.log.Warn("primary synthesizer failed, falling back",
		zap.String("primary", f.primary.Name()),
		zap.String("fallback", f.fallback.Name()),
		zap.Error(err))
	return f.fallback.Synthesize(ctx, text, opts)
}

// Probe reports whether at least one synthesizer is available.
func (f *Fallback) Probe(ctx context.Context) bool {
	return f.primary.Probe(ctx) || f.fallback.Probe(ctx)
}

// Name returns the composite name.
func (f *Fallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}
