package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
)

// LocalClient talks to the local synthesizer service.
type LocalClient struct {
	baseURL string
	config  *Config
	client  *http.Client
	log     *zap.Logger
}

// NewLocalClient creates a client for config.URL.
func NewLocalClient(config *Config, log *zap.Logger) *LocalClient {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MinBytes <= 0 {
		config.MinBytes = DefaultMinBytes
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}
	if config.SynthesizeTimeout <= 0 {
		config.SynthesizeTimeout = DefaultSynthesizeTimeout
	}

	return &LocalClient{
		baseURL: strings.TrimSuffix(config.URL, "/"),
		config:  config,
		client:  &http.Client{},
		log:     logging.OrNop(log),
	}
}

// Name returns the backend name
func (c *LocalClient) Name() string {
	return "local"
}

type healthResponse struct {
	Status string `json:"status"`
}

// Probe asks GET /health. Any failure means unavailable.
func (c *LocalClient) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("synthesizer probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Status == "running"
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	Voice   string `json:"voice"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// Synthesize posts text to /synthesize. No retries.
func (c *LocalClient) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if opts.Voice == "" {
		opts.Voice = c.config.Voice
	}
	if opts.Quality == "" {
		opts.Quality = c.config.Quality
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		Voice:   opts.Voice,
		Quality: opts.Quality,
		Format:  "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.SynthesizeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, failure.Wrap(failure.SynthesisFailure, "synthesize", err).
			WithHint("is the TTS server running at " + c.baseURL + "?")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.Wrap(failure.SynthesisFailure, "synthesize", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure.New(failure.SynthesisFailure, "synthesize",
			fmt.Sprintf("TTS server returned %d", resp.StatusCode)).WithStatus(resp.StatusCode)
	}

	if err := CheckPayload(data, c.config.MinBytes); err != nil {
		return nil, err
	}

	c.log.Debug("synthesized audio", zap.Int("bytes", len(data)), zap.String("voice", opts.Voice))
	return data, nil
}
