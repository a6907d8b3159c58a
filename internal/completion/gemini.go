package completion

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
)

// GeminiClient requests entries from the Gemini API.
type GeminiClient struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewGeminiClient creates a Gemini backed Completer.
func NewGeminiClient(config Config, log *zap.Logger) *GeminiClient {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &GeminiClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        logging.OrNop(log),
	}
}

// Complete implements Completer.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (Entry, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     req.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: c.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, failure.Wrap(failure.CompletionFailure, "completion", err)
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   1024,
		ResponseMIMEType:  "application/json",
	}

	c.log.Debug("completion request", zap.String("model", c.config.Model), zap.String("term", req.Term))

	resp, err := client.Models.GenerateContent(ctx, c.config.Model, genai.Text(userPrompt(req)), genConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, newFailure(apiErr.Code, apiErr.Message, err)
		}
		return nil, newFailure(0, err.Error(), err)
	}

	content := resp.Text()
	if content == "" {
		return nil, failure.New(failure.CompletionFailure, "completion", "invalid API response structure")
	}

	entry, stage := ParseEntry(content, req.Term)
	if stage != StageDirect {
		c.log.Warn("completion content was not clean JSON",
			zap.String("term", req.Term),
			zap.Stringer("recovered_by", stage))
	}
	return entry, nil
}
