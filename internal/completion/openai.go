package completion

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint. Groq
// is the default deployment.
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewOpenAIClient creates a client for config.BaseURL.
func NewOpenAIClient(config Config, log *zap.Logger) *OpenAIClient {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &OpenAIClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        logging.OrNop(log),
	}
}

// Complete sends one chat completion and recovers the entry from its content.
// The API key travels with each request; the client holds no credential.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Entry, error) {
	clientConfig := openai.DefaultConfig(req.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(c.config.BaseURL, "/")
	clientConfig.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	chatReq := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
		// A literal zero is dropped by omitempty.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   1024,
		TopP:        1,
	}

	c.log.Debug("completion request",
		zap.String("model", c.config.Model),
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("term", req.Term))

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, c.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, failure.New(failure.CompletionFailure, "completion", "invalid API response structure")
	}

	content := resp.Choices[0].Message.Content
	entry, stage := ParseEntry(content, req.Term)
	if stage != StageDirect {
		c.log.Warn("completion content was not clean JSON",
			zap.String("term", req.Term),
			zap.Stringer("recovered_by", stage))
	}
	return entry, nil
}

func (c *OpenAIClient) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newFailure(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := string(reqErr.Body)
		if strings.TrimSpace(body) == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return newFailure(reqErr.HTTPStatusCode, body, err)
	}

	return newFailure(0, err.Error(), err)
}
