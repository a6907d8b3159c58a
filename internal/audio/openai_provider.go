package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/ankidict/internal/failure"
)

// OpenAIProvider synthesizes speech with OpenAI TTS.
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.MinBytes <= 0 {
		config.MinBytes = DefaultMinBytes
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// Synthesize implements Synthesizer. The local voice names do not apply here;
// the configured OpenAI voice is used.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, _ Options) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		fe := failure.Wrap(failure.SynthesisFailure, "synthesize", err)
		if strings.Contains(err.Error(), "does not have access to model") {
			fe.WithHint(fmt.Sprintf("the %s model requires access, try tts-1", p.config.OpenAIModel))
		}
		return nil, fe
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, failure.Wrap(failure.SynthesisFailure, "synthesize", err)
	}

	if err := CheckPayload(data, p.config.MinBytes); err != nil {
		return nil, err
	}
	return data, nil
}

// Probe only checks that a key is configured; a real call would cost credits.
func (p *OpenAIProvider) Probe(context.Context) bool {
	return p.config.OpenAIKey != ""
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}
