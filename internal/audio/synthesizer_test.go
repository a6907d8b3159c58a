package audio

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

type mockSynthesizer struct {
	name      string
	data      []byte
	err       error
	available bool
	calls     int
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

func (m *mockSynthesizer) Probe(ctx context.Context) bool {
	return m.available
}

func (m *mockSynthesizer) Name() string {
	return m.name
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.URL != "http://localhost:6789" {
		t.Errorf("URL = %q", config.URL)
	}
	if opts := config.Options(); opts.Voice != "en-us" || opts.Quality != "high" {
		t.Errorf("Options() = %+v", opts)
	}
	if config.MinBytes != 1000 {
		t.Errorf("MinBytes = %d", config.MinBytes)
	}
}

func TestNewSynthesizer(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		key      string
		wantErr  string
		wantName string
	}{
		{name: "local only", wantName: "local"},
		{name: "openai fallback", fallback: "openai", key: "sk-test", wantName: "local (fallback: openai)"},
		{name: "openai fallback without key", fallback: "openai", wantErr: "OpenAI API key is required"},
		{name: "unknown fallback", fallback: "espeak", wantErr: "unknown fallback synthesizer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Fallback = tt.fallback
			config.OpenAIKey = tt.key

			s, err := NewSynthesizer(config, nil)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSynthesizer() error = %v", err)
			}
			if s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &mockSynthesizer{name: "primary", data: []byte("a")}
		fallback := &mockSynthesizer{name: "fallback"}

		data, err := WithFallback(primary, fallback, nil).Synthesize(context.Background(), "run", Options{})
		if err != nil || string(data) != "a" {
			t.Fatalf("Synthesize() = %q, %v", data, err)
		}
		if fallback.calls != 0 {
			t.Error("fallback should not be called")
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &mockSynthesizer{name: "primary", err: errors.New("down")}
		fallback := &mockSynthesizer{name: "fallback", data: []byte("b")}

		data, err := WithFallback(primary, fallback, nil).Synthesize(context.Background(), "run", Options{})
		if err != nil || string(data) != "b" {
			t.Fatalf("Synthesize() = %q, %v", data, err)
		}
	})

	t.Run("probe", func(t *testing.T) {
		f := WithFallback(&mockSynthesizer{}, &mockSynthesizer{available: true}, nil)
		if !f.Probe(context.Background()) {
			t.Error("Probe() = false with an available fallback")
		}
		f = WithFallback(&mockSynthesizer{}, &mockSynthesizer{}, nil)
		if f.Probe(context.Background()) {
			t.Error("Probe() = true with nothing available")
		}
	})
}

func TestCheckPayload(t *testing.T) {
	if err := CheckPayload(make([]byte, 1000), 1000); err != nil {
		t.Errorf("1000 bytes rejected: %v", err)
	}
	if err := CheckPayload(make([]byte, 999), 1000); err == nil {
		t.Error("999 bytes accepted")
	}
}

func TestOpenAIProviderIntegration(t *testing.T) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	config := DefaultConfig()
	config.OpenAIKey = key
	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatal(err)
	}

	data, err := p.Synthesize(context.Background(), "I run every day.", Options{})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(data) < config.MinBytes {
		t.Errorf("audio too short: %d bytes", len(data))
	}
}
