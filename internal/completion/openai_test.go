package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/snonux/ankidict/internal/failure"
)

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   GroqModel,
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(body)
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("```json\n{\"Term\":\"run\",\"Type\":\"verb\",\"Definition\":\"to move fast\"}\n```"))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{BaseURL: server.URL, Model: GroqModel}, nil)
	entry, err := client.Complete(context.Background(), Request{
		APIKey:         "gsk_test",
		Term:           "run",
		Context:        "I run every day.",
		TargetLanguage: "English",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if gotAuth != "Bearer gsk_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != GroqModel {
		t.Errorf("model = %v", gotBody["model"])
	}
	if got := gotBody["max_tokens"]; got != float64(1024) {
		t.Errorf("max_tokens = %v", got)
	}

	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	prompt, _ := user["content"].(string)
	if strings.Count(prompt, "run") < 3 {
		t.Errorf("user prompt should repeat the exact term: %q", prompt)
	}
	if !strings.Contains(prompt, "I run every day.") {
		t.Errorf("user prompt should carry the context")
	}

	if entry["Definition"] != "to move fast" {
		t.Errorf("Definition = %v", entry["Definition"])
	}
}

func TestOpenAIClientMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("not json at all"))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{BaseURL: server.URL, Model: GroqModel}, nil)
	entry, err := client.Complete(context.Background(), Request{APIKey: "k", Term: "run", TargetLanguage: "English"})
	if err != nil {
		t.Fatalf("malformed content must not fail: %v", err)
	}
	if entry["Definition"] != "Could not parse definition" {
		t.Errorf("Definition = %v", entry["Definition"])
	}
}

func TestOpenAIClientHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, message: "Invalid API Key"},
		{name: "plain body", status: http.StatusBadGateway, body: "upstream down", message: "API error 502: upstream down"},
		{name: "plain 503", status: http.StatusServiceUnavailable, body: "Service Unavailable: upstream model overloaded", message: "API error 503: Service Unavailable: upstream model overloaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewOpenAIClient(Config{BaseURL: server.URL, Model: GroqModel}, nil)
			_, err := client.Complete(context.Background(), Request{APIKey: "k", Term: "run"})
			if !failure.Is(err, failure.CompletionFailure) {
				t.Fatalf("error kind = %v, want completion failure (%v)", failure.KindOf(err), err)
			}

			var fe *failure.Error
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not classified", err)
			}
			if fe.Status != tt.status {
				t.Errorf("status = %d, want %d", fe.Status, tt.status)
			}
			if !strings.Contains(fe.Message, tt.message) {
				t.Errorf("message = %q, want it to contain %q", fe.Message, tt.message)
			}
		})
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","choices":[]}`)
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{BaseURL: server.URL, Model: GroqModel}, nil)
	_, err := client.Complete(context.Background(), Request{APIKey: "k", Term: "run"})
	if !failure.Is(err, failure.CompletionFailure) {
		t.Fatalf("error = %v, want completion failure", err)
	}
}
