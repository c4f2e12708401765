package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/curator/internal/model"
)

func chatServer(t *testing.T, reply func(prompt string) string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		prompt := req.Messages[len(req.Messages)-1].Content

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					Message:      openai.ChatCompletionMessage{Role: "assistant", Content: reply(prompt)},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAILabeler_Label(t *testing.T) {
	var calls int32
	server := chatServer(t, func(prompt string) string {
		if strings.Contains(prompt, "denied") {
			return `{"stance": "contradict", "confidence": 0.8}`
		}
		return `{"stance": "support", "confidence": 0.9}`
	}, &calls)
	defer server.Close()

	labeler, err := NewOpenAILabeler(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create labeler: %v", err)
	}

	labels, err := labeler.Label(context.Background(), LabelRequest{
		Claim: "The bridge reopened in May",
		Evidence: []model.EvidenceCandidate{
			{URL: "https://a.example/1", Snippet: "Officials confirmed the bridge reopened on May 3."},
			{URL: "https://b.example/2", Snippet: "The city denied that the bridge had reopened."},
		},
	})
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels[0].Stance != model.StanceSupport || labels[0].Confidence != 0.9 {
		t.Errorf("labels[0] = %+v", labels[0])
	}
	if labels[1].Stance != model.StanceContradict {
		t.Errorf("labels[1] = %+v", labels[1])
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 API calls, got %d", calls)
	}
	if labeler.Name() != "openai:gpt-4o-mini" {
		t.Errorf("Name() = %s", labeler.Name())
	}
}

func TestOpenAILabeler_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error"}}`))
	}))
	defer server.Close()

	labeler, err := NewOpenAILabeler(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = labeler.Label(context.Background(), LabelRequest{
		Claim:    "x",
		Evidence: []model.EvidenceCandidate{{URL: "https://a.example/1"}},
	})
	if err == nil {
		t.Error("expected error for API failure")
	}
}

func TestOpenAILabeler_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "empty"})
	}))
	defer server.Close()

	labeler, _ := NewOpenAILabeler(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := labeler.Label(context.Background(), LabelRequest{
		Claim:    "x",
		Evidence: []model.EvidenceCandidate{{URL: "https://a.example/1"}},
	})
	if err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestNewOpenAILabeler_RequiresKey(t *testing.T) {
	if _, err := NewOpenAILabeler(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}
