package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketpulse/pulse/internal/llm"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New("", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.endpoint != "http://localhost:11434" {
		t.Errorf("unexpected default endpoint: %s", c.endpoint)
	}
	if c.model == "" {
		t.Error("expected a default model")
	}
	if c.Name() != "ollama" {
		t.Errorf("expected name ollama, got %s", c.Name())
	}
}

func TestComplete(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(ollamaResponse{
			Message:         ollamaMessage{Role: "assistant", Content: `{"summary": "ok"}`},
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "test-model")
	resp, err := c.Complete(context.Background(), llm.Request{
		System:   "You are an analyst.",
		Prompt:   "Analyze this.",
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != `{"summary": "ok"}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if gotReq.Format != "json" {
		t.Errorf("expected json format for JSONMode, got %q", gotReq.Format)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("expected system+user messages, got %+v", gotReq.Messages)
	}
	if gotReq.Stream {
		t.Error("expected stream disabled")
	}
}

func TestComplete_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "test-model")
	if _, err := c.Complete(context.Background(), llm.Request{Prompt: "hi"}); err == nil {
		t.Error("expected error for non-200 status")
	}
}
