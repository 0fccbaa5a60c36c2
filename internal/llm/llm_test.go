package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFactoryRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewProvider(Options{Provider: "openai", Model: "gpt-4o-mini"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	if _, err := NewProvider(Options{Provider: "unknown"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	p, err := NewProvider(Options{Provider: "openai", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", p.Name())
	}
}

func TestFactoryOllamaHostFallbacks(t *testing.T) {
	tests := []struct {
		name, host, env, want string
	}{
		{"explicit", "http://gpu:11434/", "http://env:1", "http://gpu:11434"},
		{"env", "", "http://env:1", "http://env:1"},
		{"default", "", "", "http://localhost:11434"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.env)
			p, err := NewProvider(Options{Provider: "ollama", Model: "llama3", Host: tt.host})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			op, ok := p.(*OllamaProvider)
			if !ok {
				t.Fatal("expected *OllamaProvider")
			}
			if op.baseURL != tt.want {
				t.Errorf("baseURL = %q, want %q", op.baseURL, tt.want)
			}
		})
	}
}

func TestOllamaComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3",
			"message":           map[string]string{"role": "assistant", "content": "The Hobbit is a fantasy novel."},
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        7,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 5*time.Second)
	resp, err := p.Complete(context.Background(), Prompt("Tell me about The Hobbit"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Content != "The Hobbit is a fantasy novel." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if got.Model != "llama3" || got.Stream {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
	if got.Options != nil {
		t.Errorf("options should be omitted, got %v", got.Options)
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing", time.Second)
	if _, err := p.Complete(context.Background(), Prompt("hi")); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Try Dune."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "gpt-4o-mini", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), Prompt("Recommend a book for me"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "Try Dune." || resp.InputTokens != 9 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestPrompt(t *testing.T) {
	req := Prompt("hello")
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser || req.Messages[0].Content != "hello" {
		t.Errorf("unexpected request %+v", req)
	}
}
