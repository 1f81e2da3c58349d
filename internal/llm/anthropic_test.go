package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodtext/refinery/internal/model"
)

func anthropicSuccessBody(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]string{
			{"type": "text", "text": content},
		},
		"model":       "claude-3-5-sonnet-20241022",
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 50, "output_tokens": 30},
	})
	return body
}

func TestAnthropicProvider_GenerateListing_Success(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Missing anthropic-version header")
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write(anthropicSuccessBody(candidateJSON))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := GenerateRequest{
		Facts:   model.ProductFacts{Brand: "Acme", ProductType: "Widget"},
		Attempt: 1,
	}
	resp, err := provider.GenerateListing(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateListing failed: %v", err)
	}

	if resp.Candidate.Title != "Acme Widget" {
		t.Errorf("Unexpected title: %s", resp.Candidate.Title)
	}
	if resp.TokensUsed != 80 {
		t.Errorf("Unexpected token count: %d", resp.TokensUsed)
	}
	if gotReq.System == "" {
		t.Error("Expected system prompt in request")
	}
	// The request stores a float32 widened to float64, so compare in kind.
	if gotReq.Temperature != float64(temperatureForAttempt(1)) {
		t.Errorf("Attempt 1 temperature = %v, want 0.3", gotReq.Temperature)
	}
}

func TestAnthropicProvider_GenerateListing_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := GenerateRequest{Facts: model.ProductFacts{Brand: "Acme", ProductType: "Widget"}, Attempt: 1}
	if _, err := provider.GenerateListing(context.Background(), req); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestAnthropicProvider_GenerateListing_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "msg_123", "type": "message", "content": [], "model": "claude-3-5-sonnet-20241022"}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := GenerateRequest{Facts: model.ProductFacts{Brand: "Acme", ProductType: "Widget"}, Attempt: 1}
	if _, err := provider.GenerateListing(context.Background(), req); err == nil {
		t.Fatal("Expected error for empty content, got nil")
	}
}

func TestAnthropicProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
}
