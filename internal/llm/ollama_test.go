package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodtext/refinery/internal/model"
)

func TestOllamaProvider_GenerateListing_Success(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		resp := ollamaResponse{
			Model:           "llama3.2",
			Response:        candidateJSON,
			Done:            true,
			PromptEvalCount: 40,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
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
	if resp.TokensUsed != 60 {
		t.Errorf("Unexpected token count: %d", resp.TokensUsed)
	}
	if gotReq.Stream {
		t.Error("Streaming must be disabled")
	}
	if gotReq.System == "" {
		t.Error("Expected system prompt in request")
	}
	// The request stores a float32 widened to float64, so compare in kind.
	if gotReq.Options.Temperature != float64(temperatureForAttempt(1)) {
		t.Errorf("Attempt 1 temperature = %v, want 0.3", gotReq.Options.Temperature)
	}
}

func TestOllamaProvider_GenerateListing_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := GenerateRequest{Facts: model.ProductFacts{Brand: "Acme", ProductType: "Widget"}, Attempt: 1}
	if _, err := provider.GenerateListing(context.Background(), req); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}
}

func TestOllamaProvider_DefaultBaseURL(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("Unexpected default base URL: %s", provider.baseURL)
	}
}
