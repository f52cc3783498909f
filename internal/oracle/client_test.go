package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.OracleConfig{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.OracleConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-api-key" {
			t.Errorf("unexpected Authorization header: %s", auth)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "recommend things" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			ID: "gen-1",
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: `["Dune"]`}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	text, err := client.Complete(context.Background(), "recommend things")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != `["Dune"]` {
		t.Errorf("Complete() = %q, want %q", text, `["Dune"]`)
	}
}

func TestClient_Complete_NoAPIKey(t *testing.T) {
	client := NewClient(config.OracleConfig{}, zerolog.Nop())
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("Complete() error = %v, want ErrAPIKeyMissing", err)
	}
}

func TestClient_Complete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Complete() error = %v, want ErrUnavailable", err)
	}
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{ID: "gen-2"})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Complete() error = %v, want ErrUnavailable", err)
	}
}
