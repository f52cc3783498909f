package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("oracle API key is not configured")

	// ErrUnavailable covers network, auth, rate-limit, and malformed-envelope
	// failures of the completion upstream.
	ErrUnavailable = errors.New("completion service unavailable")
)

// Client wraps the OpenRouter chat-completions API as a plain
// prompt-in, text-out completion oracle.
type Client struct {
	httpClient *http.Client
	config     config.OracleConfig
	logger     zerolog.Logger
}

// NewClient creates a new completion client.
func NewClient(cfg config.OracleConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "oracle").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "openrouter"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrAPIKeyMissing
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("completion request failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("model", c.config.Model).
			Msg("completion service returned error status")
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		c.logger.Error().Str("model", c.config.Model).Msg("empty completion response")
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	c.logger.Debug().
		Str("model", c.config.Model).
		Dur("elapsed", time.Since(start)).
		Int("length", len(response.Choices[0].Message.Content)).
		Msg("completion succeeded")

	return response.Choices[0].Message.Content, nil
}
