// Package backend implements the HTTP collaborator: an OpenAI-compatible
// /chat/completions endpoint in the Ollama dialect (keep_alive honored,
// streaming disabled).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cgault/parley/internal/chatlog"
)

// requestTimeout is deliberately generous: the session blocks on the
// backend with no mid-request cancellation, so in practice it waits.
const requestTimeout = 100000 * time.Second

// Config holds backend connection parameters.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	KeepAlive   int
}

// Client posts conversations to the chat-completions endpoint.
type Client struct {
	url         string
	model       string
	temperature float64
	keepAlive   int
	httpClient  *http.Client
}

// New creates a backend client. httpClient may be nil, in which case a
// default client with the generous request timeout is used.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		url:         strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		keepAlive:   cfg.KeepAlive,
		httpClient:  httpClient,
	}
}

type chatRequest struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	KeepAlive   int               `json:"keep_alive"`
	Messages    []chatlog.Message `json:"messages"`
	Stream      bool              `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one completion request and returns the assistant reply.
// Any network error, non-2xx status, or malformed body is a failure for
// the whole turn.
func (c *Client) Complete(ctx context.Context, messages []chatlog.Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		KeepAlive:   c.keepAlive,
		Messages:    messages,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 400))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %s", truncate(string(body), 400))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("malformed chat response, no choices: %s", truncate(string(body), 400))
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
