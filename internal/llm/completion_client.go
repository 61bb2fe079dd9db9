package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// CompletionClient implements LLMClient for any OpenAI-compatible
// chat completion endpoint (OpenRouter, Groq, OpenAI).
type CompletionClient struct {
	apiKey   string
	model    string
	endpoint string
	appTitle string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a CompletionClient.
type Option func(*CompletionClient)

// WithHTTPClient replaces the default 60 second client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *CompletionClient) { c.http = hc }
}

// WithAppTitle sets the X-Title attribution header sent to OpenRouter.
func WithAppTitle(title string) Option {
	return func(c *CompletionClient) { c.appTitle = title }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CompletionClient) { c.logger = logger }
}

// NewCompletionClient creates a client posting to endpoint.
func NewCompletionClient(endpoint, apiKey, model string, opts ...Option) *CompletionClient {
	c := &CompletionClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		http:     NewHTTPClient(DefaultTimeout),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// completionRequest is the request payload for the chat completions API.
type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// completionResponse is the response payload from the chat completions API.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Model returns the current model identifier.
func (c *CompletionClient) Model() string { return c.model }

// SetModel changes the model used by subsequent Generate calls.
func (c *CompletionClient) SetModel(model string) { c.model = model }

// Endpoint returns the URL requests are posted to.
func (c *CompletionClient) Endpoint() string { return c.endpoint }

// Generate posts the whole conversation and returns the first choice's
// content with surrounding whitespace trimmed. It makes exactly one request.
func (c *CompletionClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if messages == nil {
		messages = []Message{}
	}
	data, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.appTitle != "" {
		req.Header.Set("X-Title", c.appTitle)
	}

	start := time.Now()
	c.logger.Debug("completion request",
		slog.String("model", c.model),
		slog.Int("messages", len(messages)))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("completion response",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
