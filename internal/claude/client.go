package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/config"
)

// Client calls the Claude Messages API. It is safe for concurrent use.
type Client struct {
	endpoint   string
	apiVersion string
	httpClient *http.Client
}

func NewClient(cfg config.ClaudeConfig) *Client {
	return &Client{
		endpoint:   cfg.APIEndpoint,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateMessage posts req once and returns the raw response body. A non-2xx
// status is reported as *APIError. There are no retries.
func (c *Client) CreateMessage(ctx context.Context, apiKey string, req MessagesRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode messages request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", c.apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read Claude API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}
