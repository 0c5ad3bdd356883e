package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/liuzifengxjj1028/chat-app-ai-summary/apimodels"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/claude"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/config"
)

const (
	// MaxTextChars is how many characters of text are forwarded when no
	// prompt is supplied. Longer text is truncated.
	MaxTextChars = 8000

	// DefaultInstruction prefixes the text when the caller sends no prompt.
	DefaultInstruction = "解析以下文本:"
)

var (
	ErrMissingText       = errors.New("missing text parameter")
	ErrMissingCredential = errors.New("Claude API key is not configured")
	ErrUpstreamDecode    = errors.New("decode Claude API response")
)

// Upstream sends one Messages request and returns the raw response body.
type Upstream interface {
	CreateMessage(ctx context.Context, apiKey string, req claude.MessagesRequest) ([]byte, error)
}

// Parser forwards chat text to Claude on behalf of the web client.
type Parser struct {
	upstream    Upstream
	credentials config.CredentialSource
	model       string
	maxTokens   int
}

func New(upstream Upstream, credentials config.CredentialSource, cfg config.ClaudeConfig) *Parser {
	return &Parser{
		upstream:    upstream,
		credentials: credentials,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
	}
}

// Parse validates req, calls the upstream once and returns its JSON body
// unmodified.
func (p *Parser) Parse(ctx context.Context, req apimodels.ParseRequest) (json.RawMessage, error) {
	if req.Text == "" {
		return nil, ErrMissingText
	}

	apiKey := p.credentials.APIKey()
	if apiKey == "" {
		slog.Warn("Claude API key is not configured")
		return nil, ErrMissingCredential
	}

	slog.Info("Starting Claude API parse", "text_length", utf8.RuneCountInString(req.Text))

	body, err := p.upstream.CreateMessage(ctx, apiKey, p.BuildRequest(req))
	if err != nil {
		var apiErr *claude.APIError
		if errors.As(err, &apiErr) {
			slog.Error("Claude API error", "status", apiErr.StatusCode, "body", apiErr.Body)
		}
		return nil, err
	}

	if err := json.Unmarshal(body, new(json.RawMessage)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamDecode, err)
	}

	slog.Info("Claude API response received")
	return json.RawMessage(body), nil
}

// BuildRequest derives the upstream payload. A non-empty prompt is sent
// verbatim; otherwise the default instruction is followed by at most
// MaxTextChars characters of text.
func (p *Parser) BuildRequest(req apimodels.ParseRequest) claude.MessagesRequest {
	content := req.Prompt
	if content == "" {
		content = DefaultInstruction + "\n" + truncate(req.Text, MaxTextChars)
	}
	return claude.MessagesRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []claude.Message{
			{Role: claude.RoleUser, Content: content},
		},
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
