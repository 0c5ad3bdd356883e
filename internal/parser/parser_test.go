package parser

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuzifengxjj1028/chat-app-ai-summary/apimodels"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/claude"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/config"
)

type fakeUpstream struct {
	mu       sync.Mutex
	calls    []claude.MessagesRequest
	apiKeys  []string
	response []byte
	err      error
}

func (f *fakeUpstream) CreateMessage(_ context.Context, apiKey string, req claude.MessagesRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	f.apiKeys = append(f.apiKeys, apiKey)
	return f.response, f.err
}

var testConfig = config.ClaudeConfig{
	Model:     "claude-3-5-sonnet-20241022",
	MaxTokens: 4096,
}

func TestParseMissingText(t *testing.T) {
	up := &fakeUpstream{}
	p := New(up, config.StaticCredentials("k"), testConfig)

	_, err := p.Parse(context.Background(), apimodels.ParseRequest{Prompt: "only a prompt"})
	assert.ErrorIs(t, err, ErrMissingText)
	assert.Empty(t, up.calls)
}

func TestParseMissingCredential(t *testing.T) {
	up := &fakeUpstream{}
	p := New(up, config.StaticCredentials(""), testConfig)

	_, err := p.Parse(context.Background(), apimodels.ParseRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, up.calls)
}

func TestParseSuccessPassesBodyThrough(t *testing.T) {
	body := []byte(`{"id":"msg_1","content":[{"text":"ok"}]}`)
	up := &fakeUpstream{response: body}
	p := New(up, config.StaticCredentials("sk-ant-test"), testConfig)

	got, err := p.Parse(context.Background(), apimodels.ParseRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, string(body), string(got))

	require.Len(t, up.calls, 1)
	assert.Equal(t, "sk-ant-test", up.apiKeys[0])
	assert.Equal(t, "claude-3-5-sonnet-20241022", up.calls[0].Model)
	assert.Equal(t, 4096, up.calls[0].MaxTokens)
	require.Len(t, up.calls[0].Messages, 1)
	assert.Equal(t, claude.RoleUser, up.calls[0].Messages[0].Role)
	assert.Equal(t, DefaultInstruction+"\nhello", up.calls[0].Messages[0].Content)
}

func TestParseUpstreamError(t *testing.T) {
	up := &fakeUpstream{err: &claude.APIError{StatusCode: http.StatusUnauthorized, Body: "bad key"}}
	p := New(up, config.StaticCredentials("k"), testConfig)

	_, err := p.Parse(context.Background(), apimodels.ParseRequest{Text: "hello"})

	var apiErr *claude.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Len(t, up.calls, 1)
}

func TestParseUpstreamInvalidJSON(t *testing.T) {
	up := &fakeUpstream{response: []byte("<html>gateway</html>")}
	p := New(up, config.StaticCredentials("k"), testConfig)

	_, err := p.Parse(context.Background(), apimodels.ParseRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrUpstreamDecode)
}

func TestBuildRequestTruncatesText(t *testing.T) {
	p := New(&fakeUpstream{}, config.StaticCredentials("k"), testConfig)
	text := strings.Repeat("a", MaxTextChars) + strings.Repeat("b", 500)

	req := p.BuildRequest(apimodels.ParseRequest{Text: text})
	assert.Equal(t, DefaultInstruction+"\n"+strings.Repeat("a", MaxTextChars), req.Messages[0].Content)
}

func TestBuildRequestTruncatesByCharacter(t *testing.T) {
	p := New(&fakeUpstream{}, config.StaticCredentials("k"), testConfig)
	text := strings.Repeat("聊", MaxTextChars+10)

	req := p.BuildRequest(apimodels.ParseRequest{Text: text})
	assert.Equal(t, DefaultInstruction+"\n"+strings.Repeat("聊", MaxTextChars), req.Messages[0].Content)
}

func TestBuildRequestShortTextUnchanged(t *testing.T) {
	p := New(&fakeUpstream{}, config.StaticCredentials("k"), testConfig)
	text := strings.Repeat("x", MaxTextChars)

	req := p.BuildRequest(apimodels.ParseRequest{Text: text})
	assert.Equal(t, DefaultInstruction+"\n"+text, req.Messages[0].Content)
}

func TestBuildRequestPromptVerbatim(t *testing.T) {
	p := New(&fakeUpstream{}, config.StaticCredentials("k"), testConfig)
	prompt := "custom prompt\n" + strings.Repeat("p", 20000)

	req := p.BuildRequest(apimodels.ParseRequest{Text: strings.Repeat("t", 9000), Prompt: prompt})
	require.Len(t, req.Messages, 1)
	assert.Equal(t, prompt, req.Messages[0].Content)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", truncate("", 3))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "你好", truncate("你好世界", 2))
}
