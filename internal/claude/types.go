package claude

const RoleUser = "user"

// MessagesRequest is the body sent to the Messages endpoint.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// APIError is returned when the upstream answers with a non-2xx status.
// Body holds the upstream response text unmodified.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "Claude API call failed: " + e.Body
}
