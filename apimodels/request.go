package apimodels

type ParseRequest struct {
	// Text is the raw chat transcript extracted by the client
	Text string `json:"text"`

	// Prompt replaces the default instruction when set
	Prompt string `json:"prompt,omitempty"`
}
