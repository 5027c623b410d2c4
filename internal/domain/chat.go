package domain

// ChatMessage is the provider-agnostic chat message shape exchanged with the
// oracle's chat completions integration.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one completion call to the oracle.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature *float64
	MaxTokens   int
	// Schema, when set, asks for a strict JSON object matching it.
	Schema *JSONSchema
}

// JSONSchema names a strict structured-output schema.
type JSONSchema struct {
	Name   string
	Schema string
}
