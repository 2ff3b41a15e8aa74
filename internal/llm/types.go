package llm

type LLMRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}

// Status reports whether a client can reach its provider. Err holds the
// construction failure, if there was one; a missing credential leaves it nil.
type Status struct {
	Provider  string
	Available bool
	Err       error
}
