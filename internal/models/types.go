package models

const (
	DefaultSystemPrompt = "You are an intelligent, concise assistant. Be helpful, accurate, and clear."
	DefaultModel        = "gpt-4o-mini"
	DefaultTemperature  = 0.3
	DefaultMaxTokens    = 400
)

// Input message

// ChatRequest is a single stateless chat turn. Optional fields are pointers so
// an omitted field can be told apart from an explicit zero.
type ChatRequest struct {
	Message      string   `json:"message" description:"The user utterance (required, must not be blank)"`
	SystemPrompt *string  `json:"system_prompt,omitempty" description:"Instruction prepended to the conversation"`
	Model        *string  `json:"model,omitempty" description:"Target completion model (default: gpt-4o-mini)"`
	Temperature  *float64 `json:"temperature,omitempty" description:"Sampling temperature (default: 0.3)"`
	MaxTokens    *int     `json:"max_tokens,omitempty" description:"Cap on generated tokens (default: 400)"`
}

type ChatResponse struct {
	Reply string `json:"reply" description:"The assistant's answer"`
}

// Defaults are applied to every field a ChatRequest leaves unset.
type Defaults struct {
	SystemPrompt string
	Model        string
	Temperature  float64
	MaxTokens    int
}

func DefaultChatDefaults() Defaults {
	return Defaults{
		SystemPrompt: DefaultSystemPrompt,
		Model:        DefaultModel,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
	}
}

// Normalized internal object
type ChatParams struct {
	Model        string
	SystemPrompt string
	Message      string
	Temperature  float64
	MaxTokens    int
}

func (r ChatRequest) Resolve(d Defaults) ChatParams {
	params := ChatParams{
		Model:        d.Model,
		SystemPrompt: d.SystemPrompt,
		Message:      r.Message,
		Temperature:  d.Temperature,
		MaxTokens:    d.MaxTokens,
	}

	if r.SystemPrompt != nil {
		params.SystemPrompt = *r.SystemPrompt
	}
	if r.Model != nil {
		params.Model = *r.Model
	}
	if r.Temperature != nil {
		params.Temperature = *r.Temperature
	}
	if r.MaxTokens != nil {
		params.MaxTokens = *r.MaxTokens
	}

	return params
}
