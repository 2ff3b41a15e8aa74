package gpt

import (
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
)

const ProviderName = "openai"

var ErrMissingAPIKey = errors.New("OpenAI API key is required")

type Client struct {
	Client openai.Client
}

// NewClient builds a client that makes exactly one attempt per call; the SDK's
// built-in retries are switched off.
func NewClient(apiKey string, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		Client: openai.NewClient(opts...),
	}, nil
}

func (c *Client) Status() llm.Status {
	return llm.Status{Provider: ProviderName, Available: true}
}
