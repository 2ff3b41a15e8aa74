package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
)

const ProviderName = "bedrock"

type Client struct {
	Client  *bedrockruntime.Client
	ModelID string
}

// NewClient loads the default AWS credential chain for region. ModelID is the
// Bedrock model every request is sent to; the per-request model name is an
// OpenAI identifier and does not apply here.
func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS region is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("Bedrock model ID is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	bedrockClient := bedrockruntime.NewFromConfig(cfg, func(o *bedrockruntime.Options) {
		o.RetryMaxAttempts = 1
	})

	return &Client{
		Client:  bedrockClient,
		ModelID: modelID,
	}, nil
}

func (c *Client) Status() llm.Status {
	return llm.Status{Provider: ProviderName, Available: true}
}
