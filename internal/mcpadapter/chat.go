package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
)

// ChatInput is the MCP tool input schema (matches HTTP API field names).
type ChatInput struct {
	Message      string   `json:"message" jsonschema:"the user message, must not be blank"`
	SystemPrompt *string  `json:"system_prompt,omitempty" jsonschema:"instruction prepended to the conversation"`
	Model        *string  `json:"model,omitempty" jsonschema:"completion model, default gpt-4o-mini"`
	Temperature  *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature, default 0.3"`
	MaxTokens    *int     `json:"max_tokens,omitempty" jsonschema:"cap on generated tokens, default 400"`
}

type Submitter interface {
	Submit(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

// NewChatHandler returns a tool handler that uses the given service.
// Pass the returned function to mcp.AddTool.
func NewChatHandler(svc Submitter) func(context.Context, *mcp.CallToolRequest, ChatInput) (*mcp.CallToolResult, models.ChatResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, models.ChatResponse, error) {
		return Chat(ctx, svc, req, input)
	}
}

// Chat answers one chat turn. Validation and upstream failures come back as
// tool errors.
func Chat(
	ctx context.Context,
	svc Submitter,
	req *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, models.ChatResponse, error) {
	chatRequest := models.ChatRequest{
		Message:      input.Message,
		SystemPrompt: input.SystemPrompt,
		Model:        input.Model,
		Temperature:  input.Temperature,
		MaxTokens:    input.MaxTokens,
	}

	result, err := svc.Submit(ctx, chatRequest)
	if err != nil {
		return nil, models.ChatResponse{}, err
	}
	return nil, result, nil
}

// NewServer builds an MCP server exposing the chat tool.
func NewServer(svc Submitter, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "chat-assistant",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat",
		Description: "Send a single chat message to the assistant and get its reply. Stateless: no history is kept between calls.",
	}, NewChatHandler(svc))

	return server
}
