package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestService(client llm.LLMClient) *Service {
	return NewService(client, Options{
		Defaults:       models.DefaultChatDefaults(),
		Timeout:        5 * time.Second,
		MaxConcurrency: 4,
	}, newTestLogger())
}

func availableClient(ctrl *gomock.Controller) *mocks.MockLLMClient {
	client := mocks.NewMockLLMClient(ctrl)
	client.EXPECT().Status().Return(llm.Status{Provider: "openai", Available: true}).AnyTimes()
	return client
}

func TestService_Submit_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{name: "plain", message: "hello", expected: "(Local fallback) You said: hello"},
		{name: "trimmed", message: "  hello there \n", expected: "(Local fallback) You said: hello there"},
		{name: "unicode", message: "\tпривет ", expected: "(Local fallback) You said: привет"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// InvokeModel must never be called in fallback mode.
			client := mocks.NewMockLLMClient(ctrl)
			client.EXPECT().Status().Return(llm.Status{Provider: "openai", Available: false}).AnyTimes()

			resp, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: tt.message})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Reply != tt.expected {
				t.Errorf("expected reply %q, got %q", tt.expected, resp.Reply)
			}
		})
	}
}

func TestService_Submit_FallbackWithUnavailableClient(t *testing.T) {
	svc := newTestService(llm.NewUnavailable("openai", errors.New("init failed")))

	resp, err := svc.Submit(context.Background(), models.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "(Local fallback) You said: hi" {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
}

func TestService_Submit_EmptyMessage(t *testing.T) {
	for _, available := range []bool{true, false} {
		for _, message := range []string{"", "   ", "\n\t"} {
			ctrl := gomock.NewController(t)

			client := mocks.NewMockLLMClient(ctrl)
			client.EXPECT().Status().Return(llm.Status{Available: available}).AnyTimes()

			_, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: message})

			var clientErr *ClientError
			if !errors.As(err, &clientErr) {
				t.Fatalf("available=%v message=%q: expected ClientError, got %v", available, message, err)
			}
			if clientErr.Message != "Message must not be empty." {
				t.Errorf("unexpected message %q", clientErr.Message)
			}
			if HTTPStatus(err) != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", HTTPStatus(err))
			}

			ctrl.Finish()
		}
	}
}

func TestService_Submit_ProviderReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), gomock.Any()).
		Return(&llm.LLMResponse{Content: "Hello!\n", StopReason: "stop"}, nil)

	resp, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "Hello!" {
		t.Errorf("expected reply 'Hello!', got %q", resp.Reply)
	}
}

func TestService_Submit_ForwardsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expected := llm.LLMRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are an intelligent, concise assistant. Be helpful, accurate, and clear.",
		Prompt:       " hi ",
		MaxTokens:    400,
		Temperature:  0.3,
	}

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), expected).
		Return(&llm.LLMResponse{Content: "ok"}, nil)

	if _, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: " hi "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_Submit_ForwardsOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	model := "gpt-4o"
	prompt := "Answer in French."
	temperature := 0.0
	maxTokens := 50

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), llm.LLMRequest{
			Model:        model,
			SystemPrompt: prompt,
			Prompt:       "hi",
			MaxTokens:    maxTokens,
			Temperature:  temperature,
		}).
		Return(&llm.LLMResponse{Content: "Bonjour"}, nil)

	resp, err := newTestService(client).Submit(context.Background(), models.ChatRequest{
		Message:      "hi",
		SystemPrompt: &prompt,
		Model:        &model,
		Temperature:  &temperature,
		MaxTokens:    &maxTokens,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", resp.Reply)
	}
}

func TestService_Submit_ProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cause := errors.New("rate limited")
	client := availableClient(ctrl)
	client.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(nil, cause).Times(1)

	_, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: "hi"})

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected error to contain 'rate limited', got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected ServerError to wrap the cause")
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", HTTPStatus(err))
	}
}

func TestService_Submit_NilResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := availableClient(ctrl)
	client.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := newTestService(client).Submit(context.Background(), models.ChatRequest{Message: "hi"})

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
}

func TestService_Submit_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ llm.LLMRequest) (*llm.LLMResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	svc := NewService(client, Options{
		Defaults: models.DefaultChatDefaults(),
		Timeout:  20 * time.Millisecond,
	}, newTestLogger())

	_, err := svc.Submit(context.Background(), models.ChatRequest{Message: "hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestService_Submit_CancelledWhileWaitingForSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	started := make(chan struct{})

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ llm.LLMRequest) (*llm.LLMResponse, error) {
			close(started)
			<-release
			return &llm.LLMResponse{Content: "first"}, nil
		}).
		Times(1)

	svc := NewService(client, Options{
		Defaults:       models.DefaultChatDefaults(),
		MaxConcurrency: 1,
	}, newTestLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), models.ChatRequest{Message: "first"})
		done <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, models.ChatRequest{Message: "second"})
	var serverErr *ServerError
	if !errors.As(err, &serverErr) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected ServerError wrapping context.Canceled, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first request failed: %v", err)
	}
}

func TestService_Submit_IndependentRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := availableClient(ctrl)
	client.EXPECT().
		InvokeModel(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.LLMRequest) (*llm.LLMResponse, error) {
			return &llm.LLMResponse{Content: "echo: " + req.Prompt}, nil
		}).
		Times(2)

	svc := newTestService(client)

	first, err := svc.Submit(context.Background(), models.ChatRequest{Message: "same"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Submit(context.Background(), models.ChatRequest{Message: "same"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("expected identical replies, got %q and %q", first.Reply, second.Reply)
	}
}
