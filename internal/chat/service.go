package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const fallbackPrefix = "(Local fallback) You said: "

type Options struct {
	Defaults models.Defaults
	// Timeout bounds a single completion call. Zero disables it.
	Timeout time.Duration
	// MaxConcurrency bounds in-flight completion calls. Zero disables it.
	MaxConcurrency int64
}

type Service struct {
	client   llm.LLMClient
	defaults models.Defaults
	timeout  time.Duration
	slots    *semaphore.Weighted
	logger   *zerolog.Logger
}

func NewService(client llm.LLMClient, opts Options, logger *zerolog.Logger) *Service {
	s := &Service{
		client:   client,
		defaults: opts.Defaults,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	if opts.MaxConcurrency > 0 {
		s.slots = semaphore.NewWeighted(opts.MaxConcurrency)
	}
	return s
}

// Status reports the state of the underlying completion client.
func (s *Service) Status() llm.Status {
	if s.client == nil {
		return llm.Status{}
	}
	return s.client.Status()
}

// Submit answers a single chat turn. Without an available provider it echoes
// the trimmed message back; otherwise it makes one completion call.
func (s *Service) Submit(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return models.ChatResponse{}, ErrEmptyMessage
	}

	if !s.Status().Available {
		return models.ChatResponse{Reply: fallbackPrefix + message}, nil
	}

	params := req.Resolve(s.defaults)

	s.logger.Debug().
		Str("model", params.Model).
		Float64("temperature", params.Temperature).
		Int("max_tokens", params.MaxTokens).
		Msg("Invoking completion")

	reply, err := s.complete(ctx, params)
	if err != nil {
		return models.ChatResponse{}, &ServerError{Err: err}
	}

	return models.ChatResponse{Reply: reply}, nil
}

func (s *Service) complete(ctx context.Context, params models.ChatParams) (string, error) {
	if s.slots != nil {
		if err := s.slots.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("waiting for completion slot: %w", err)
		}
		defer s.slots.Release(1)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := s.client.InvokeModel(ctx, llm.LLMRequest{
		Model:        params.Model,
		SystemPrompt: params.SystemPrompt,
		Prompt:       params.Message,
		MaxTokens:    params.MaxTokens,
		Temperature:  params.Temperature,
	})
	if err != nil {
		return "", err
	}
	if response == nil {
		return "", fmt.Errorf("empty response from provider")
	}

	s.logger.Debug().
		Str("stop_reason", response.StopReason).
		Dur("duration", time.Since(start)).
		Msg("Completion finished")

	return strings.TrimSpace(response.Content), nil
}
