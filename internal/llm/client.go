package llm

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	Status() Status
}

// Unavailable stands in for a provider that has no credential configured or
// could not be constructed. Callers check Status before invoking it.
type Unavailable struct {
	provider string
	err      error
}

func NewUnavailable(provider string, err error) *Unavailable {
	return &Unavailable{provider: provider, err: err}
}

func (u *Unavailable) InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	if u.err != nil {
		return nil, fmt.Errorf("%s client unavailable: %w", u.provider, u.err)
	}
	return nil, fmt.Errorf("%s client unavailable: no credential configured", u.provider)
}

func (u *Unavailable) Status() Status {
	return Status{Provider: u.provider, Available: false, Err: u.err}
}
