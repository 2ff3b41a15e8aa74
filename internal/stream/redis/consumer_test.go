package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/chat"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// fakeSubmitter records requests and returns a canned answer
type fakeSubmitter struct {
	reply     string
	err       error
	callCount int
	last      models.ChatRequest
}

func (f *fakeSubmitter) Submit(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	f.callCount++
	f.last = req
	if f.err != nil {
		return models.ChatResponse{}, f.err
	}
	return models.ChatResponse{Reply: f.reply}, nil
}

func newTestConsumer(submitter Submitter) *Consumer {
	logger := zerolog.Nop()
	return NewConsumer(nil, Config{
		Stream:      "chat-requests",
		Group:       "chat-group",
		ReplyStream: "chat-replies",
	}, submitter, &logger)
}

func TestConsumer_Handle_Reply(t *testing.T) {
	submitter := &fakeSubmitter{reply: "Hello!"}
	consumer := newTestConsumer(submitter)

	replyTo, values, ok := consumer.handle(context.Background(), redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			FieldPayload:   `{"message": "hi", "max_tokens": 10}`,
			FieldRequestID: "req-1",
		},
	})

	if !ok {
		t.Fatal("Expected message to be handled")
	}
	if replyTo != "chat-replies" {
		t.Errorf("Expected default reply stream, got '%s'", replyTo)
	}
	if values[FieldRequestID] != "req-1" || values[FieldReply] != "Hello!" {
		t.Errorf("Unexpected reply values %v", values)
	}
	if submitter.last.Message != "hi" || submitter.last.MaxTokens == nil || *submitter.last.MaxTokens != 10 {
		t.Errorf("Unexpected forwarded request %+v", submitter.last)
	}
}

func TestConsumer_Handle_ReplyToOverride(t *testing.T) {
	consumer := newTestConsumer(&fakeSubmitter{reply: "ok"})

	replyTo, values, ok := consumer.handle(context.Background(), redis.XMessage{
		ID: "2-0",
		Values: map[string]any{
			FieldPayload: `{"message": "hi"}`,
			FieldReplyTo: "client-42",
		},
	})

	if !ok || replyTo != "client-42" {
		t.Errorf("Expected reply to 'client-42', got '%s' (ok=%v)", replyTo, ok)
	}
	// Without a request_id the stream message ID is used.
	if values[FieldRequestID] != "2-0" {
		t.Errorf("Expected request_id '2-0', got %v", values[FieldRequestID])
	}
}

func TestConsumer_Handle_Errors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{name: "client error", err: chat.ErrEmptyMessage, expectedCode: "400"},
		{name: "server error", err: &chat.ServerError{Err: errors.New("rate limited")}, expectedCode: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := newTestConsumer(&fakeSubmitter{err: tt.err})

			_, values, ok := consumer.handle(context.Background(), redis.XMessage{
				ID:     "3-0",
				Values: map[string]any{FieldPayload: `{"message": "hi"}`},
			})

			if !ok {
				t.Fatal("Expected failure to be reported, not dropped")
			}
			if values[FieldCode] != tt.expectedCode {
				t.Errorf("Expected code %s, got %v", tt.expectedCode, values[FieldCode])
			}
			if values[FieldError] != tt.err.Error() {
				t.Errorf("Expected error %q, got %v", tt.err.Error(), values[FieldError])
			}
			if _, hasReply := values[FieldReply]; hasReply {
				t.Error("Expected no reply field on failure")
			}
		})
	}
}

func TestConsumer_Handle_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{name: "missing payload", values: map[string]any{"other": "x"}},
		{name: "invalid json", values: map[string]any{FieldPayload: `{"message":`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := &fakeSubmitter{reply: "unused"}
			consumer := newTestConsumer(submitter)

			_, _, ok := consumer.handle(context.Background(), redis.XMessage{ID: "4-0", Values: tt.values})

			if ok {
				t.Error("Expected malformed message to be dropped")
			}
			if submitter.callCount != 0 {
				t.Errorf("Expected no submit calls, got %d", submitter.callCount)
			}
		})
	}
}
