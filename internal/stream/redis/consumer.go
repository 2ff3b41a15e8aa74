package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/chat"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	FieldPayload   = "payload"
	FieldReplyTo   = "reply_to"
	FieldRequestID = "request_id"
	FieldReply     = "reply"
	FieldError     = "error"
	FieldCode      = "code"
)

type Config struct {
	Addr         string
	Password     string
	Stream       string
	Group        string
	ConsumerName string
	ReplyStream  string
}

type Submitter interface {
	Submit(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

type Consumer struct {
	client    *redis.Client
	cfg       Config
	submitter Submitter
	logger    *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg Config, submitter Submitter, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:    client,
		cfg:       cfg,
		submitter: submitter,
		logger:    logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	replyTo, values, ok := c.handle(ctx, msg)
	if ok {
		if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: replyTo, Values: values}).Err(); err != nil {
			// Left un-ACKed so it stays in the pending list.
			c.logger.Error().Err(err).Str("id", msg.ID).Str("reply_to", replyTo).Msg("Failed to publish reply")
			return
		}
	}

	c.ack(ctx, msg.ID)
}

// handle runs one chat request carried by msg and returns the stream the
// reply goes to and its fields. ok is false for malformed messages, which
// are dropped.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) (replyTo string, values map[string]any, ok bool) {
	payload, isString := msg.Values[FieldPayload].(string)
	if !isString {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		return "", nil, false
	}

	var chatRequest models.ChatRequest
	if err := json.Unmarshal([]byte(payload), &chatRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		return "", nil, false
	}

	replyTo = c.cfg.ReplyStream
	if s, isString := msg.Values[FieldReplyTo].(string); isString && s != "" {
		replyTo = s
	}

	requestID := msg.ID
	if s, isString := msg.Values[FieldRequestID].(string); isString && s != "" {
		requestID = s
	}

	values = map[string]any{FieldRequestID: requestID}

	chatResponse, err := c.submitter.Submit(ctx, chatRequest)
	if err != nil {
		values[FieldError] = err.Error()
		values[FieldCode] = strconv.Itoa(chat.HTTPStatus(err))

		c.logger.Warn().Err(err).Str("id", msg.ID).Str("request_id", requestID).Msg("Chat request failed")
		return replyTo, values, true
	}

	values[FieldReply] = chatResponse.Reply

	c.logger.Info().Str("id", msg.ID).Str("request_id", requestID).Msg("Chat request answered")
	return replyTo, values, true
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
