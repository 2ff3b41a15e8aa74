package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	red "github.com/povarna/generative-ai-agents/chat-assistant/internal/redis"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/setup"
	stream "github.com/povarna/generative-ai-agents/chat-assistant/internal/stream/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON ChatRequest")
	replyTo := flag.String("reply-to", "", "Reply stream (default: CHAT_REPLY_STREAM)")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, `Usage: producer -d '{"message": "hello"}'`)
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *replyTo); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, replyTo string) error {
	_ = godotenv.Load()
	cfg := setup.LoadConfig()
	logger := log.Logger

	// Reject bad payloads before they reach the stream
	var req models.ChatRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return fmt.Errorf("invalid ChatRequest: %w", err)
	}

	if replyTo == "" {
		replyTo = cfg.ReplyStream
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, red.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Attempts: 3,
	}, &logger)
	if err != nil {
		return err
	}
	defer client.Close()

	requestID := uuid.NewString()

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: cfg.RequestStream,
		Values: map[string]any{
			stream.FieldPayload:   data,
			stream.FieldRequestID: requestID,
			stream.FieldReplyTo:   replyTo,
		},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().
		Str("stream", cfg.RequestStream).
		Str("id", id).
		Str("request_id", requestID).
		Str("reply_to", replyTo).
		Msg("Published successfully!")
	return nil
}
