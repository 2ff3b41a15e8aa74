package stream

import (
	"context"
	"fmt"

	red "github.com/povarna/generative-ai-agents/chat-assistant/internal/redis"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/stream/redis"
	"github.com/rs/zerolog"
)

type StreamConfig struct {
	Provider    string // only redis today
	RedisConfig *redis.Config
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	submitter redis.Submitter,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := red.Connect(ctx, red.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			Attempts: 5,
		}, logger)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, *cfg.RedisConfig, submitter, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", provider)
	}
}
