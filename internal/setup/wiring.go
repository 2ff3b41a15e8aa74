package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/chat"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/config"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm/gpt"
	"github.com/rs/zerolog"
)

type Config struct {
	Provider       string
	OpenAIKey      string
	OpenAIBaseURL  string
	AWSRegion      string
	ClaudeModelID  string
	DefaultsPath   string
	RequestTimeout time.Duration
	MaxConcurrency int64
	LogLevel       string

	Port      string
	StaticDir string

	RedisAddr     string
	RedisPassword string
	RequestStream string
	ReplyStream   string
	ConsumerName  string
}

type Dependencies struct {
	Service *chat.Service
	Logger  *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		Provider:       getEnv("LLM_PROVIDER", gpt.ProviderName),
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		AWSRegion:      getEnv("AWS_REGION", ""),
		ClaudeModelID:  getEnv("CLAUDE_MODEL_ID", ""),
		DefaultsPath:   getEnv("CHAT_DEFAULTS_PATH", config.DefaultPath),
		RequestTimeout: getEnvDuration("CHAT_REQUEST_TIMEOUT", 60*time.Second),
		MaxConcurrency: int64(getEnvInt("CHAT_MAX_CONCURRENCY", 16)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		Port:      getEnv("CHAT_API_PORT", "8000"),
		StaticDir: getEnv("STATIC_DIR", "static"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RequestStream: getEnv("CHAT_REQUEST_STREAM", "chat-requests"),
		ReplyStream:   getEnv("CHAT_REPLY_STREAM", "chat-replies"),
		ConsumerName:  getEnv("HOSTNAME", "chat-worker"),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	defaults, err := config.LoadChatDefaults(cfg.DefaultsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat defaults: %w", err)
	}

	llmClient := createLLMClient(ctx, cfg, logger)

	service := chat.NewService(llmClient, chat.Options{
		Defaults:       defaults,
		Timeout:        cfg.RequestTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
	}, logger)

	return &Dependencies{
		Service: service,
		Logger:  logger,
	}, nil
}

// createLLMClient never fails: a missing credential or a construction error
// yields an unavailable client, and the service answers in fallback mode.
func createLLMClient(ctx context.Context, cfg *Config, logger *zerolog.Logger) llm.LLMClient {
	switch cfg.Provider {
	case gpt.ProviderName:
		if cfg.OpenAIKey == "" {
			logger.Info().Msg("OPENAI_API_KEY not set, using local fallback")
			return llm.NewUnavailable(gpt.ProviderName, nil)
		}
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Unable to create OpenAI client, using local fallback")
			return llm.NewUnavailable(gpt.ProviderName, err)
		}
		logger.Info().Str("provider", gpt.ProviderName).Msg("Completion client initialized")
		return client

	case bedrock.ProviderName:
		if cfg.AWSRegion == "" || cfg.ClaudeModelID == "" {
			logger.Info().Msg("AWS_REGION or CLAUDE_MODEL_ID not set, using local fallback")
			return llm.NewUnavailable(bedrock.ProviderName, nil)
		}
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			logger.Warn().Err(err).Msg("Unable to create Bedrock client, using local fallback")
			return llm.NewUnavailable(bedrock.ProviderName, err)
		}
		logger.Info().
			Str("provider", bedrock.ProviderName).
			Str("region", cfg.AWSRegion).
			Str("model", cfg.ClaudeModelID).
			Msg("Completion client initialized")
		return client

	default:
		err := fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
		logger.Warn().Err(err).Msg("Using local fallback")
		return llm.NewUnavailable(cfg.Provider, err)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
