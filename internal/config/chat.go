package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"go.yaml.in/yaml/v3"
)

const DefaultPath = "configs/chat.yaml"

// LoadChatDefaults reads request defaults from path. A missing file is not an
// error: the built-in defaults are returned.
func LoadChatDefaults(path string) (models.Defaults, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.DefaultChatDefaults(), nil
	}
	if err != nil {
		return models.Defaults{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return models.Defaults{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	defaults := applyDefaults(cfg.Defaults)

	if err := validate(defaults); err != nil {
		return models.Defaults{}, fmt.Errorf("invalid chat defaults in %s: %w", path, err)
	}

	return defaults, nil
}

func applyDefaults(cfg DefaultsConfig) models.Defaults {
	defaults := models.DefaultChatDefaults()

	if cfg.SystemPrompt != nil {
		defaults.SystemPrompt = *cfg.SystemPrompt
	}
	if cfg.Model != nil {
		defaults.Model = *cfg.Model
	}
	if cfg.Temperature != nil {
		defaults.Temperature = *cfg.Temperature
	}
	if cfg.MaxTokens != nil {
		defaults.MaxTokens = *cfg.MaxTokens
	}

	return defaults
}

func validate(d models.Defaults) error {
	if d.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if d.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", d.MaxTokens)
	}
	if d.Temperature < 0 || d.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", d.Temperature)
	}
	return nil
}
