package config

// Config represents the chat defaults file
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig overrides the values applied to fields a request omits.
// Unset entries keep the built-in defaults.
type DefaultsConfig struct {
	SystemPrompt *string  `yaml:"system_prompt"`
	Model        *string  `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
	MaxTokens    *int     `yaml:"max_tokens"`
}
