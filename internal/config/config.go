package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProviderType identifies the wire protocol family of a model.
type ProviderType string

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// DefaultSystemPrompt is sent as the system instruction to anthropic models.
const DefaultSystemPrompt = "You are an assistant; be helpful and honest."

// DefaultMaxTokens bounds anthropic responses.
const DefaultMaxTokens = 2048

// ProviderTypes lists the supported provider types in display order.
func ProviderTypes() []ProviderType {
	return []ProviderType{ProviderTypeOpenAI, ProviderTypeAnthropic}
}

// Valid reports whether p is a supported provider type.
func (p ProviderType) Valid() bool {
	return p == ProviderTypeOpenAI || p == ProviderTypeAnthropic
}

// EnvVar returns the environment variable holding the API key for p.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderTypeOpenAI:
		return "OPENAI_API_KEY"
	case ProviderTypeAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return strings.ToUpper(string(p)) + "_API_KEY"
	}
}

type Config struct {
	DefaultModel string         `mapstructure:"default_model"`
	MaxTokens    int            `mapstructure:"max_tokens"`
	SystemPrompt string         `mapstructure:"system_prompt"`
	LogLevel     string         `mapstructure:"log_level"`
	OpenAI       ProviderConfig `mapstructure:"openai"`
	Anthropic    ProviderConfig `mapstructure:"anthropic"`
	Models       []ModelConfig  `mapstructure:"models"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ModelConfig declares an extra model on top of the built-in table.
type ModelConfig struct {
	Key         string       `mapstructure:"key"`
	Provider    ProviderType `mapstructure:"provider"`
	ModelID     string       `mapstructure:"model_id"`
	DisplayName string       `mapstructure:"display_name"`
}

// Provider returns the per-provider section for p.
func (c *Config) Provider(p ProviderType) ProviderConfig {
	switch p {
	case ProviderTypeOpenAI:
		return c.OpenAI
	case ProviderTypeAnthropic:
		return c.Anthropic
	default:
		return ProviderConfig{}
	}
}

// Load reads config.yaml from the user config dir or the working directory.
// A missing file yields the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := GetConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile reads the config from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("default_model", "gpt-4o")
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("system_prompt", DefaultSystemPrompt)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	for i, m := range cfg.Models {
		if !m.Provider.Valid() {
			return nil, fmt.Errorf("models[%d] (%s): unsupported provider %q", i, m.Key, m.Provider)
		}
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from the given files (".env" when none are given).
// Missing files are skipped and already-set variables are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// GetConfigDir returns the directory holding config.yaml.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	return filepath.Join(configDir, "term-chat"), nil
}

// GetStateDir returns the XDG state directory for logs.
func GetStateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "term-chat"), nil
}
