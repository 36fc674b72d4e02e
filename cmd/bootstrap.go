package cmd

import (
	"fmt"
	"log/slog"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/exitcode"
	"github.com/samsaffron/term-chat/internal/llm"
)

// app holds everything a command needs after startup.
type app struct {
	cfg         *config.Config
	registry    *llm.Registry
	credentials *config.Credentials
}

// loadApp reads .env and the config file, then builds the model table and
// credential lookup from them.
func loadApp(configPath string) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	registry, err := llm.DefaultRegistry().With(llm.FromConfig(cfg.Models)...)
	if err != nil {
		return nil, exitcode.UsageError(fmt.Errorf("invalid models in config: %w", err))
	}
	creds, err := config.NewCredentials(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, registry: registry, credentials: creds}, nil
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, exitcode.UsageError(fmt.Errorf("failed to load config: %w", err))
	}
	return cfg, nil
}

// initialModel picks the model key to start with: the flag, then the config
// default. Either must name a registered model.
func (a *app) initialModel(flag string) (string, error) {
	key, source := flag, "--model"
	if key == "" {
		key, source = a.cfg.DefaultModel, "default_model"
	}
	if key == "" {
		return llm.DefaultModel, nil
	}
	if _, err := a.registry.Resolve(key); err != nil {
		return "", exitcode.UsageError(fmt.Errorf("%s: %w (see 'term-chat models')", source, err))
	}
	return key, nil
}

// newDispatcher wires both provider adapters with their config overrides.
func (a *app) newDispatcher(logger *slog.Logger) *llm.Dispatcher {
	return llm.NewDispatcher(a.registry, logger,
		llm.NewOpenAIProvider(a.cfg.OpenAI.BaseURL),
		llm.NewAnthropicProvider(a.cfg.Anthropic.BaseURL, a.cfg.SystemPrompt, a.cfg.MaxTokens),
	)
}
