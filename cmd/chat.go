package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/exitcode"
	"github.com/samsaffron/term-chat/internal/tui/chat"
	"github.com/samsaffron/term-chat/internal/ui"
	"github.com/spf13/cobra"
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(configFlag)
	if err != nil {
		return err
	}
	initial, err := a.initialModel(modelFlag)
	if err != nil {
		return err
	}

	level, err := logLevel(a.cfg.LogLevel, debugFlag, os.Getenv)
	if err != nil {
		return exitcode.UsageError(err)
	}
	logger, closer, err := openLogger(level)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting chat",
		"version", Version,
		"model", initial,
		"models", a.registry.Len(),
		"openai_key", a.credentials.Has(config.ProviderTypeOpenAI),
		"anthropic_key", a.credentials.Has(config.ProviderTypeAnthropic),
	)

	model := chat.New(chat.Options{
		Dispatcher:  a.newDispatcher(logger),
		Credentials: a.credentials,
		Model:       initial,
		Styles:      ui.DefaultStyles(),
		Logger:      logger,
		Context:     ctx,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			logger.Info("chat interrupted")
			return exitcode.Interrupt(errors.New("interrupted"))
		}
		return fmt.Errorf("failed to run chat: %w", err)
	}
	if m, ok := final.(*chat.Model); ok && m.Err() != nil {
		return fmt.Errorf("chat: %w", m.Err())
	}
	logger.Info("chat finished")
	return nil
}
