package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samsaffron/term-chat/internal/config"
)

const logFileName = "term-chat.log"

// logLevel resolves the level from --debug, TERM_CHAT_DEBUG and log_level.
func logLevel(cfgLevel string, debug bool, getenv func(string) string) (slog.Level, error) {
	if debug || config.EnvBool(getenv, config.DebugEnvVar, false) {
		return slog.LevelDebug, nil
	}
	if strings.TrimSpace(cfgLevel) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfgLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// openLogger writes JSON lines to the state dir log file, since the terminal
// belongs to the TUI. The returned closer flushes the file.
func openLogger(level slog.Level) (*slog.Logger, io.Closer, error) {
	dir, err := config.GetStateDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f, level), f, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
