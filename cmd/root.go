package cmd

import (
	"fmt"
	"os"

	"github.com/samsaffron/term-chat/internal/exitcode"
	"github.com/spf13/cobra"
)

var (
	modelFlag  string
	configFlag string
	debugFlag  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default is $XDG_CONFIG_HOME/term-chat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs (also TERM_CHAT_DEBUG=1)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model to start with (see 'term-chat models')")
}

var rootCmd = &cobra.Command{
	Use:   "term-chat",
	Short: "Chat with OpenAI and Anthropic models in the terminal",
	Long: `term-chat is a terminal chat client that streams replies from OpenAI and
Anthropic models as they are generated.

API keys are read from OPENAI_API_KEY and ANTHROPIC_API_KEY (a .env file in
the working directory is loaded first).

Examples:
  term-chat
  term-chat --model claude-3-7-sonnet-latest
  term-chat models

Keyboard shortcuts:
  Enter        - Send message
  Ctrl+T       - Switch to the next model (or click the model label)
  PgUp/PgDown  - Scroll messages
  Ctrl+C, Esc  - Quit

Slash commands:
  /help        - Show help
  /model NAME  - Switch model
  /models      - List models
  /quit        - Exit chat`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:              runChat,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitcode.Code(err))
	}
}
