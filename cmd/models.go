package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/spf13/cobra"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models term-chat can talk to",
	Long: `List the built-in and configured models with their provider and whether
an API key for that provider is available.

Examples:
  term-chat models
  term-chat models --json`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Output as JSON")
}

// modelInfo is one row of the models listing.
type modelInfo struct {
	Key         string              `json:"key"`
	Provider    config.ProviderType `json:"provider"`
	ModelID     string              `json:"model_id"`
	DisplayName string              `json:"display_name"`
	HasKey      bool                `json:"has_key"`
	Default     bool                `json:"default,omitempty"`
}

func runModels(cmd *cobra.Command, args []string) error {
	a, err := loadApp(configFlag)
	if err != nil {
		return err
	}
	defaultKey, err := a.initialModel("")
	if err != nil {
		return err
	}
	return writeModels(cmd.OutOrStdout(), listModels(a.registry, a.credentials.Has, defaultKey), modelsJSON)
}

func listModels(registry *llm.Registry, hasKey func(config.ProviderType) bool, defaultKey string) []modelInfo {
	infos := make([]modelInfo, 0, registry.Len())
	for _, key := range registry.Keys() {
		desc := registry.MustResolve(key)
		infos = append(infos, modelInfo{
			Key:         desc.Key,
			Provider:    desc.Provider,
			ModelID:     desc.WireID,
			DisplayName: desc.DisplayName,
			HasKey:      hasKey(desc.Provider),
			Default:     desc.Key == defaultKey,
		})
	}
	return infos
}

func writeModels(w io.Writer, infos []modelInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPROVIDER\tMODEL ID\tAPI KEY")
	for _, m := range infos {
		key := m.Key
		if m.Default {
			key += " (default)"
		}
		state := "set"
		if !m.HasKey {
			state = "missing " + m.Provider.EnvVar()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, m.Provider, m.ModelID, state)
	}
	return tw.Flush()
}
