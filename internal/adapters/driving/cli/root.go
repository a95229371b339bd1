// Package cli implements the command-line interface using cobra.
// Commands are wired to core services through package-level variables
// set by the composition root before Execute is called.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// configStore persists the TOML configuration. Set via SetConfigStore.
var configStore driven.ConfigStore

// historyDataDir overrides the history database location. Empty means
// the store's default under the user's home directory.
var historyDataDir string

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "notedmd",
	Short: "Convert handwritten notes to Markdown with AI",
	Long: `noted.md converts images and PDFs of handwritten notes into clean
Markdown files using an AI provider of your choice.

Supported providers: Gemini, Claude, Ollama (local), and any
OpenAI-compatible API. Run 'notedmd config --edit' to get started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetConfigStore injects the configuration store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetHistoryDataDir overrides where the conversion history database lives.
func SetHistoryDataDir(dir string) {
	historyDataDir = dir
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
