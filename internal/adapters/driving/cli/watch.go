package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/ai"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/notion"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/storage/sqlite"
	"github.com/notedmd/notedmd-cli/internal/adapters/driving/watch"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
	"github.com/notedmd/notedmd-cli/internal/core/services"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

var (
	watchOutputDir string
	watchPrompt    string
	watchNotion    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and convert new files",
	Long: `Monitors a directory and converts every supported file dropped into
it. Runs until interrupted.

Example:
  notedmd watch ~/scans -o ~/notes`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputDir, "output", "o", "", "directory to write Markdown files to")
	watchCmd.Flags().StringVarP(&watchPrompt, "prompt", "p", "", "custom prompt for converted files")
	watchCmd.Flags().BoolVarP(&watchNotion, "notion", "n", false, "send results to the configured Notion database")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	transcriber, err := ai.CreateTranscriber(cfg, ai.Overrides{
		APIKey: resolveAPIKey(cfg.ActiveProvider),
	})
	if err != nil {
		return err
	}
	defer transcriber.Close() //nolint:errcheck

	var publisher driven.Publisher
	if watchNotion {
		p, err := notion.NewPublisher(notionConfigWithEnv(cfg.Notion))
		if err != nil {
			return fmt.Errorf("%w: set notion.api_key and notion.database_id in the config", err)
		}
		publisher = p
	}

	var history driven.HistoryStore
	if store, err := sqlite.NewStore(historyDataDir); err != nil {
		logger.Warn("history store unavailable: %v", err)
	} else {
		history = store
		defer store.Close() //nolint:errcheck
	}

	converter, err := services.NewConverter(services.ConverterConfig{
		Transcriber: transcriber,
		Provider:    cfg.ActiveProvider,
		Publisher:   publisher,
		History:     history,
	})
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(converter, watch.Config{
		Dir:       args[0],
		OutputDir: watchOutputDir,
		Prompt:    watchPrompt,
		Publish:   watchNotion,
		Out:       cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	return watcher.Run(cmd.Context())
}
