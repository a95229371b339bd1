package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/ai"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/notion"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/storage/sqlite"
	"github.com/notedmd/notedmd-cli/internal/adapters/driving/tui"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
	"github.com/notedmd/notedmd-cli/internal/core/services"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

var (
	convertOutputDir string
	convertPrompt    string
	convertAPIKey    string
	convertNotion    bool
	convertJobs      int
	convertPlain     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [path]",
	Short: "Convert handwritten notes to Markdown",
	Long: `Converts an image or PDF of handwritten notes into a Markdown file
using the configured AI provider. When given a directory, every
supported file directly inside it is converted.

Supported file types: .pdf, .jpg, .jpeg, .png

Examples:
  # Convert one file, writing notes.md next to it
  notedmd convert notes.jpg

  # Convert a directory into ./out
  notedmd convert ./scans -o ./out

  # Convert and send the result to Notion
  notedmd convert notes.pdf -n`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutputDir, "output", "o", "", "directory to write Markdown files to")
	convertCmd.Flags().StringVarP(&convertPrompt, "prompt", "p", "", "custom prompt for this run only")
	convertCmd.Flags().StringVar(&convertAPIKey, "api-key", "", "API key for this run only (not saved)")
	convertCmd.Flags().BoolVarP(&convertNotion, "notion", "n", false, "send results to the configured Notion database")
	convertCmd.Flags().IntVar(&convertJobs, "jobs", 1, "number of files to convert concurrently")
	convertCmd.Flags().BoolVar(&convertPlain, "plain", false, "disable the progress display")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
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
	if convertNotion {
		notionCfg := notionConfigWithEnv(cfg.Notion)
		p, err := notion.NewPublisher(notionCfg)
		if err != nil {
			return fmt.Errorf("%w: set notion.api_key and notion.database_id in the config", err)
		}
		publisher = p
	}

	// History is best effort; conversion proceeds without it.
	var history driven.HistoryStore
	if store, err := sqlite.NewStore(historyDataDir); err != nil {
		logger.Warn("history store unavailable: %v", err)
	} else {
		history = store
		defer store.Close() //nolint:errcheck
	}

	interactive := !convertPlain && term.IsTerminal(int(os.Stdout.Fd()))

	var reporter driving.ProgressReporter
	var display *tui.Reporter
	if interactive {
		display = tui.NewReporter(transcriber.ModelName())
		reporter = display
	} else {
		reporter = &consoleReporter{cmd: cmd}
	}

	converter, err := services.NewConverter(services.ConverterConfig{
		Transcriber: transcriber,
		Provider:    cfg.ActiveProvider,
		Publisher:   publisher,
		History:     history,
		Reporter:    reporter,
		Workers:     convertJobs,
	})
	if err != nil {
		return err
	}

	req := driving.ConversionRequest{
		Path:      args[0],
		OutputDir: convertOutputDir,
		Prompt:    convertPrompt,
		Publish:   convertNotion,
	}

	var summary *domain.BatchSummary
	var convertErr error
	if interactive {
		done := make(chan struct{})
		go func() {
			defer close(done)
			summary, convertErr = converter.Convert(cmd.Context(), req)
		}()
		if err := display.Run(); err != nil {
			// The batch keeps running headless; Kill unblocks any
			// event sends so the converter can finish.
			display.Kill()
			logger.Warn("progress display failed: %v", err)
		}
		<-done
	} else {
		summary, convertErr = converter.Convert(cmd.Context(), req)
	}
	if convertErr != nil {
		return convertErr
	}

	printSummary(cmd, summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", domain.ErrJobsFailed, summary.Failed, summary.Total)
	}
	return nil
}

// loadConfig loads the persisted configuration. A missing file surfaces
// domain.ErrConfigMissing untouched so the caller can map the exit code.
func loadConfig() (*domain.Config, error) {
	if configStore == nil {
		return nil, errors.New("config store not configured")
	}
	cfg, err := configStore.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveAPIKey picks the per-run key: the --api-key flag wins, then the
// provider's conventional environment variable. Empty means use the
// stored key.
func resolveAPIKey(provider domain.Provider) string {
	if convertAPIKey != "" {
		return convertAPIKey
	}
	switch provider {
	case domain.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case domain.ProviderClaude:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// notionConfigWithEnv overlays NOTION_API_KEY on the stored Notion
// configuration without persisting it.
func notionConfigWithEnv(cfg *domain.NotionConfig) *domain.NotionConfig {
	envKey := os.Getenv("NOTION_API_KEY")
	if envKey == "" {
		return cfg
	}
	overlaid := domain.NotionConfig{APIKey: envKey}
	if cfg != nil {
		overlaid = *cfg
		overlaid.APIKey = envKey
	}
	return &overlaid
}

// consoleReporter prints one line per job transition. Used when stdout
// is not a terminal or --plain is set.
type consoleReporter struct {
	cmd *cobra.Command
}

var _ driving.ProgressReporter = (*consoleReporter)(nil)

func (r *consoleReporter) BatchStarted(total int) {
	r.cmd.Printf("Converting %d file(s)...\n", total)
}

func (r *consoleReporter) JobStarted(job domain.ConversionJob) {
	r.cmd.Printf("  converting %s\n", job.SourcePath)
}

func (r *consoleReporter) JobFinished(result domain.ConversionResult) {
	if result.Succeeded() {
		r.cmd.Printf("  done %s (%s)\n", result.OutputPath, result.Duration.Round(100*time.Millisecond))
		return
	}
	r.cmd.Printf("  failed %s: %v\n", result.Job.SourcePath, result.Err)
}

func (r *consoleReporter) BatchFinished(_ domain.BatchSummary) {}

// printSummary writes the per-file outcome table after the batch.
func printSummary(cmd *cobra.Command, summary *domain.BatchSummary) {
	cmd.Println()
	for _, result := range summary.Results {
		if result.Succeeded() {
			cmd.Printf("  [ok]   %s -> %s\n", result.Job.SourcePath, result.OutputPath)
			if result.NotionURL != "" {
				cmd.Printf("         notion: %s\n", result.NotionURL)
			}
			if result.NotionErr != nil {
				cmd.Printf("         notion failed: %v\n", result.NotionErr)
			}
		} else {
			cmd.Printf("  [fail] %s: %v\n", result.Job.SourcePath, result.Err)
		}
	}
	cmd.Println()
	cmd.Printf("%d of %d file(s) converted.\n", summary.Succeeded, summary.Total)
}
