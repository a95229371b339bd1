package cli

import (
	"github.com/spf13/cobra"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/storage/sqlite"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

var (
	historyLimit  int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions",
	Long:  `Lists recently converted files, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of records")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show failed conversions only")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(historyDataDir)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	records, err := store.List(cmd.Context(), domain.HistoryFilter{
		Limit:      historyLimit,
		FailedOnly: historyFailed,
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No conversions recorded yet.")
		return nil
	}

	for _, rec := range records {
		status := "ok"
		if rec.Status == domain.JobFailed {
			status = "fail"
		}
		cmd.Printf("%s  [%-4s] %s", rec.CreatedAt.Local().Format("2006-01-02 15:04"), status, rec.SourcePath)
		if rec.OutputPath != "" {
			cmd.Printf(" -> %s", rec.OutputPath)
		}
		cmd.Printf("  (%s)\n", rec.Provider)
		if rec.Error != "" {
			cmd.Printf("                   %s\n", rec.Error)
		}
		if rec.NotionURL != "" {
			cmd.Printf("                   notion: %s\n", rec.NotionURL)
		}
	}

	return nil
}
