package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/db"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent smoke runs",
	Long: `Show runs recorded with --history-db, most recent first.

Examples:
  rentalsmoke history --history-db smoke.db
  rentalsmoke history --history-db smoke.db --limit 50`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show, 0 for all")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&flags, cmd.Flags().Changed, cmd.ErrOrStderr())
	if err != nil {
		return configError(err)
	}
	if cfg.HistoryDB == "" {
		return configError(errors.New("no history database configured (use --history-db or RENTALSMOKE_HISTORY_DB)"))
	}

	client, err := db.NewClient(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer client.Close()

	runs, err := client.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	renderHistory(cmd.OutOrStdout(), runs)
	return nil
}

func renderHistory(w io.Writer, runs []*db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Started", "Target", "Passed", "Failed", "Rate", "Duration", "Result"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, run := range runs {
		rate := 0.0
		if run.Total > 0 {
			rate = float64(run.Passed) / float64(run.Total) * 100
		}
		status := "FAIL"
		if run.Success() {
			status = "PASS"
		}
		table.Append([]string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.BaseURL,
			strconv.Itoa(run.Passed),
			strconv.Itoa(run.Failed),
			fmt.Sprintf("%.1f%%", rate),
			(time.Duration(run.DurationMs) * time.Millisecond).String(),
			status,
		})
	}

	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
