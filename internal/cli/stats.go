package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/browsetrace/internal/event"
	"github.com/roach88/browsetrace/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
}

// StatsResult holds event counts for output.
type StatsResult struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show event counts",
		Long: `Show the total number of stored events and a per-type breakdown.

Examples:
  browsetrace stats --db ~/.browsetrace/events.db
  browsetrace stats --db ./events.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := context.Background()
	total, err := st.CountEvents(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count events", err)
	}
	byType, err := st.CountByType(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count events by type", err)
	}

	result := StatsResult{Total: total, ByType: byType}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.JSON(result)
	}

	out.Line("Total events: %d", result.Total)
	for _, typ := range event.Types() {
		if n, ok := result.ByType[typ]; ok {
			out.Line("  %-12s %d", typ, n)
		}
	}
	return nil
}
