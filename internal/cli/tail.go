package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/browsetrace/internal/event"
	"github.com/roach88/browsetrace/internal/store"
)

// TailOptions holds flags for the tail command.
type TailOptions struct {
	*RootOptions
	Database string
	Type     string
	Since    int64
	Until    int64
	Limit    int
}

// NewTailCommand creates the tail command.
func NewTailCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TailOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent events",
		Long: `Read the most recent events straight from the database, newest first.

Filters combine conjunctively. Timestamps are Unix milliseconds.

Examples:
  browsetrace tail --db ~/.browsetrace/events.db
  browsetrace tail --db ./events.db --type input --limit 5
  browsetrace tail --db ./events.db --since 1700000000000 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTail(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter to one event type")
	cmd.Flags().Int64Var(&opts.Since, "since", 0, "inclusive lower bound on ts_utc (ms)")
	cmd.Flags().Int64Var(&opts.Until, "until", 0, "inclusive upper bound on ts_utc (ms)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of events")

	return cmd
}

func runTail(opts *TailOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	filter := store.Filter{Limit: opts.Limit}
	if opts.Type != "" {
		filter.Type = &opts.Type
	}
	if opts.Since > 0 {
		filter.SinceUTC = &opts.Since
	}
	if opts.Until > 0 {
		filter.UntilUTC = &opts.Until
	}

	events, err := st.GetEvents(context.Background(), filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query events", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.JSON(event.Batch{Events: events})
	}

	if len(events) == 0 {
		out.Line("No events found.")
		return nil
	}
	for _, e := range events {
		out.Line("%s  %-12s  %s%s", formatTS(e.TSUTC), e.Type, e.URL, formatTitle(e.Title))
	}
	return nil
}

func formatTS(tsUTC int64) string {
	return time.UnixMilli(tsUTC).UTC().Format(time.RFC3339)
}

func formatTitle(title *string) string {
	if title == nil || *title == "" {
		return ""
	}
	return "  (" + *title + ")"
}
