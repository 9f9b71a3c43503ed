package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/browsetrace/internal/store"
)

// PurgeOptions holds flags for the purge command.
type PurgeOptions struct {
	*RootOptions
	Database string
	Yes      bool
}

// PurgeResult holds the deletion count for output.
type PurgeResult struct {
	Deleted int64 `json:"deleted"`
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurgeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all stored events",
		Long: `Delete every event in the database. This cannot be undone, so the
--yes flag is required.

Example:
  browsetrace purge --db ~/.browsetrace/events.db --yes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deletion")

	return cmd
}

func runPurge(opts *PurgeOptions, cmd *cobra.Command) error {
	if !opts.Yes {
		return NewExitError(ExitCommandError, "refusing to delete without --yes")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	count, err := st.DeleteAllEvents(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to delete events", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.JSON(PurgeResult{Deleted: count})
	}
	out.Line("Deleted %d events.", count)
	return nil
}
