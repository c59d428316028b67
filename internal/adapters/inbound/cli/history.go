package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/store"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/tui"
)

const defaultDBPath = "driftcheck.db"

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Audit session history",
		Long:  "Commands for inspecting and maintaining the audit database of past validation sessions.",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryPurgeCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		dbPath     string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past validation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening audit database: %w", err)
			}
			defer st.Close()

			records, err := st.List(limit)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, records)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "Audit database path")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of sessions to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output sessions as JSON")

	return cmd
}

func newHistoryPurgeCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions past their retention deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening audit database: %w", err)
			}
			defer st.Close()

			purged, err := st.PurgeExpired(time.Now())
			if err != nil {
				return fmt.Errorf("purging expired sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", purged)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "Audit database path")

	return cmd
}
