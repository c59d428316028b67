package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/snapshot"
	"github.com/driftcheck/driftcheck/internal/domain/match"
)

func newSearchCmd() *cobra.Command {
	var (
		jsonOutput bool
		minSim     float64
	)

	cmd := &cobra.Command{
		Use:   "search <snapshot> <query>",
		Short: "Search snapshot values for a string",
		Long:  "Scan every value in a snapshot for fuzzy matches of the query, best match first. Handy for finding where a setting actually lives.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.New().Load(args[0])
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			hits := match.FindMatches(snap, args[1], minSim)

			if jsonOutput {
				return renderJSON(cmd, hits)
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%.4f)\n", h.Path, h.Value, h.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output matches as JSON")
	cmd.Flags().Float64Var(&minSim, "min", 0.45, "Minimum similarity for a match")

	return cmd
}
