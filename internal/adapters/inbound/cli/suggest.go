package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/catalog"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/snapshot"
	"github.com/driftcheck/driftcheck/internal/domain/match"
)

func newSuggestCmd() *cobra.Command {
	var (
		jsonOutput bool
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "suggest <catalog> <snapshot>",
		Short: "Suggest snapshot keys for catalog fields",
		Long:  "For every catalog field, rank the snapshot keys that look like the same setting under a different name. Useful for building a key map when vendors rename fields.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := catalog.New().Load(args[0])
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			snap, err := snapshot.New().Load(args[1])
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			keys := make([]string, 0, tree.Len())
			for _, p := range tree.Pairs() {
				keys = append(keys, p.Key)
			}
			suggestions := match.SuggestKeys(keys, snap, threshold)

			if jsonOutput {
				return renderJSON(cmd, suggestions)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no suggestions")
				return nil
			}
			for _, s := range suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%.4f)\n", s.CatalogKey, s.SnapshotKey, s.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output suggestions as JSON")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.45, "Minimum similarity for a suggestion")

	return cmd
}
