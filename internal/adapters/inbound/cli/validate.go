package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/catalog"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/gitinfo"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/report"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/snapshot"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/store"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/tui"
	"github.com/driftcheck/driftcheck/internal/application"
	"github.com/driftcheck/driftcheck/internal/domain"
)

func newValidateCmd() *cobra.Command {
	var (
		jsonOutput bool
		outJSON    string
		outXLSX    string
		outBundle  string
		keyMapPath string
		dbPath     string
		retention  time.Duration
		ciMode     bool
		maxRatio   float64
	)

	cmd := &cobra.Command{
		Use:   "validate <catalog> <snapshot>",
		Short: "Validate a snapshot against a catalog",
		Long:  "Compare a device configuration snapshot (JSON) against an allowed-values catalog (YAML file, directory of YAML files, or XLSX) and report every field's verdict.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var auditStore domain.AuditStore
			if dbPath != "" {
				st, err := store.Open(dbPath)
				if err != nil {
					return fmt.Errorf("opening audit database: %w", err)
				}
				defer st.Close()
				auditStore = st
			}

			svc := application.NewAuditService(
				catalog.New(),
				snapshot.New(),
				report.New(),
				auditStore,
				gitinfo.New(),
			)

			result, err := svc.Run(application.RunOptions{
				CatalogPath:  args[0],
				SnapshotPath: args[1],
				KeyMapPath:   keyMapPath,
				OutJSON:      outJSON,
				OutXLSX:      outXLSX,
				OutBundle:    outBundle,
				Retention:    retention,
			})
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, result.Report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(result.Report))
			}

			if ciMode {
				if result.Report.Meta.LikelyWrongYAML {
					return fmt.Errorf("snapshot likely validated against the wrong catalog (mismatch ratio %.4f)",
						result.Report.Meta.MismatchRatio)
				}
				if result.Report.Meta.MismatchRatio > maxRatio {
					return fmt.Errorf("mismatch ratio %.4f exceeds maximum %.4f",
						result.Report.Meta.MismatchRatio, maxRatio)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output report as JSON")
	cmd.Flags().StringVar(&outJSON, "out-json", "", "Write report JSON to file")
	cmd.Flags().StringVar(&outXLSX, "out-xlsx", "", "Write report workbook to file")
	cmd.Flags().StringVar(&outBundle, "zip", "", "Write report bundle (JSON + XLSX) to zip file")
	cmd.Flags().StringVar(&keyMapPath, "key-map", "", "CSV file mapping catalog fields to snapshot keys")
	cmd.Flags().StringVar(&dbPath, "db", "", "Audit database path (session is persisted when set)")
	cmd.Flags().DurationVar(&retention, "retention", application.DefaultRetention, "How long the persisted session is kept")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 on a wrong-catalog verdict or when mismatch ratio exceeds --max-ratio")
	cmd.Flags().Float64Var(&maxRatio, "max-ratio", 0, "Maximum allowed mismatch ratio for CI mode")

	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
