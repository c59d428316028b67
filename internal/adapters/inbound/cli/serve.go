package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/internal/adapters/inbound/httpapi"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/store"
	"github.com/driftcheck/driftcheck/internal/domain"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		dbPath  string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP API",
		Long:  "Serve the validation API over HTTP. POST a catalog and snapshot to /api/v1/validate and get the report back as JSON or a zip bundle.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      slog.LevelInfo,
				TimeFormat: time.Kitchen,
			}))

			var auditStore domain.AuditStore
			if !noStore {
				st, err := store.Open(dbPath)
				if err != nil {
					return fmt.Errorf("opening audit database: %w", err)
				}
				defer st.Close()
				auditStore = st
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpapi.NewServer(log, auditStore)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "Audit database path")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Disable session persistence")

	return cmd
}
