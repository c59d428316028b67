package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/catalog"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/report"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/snapshot"
	"github.com/driftcheck/driftcheck/internal/application"
	"github.com/driftcheck/driftcheck/internal/domain"
)

// maxUploadSize bounds catalog + snapshot uploads.
const maxUploadSize = 8 << 20 // 8 MiB

// Server exposes validation over HTTP: multipart catalog + snapshot
// uploads in, JSON report or ZIP bundle out.
type Server struct {
	log   *slog.Logger
	store domain.AuditStore

	catalogs  *catalog.Loader
	snapshots *snapshot.Loader
}

// NewServer creates a Server. store may be nil to disable session
// persistence.
func NewServer(log *slog.Logger, store domain.AuditStore) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:       log,
		store:     store,
		catalogs:  catalog.New(),
		snapshots: snapshot.New(),
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/validate", s.handleValidate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleValidate accepts a multipart form with a "catalog" file (YAML or
// XLSX) and a "snapshot" file (JSON), validates, and responds with the
// report. ?format=zip streams a ZIP of report.json + report.xlsx instead.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.fail(w, http.StatusBadRequest, "parsing multipart form", err)
		return
	}

	catalogTree, err := s.readCatalog(r)
	if err != nil {
		s.fail(w, statusFor(err), "reading catalog", err)
		return
	}

	snapshotMap, err := s.readSnapshot(r)
	if err != nil {
		s.fail(w, statusFor(err), "reading snapshot", err)
		return
	}

	rep, err := domain.Validate(catalogTree, snapshotMap)
	if err != nil {
		s.fail(w, statusFor(err), "validating", err)
		return
	}

	s.persist(rep)
	s.log.Info("validated",
		"fields", rep.Summary.TotalFields,
		"mismatch_ratio", rep.Meta.MismatchRatio,
		"likely_wrong_yaml", rep.Meta.LikelyWrongYAML,
		"duration", time.Since(started),
	)

	if r.URL.Query().Get("format") == "zip" {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="validation_bundle.zip"`)
		if err := report.WriteBundleTo(w, rep); err != nil {
			s.log.Error("writing bundle", "err", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) readCatalog(r *http.Request) (*domain.Tree, error) {
	file, header, err := r.FormFile("catalog")
	if err != nil {
		return nil, errors.New("missing catalog upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return s.catalogs.Parse(header.Filename, data)
}

func (s *Server) readSnapshot(r *http.Request) (map[string]any, error) {
	file, _, err := r.FormFile("snapshot")
	if err != nil {
		return nil, errors.New("missing snapshot upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return s.snapshots.Parse(data)
}

func (s *Server) persist(rep *domain.Report) {
	if s.store == nil {
		return
	}
	now := time.Now().UTC()
	record := domain.AuditRecord{
		SessionID:       uuid.NewString(),
		CreatedAt:       now,
		CatalogPath:     "upload",
		SnapshotPath:    "upload",
		Summary:         rep.Summary,
		MismatchRatio:   rep.Meta.MismatchRatio,
		LikelyWrongYAML: rep.Meta.LikelyWrongYAML,
		RetentionUntil:  now.Add(application.DefaultRetention),
	}
	if err := s.store.Save(record, rep.Results); err != nil {
		s.log.Warn("saving audit record", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string, err error) {
	s.log.Warn(msg, "err", err)
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// statusFor maps shape errors to 400 and everything else to 422: the
// request was readable but its payload could not be validated.
func statusFor(err error) int {
	var shapeErr *domain.InputShapeError
	if errors.As(err, &shapeErr) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
