package main

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/refurbly/gradeserver/internal/assessments"
	"github.com/refurbly/gradeserver/internal/config"
	"github.com/refurbly/gradeserver/internal/middleware"
	"github.com/refurbly/gradeserver/internal/routes"
	"github.com/refurbly/gradeserver/internal/video"
	"github.com/refurbly/gradeserver/internal/vision"
	pkgroutes "github.com/refurbly/gradeserver/pkg/routes"
)

// buildHandler assembles the assessment pipeline and wires all HTTP routes.
func buildHandler(cfg *config.Config, db *sql.DB, log *slog.Logger) (http.Handler, error) {
	client := vision.NewClient(
		cfg.Vision.Endpoint,
		cfg.Vision.Model,
		cfg.Vision.APIKey,
		cfg.Vision.TimeoutDuration(),
		log,
	)
	requestor := vision.NewRequestor(client, log)
	sampler := video.NewSampler(log, cfg.Media.FFmpegTimeoutDuration())
	store := assessments.NewStore(db, log, cfg.Pagination)
	sys := assessments.NewSystem(store, requestor, sampler, cfg.Media.FrameCount, log)

	r := routes.New(log)

	handler := sys.Handler(log, cfg.Pagination, cfg.Media.MaxFiles, cfg.Media.MaxUploadSizeBytes())
	r.RegisterGroup(handler.Routes())

	r.RegisterRoute(pkgroutes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck(db),
	})

	h := middleware.CORS(&cfg.CORS, r.Build())
	h = middleware.RequestLogger(log, h)
	return h, nil
}

// handleHealthCheck reports liveness, including database reachability.
func handleHealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
