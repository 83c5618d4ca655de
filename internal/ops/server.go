// Package ops exposes the operational HTTP endpoints of the bot process:
// liveness and readiness probes. The bot itself has no user-facing HTTP
// surface; this server exists for deployment tooling only.
package ops

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/rv-logbook-bot/internal/middleware"
)

// Pinger reports whether the database is reachable. Satisfied by
// *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the operational HTTP server.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// New builds the server on the given port. Middleware order follows the
// usual chain: RequestID, RealIP, structured logging, Recoverer.
func New(port string, db Pinger, log *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Readiness requires a live database connection; the probe carries a
	// short deadline so a hung pool does not wedge the endpoint.
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks serving until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("ops server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
