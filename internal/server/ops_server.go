package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/oggyb/muzz-matchmaker/internal/metrics"
)

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

// OpsServer serves /healthz and /metrics. It is a suture.Service.
type OpsServer struct {
	srv *http.Server
	log *slog.Logger
}

// NewOpsServer builds the ops router. Every named check must pass for
// /healthz to answer 200.
func NewOpsServer(addr string, m *metrics.Metrics, checks map[string]HealthCheck, log *slog.Logger) *OpsServer {
	return &OpsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewOpsRouter(m, checks),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With("component", "ops"),
	}
}

// NewOpsRouter returns the chi router behind OpsServer.
func NewOpsRouter(m *metrics.Metrics, checks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		result := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				result[name] = err.Error()
				healthy = false
				continue
			}
			result[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"healthy": healthy, "checks": result})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	return r
}

// Serve implements suture.Service.
func (s *OpsServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("ops server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *OpsServer) String() string { return "ops-server" }
