package telemetry

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/logger"
)

// shutdownTimeout bounds how long Close waits for in-flight scrapes.
const shutdownTimeout = 2 * time.Second

// healthResponse is the /healthz body.
type healthResponse struct {
	Status      string    `json:"status"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Records     int       `json:"records"`
}

// NewRouter builds the metrics router: /metrics and /healthz, plus /ws when
// stream is non-nil.
func NewRouter(m *Metrics, stream *Stream) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		last, count := m.LastSuccess()
		resp := healthResponse{Status: "ok", LastSuccess: last, Records: count}
		status := http.StatusOK
		if last.IsZero() {
			resp.Status = "waiting"
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
	if stream != nil {
		r.Method(http.MethodGet, "/ws", stream)
	}

	return r
}

// Server serves the metrics router in the background.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log logger.Logger
}

// Serve starts listening on addr (e.g. ":9090") and returns once the
// listener is bound.
func Serve(addr string, m *Metrics, stream *Stream, log logger.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot listen on metrics address "+addr,
			"Pick a free port with --metrics-addr, or leave it empty to disable metrics")
	}

	s := &Server{
		srv: &http.Server{
			Handler:           NewRouter(m, stream),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:  ln,
		log: log,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("metrics server stopped: %v", err)
		}
	}()
	s.log.Info("metrics listening on %s", ln.Addr())
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
