package hook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/genricoloni/lyrical/internal/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const readHeaderTimeout = 5 * time.Second

// NewRouter mounts the hook, control and metrics endpoints
func NewRouter(logger *zap.Logger, h *Handler, met *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(logger, met))
	r.Use(allowBrowser)

	r.Post("/hook", h.PostHook)
	r.Get("/control", h.GetControl)
	r.Method(http.MethodGet, "/metrics", met.Handler())
	return r
}

// Server runs the hook router on the configured address
type Server struct {
	logger *zap.Logger
	addr   string
	srv    *http.Server
	done   chan struct{}
	active bool
}

// NewServer creates a server for router listening on addr
func NewServer(logger *zap.Logger, addr string, router http.Handler) *Server {
	return &Server{
		logger: logger,
		addr:   addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		done: make(chan struct{}),
	}
}

// Start binds the listener and serves in the background. An empty address
// disables the server.
func (s *Server) Start(_ context.Context) error {
	if s.addr == "" {
		s.logger.Info("Hook server disabled")
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.logger.Info("Hook server listening", zap.String("addr", ln.Addr().String()))
	s.active = true

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Hook server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop drains open connections
func (s *Server) Stop(ctx context.Context) error {
	if !s.active {
		return nil
	}
	s.logger.Info("Hook server stopping...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown hook server: %w", err)
	}
	<-s.done
	return nil
}
