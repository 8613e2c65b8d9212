package spectator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// Server serves a Hub over HTTP until its context ends.
type Server struct {
	hub    *Hub
	srv    *http.Server
	logger *log.Logger
}

// NewServer returns a server for hub listening on addr.
func NewServer(addr string, hub *Hub, logger *log.Logger) *Server {
	return &Server{
		hub: hub,
		srv: &http.Server{
			Addr:              addr,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.WithPrefix("http"),
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully and
// disconnects spectators.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Spectator feed listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Spectator feed stopped")
	return nil
}
