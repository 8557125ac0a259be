// Package httpserver wraps net/http server lifecycle with sane timeouts and
// graceful shutdown.
package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medbridge/insurance-api/internal/config"
	"github.com/medbridge/insurance-api/pkg/logger"
)

// Server owns the listening socket for the REST API.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

func New(cfg config.ServerConfig, log *logger.Logger, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log.WithField("component", "httpserver"),
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. A closed-server error is reported as a clean exit.
func (s *Server) Start() error {
	s.log.WithField("addr", s.srv.Addr).Info("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests before closing, bounded by the context.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}
