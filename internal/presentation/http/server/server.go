// Package server owns the HTTP listener lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jdmarc/leadpulse-go/internal/application/container"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/presentation/http/routes"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// Server wraps the HTTP server around the intake and analytics routes.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New builds the listener with the wired route tree and the timeouts from
// configuration.
func New(port string, appContainer *container.Container) *Server {
	router := routes.SetupRoutes(appContainer)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: appContainer.Logger,
	}
}

// Start begins listening for HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.System().Info("HTTP listener open", "address", s.httpServer.Addr)
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and closes the listener. Long-lived
// dashboard sockets are cut by the broadcaster's own Close during shutdown.
func (s *Server) Stop(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Shutdown().Info("Draining HTTP connections...")
	}
	return s.httpServer.Shutdown(ctx)
}
