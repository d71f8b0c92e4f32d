package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kestrelhq/devchat-gateway/internal/devapi"
	"github.com/kestrelhq/devchat-gateway/pkg/backend/handlers"
	"github.com/kestrelhq/devchat-gateway/pkg/backend/middleware"
	"github.com/kestrelhq/devchat-gateway/pkg/backendtypes"
)

// Server ties the HTTP gateway together: routes, middleware chain, and the
// Dev upstream client the chat handler drives.
type Server struct {
	config     backendtypes.BackendConfig
	httpServer *http.Server
	dev        *devapi.Client
	logger     *log.Logger
	mux        *http.ServeMux
}

// NewServer creates a backend server wired against dev, the Dev upstream
// client. logger defaults to log.Default() when nil, so tests can capture
// output without mutating the global logger.
func NewServer(config backendtypes.BackendConfig, dev *devapi.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		config: config,
		dev:    dev,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes with their corresponding handlers.
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.dev, s.config.Server.Version)
	chatHandler := handlers.NewChatHandler(s.dev, s.logger, "All")

	s.mux.HandleFunc("/health", healthHandler.Health)
	s.mux.HandleFunc("/status", healthHandler.Status)
	s.mux.HandleFunc("/version", healthHandler.Version)
	s.mux.HandleFunc("/api/ping", handlers.Ping)

	s.mux.HandleFunc("/v1/chat/completions", chatHandler.Complete)
}

// Start starts the HTTP server and begins listening for requests.
func (s *Server) Start() error {
	handler := s.applyMiddleware(s.mux)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	s.logger.Printf("Starting server on %s (version: %s)", addr, s.config.Server.Version)
	s.logger.Printf("Dev upstream: %s", s.config.DevUpstream.BaseURL)

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("Shutting down server...")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.logger.Println("Server shutdown complete")
	return nil
}

// applyMiddleware builds the middleware chain and applies it to the handler.
// Execution order: Recovery -> Logging -> RequestID -> CORS -> RateLimit -> Auth -> Handler.
func (s *Server) applyMiddleware(h http.Handler) http.Handler {
	if s.config.Auth.Enabled {
		h = middleware.Auth(middleware.AuthConfig{
			Enabled:     true,
			APIPassword: s.config.Auth.APIPassword,
			APIKeyEnv:   s.config.Auth.APIKeyEnv,
			PublicPaths: s.config.Auth.PublicPaths,
		})(h)
	}

	if s.config.RateLimit.Enabled {
		h = middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		})(h)
	}

	if s.config.CORS.Enabled {
		h = middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: s.config.CORS.AllowedOrigins,
			AllowedMethods: s.config.CORS.AllowedMethods,
			AllowedHeaders: s.config.CORS.AllowedHeaders,
		})(h)
	}

	h = middleware.RequestID(h)
	h = middleware.Logging(h)
	h = middleware.Recovery(h)

	return h
}

// GetConfig returns the server configuration.
func (s *Server) GetConfig() backendtypes.BackendConfig {
	return s.config
}

// ListenAndServeWithGracefulShutdown starts the server and handles graceful
// shutdown on shutdownSignal.
func (s *Server) ListenAndServeWithGracefulShutdown(shutdownSignal <-chan struct{}) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-shutdownSignal:
		timeout := s.config.Server.ShutdownTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return s.Shutdown(ctx)
	}
}
