// Package server hosts the HTTP surface: it mounts module routes under
// /api/v1 and exposes core health endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/version"
)

// Middleware wraps an http.Handler, e.g. for metrics or auth.
type Middleware func(http.Handler) http.Handler

// Server is the main Limelight HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *module.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a new Server instance. Middlewares wrap the whole mux in
// the order given (first listed runs outermost).
func New(addr string, reg *module.Registry, logger *zap.Logger, middlewares ...Middleware) *Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		registry: reg,
		logger:   logger,
		mux:      mux,
	}

	s.registerCoreRoutes()
	s.mountModuleRoutes()

	return s
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/modules", s.handleModules)
}

// mountModuleRoutes registers all module routes under /api/v1/{module}/.
// A path with a leading "!" is mounted verbatim at the server root; the
// public site and media modules use this for their top-level paths.
func (s *Server) mountModuleRoutes() {
	allRoutes := s.registry.AllRoutes()
	for moduleName, routes := range allRoutes {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, moduleName, route.Path)
			if len(route.Path) > 0 && route.Path[0] == '!' {
				pattern = fmt.Sprintf("%s %s", route.Method, route.Path[1:])
			}
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route",
				zap.String("module", moduleName),
				zap.String("pattern", pattern),
			)
		}
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Limelight-Version", version.Short())
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "limelight",
		"version": version.Map(),
	})
}

// handleModules returns the list of registered modules.
func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	modules := s.registry.All()
	type moduleResponse struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	info := make([]moduleResponse, 0, len(modules))
	for _, m := range modules {
		info = append(info, moduleResponse{
			Name:    m.Name(),
			Version: m.Version(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Limelight-Version", version.Short())
	json.NewEncoder(w).Encode(info)
}
