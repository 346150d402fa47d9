package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/observability"
	"github.com/deckhand/deckhand/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Prometheus metrics (proxied from the exporter)
	s.router.Get("/metrics", MetricsHandler)

	// Tool registry surface
	toolsHandlers := &handlers.ToolsHandlers{Registry: s.registry}
	s.router.Get("/api/v1/tools", toolsHandlers.ListTools)
	s.router.Post("/api/v1/tools/{name}", toolsHandlers.InvokeTool)

	// Limiter occupancy
	limitsHandlers := &handlers.LimitsHandlers{Limiter: s.limiter}
	s.router.Get("/api/v1/limits", limitsHandlers.GetLimits)

	// Admin signal endpoint (optional, requires DECKHAND_ADMIN_TOKEN)
	s.registerAdminEndpoint()
}

// registerAdminEndpoint optionally registers the admin signal endpoint
func (s *Server) registerAdminEndpoint() {
	adminToken := os.Getenv("DECKHAND_ADMIN_TOKEN")
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no DECKHAND_ADMIN_TOKEN set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil, // use default global manager
	})

	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
