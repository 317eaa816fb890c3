package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/config"
	"groupnet/memberhub/internal/handler/middleware"
	"groupnet/memberhub/internal/metrics"
	"groupnet/memberhub/internal/repository"
)

// Observability carries the optional metrics wiring. A nil Metrics disables
// both the middleware and the exposition endpoint.
type Observability struct {
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	stateStore repository.StateStore,
	obs Observability,
	healthHandler *HealthHandler,
	intentHandler *IntentHandler,
	inviteHandler *InviteHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	if obs.Metrics != nil {
		r.Use(middleware.Metrics(obs.Metrics))
	}

	// Health checks
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	if obs.Metrics != nil && obs.Gatherer != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{})))
	}

	// Public routes
	public := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		public.Use(middleware.RateLimit(stateStore, "public", cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))
	}
	{
		public.POST("/intents", intentHandler.Submit)
		public.GET("/invites/:token", inviteHandler.Validate)
		public.POST("/invites/:token/register", inviteHandler.Register)
	}

	// Admin routes
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AdminKey(cfg.Admin.Key))
	{
		admin.GET("/intents", adminHandler.ListIntents)
		admin.GET("/intents/:id", adminHandler.GetIntent)
		admin.GET("/intents/:id/invite", adminHandler.GetIntentInvite)
		admin.POST("/intents/:id/approve", adminHandler.ApproveIntent)
		admin.POST("/intents/:id/reject", adminHandler.RejectIntent)
	}

	return r
}
