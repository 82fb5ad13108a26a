// Package httpapi assembles the studymate REST API.
package httpapi

import (
	"log/slog"
	"net/http"

	"studymate/internal/microservices/http-api/handler"
	"studymate/internal/microservices/http-api/middleware"
	"studymate/internal/microservices/http-api/service"
	"studymate/internal/microservices/websocket"
	"studymate/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies of the router.
type Services struct {
	Auth        service.AuthService
	Topics      service.TopicService
	Willingness service.WillingnessService
	Ratings     service.RatingService
	Profiles    service.ProfileService
	Messages    service.MessageService
	Admin       service.AdminService
}

// RouterConfig holds the non-service knobs of the router.
type RouterConfig struct {
	Logger      *slog.Logger
	AuthLimiter ratelimit.Limiter
	CORSOrigins []string
	// Ready reports whether backing stores are reachable; nil means always.
	Ready func() error
	// Hub serves the live event feed at /api/ws when set.
	Hub *websocket.Hub
}

// NewRouter wires every handler under /api.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(cfg.Logger),
		middleware.RequestLog(),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(); err != nil {
				middleware.Logger(c).Warn("health_check_failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	limit := func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		limit = middleware.RateLimit(cfg.AuthLimiter, "auth")
	}

	api := r.Group("/api")
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(api, requireAuth, limit)

	protected := api.Group("", requireAuth)
	handler.NewTopicHandler(svc.Topics, svc.Willingness, svc.Ratings).RegisterRoutes(protected)
	handler.NewProfileHandler(svc.Profiles).RegisterRoutes(protected)
	handler.NewMessageHandler(svc.Messages).RegisterRoutes(protected)
	handler.NewAdminHandler(svc.Admin).RegisterRoutes(protected, middleware.RequireAdmin())
	if cfg.Hub != nil {
		protected.GET("/ws", websocket.WSHandler(cfg.Hub, cfg.CORSOrigins))
	}

	return r
}
