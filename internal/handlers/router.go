package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/middleware"
)

type RouterOptions struct {
	JWTSecret  string
	CORSOrigin string
	// Limiter is optional.
	Limiter *middleware.RateLimiter
	// HealthCheck reports dependency health, normally a database ping.
	HealthCheck func(ctx context.Context) error
}

// NewRouter wires every route of the API.
func NewRouter(h *HandlerManager, opts RouterOptions) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(opts.CORSOrigin))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.ByIP())
	}

	r.GET("/health", healthHandler(opts.HealthCheck))

	authChain := []gin.HandlerFunc{middleware.Auth(opts.JWTSecret), middleware.BlockGuard(h.Blocks)}
	if opts.Limiter != nil {
		authChain = append(authChain, opts.Limiter.ByUser())
	}
	adminChain := append(append([]gin.HandlerFunc{}, authChain...), middleware.RequireAdmin())

	public := r.Group("/", middleware.OptionalAuth(opts.JWTSecret))
	authed := r.Group("/", authChain...)
	admin := r.Group("/", adminChain...)

	h.registerUserRoutes(public, authed)
	h.registerListingRoutes(public, authed, admin)
	h.registerBlockRoutes(authed, admin)
	h.registerReviewRoutes(public, authed)
	h.registerMessageRoutes(authed)
	h.registerReportRoutes(authed, admin)
	h.registerNotificationRoutes(authed, admin)
	h.registerCategoryRoutes(public, admin)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return r
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
