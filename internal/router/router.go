package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/internal/api"
	"github.com/alumnihub/backend/internal/database"
	"github.com/alumnihub/backend/internal/middleware"
	"github.com/alumnihub/backend/internal/service"
)

// Handlers bundles the API handlers wired into the router.
type Handlers struct {
	Auth          *api.AuthHandler
	Profile       *api.ProfileHandler
	Directory     *api.DirectoryHandler
	Organization  *api.OrganizationHandler
	UpdateRequest *api.UpdateRequestHandler
	Admin         *api.AdminHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, authService service.IAuthService, db *gorm.DB, redisClient *redis.Client) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes take a per-IP rate limit; the caller has no identity yet.
	authGroup := v1.Group("")
	if redisClient != nil {
		authLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     20,
			KeyPrefix: "ratelimit:auth",
		})
		authGroup.Use(authLimiter.RateLimitMiddleware())
	}
	h.Auth.RegisterRoutes(authGroup)

	// Everything else requires a valid token.
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		h.Profile.RegisterRoutes(protected)
		h.Directory.RegisterRoutes(protected)
		h.Organization.RegisterRoutes(protected)
		h.UpdateRequest.RegisterRoutes(protected)

		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		h.Admin.RegisterRoutes(admin)
	}

	return router
}
