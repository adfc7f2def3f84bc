// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes using the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the public /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected is the authenticated route group under /api/v1.
	Protected *gin.RouterGroup
	// Admin is the admin-only route group under /api/v1/admin.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for auth middleware.
	Config config.JWTConfig
	// AuthMiddleware rejects requests without a valid token.
	AuthMiddleware gin.HandlerFunc
	// OptionalAuth attaches an identity when a token is present.
	OptionalAuth gin.HandlerFunc
	// PublicRateLimiter throttles anonymous write endpoints per IP.
	PublicRateLimiter *httpkit.IPRateLimiter
	// Log is the shared logger.
	Log *logger.Logger
}
