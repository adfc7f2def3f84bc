package http

import (
	"context"

	"jobboard_backend/platform/config"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.RateLimitConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// main.go populates it and hands it to the router.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health backs /api/health (database ping).
	Health HealthChecker
	// Admins decides access to the /api/v1/admin group.
	Admins  httpkit.AdminChecker
	Modules []Module
}
