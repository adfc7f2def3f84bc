// Package applications is the job application bounded context.
package applications

import (
	"jobboard_backend/internal/applications/handler"
	"jobboard_backend/internal/applications/repository"
	"jobboard_backend/internal/applications/service"
	"jobboard_backend/internal/events"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the applications bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the applications module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), bus, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "applications"
}

// RegisterRoutes mounts application routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/jobs/:id/application", m.handler.Status)
	ctx.Protected.POST("/jobs/:id/applications", ctx.PublicRateLimiter.RateLimit(), m.handler.Apply)

	admin := ctx.Admin.Group("/applications")
	admin.GET("", m.handler.List)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
	admin.PATCH("/:id/memo", m.handler.UpdateMemo)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
