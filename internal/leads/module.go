// Package leads reconciles booking clicks, applications and consultation
// bookings into one row per person for the admin lead management screen.
package leads

import (
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/internal/leads/handler"
	"jobboard_backend/internal/leads/repository"
	"jobboard_backend/internal/leads/service"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the lead read for the export module.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts lead routes under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/leads", m.handler.Get)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
