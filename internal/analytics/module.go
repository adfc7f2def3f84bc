// Package analytics serves the admin dashboard reports on job views and
// applications, filtered by period and employment segment.
package analytics

import (
	"jobboard_backend/internal/analytics/handler"
	"jobboard_backend/internal/analytics/repository"
	"jobboard_backend/internal/analytics/service"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts report routes under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Admin.Group("/analytics")
	g.GET("/summary", m.handler.Summary)
	g.GET("/daily-views", m.handler.DailyViews)
	g.GET("/job-ranking", m.handler.JobRanking)
	g.GET("/status-breakdown", m.handler.StatusBreakdown)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
