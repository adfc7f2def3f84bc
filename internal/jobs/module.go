// Package jobs is the job posting bounded context: public listing, view and
// booking-click tracking, and admin maintenance of postings.
package jobs

import (
	"jobboard_backend/internal/jobs/handler"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/service"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is what the jobs module reads from configuration.
type Config interface {
	config.TrackingConfig
	config.CalcomConfig
}

// Module is the jobs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    *repository.Repository
}

// NewModule creates the jobs module. gate is optional.
func NewModule(pool *pgxpool.Pool, gate service.ViewGate, cfg Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gate, cfg, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "jobs"
}

// Service exposes job maintenance for other modules.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository exposes job reads for other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts job routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/jobs")
	public.GET("", m.handler.List)
	public.GET("/search", m.handler.Search)
	public.GET("/tags", m.handler.Tags)
	public.GET("/:id", m.handler.Get)
	public.GET("/:id/recommended", m.handler.Recommended)

	tracked := public.Group("", ctx.PublicRateLimiter.RateLimit(), ctx.OptionalAuth)
	tracked.POST("/:id/views", m.handler.RecordView)
	tracked.POST("/:id/booking-clicks", m.handler.BookingClick)

	admin := ctx.Admin.Group("/jobs")
	admin.POST("", m.handler.Create)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)

	options := ctx.Admin.Group("/job-options")
	options.GET("", m.handler.ListOptions)
	options.POST("", m.handler.CreateOption)
	options.DELETE("/:id", m.handler.DeleteOption)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
