// Package consultations is the consultation booking bounded context: Cal.com
// webhooks in, admin follow-up out.
package consultations

import (
	"jobboard_backend/internal/consultations/handler"
	"jobboard_backend/internal/consultations/repository"
	"jobboard_backend/internal/consultations/service"
	"jobboard_backend/internal/events"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the consultations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the consultations module. reminders may be nil when no
// scheduler is configured.
func NewModule(pool *pgxpool.Pool, reminders service.ReminderScheduler, bus events.Bus, cfg config.CalcomConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), reminders, bus, cfg.GetCalcomWebhookSecret(), log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "consultations"
}

// RegisterRoutes mounts consultation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/webhooks/calcom", ctx.PublicRateLimiter.RateLimit(), m.handler.Webhook)

	admin := ctx.Admin.Group("/consultations")
	admin.GET("", m.handler.List)
	admin.PATCH("/:id", m.handler.Update)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
