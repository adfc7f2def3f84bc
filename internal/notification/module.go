// Package notification reacts to domain events: it mails the admin about new
// applications and pushes live updates to connected admin consoles.
// Domain modules publish events and never touch mail or SSE directly.
package notification

import (
	"context"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/events"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/internal/notification/sse"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/metrics"
)

// Config is what the module reads from the application config.
type Config interface {
	config.SMTPConfig
	config.NotificationConfig
}

type Module struct {
	sender     email.Sender
	stream     *sse.Service
	adminEmail string
	siteURL    string
	smtpOn     bool
	log        *logger.Logger
}

func New(sender email.Sender, cfg Config, log *logger.Logger) *Module {
	return &Module{
		sender:     sender,
		stream:     sse.New(log),
		adminEmail: cfg.GetAdminNotifyEmail(),
		siteURL:    cfg.GetSiteURL(),
		smtpOn:     cfg.IsSMTPEnabled(),
		log:        log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the admin live feed.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/notifications/stream", m.stream.Handler())
}

// Stream exposes the SSE hub so the server can close it on shutdown.
func (m *Module) Stream() *sse.Service { return m.stream }

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ApplicationSubmitted{}.EventName(), m)
	bus.Subscribe(events.ConsultationBooked{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ApplicationSubmitted:
		return m.handleApplicationSubmitted(ctx, e)
	case events.ConsultationBooked:
		m.handleConsultationBooked(e)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleApplicationSubmitted(ctx context.Context, e events.ApplicationSubmitted) error {
	m.stream.Broadcast(sse.Event{
		Type:    sse.EventApplicationSubmitted,
		Message: e.ApplicantName,
		Data:    e,
	})

	if !m.smtpOn || m.adminEmail == "" {
		m.log.Info("admin notification skipped, smtp not configured", "applicationId", e.ApplicationID)
		return nil
	}

	err := m.sender.SendApplicationNotice(ctx, m.adminEmail, email.ApplicationNotice{
		ApplicantName: e.ApplicantName,
		JobTitle:      e.JobTitle,
		SubmittedAt:   e.OccurredAt(),
		AdminURL:      m.siteURL + "/admin/applications",
	})
	if err != nil {
		m.log.Error("failed to send application notice", "applicationId", e.ApplicationID, "error", err)
		metrics.RecordIntegrationError("smtp")
		return err
	}

	m.log.Info("application notice sent", "applicationId", e.ApplicationID)
	return nil
}

func (m *Module) handleConsultationBooked(e events.ConsultationBooked) {
	m.stream.Broadcast(sse.Event{
		Type: sse.EventConsultationBooked,
		Data: e,
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
