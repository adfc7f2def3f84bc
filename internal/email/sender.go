// Package email renders and delivers the transactional mails of the job board.
package email

import (
	"context"
	"time"

	"jobboard_backend/platform/config"
)

// ApplicationNotice is the admin mail sent for a new application.
type ApplicationNotice struct {
	ApplicantName string
	JobTitle      string
	SubmittedAt   time.Time
	AdminURL      string
}

// ConsultationReminder is the attendee mail sent ahead of a consultation.
type ConsultationReminder struct {
	AttendeeName string
	JobTitle     string
	StartsAt     time.Time
	MeetingURL   string
}

type Sender interface {
	SendApplicationNotice(ctx context.Context, toEmail string, notice ApplicationNotice) error
	SendConsultationReminder(ctx context.Context, toEmail string, reminder ConsultationReminder) error
}

// NoopSender drops every mail. It stands in when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendApplicationNotice(context.Context, string, ApplicationNotice) error {
	return nil
}

func (NoopSender) SendConsultationReminder(context.Context, string, ConsultationReminder) error {
	return nil
}

// NewSender returns an SMTP sender, or a NoopSender when SMTP is disabled.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetSMTPFrom())
}
