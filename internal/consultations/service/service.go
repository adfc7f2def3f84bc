// Package service handles Cal.com booking webhooks and the admin view of
// consultation bookings.
package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"jobboard_backend/internal/consultations/calcom"
	"jobboard_backend/internal/consultations/repository"
	"jobboard_backend/internal/consultations/transport"
	"jobboard_backend/internal/events"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/metrics"
	"jobboard_backend/platform/phone"
	"jobboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxNoteLength   = 4000
)

// Store is the persistence the service needs.
type Store interface {
	Upsert(ctx context.Context, p repository.UpsertParams) (uuid.UUID, bool, error)
	List(ctx context.Context, f repository.ListFilter) ([]repository.Booking, int, error)
	Update(ctx context.Context, id uuid.UUID, p repository.UpdateParams) error
}

// ReminderScheduler enqueues the attendee reminder for an upcoming booking.
type ReminderScheduler interface {
	ScheduleConsultationReminder(ctx context.Context, bookingID uuid.UUID, startsAt time.Time) error
}

// UpdateBookingInput carries the admin-editable fields; nil means "leave as is".
type UpdateBookingInput struct {
	Status     *string
	MeetingURL *string
	AdminNote  *string
}

type Service struct {
	repo      Store
	reminders ReminderScheduler
	bus       events.Bus
	secret    string
	log       *logger.Logger
	now       func() time.Time
}

// New builds the service. An empty secret disables signature checks; a nil
// scheduler disables reminders.
func New(repo Store, reminders ReminderScheduler, bus events.Bus, secret string, log *logger.Logger) *Service {
	return &Service{repo: repo, reminders: reminders, bus: bus, secret: secret, log: log, now: time.Now}
}

// HandleWebhook verifies, decodes and stores one webhook delivery.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature, clientIP string) (transport.WebhookResponse, error) {
	if s.secret != "" && !calcom.VerifySignature(body, signature, s.secret) {
		s.log.WebhookRejected(repository.Provider, "invalid signature", clientIP)
		metrics.RecordWebhook("rejected")
		return transport.WebhookResponse{}, apperr.Unauthorized("invalid signature")
	}

	booking, err := calcom.Parse(body)
	if errors.Is(err, calcom.ErrMissingBookingID) {
		s.log.WebhookRejected(repository.Provider, "missing booking id", clientIP)
		metrics.RecordWebhook("invalid")
		return transport.WebhookResponse{}, apperr.BadRequest("booking id is required")
	}
	if err != nil {
		s.log.WebhookRejected(repository.Provider, "invalid payload", clientIP)
		metrics.RecordWebhook("invalid")
		return transport.WebhookResponse{}, apperr.BadRequest("invalid payload")
	}

	id, inserted, err := s.repo.Upsert(ctx, toUpsertParams(booking))
	if err != nil {
		s.log.DatabaseError("upsert_consultation_booking", err)
		metrics.RecordWebhook("error")
		return transport.WebhookResponse{}, err
	}

	mode := transport.ModeUpdated
	if inserted {
		mode = transport.ModeInserted
	}
	metrics.RecordWebhook(mode)
	s.log.WithContext(ctx).Info("consultation webhook stored",
		"bookingId", id, "trigger", booking.Trigger, "status", booking.Status, "mode", mode)

	if isUpcoming(booking, s.now()) {
		s.announce(ctx, id, booking, inserted)
	}

	return transport.WebhookResponse{OK: true, Mode: mode}, nil
}

// announce schedules the reminder and publishes the booking. Failures here
// never fail the delivery; the booking is already stored.
func (s *Service) announce(ctx context.Context, id uuid.UUID, booking calcom.Booking, inserted bool) {
	if s.reminders != nil {
		if err := s.reminders.ScheduleConsultationReminder(ctx, id, *booking.StartsAt); err != nil {
			s.log.WithContext(ctx).Warn("failed to schedule consultation reminder", "bookingId", id, "error", err)
			metrics.RecordIntegrationError("scheduler")
		}
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.ConsultationBooked{
			BaseEvent:     events.NewBaseEvent(),
			BookingID:     id,
			Status:        booking.Status,
			StartsAt:      booking.StartsAt,
			AttendeeEmail: booking.AttendeeEmail,
			Inserted:      inserted,
		})
	}
}

func isUpcoming(b calcom.Booking, now time.Time) bool {
	if b.StartsAt == nil || !b.StartsAt.After(now) {
		return false
	}
	switch b.Status {
	case transport.StatusBooked, transport.StatusConfirmed, transport.StatusRescheduled:
		return true
	}
	return false
}

func toUpsertParams(b calcom.Booking) repository.UpsertParams {
	return repository.UpsertParams{
		ExternalBookingID: optional(b.ExternalBookingID),
		EventType:         optional(b.EventType),
		Status:            b.Status,
		ClickType:         optional(b.ClickType),
		UserID:            optionalUUID(b.UserID),
		JobID:             optionalUUID(b.JobID),
		AttendeeName:      optional(b.AttendeeName),
		AttendeeEmail:     optional(strings.ToLower(b.AttendeeEmail)),
		AttendeePhone:     phone.NormalizePtr(optional(b.AttendeePhone)),
		StartsAt:          b.StartsAt,
		EndsAt:            b.EndsAt,
		Timezone:          optional(b.Timezone),
		MeetingURL:        optional(b.MeetingURL),
		RawPayload:        b.Raw,
	}
}

func (s *Service) List(ctx context.Context, req transport.ListConsultationsRequest) (transport.BookingListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListFilter{
		Status: req.Status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.BookingListResponse{}, err
	}

	out := make([]transport.BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toResponse(b))
	}
	return transport.BookingListResponse{Items: out, Total: total}, nil
}

// UpdateBooking writes the provided fields. A failed write surfaces the
// backend message as an internal error.
func (s *Service) UpdateBooking(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (transport.UpdateBookingResponse, error) {
	var params repository.UpdateParams

	if in.Status != nil {
		status := strings.TrimSpace(*in.Status)
		if !slices.Contains(transport.AllStatuses, status) {
			return transport.UpdateBookingResponse{}, apperr.BadRequest("invalid status")
		}
		params.Status = &status
	}
	if in.MeetingURL != nil {
		url := strings.TrimSpace(*in.MeetingURL)
		params.MeetingURL = &url
	}
	if in.AdminNote != nil {
		note := sanitize.Truncate(sanitize.Text(*in.AdminNote), maxNoteLength)
		params.AdminNote = &note
	}

	if err := s.repo.Update(ctx, id, params); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.UpdateBookingResponse{}, err
		}
		s.log.DatabaseError("update_consultation_booking", err)
		return transport.UpdateBookingResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	s.log.WithContext(ctx).Info("consultation booking updated", "bookingId", id)
	return transport.UpdateBookingResponse{Success: true}, nil
}

func toResponse(b repository.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		ID:                b.ID,
		Provider:          b.Provider,
		ExternalBookingID: b.ExternalBookingID,
		EventType:         b.EventType,
		Status:            b.Status,
		ClickType:         b.ClickType,
		UserID:            b.UserID,
		JobID:             b.JobID,
		JobTitle:          b.JobTitle,
		AttendeeName:      b.AttendeeName,
		AttendeeEmail:     b.AttendeeEmail,
		AttendeePhone:     b.AttendeePhone,
		StartsAt:          b.StartsAt,
		EndsAt:            b.EndsAt,
		Timezone:          b.Timezone,
		MeetingURL:        b.MeetingURL,
		AdminNote:         b.AdminNote,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalUUID(s string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &id
}
