package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Provider is the only booking provider wired today.
const Provider = "calcom"

const bookingNotFoundMsg = "consultation booking not found"

// Booking is a consultation_bookings row; JobTitle comes from the jobs join.
type Booking struct {
	ID                uuid.UUID
	Provider          string
	ExternalBookingID *string
	EventType         *string
	Status            string
	ClickType         *string
	UserID            *uuid.UUID
	JobID             *uuid.UUID
	JobTitle          *string
	AttendeeName      *string
	AttendeeEmail     *string
	AttendeePhone     *string
	StartsAt          *time.Time
	EndsAt            *time.Time
	Timezone          *string
	MeetingURL        *string
	AdminNote         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UpsertParams is what a webhook delivery writes.
type UpsertParams struct {
	ExternalBookingID *string
	EventType         *string
	Status            string
	ClickType         *string
	UserID            *uuid.UUID
	JobID             *uuid.UUID
	AttendeeName      *string
	AttendeeEmail     *string
	AttendeePhone     *string
	StartsAt          *time.Time
	EndsAt            *time.Time
	Timezone          *string
	MeetingURL        *string
	RawPayload        json.RawMessage
}

// UpdateParams holds the admin-editable fields; nil fields are left alone.
// A non-nil empty MeetingURL clears the column.
type UpdateParams struct {
	Status     *string
	MeetingURL *string
	AdminNote  *string
}

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert inserts or refreshes the booking keyed by provider and external id.
// The admin note is never touched and an existing meeting URL survives a
// delivery that carries none. A job id that matches no job is stored as NULL.
func (r *Repository) Upsert(ctx context.Context, p UpsertParams) (uuid.UUID, bool, error) {
	var (
		id       uuid.UUID
		inserted bool
	)
	raw := p.RawPayload
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO consultation_bookings (
			provider, external_booking_id, event_type, status, click_type, user_id, job_id,
			attendee_name, attendee_email, attendee_phone, starts_at, ends_at, timezone,
			meeting_url, raw_payload
		) VALUES ($1, $2, $3, $4, $5, $6, (SELECT id FROM jobs WHERE id = $7::uuid), $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (provider, external_booking_id) DO UPDATE SET
			event_type     = COALESCE(EXCLUDED.event_type, consultation_bookings.event_type),
			status         = EXCLUDED.status,
			click_type     = COALESCE(EXCLUDED.click_type, consultation_bookings.click_type),
			user_id        = COALESCE(EXCLUDED.user_id, consultation_bookings.user_id),
			job_id         = COALESCE(EXCLUDED.job_id, consultation_bookings.job_id),
			attendee_name  = COALESCE(EXCLUDED.attendee_name, consultation_bookings.attendee_name),
			attendee_email = COALESCE(EXCLUDED.attendee_email, consultation_bookings.attendee_email),
			attendee_phone = COALESCE(EXCLUDED.attendee_phone, consultation_bookings.attendee_phone),
			starts_at      = COALESCE(EXCLUDED.starts_at, consultation_bookings.starts_at),
			ends_at        = COALESCE(EXCLUDED.ends_at, consultation_bookings.ends_at),
			timezone       = COALESCE(EXCLUDED.timezone, consultation_bookings.timezone),
			meeting_url    = COALESCE(EXCLUDED.meeting_url, consultation_bookings.meeting_url),
			raw_payload    = EXCLUDED.raw_payload,
			updated_at     = now()
		RETURNING id, (xmax = 0)`,
		Provider, p.ExternalBookingID, p.EventType, p.Status, p.ClickType, p.UserID, p.JobID,
		p.AttendeeName, p.AttendeeEmail, p.AttendeePhone, p.StartsAt, p.EndsAt, p.Timezone,
		p.MeetingURL, raw,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to upsert consultation booking: %w", err)
	}
	return id, inserted, nil
}

const selectBooking = `SELECT b.id, b.provider, b.external_booking_id, b.event_type, b.status, b.click_type,
		b.user_id, b.job_id, j.title, b.attendee_name, b.attendee_email, b.attendee_phone,
		b.starts_at, b.ends_at, b.timezone, b.meeting_url, b.admin_note, b.created_at, b.updated_at
	FROM consultation_bookings b
	LEFT JOIN jobs j ON j.id = b.job_id`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Provider, &b.ExternalBookingID, &b.EventType, &b.Status, &b.ClickType,
		&b.UserID, &b.JobID, &b.JobTitle, &b.AttendeeName, &b.AttendeeEmail, &b.AttendeePhone,
		&b.StartsAt, &b.EndsAt, &b.Timezone, &b.MeetingURL, &b.AdminNote, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMsg)
		}
		return Booking{}, fmt.Errorf("failed to get consultation booking: %w", err)
	}
	return b, nil
}

// List returns bookings newest first with the total count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, int, error) {
	where := ""
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where = " WHERE b.status = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consultation_bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count consultation bookings: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY b.created_at DESC, b.id DESC LIMIT $%d OFFSET $%d`,
		selectBooking, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list consultation bookings: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Booking, error) {
		return scanBooking(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan consultation bookings: %w", err)
	}
	return items, total, nil
}

// Update writes the provided fields. updated_at always moves, so an empty
// update still reports unknown ids.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if p.Status != nil {
		args = append(args, *p.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if p.MeetingURL != nil {
		var url *string
		if *p.MeetingURL != "" {
			url = p.MeetingURL
		}
		args = append(args, url)
		sets = append(sets, fmt.Sprintf("meeting_url = $%d", len(args)))
	}
	if p.AdminNote != nil {
		args = append(args, *p.AdminNote)
		sets = append(sets, fmt.Sprintf("admin_note = $%d", len(args)))
	}

	tag, err := r.pool.Exec(ctx, `UPDATE consultation_bookings SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("failed to update consultation booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMsg)
	}
	return nil
}
