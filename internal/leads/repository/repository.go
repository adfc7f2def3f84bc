// Package repository reads the activity streams that lead management folds
// into leads. Every stream is ordered newest first.
package repository

import (
	"context"
	"fmt"
	"time"

	"jobboard_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func jobRef(id, title *string, jobType *string) *domain.JobRef {
	if id == nil {
		return nil
	}
	ref := &domain.JobRef{ID: *id, Type: jobType}
	if title != nil {
		ref.Title = *title
	}
	return ref
}

// ListClicks returns booking clicks since the given time, newest first.
func (r *Repository) ListClicks(ctx context.Context, since *time.Time) ([]domain.ClickRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT c.id::text, c.user_id::text, c.job_id::text, c.click_type, c.clicked_at,
			j.id::text, j.title, j.type
		FROM booking_clicks c
		LEFT JOIN jobs j ON j.id = c.job_id
		WHERE ($1::timestamptz IS NULL OR c.clicked_at >= $1)
		ORDER BY c.clicked_at DESC, c.id DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking clicks: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ClickRow, error) {
		var (
			c                     domain.ClickRow
			jobID, title, jobType *string
		)
		err := row.Scan(&c.ID, &c.UserID, &c.JobID, &c.ClickType, &c.ClickedAt, &jobID, &title, &jobType)
		c.Job = jobRef(jobID, title, jobType)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking clicks: %w", err)
	}
	return out, nil
}

// ListApplications returns applications since the given time, newest first.
func (r *Repository) ListApplications(ctx context.Context, since *time.Time) ([]domain.ApplicationRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id::text, a.user_id::text, a.job_id::text, a.status, a.created_at, a.admin_memo,
			j.id::text, j.title, j.type
		FROM applications a
		LEFT JOIN jobs j ON j.id = a.job_id
		WHERE ($1::timestamptz IS NULL OR a.created_at >= $1)
		ORDER BY a.created_at DESC, a.id DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ApplicationRow, error) {
		var (
			a                     domain.ApplicationRow
			jobID, title, jobType *string
		)
		err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CreatedAt, &a.AdminMemo, &jobID, &title, &jobType)
		a.Job = jobRef(jobID, title, jobType)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}
	return out, nil
}

// ListConsultations returns consultation bookings since the given time,
// newest first.
func (r *Repository) ListConsultations(ctx context.Context, since *time.Time) ([]domain.ConsultationRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT b.id::text, b.user_id::text, b.job_id::text, b.status, b.starts_at, b.ends_at,
			b.meeting_url, b.attendee_name, b.attendee_email, b.attendee_phone, b.admin_note, b.created_at,
			j.id::text, j.title, j.type
		FROM consultation_bookings b
		LEFT JOIN jobs j ON j.id = b.job_id
		WHERE ($1::timestamptz IS NULL OR b.created_at >= $1)
		ORDER BY b.created_at DESC, b.id DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ConsultationRow, error) {
		var (
			b                     domain.ConsultationRow
			jobID, title, jobType *string
		)
		err := row.Scan(&b.ID, &b.UserID, &b.JobID, &b.Status, &b.StartsAt, &b.EndsAt,
			&b.MeetingURL, &b.AttendeeName, &b.AttendeeEmail, &b.AttendeePhone, &b.AdminNote, &b.CreatedAt,
			&jobID, &title, &jobType)
		b.Job = jobRef(jobID, title, jobType)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan consultations: %w", err)
	}
	return out, nil
}

// ListProfiles returns every profile used to label leads.
func (r *Repository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, email, last_name, first_name, phone_number, prefecture, birth_date
		FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Profile, error) {
		var p domain.Profile
		err := row.Scan(&p.ID, &p.Email, &p.LastName, &p.FirstName, &p.PhoneNumber, &p.Prefecture, &p.BirthDate)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return out, nil
}
