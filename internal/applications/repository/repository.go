package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeAlreadyApplied is the error message returned for duplicate applications.
const CodeAlreadyApplied = "ALREADY_APPLIED"

const applicationNotFoundMsg = "application not found"

// Application is an applications row joined with its job and applicant.
type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	UserID    uuid.UUID
	Status    string
	AdminMemo *string
	CreatedAt time.Time

	JobTitle string
	JobType  *string

	Email         *string
	LastName      *string
	FirstName     *string
	LastNameKana  *string
	FirstNameKana *string
	PhoneNumber   *string
	Prefecture    *string
	BirthDate     *time.Time
}

// ApplicantSummary is what the notification needs to know about the applicant.
type ApplicantSummary struct {
	JobTitle      string
	ApplicantName string
}

type ListFilter struct {
	Status string
	JobID  *uuid.UUID
	Limit  int
	Offset int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// HasApplied reports whether the user already applied to the job.
func (r *Repository) HasApplied(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`,
		jobID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

// Create inserts a pending application. A concurrent duplicate surfaces as
// the same conflict as the pre-check.
func (r *Repository) Create(ctx context.Context, jobID, userID uuid.UUID) (Application, error) {
	var a Application
	err := r.pool.QueryRow(ctx, `INSERT INTO applications (job_id, user_id, status) VALUES ($1, $2, 'pending')
		RETURNING id, job_id, user_id, status, admin_memo, created_at`, jobID, userID).Scan(
		&a.ID, &a.JobID, &a.UserID, &a.Status, &a.AdminMemo, &a.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Application{}, apperr.Conflict(CodeAlreadyApplied)
		}
		return Application{}, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// Summary loads the job title and the applicant's display name.
func (r *Repository) Summary(ctx context.Context, jobID, userID uuid.UUID) (ApplicantSummary, error) {
	var (
		s         ApplicantSummary
		lastName  *string
		firstName *string
		email     *string
	)
	err := r.pool.QueryRow(ctx, `SELECT j.title, p.last_name, p.first_name, p.email
		FROM jobs j LEFT JOIN profiles p ON p.id = $2
		WHERE j.id = $1`, jobID, userID).Scan(&s.JobTitle, &lastName, &firstName, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ApplicantSummary{}, apperr.NotFound("job not found")
		}
		return ApplicantSummary{}, fmt.Errorf("failed to load application summary: %w", err)
	}
	s.ApplicantName = fullName(lastName, firstName)
	if s.ApplicantName == "" && email != nil {
		s.ApplicantName = *email
	}
	return s, nil
}

// List returns applications newest first with the total count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Application, int, error) {
	var (
		conditions []string
		args       []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.JobID != nil {
		args = append(args, *f.JobID)
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications a `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT a.id, a.job_id, a.user_id, a.status, a.admin_memo, a.created_at,
			j.title, j.type,
			p.email, p.last_name, p.first_name, p.last_name_kana, p.first_name_kana,
			p.phone_number, p.prefecture, p.birth_date
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		LEFT JOIN profiles p ON p.id = a.user_id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Application, error) {
		var a Application
		err := row.Scan(
			&a.ID, &a.JobID, &a.UserID, &a.Status, &a.AdminMemo, &a.CreatedAt,
			&a.JobTitle, &a.JobType,
			&a.Email, &a.LastName, &a.FirstName, &a.LastNameKana, &a.FirstNameKana,
			&a.PhoneNumber, &a.Prefecture, &a.BirthDate,
		)
		return a, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan applications: %w", err)
	}
	return items, total, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(applicationNotFoundMsg)
	}
	return nil
}

func (r *Repository) UpdateMemo(ctx context.Context, id uuid.UUID, memo *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE applications SET admin_memo = $2 WHERE id = $1`, id, memo)
	if err != nil {
		return fmt.Errorf("failed to update application memo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(applicationNotFoundMsg)
	}
	return nil
}

func fullName(last, first *string) string {
	var parts []string
	for _, p := range []*string{last, first} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}
