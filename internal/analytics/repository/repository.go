package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportTimeZone buckets daily counts.
const ReportTimeZone = "Asia/Tokyo"

// JobRow is the per-job data every report needs.
type JobRow struct {
	ID     string
	Title  string
	Type   *string
	Active bool
}

// DailyCount is a number of non-bot views of a job on a local date.
type DailyCount struct {
	JobID string
	Day   string
	Count int
}

// StatusDailyCount is a number of applications of a job per date and status.
type StatusDailyCount struct {
	JobID  string
	Day    string
	Status string
	Count  int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListJobs(ctx context.Context) ([]JobRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, title, type,
		(expires_at IS NULL OR expires_at > now()) AS active
		FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for analytics: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (JobRow, error) {
		var j JobRow
		err := row.Scan(&j.ID, &j.Title, &j.Type, &j.Active)
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return out, nil
}

// ViewCounts groups non-bot views by job and local date.
func (r *Repository) ViewCounts(ctx context.Context, since *time.Time) ([]DailyCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT job_id::text,
			to_char(viewed_at AT TIME ZONE '`+ReportTimeZone+`', 'YYYY-MM-DD') AS day,
			COUNT(*)
		FROM job_views
		WHERE is_bot = false AND ($1::timestamptz IS NULL OR viewed_at >= $1)
		GROUP BY 1, 2`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count job views: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DailyCount, error) {
		var c DailyCount
		err := row.Scan(&c.JobID, &c.Day, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan view counts: %w", err)
	}
	return out, nil
}

// ApplicationCounts groups applications by job, local date and status.
func (r *Repository) ApplicationCounts(ctx context.Context, since *time.Time) ([]StatusDailyCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT job_id::text,
			to_char(created_at AT TIME ZONE '`+ReportTimeZone+`', 'YYYY-MM-DD') AS day,
			status,
			COUNT(*)
		FROM applications
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		GROUP BY 1, 2, 3`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StatusDailyCount, error) {
		var c StatusDailyCount
		err := row.Scan(&c.JobID, &c.Day, &c.Status, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan application counts: %w", err)
	}
	return out, nil
}
