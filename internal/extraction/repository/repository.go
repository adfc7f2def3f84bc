// Package repository stores extraction batches and the draft postings they
// produce.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobboard_backend/internal/extraction/transport"
	"jobboard_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	batchNotFoundMsg = "batch not found"
	draftNotFoundMsg = "draft job not found"
)

// Batch is an extraction_batches row.
type Batch struct {
	ID             uuid.UUID
	TotalFiles     int
	ProcessedCount int
	SuccessCount   int
	WarningCount   int
	ErrorCount     int
	Status         string
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Draft is a draft_jobs row.
type Draft struct {
	ID             uuid.UUID
	BatchID        *uuid.UUID
	Title          string
	Data           transport.JobData
	SourceFileKey  *string
	SourceFileName *string
	SourceFileType *string
	SourceMode     string
	Status         string
	Warnings       []string
	AIConfidence   *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Outcome is the extraction result recorded on a pending draft.
type Outcome struct {
	Title        string
	Data         transport.JobData
	Status       string
	Warnings     []string
	AIConfidence *int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const draftColumns = `id, batch_id, title, data, source_file_key, source_file_name, source_file_type,
	source_mode, extraction_status, extraction_warnings, ai_confidence, created_at, updated_at`

func scanDraft(row pgx.Row) (Draft, error) {
	var (
		d   Draft
		raw []byte
	)
	err := row.Scan(&d.ID, &d.BatchID, &d.Title, &raw, &d.SourceFileKey, &d.SourceFileName, &d.SourceFileType,
		&d.SourceMode, &d.Status, &d.Warnings, &d.AIConfidence, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Draft{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d.Data); err != nil {
			return Draft{}, fmt.Errorf("failed to decode draft data: %w", err)
		}
	}
	return d, nil
}

// CreateBatch opens a batch expecting totalFiles results.
func (r *Repository) CreateBatch(ctx context.Context, totalFiles int, createdBy *uuid.UUID) (Batch, error) {
	b := Batch{TotalFiles: totalFiles, Status: transport.BatchProcessing, CreatedBy: createdBy}
	err := r.pool.QueryRow(ctx, `INSERT INTO extraction_batches (total_files, status, created_by)
		VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		totalFiles, b.Status, createdBy).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to create extraction batch: %w", err)
	}
	return b, nil
}

func (r *Repository) GetBatch(ctx context.Context, id uuid.UUID) (Batch, error) {
	var b Batch
	err := r.pool.QueryRow(ctx, `SELECT id, total_files, processed_count, success_count, warning_count,
		error_count, status, created_by, created_at, updated_at FROM extraction_batches WHERE id = $1`, id).
		Scan(&b.ID, &b.TotalFiles, &b.ProcessedCount, &b.SuccessCount, &b.WarningCount,
			&b.ErrorCount, &b.Status, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, apperr.NotFound(batchNotFoundMsg)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("failed to get extraction batch: %w", err)
	}
	return b, nil
}

// CreateDraft inserts a draft. A draft that is already settled (an upload
// failure) counts towards its batch in the same transaction.
func (r *Repository) CreateDraft(ctx context.Context, d Draft) (uuid.UUID, error) {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode draft data: %w", err)
	}
	if d.Warnings == nil {
		d.Warnings = []string{}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `INSERT INTO draft_jobs (batch_id, title, data, source_file_key, source_file_name,
			source_file_type, source_mode, extraction_status, extraction_warnings, ai_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		d.BatchID, d.Title, data, d.SourceFileKey, d.SourceFileName, d.SourceFileType,
		d.SourceMode, d.Status, d.Warnings, d.AIConfidence).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create draft job: %w", err)
	}

	if d.Status != transport.DraftPending && d.BatchID != nil {
		if err := countResult(ctx, tx, *d.BatchID, d.Status); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit draft job: %w", err)
	}
	return id, nil
}

// FinishDraft records the outcome of a pending draft and advances its batch.
// It reports false when the draft was no longer pending, leaving the batch
// untouched, so redelivered tasks are counted once.
func (r *Repository) FinishDraft(ctx context.Context, id uuid.UUID, o Outcome) (bool, error) {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return false, fmt.Errorf("failed to encode draft data: %w", err)
	}
	if o.Warnings == nil {
		o.Warnings = []string{}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var batchID *uuid.UUID
	err = tx.QueryRow(ctx, `UPDATE draft_jobs SET title = $2, data = $3, extraction_status = $4,
			extraction_warnings = $5, ai_confidence = $6, updated_at = now()
		WHERE id = $1 AND extraction_status = 'pending' RETURNING batch_id`,
		id, o.Title, data, o.Status, o.Warnings, o.AIConfidence).Scan(&batchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to finish draft job: %w", err)
	}

	if batchID != nil {
		if err := countResult(ctx, tx, *batchID, o.Status); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit draft job: %w", err)
	}
	return true, nil
}

// countResult bumps the batch counters for one settled file and completes the
// batch with its last file.
func countResult(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `UPDATE extraction_batches SET
			processed_count = processed_count + 1,
			success_count = success_count + CASE WHEN $2::text = 'success' THEN 1 ELSE 0 END,
			warning_count = warning_count + CASE WHEN $2::text = 'warning' THEN 1 ELSE 0 END,
			error_count = error_count + CASE WHEN $2::text = 'error' THEN 1 ELSE 0 END,
			status = CASE WHEN processed_count + 1 >= total_files THEN 'completed' ELSE status END,
			updated_at = now()
		WHERE id = $1`, batchID, status)
	if err != nil {
		return fmt.Errorf("failed to update extraction batch: %w", err)
	}
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	d, err := scanDraft(r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM draft_jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, apperr.NotFound(draftNotFoundMsg)
	}
	if err != nil {
		return Draft{}, fmt.Errorf("failed to get draft job: %w", err)
	}
	return d, nil
}

// ListDrafts returns drafts newest first, of one batch when batchID is set.
func (r *Repository) ListDrafts(ctx context.Context, batchID *uuid.UUID) ([]Draft, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+draftColumns+` FROM draft_jobs
		WHERE $1::uuid IS NULL OR batch_id = $1 ORDER BY created_at DESC`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft jobs: %w", err)
	}
	drafts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Draft, error) {
		return scanDraft(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft jobs: %w", err)
	}
	return drafts, nil
}

// UpdateDraft replaces the draft title and data.
func (r *Repository) UpdateDraft(ctx context.Context, id uuid.UUID, title string, data transport.JobData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode draft data: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE draft_jobs SET title = $2, data = $3, updated_at = now() WHERE id = $1`,
		id, title, raw)
	if err != nil {
		return fmt.Errorf("failed to update draft job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(draftNotFoundMsg)
	}
	return nil
}

func (r *Repository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM draft_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(draftNotFoundMsg)
	}
	return nil
}

// DeleteDrafts removes the given drafts and returns how many went.
func (r *Repository) DeleteDrafts(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM draft_jobs WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete draft jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
