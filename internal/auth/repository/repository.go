// Package repository reads and writes user profiles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Profile is a row of the profiles table.
type Profile struct {
	ID            uuid.UUID
	Email         *string
	LastName      *string
	FirstName     *string
	LastNameKana  *string
	FirstNameKana *string
	BirthDate     *time.Time
	Prefecture    *string
	PhoneNumber   *string
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate holds the user-editable profile columns.
type ProfileUpdate struct {
	Email         *string
	LastName      *string
	FirstName     *string
	LastNameKana  *string
	FirstNameKana *string
	BirthDate     *time.Time
	Prefecture    *string
	PhoneNumber   *string
}

const profileColumns = `id, email, last_name, first_name, last_name_kana, first_name_kana,
	birth_date, prefecture, phone_number, is_admin, created_at, updated_at`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.LastName, &p.FirstName, &p.LastNameKana, &p.FirstNameKana,
		&p.BirthDate, &p.Prefecture, &p.PhoneNumber, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, apperr.NotFound("profile not found")
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile creates the profile on first save. is_admin is never
// written from here.
func (r *Repository) UpsertProfile(ctx context.Context, id uuid.UUID, u ProfileUpdate) (Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, last_name, first_name, last_name_kana, first_name_kana,
			birth_date, prefecture, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, profiles.email),
			last_name = EXCLUDED.last_name,
			first_name = EXCLUDED.first_name,
			last_name_kana = EXCLUDED.last_name_kana,
			first_name_kana = EXCLUDED.first_name_kana,
			birth_date = EXCLUDED.birth_date,
			prefecture = EXCLUDED.prefecture,
			phone_number = EXCLUDED.phone_number,
			updated_at = now()
		RETURNING `+profileColumns,
		id, u.Email, u.LastName, u.FirstName, u.LastNameKana, u.FirstNameKana,
		u.BirthDate, u.Prefecture, u.PhoneNumber,
	))
	if err != nil {
		return Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// IsAdmin implements httpkit.AdminChecker. A missing profile is not admin.
func (r *Repository) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	var isAdmin bool
	err := r.pool.QueryRow(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, id).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return isAdmin, nil
}
