// Package service implements profile use cases.
package service

import (
	"context"
	"strings"
	"time"

	"jobboard_backend/internal/auth/repository"
	"jobboard_backend/internal/auth/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/phone"

	"github.com/google/uuid"
)

// ProfileStore is the persistence the service needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, id uuid.UUID) (repository.Profile, error)
	UpsertProfile(ctx context.Context, id uuid.UUID, u repository.ProfileUpdate) (repository.Profile, error)
}

type Service struct {
	repo ProfileStore
}

func New(repo ProfileStore) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateMe saves the caller's profile. The email comes from the token, not
// the body.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, tokenEmail string, req transport.UpdateProfileRequest) (repository.Profile, error) {
	update := repository.ProfileUpdate{
		LastName:      optional(req.LastName),
		FirstName:     optional(req.FirstName),
		LastNameKana:  optional(req.LastNameKana),
		FirstNameKana: optional(req.FirstNameKana),
		Prefecture:    optional(req.Prefecture),
		PhoneNumber:   phone.NormalizePtr(optional(req.PhoneNumber)),
	}
	update.Email = optional(tokenEmail)

	if raw := strings.TrimSpace(req.BirthDate); raw != "" {
		birth, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return repository.Profile{}, apperr.Validation("birthDate must be YYYY-MM-DD")
		}
		if birth.After(time.Now()) {
			return repository.Profile{}, apperr.Validation("birthDate must be in the past")
		}
		update.BirthDate = &birth
	}

	return s.repo.UpsertProfile(ctx, userID, update)
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
