package service

import (
	"context"
	"testing"

	"jobboard_backend/internal/auth/repository"
	"jobboard_backend/internal/auth/transport"
	"jobboard_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	saved repository.ProfileUpdate
	calls int
}

func (f *fakeStore) GetProfile(context.Context, uuid.UUID) (repository.Profile, error) {
	return repository.Profile{}, apperr.NotFound("profile not found")
}

func (f *fakeStore) UpsertProfile(_ context.Context, id uuid.UUID, u repository.ProfileUpdate) (repository.Profile, error) {
	f.saved = u
	f.calls++
	return repository.Profile{ID: id, PhoneNumber: u.PhoneNumber, BirthDate: u.BirthDate}, nil
}

func TestUpdateMeNormalizesPhoneAndTrims(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	_, err := svc.UpdateMe(context.Background(), uuid.New(), "taro@example.com", transport.UpdateProfileRequest{
		LastName:    " 山田 ",
		FirstName:   "",
		BirthDate:   "1995-04-01",
		PhoneNumber: "090-1234-5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.saved.LastName == nil || *store.saved.LastName != "山田" {
		t.Fatalf("expected trimmed last name, got %v", store.saved.LastName)
	}
	if store.saved.FirstName != nil {
		t.Fatalf("expected blank first name to be nil")
	}
	if store.saved.PhoneNumber == nil || *store.saved.PhoneNumber != "+819012345678" {
		t.Fatalf("expected E.164 phone, got %v", store.saved.PhoneNumber)
	}
	if store.saved.Email == nil || *store.saved.Email != "taro@example.com" {
		t.Fatalf("expected token email to be stored")
	}
	if store.saved.BirthDate == nil || store.saved.BirthDate.Year() != 1995 {
		t.Fatalf("expected parsed birth date, got %v", store.saved.BirthDate)
	}
}

func TestUpdateMeRejectsFutureBirthDate(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	_, err := svc.UpdateMe(context.Background(), uuid.New(), "", transport.UpdateProfileRequest{BirthDate: "2999-01-01"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected no write, got %d", store.calls)
	}
}
