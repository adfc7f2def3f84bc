package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"jobboard_backend/internal/applications/repository"
	"jobboard_backend/internal/events"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	applied bool
	created int
	memo    *string
}

func (f *fakeStore) HasApplied(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.applied, nil
}

func (f *fakeStore) Create(_ context.Context, jobID, userID uuid.UUID) (repository.Application, error) {
	f.created++
	return repository.Application{ID: uuid.New(), JobID: jobID, UserID: userID, Status: "pending", CreatedAt: time.Now()}, nil
}

func (f *fakeStore) Summary(context.Context, uuid.UUID, uuid.UUID) (repository.ApplicantSummary, error) {
	return repository.ApplicantSummary{JobTitle: "倉庫スタッフ", ApplicantName: "山田 太郎"}, nil
}

func (f *fakeStore) List(context.Context, repository.ListFilter) ([]repository.Application, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) UpdateStatus(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeStore) UpdateMemo(_ context.Context, _ uuid.UUID, memo *string) error {
	f.memo = memo
	return nil
}

func TestApplyPublishesSubmittedEvent(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Nop())
	var (
		mu       sync.Mutex
		received []events.ApplicationSubmitted
	)
	bus.Subscribe(events.ApplicationSubmitted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.(events.ApplicationSubmitted))
		return nil
	}))

	store := &fakeStore{}
	svc := New(store, bus, logger.Nop())

	resp, err := svc.Apply(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "pending", string(resp.Status))

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "山田 太郎", received[0].ApplicantName)
	assert.Equal(t, resp.ID, received[0].ApplicationID)
}

func TestApplyRejectsDuplicates(t *testing.T) {
	store := &fakeStore{applied: true}
	svc := New(store, nil, logger.Nop())

	_, err := svc.Apply(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, repository.CodeAlreadyApplied, err.(*apperr.Error).Message)
	assert.Zero(t, store.created)
}

func TestUpdateMemoSanitizes(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil, logger.Nop())

	require.NoError(t, svc.UpdateMemo(context.Background(), uuid.New(), " <b>面接</b>調整中 "))
	require.NotNil(t, store.memo)
	assert.Equal(t, "面接調整中", *store.memo)

	require.NoError(t, svc.UpdateMemo(context.Background(), uuid.New(), "   "))
	assert.Nil(t, store.memo)
}
