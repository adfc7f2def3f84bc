package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"jobboard_backend/internal/consultations/repository"
	"jobboard_backend/internal/events"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

type fakeStore struct {
	inserted  bool
	upserts   []repository.UpsertParams
	updates   []repository.UpdateParams
	updateErr error
}

func (f *fakeStore) Upsert(_ context.Context, p repository.UpsertParams) (uuid.UUID, bool, error) {
	f.upserts = append(f.upserts, p)
	return uuid.MustParse("11111111-1111-1111-1111-111111111111"), f.inserted, nil
}

func (f *fakeStore) List(context.Context, repository.ListFilter) ([]repository.Booking, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) Update(_ context.Context, _ uuid.UUID, p repository.UpdateParams) error {
	f.updates = append(f.updates, p)
	return f.updateErr
}

type fakeReminders struct {
	calls []time.Time
}

func (f *fakeReminders) ScheduleConsultationReminder(_ context.Context, _ uuid.UUID, startsAt time.Time) error {
	f.calls = append(f.calls, startsAt)
	return nil
}

func newService(store Store, reminders ReminderScheduler, bus events.Bus, secret string) *Service {
	svc := New(store, reminders, bus, secret, logger.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

const futureBooking = `{
	"triggerEvent": "BOOKING_CREATED",
	"payload": {
		"uid": "bk_1",
		"startTime": "2026-03-05T01:00:00Z",
		"attendees": [{"name": "佐藤", "email": "Sato@Example.com", "phone": "090-1234-5678"}],
		"metadata": {"jobId": "not-a-uuid", "userId": "22222222-2222-2222-2222-222222222222"}
	}
}`

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil, nil, "secret")

	_, err := svc.HandleWebhook(context.Background(), []byte(futureBooking), "sha256=deadbeef", "203.0.113.1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	var domainErr *apperr.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus())
	assert.Empty(t, store.upserts)
}

func TestHandleWebhookSkipsVerificationWithoutSecret(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil, nil, "")

	resp, err := svc.HandleWebhook(context.Background(), []byte(futureBooking), "", "203.0.113.1")

	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "updated", resp.Mode)
	require.Len(t, store.upserts, 1)
}

func TestHandleWebhookStoresNormalizedBooking(t *testing.T) {
	store := &fakeStore{inserted: true}
	reminders := &fakeReminders{}
	bus := events.NewInMemoryBus(logger.Nop())
	var (
		mu     sync.Mutex
		booked []events.ConsultationBooked
	)
	bus.Subscribe(events.ConsultationBooked{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		booked = append(booked, e.(events.ConsultationBooked))
		return nil
	}))
	svc := newService(store, reminders, bus, "secret")
	body := []byte(futureBooking)

	resp, err := svc.HandleWebhook(context.Background(), body, sign(body, "secret"), "203.0.113.1")
	require.NoError(t, err)
	assert.Equal(t, "inserted", resp.Mode)

	require.Len(t, store.upserts, 1)
	p := store.upserts[0]
	assert.Equal(t, "booked", p.Status)
	require.NotNil(t, p.ExternalBookingID)
	assert.Equal(t, "bk_1", *p.ExternalBookingID)
	assert.Nil(t, p.JobID)
	require.NotNil(t, p.UserID)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", p.UserID.String())
	require.NotNil(t, p.AttendeeEmail)
	assert.Equal(t, "sato@example.com", *p.AttendeeEmail)
	require.NotNil(t, p.AttendeePhone)
	assert.Equal(t, "+819012345678", *p.AttendeePhone)
	assert.Nil(t, p.MeetingURL)

	require.Len(t, reminders.calls, 1)
	assert.Equal(t, time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC), reminders.calls[0].UTC())

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, booked, 1)
	assert.True(t, booked[0].Inserted)
}

func TestHandleWebhookCancellationSchedulesNothing(t *testing.T) {
	store := &fakeStore{}
	reminders := &fakeReminders{}
	svc := newService(store, reminders, nil, "")
	body := []byte(`{"triggerEvent":"BOOKING_CANCELLED","payload":{"uid":"bk_1","startTime":"2026-03-05T01:00:00Z"}}`)

	_, err := svc.HandleWebhook(context.Background(), body, "", "203.0.113.1")

	require.NoError(t, err)
	assert.Equal(t, "canceled", store.upserts[0].Status)
	assert.Empty(t, reminders.calls)
}

func TestHandleWebhookRejectsMalformedBody(t *testing.T) {
	svc := newService(&fakeStore{}, nil, nil, "")
	_, err := svc.HandleWebhook(context.Background(), []byte(`nope`), "", "203.0.113.1")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestHandleWebhookRejectsBookingWithoutID(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil, nil, "")
	body := []byte(`{"triggerEvent":"BOOKING_CREATED","payload":{"startTime":"2026-03-05T01:00:00Z"}}`)

	_, err := svc.HandleWebhook(context.Background(), body, "", "203.0.113.1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Empty(t, store.upserts)
}

func TestUpdateBookingWritesOnlyProvidedFields(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil, nil, "")
	url := "  "
	note := "<b>電話済み</b>"

	resp, err := svc.UpdateBooking(context.Background(), uuid.New(), UpdateBookingInput{MeetingURL: &url, AdminNote: &note})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, store.updates, 1)
	u := store.updates[0]
	assert.Nil(t, u.Status)
	require.NotNil(t, u.MeetingURL)
	assert.Equal(t, "", *u.MeetingURL)
	require.NotNil(t, u.AdminNote)
	assert.Equal(t, "電話済み", *u.AdminNote)
}

func TestUpdateBookingRejectsUnknownStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil, nil, "")
	status := "lost"

	_, err := svc.UpdateBooking(context.Background(), uuid.New(), UpdateBookingInput{Status: &status})

	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Empty(t, store.updates)
}

func TestUpdateBookingErrors(t *testing.T) {
	status := "no_show"

	notFound := newService(&fakeStore{updateErr: apperr.NotFound("consultation booking not found")}, nil, nil, "")
	_, err := notFound.UpdateBooking(context.Background(), uuid.New(), UpdateBookingInput{Status: &status})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	failing := newService(&fakeStore{updateErr: errors.New("connection reset")}, nil, nil, "")
	_, err = failing.UpdateBooking(context.Background(), uuid.New(), UpdateBookingInput{Status: &status})
	var domainErr *apperr.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus())
	assert.Equal(t, "connection reset", domainErr.Message)
}
