package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/leads/domain"
	"jobboard_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeStore struct {
	clicks           []domain.ClickRow
	applications     []domain.ApplicationRow
	consultations    []domain.ConsultationRow
	profiles         []domain.Profile
	clicksErr        error
	consultationsErr error
	since            *time.Time
}

func (f *fakeStore) ListClicks(_ context.Context, since *time.Time) ([]domain.ClickRow, error) {
	f.since = since
	return f.clicks, f.clicksErr
}

func (f *fakeStore) ListApplications(context.Context, *time.Time) ([]domain.ApplicationRow, error) {
	return f.applications, nil
}

func (f *fakeStore) ListConsultations(context.Context, *time.Time) ([]domain.ConsultationRow, error) {
	return f.consultations, f.consultationsErr
}

func (f *fakeStore) ListProfiles(context.Context) ([]domain.Profile, error) {
	return f.profiles, nil
}

func newService(store *fakeStore) *Service {
	svc := New(store, logger.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

var (
	dispatchJob = &domain.JobRef{ID: "j1", Title: "倉庫スタッフ", Type: strPtr("派遣")}
	fulltimeJob = &domain.JobRef{ID: "j2", Title: "営業", Type: strPtr("正社員")}
)

func TestGetLeadManagementDataFiltersBySegment(t *testing.T) {
	store := &fakeStore{
		clicks: []domain.ClickRow{
			{ID: "k1", UserID: strPtr("u1"), ClickType: domain.ClickApply, ClickedAt: now, Job: dispatchJob},
			{ID: "k2", UserID: strPtr("u2"), ClickType: domain.ClickApply, ClickedAt: now.Add(-time.Hour), Job: fulltimeJob},
			{ID: "k3", ClickType: domain.ClickConsult, ClickedAt: now.Add(-2 * time.Hour)},
		},
		consultations: []domain.ConsultationRow{
			{ID: "c1", UserID: strPtr("u1"), Status: domain.StatusBooked, CreatedAt: now, Job: dispatchJob},
		},
	}
	svc := newService(store)

	data, err := svc.GetLeadManagementData(context.Background(), period.Last7Days, segment.FilterDispatch)
	require.NoError(t, err)

	require.Len(t, data.Leads, 1)
	assert.Equal(t, "u:u1", data.Leads[0].ID)
	assert.Equal(t, 1, data.Summary.ApplyClicks)
	assert.Equal(t, 0, data.Summary.ConsultClicks)
	assert.Equal(t, 100.0, data.Summary.ApplyToBookedRate)
	require.NotNil(t, store.since)
	assert.Equal(t, now.AddDate(0, 0, -7), *store.since)

	all, err := svc.GetLeadManagementData(context.Background(), period.All, segment.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all.Leads, 3)
	assert.Nil(t, store.since)
}

func TestGetLeadManagementDataTreatsFailedStreamAsEmpty(t *testing.T) {
	store := &fakeStore{
		clicksErr: errors.New("connection reset"),
		applications: []domain.ApplicationRow{
			{ID: "a1", UserID: strPtr("u1"), Status: "pending", CreatedAt: now},
		},
		consultationsErr: &pgconn.PgError{Code: "42P01"},
	}
	svc := newService(store)

	data, err := svc.GetLeadManagementData(context.Background(), period.Last30Days, segment.FilterAll)
	require.NoError(t, err)

	require.Len(t, data.Leads, 1)
	assert.Equal(t, 1, data.Summary.Applications)
	assert.NotNil(t, data.Consultations)
	assert.Empty(t, data.Consultations)
}

func TestGetLeadManagementDataSortsUnorderedStreams(t *testing.T) {
	store := &fakeStore{
		applications: []domain.ApplicationRow{
			{ID: "a1", UserID: strPtr("u1"), Status: "pending", CreatedAt: now.Add(-time.Hour)},
			{ID: "a2", UserID: strPtr("u1"), Status: "interview", CreatedAt: now},
		},
	}
	svc := newService(store)

	data, err := svc.GetLeadManagementData(context.Background(), period.All, segment.FilterAll)
	require.NoError(t, err)

	require.Len(t, data.Leads, 1)
	require.NotNil(t, data.Leads[0].LatestApplicationStatus)
	assert.Equal(t, "interview", *data.Leads[0].LatestApplicationStatus)
}
