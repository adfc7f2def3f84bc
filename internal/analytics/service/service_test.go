package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard_backend/internal/analytics/repository"
	"jobboard_backend/internal/analytics/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data    Dataset
	jobsErr error
	viewErr error
	appsErr error
}

func (f *fakeStore) ListJobs(context.Context) ([]repository.JobRow, error) {
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return f.data.Jobs, nil
}

func (f *fakeStore) ViewCounts(context.Context, *time.Time) ([]repository.DailyCount, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return f.data.Views, nil
}

func (f *fakeStore) ApplicationCounts(context.Context, *time.Time) ([]repository.StatusDailyCount, error) {
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	return f.data.Applications, nil
}

func newTestService(store Store) *Service {
	svc := New(store, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSummaryKeepsLoadedStreamsWhenViewsFail(t *testing.T) {
	store := &fakeStore{data: sampleDataset(), viewErr: errors.New("connection reset")}

	s, err := newTestService(store).Summary(context.Background(), transport.QueryRequest{Period: "all"})

	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalViews)
	assert.Equal(t, 4, s.TotalApplications)
	assert.Equal(t, 3, s.ActiveJobs)
	assert.Equal(t, 0.0, s.CVR)
}

func TestRankingKeepsViewsWhenApplicationsFail(t *testing.T) {
	store := &fakeStore{data: sampleDataset(), appsErr: errors.New("timeout")}

	ranking, err := newTestService(store).JobRanking(context.Background(), transport.RankingRequest{})

	require.NoError(t, err)
	require.NotEmpty(t, ranking)
	assert.Equal(t, "d1", ranking[0].JobID)
	assert.Equal(t, 30, ranking[0].Views)
	assert.Equal(t, 0, ranking[0].Applications)
}

func TestStatusBreakdownWithoutJobs(t *testing.T) {
	store := &fakeStore{data: sampleDataset(), jobsErr: errors.New("relation busy")}

	counts, err := newTestService(store).StatusBreakdown(context.Background(), transport.QueryRequest{})

	require.NoError(t, err)
	require.Len(t, counts, len(ApplicationStatuses))
	assert.Equal(t, "pending", counts[0].Status)
	assert.Equal(t, 3, counts[0].Count)
}

func TestLoadRejectsUnknownPeriod(t *testing.T) {
	_, err := newTestService(&fakeStore{}).Summary(context.Background(), transport.QueryRequest{Period: "1y"})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestLoadFailsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(&fakeStore{data: sampleDataset()}).Summary(ctx, transport.QueryRequest{})

	require.ErrorIs(t, err, context.Canceled)
}
