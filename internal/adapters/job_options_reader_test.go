package adapters

import (
	"context"
	"errors"
	"testing"

	jobsrepo "jobboard_backend/internal/jobs/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOptionLister struct {
	rows []jobsrepo.Option
	err  error
	got  string
}

func (f *fakeOptionLister) ListOptions(_ context.Context, category string) ([]jobsrepo.Option, error) {
	f.got = category
	return f.rows, f.err
}

func TestJobOptionsReaderMapsRows(t *testing.T) {
	lister := &fakeOptionLister{rows: []jobsrepo.Option{
		{Category: "tags", Label: "未経験OK", Value: "inexperienced_ok", SortOrder: 1},
		{Category: "tags", Label: "駅チカ", Value: "near_station", SortOrder: 2},
	}}

	out, err := NewJobOptionsReader(lister).ListOptions(context.Background(), "tags")

	require.NoError(t, err)
	assert.Equal(t, "tags", lister.got)
	require.Len(t, out, 2)
	assert.Equal(t, "未経験OK", out[0].Label)
	assert.Equal(t, "near_station", out[1].Value)
}

func TestJobOptionsReaderWrapsError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewJobOptionsReader(&fakeOptionLister{err: boom}).ListOptions(context.Background(), "tags")

	assert.ErrorIs(t, err, boom)
}
