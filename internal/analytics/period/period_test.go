package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Last30Days, p)

	p, err = Parse(" 7d ")
	require.NoError(t, err)
	assert.Equal(t, Last7Days, p)

	_, err = Parse("1y")
	assert.Error(t, err)
}

func TestSince(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	since := Last90Days.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), *since)
	assert.Nil(t, All.Since(now))
}
