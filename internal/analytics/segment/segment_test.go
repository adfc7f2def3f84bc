package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDetect(t *testing.T) {
	cases := map[string]struct {
		in   *string
		want Segment
	}{
		"nil":                    {nil, Unknown},
		"fulltime":               {ptr("正社員"), Fulltime},
		"fulltime with spaces":   {ptr(" 正 社員 "), Fulltime},
		"dispatch":               {ptr("派遣"), Dispatch},
		"temp to perm":           {ptr("紹介予定派遣"), Dispatch},
		"dispatch with ideo gap": {ptr("派　遣"), Dispatch},
		"contract":               {ptr("契約社員"), Unknown},
		"empty":                  {ptr(""), Unknown},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tc.in))
		})
	}
}

func TestMatchesFilters(t *testing.T) {
	lookup := map[string]Segment{
		"j1": Fulltime,
		"j2": Dispatch,
		"j3": Unknown,
	}

	assert.True(t, Matches(FilterAll, "j1", lookup))
	assert.True(t, Matches(FilterAll, "j2", lookup))
	assert.False(t, Matches(FilterAll, "j3", lookup))

	assert.True(t, Matches(FilterFulltime, "j1", lookup))
	assert.False(t, Matches(FilterFulltime, "j2", lookup))
	assert.False(t, Matches(FilterFulltime, "j3", lookup))

	assert.False(t, Matches(FilterDispatch, "j1", lookup))
	assert.True(t, Matches(FilterDispatch, "j2", lookup))
	assert.False(t, Matches(FilterDispatch, "j3", lookup))

	assert.False(t, Matches(FilterAll, "missing", lookup))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("dispatch")
	require.NoError(t, err)
	assert.Equal(t, FilterDispatch, f)

	_, err = ParseFilter("parttime")
	assert.Error(t, err)
}

func TestKeepAllKeepsUnclassified(t *testing.T) {
	lookup := map[string]Segment{"j1": Fulltime, "j3": Unknown}

	assert.True(t, Keep(FilterAll, "j3", lookup))
	assert.True(t, Keep(FilterAll, "", lookup))
	assert.False(t, Keep(FilterFulltime, "j3", lookup))
	assert.True(t, Keep(FilterFulltime, "j1", lookup))
}
