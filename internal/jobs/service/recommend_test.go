package service

import (
	"testing"

	"jobboard_backend/internal/jobs/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestRankRecommendationsScoresAreaCategoryType(t *testing.T) {
	base := repository.Job{ID: uuid.New(), Area: ptr("東京都 渋谷区"), Category: ptr("事務"), Type: ptr("派遣")}

	typeOnly := repository.Job{ID: uuid.New(), Area: ptr("大阪府 大阪市"), Type: ptr("派遣")}
	areaOnly := repository.Job{ID: uuid.New(), Area: ptr("東京都 新宿区")}
	all := repository.Job{ID: uuid.New(), Area: ptr("東京都 港区"), Category: ptr("事務"), Type: ptr("派遣")}
	searchArea := repository.Job{ID: uuid.New(), Area: ptr("神奈川県"), SearchAreas: []string{"東京都 品川区"}, Category: ptr("事務")}

	got := RankRecommendations(base, []repository.Job{typeOnly, areaOnly, all, searchArea}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, all.ID, got[0].ID)
	assert.Equal(t, searchArea.ID, got[1].ID)
	assert.Equal(t, areaOnly.ID, got[2].ID)
}

func TestRankRecommendationsKeepsRecencyOnTies(t *testing.T) {
	base := repository.Job{ID: uuid.New()}
	newer := repository.Job{ID: uuid.New()}
	older := repository.Job{ID: uuid.New()}

	got := RankRecommendations(base, []repository.Job{newer, base, older}, 6)

	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestBookingURL(t *testing.T) {
	got := BookingURL("acme/consult", "consult", "job-1", "")
	assert.Equal(t, "https://cal.com/acme/consult?theme=light&metadata[clickType]=consult&metadata[jobId]=job-1", got)

	withUser := BookingURL("/acme/apply/", "apply", "job-1", "user-1")
	assert.Equal(t, "https://cal.com/acme/apply?theme=light&metadata[clickType]=apply&metadata[jobId]=job-1&metadata[userId]=user-1", withUser)
}
