package adapters

import (
	"context"
	"strings"
	"testing"

	extractiontransport "jobboard_backend/internal/extraction/transport"
	jobstransport "jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobCreator struct {
	got []jobstransport.UpsertJobRequest
	id  uuid.UUID
}

func (f *fakeJobCreator) Create(_ context.Context, req jobstransport.UpsertJobRequest) (jobstransport.JobResponse, error) {
	f.got = append(f.got, req)
	return jobstransport.JobResponse{ID: f.id, Title: req.Title}, nil
}

func intPtr(n int) *int { return &n }

func TestDraftToJobRequestMapsDispatchDraft(t *testing.T) {
	req := DraftToJobRequest(extractiontransport.JobData{
		Title:             " コールセンター ",
		Type:              "派遣",
		Area:              "東京都",
		HourlyWage:        intPtr(1600),
		Requirements:      []string{"PC操作", "未経験OK"},
		Attire:            "オフィスカジュアル",
		ClientCompanyName: "株式会社サンプル",
		Tags:              []string{"駅チカ"},
	})

	assert.Equal(t, "コールセンター", req.Title)
	require.NotNil(t, req.Type)
	assert.Equal(t, "派遣", *req.Type)
	assert.Nil(t, req.Salary)
	require.NotNil(t, req.Requirements)
	assert.Equal(t, "PC操作\n未経験OK", *req.Requirements)
	require.NotNil(t, req.AttireType)
	assert.Equal(t, "オフィスカジュアル", *req.AttireType)
	assert.Equal(t, 1600, *req.HourlyWage)
	require.NotNil(t, req.Dispatch)
	assert.Equal(t, "株式会社サンプル", *req.Dispatch.ClientCompanyName)
	assert.Nil(t, req.Fulltime)
	assert.Equal(t, []string{"駅チカ"}, req.Tags)
}

func TestDraftToJobRequestMapsFulltimeDraft(t *testing.T) {
	req := DraftToJobRequest(extractiontransport.JobData{
		Title:           "営業職",
		Type:            "正社員",
		CompanyName:     "株式会社サンプル",
		AnnualSalaryMin: intPtr(400),
	})

	assert.Nil(t, req.Dispatch)
	require.NotNil(t, req.Fulltime)
	assert.Equal(t, 400, *req.Fulltime.AnnualSalaryMin)
	assert.Nil(t, req.Requirements)
}

func TestPublishDraftCreatesJob(t *testing.T) {
	jobs := &fakeJobCreator{id: uuid.New()}

	id, err := NewDraftJobPublisher(jobs, validator.New()).PublishDraft(context.Background(), extractiontransport.JobData{Title: "受付"})

	require.NoError(t, err)
	assert.Equal(t, jobs.id, id)
	require.Len(t, jobs.got, 1)
	assert.Equal(t, "受付", jobs.got[0].Title)
}

func TestPublishDraftRejectsInvalidFields(t *testing.T) {
	jobs := &fakeJobCreator{}

	_, err := NewDraftJobPublisher(jobs, validator.New()).PublishDraft(context.Background(), extractiontransport.JobData{
		Title: strings.Repeat("長", 201),
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, jobs.got)
}
