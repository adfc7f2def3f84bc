package adapters

import (
	"context"
	"strings"

	extraction "jobboard_backend/internal/extraction/service"
	extractiontransport "jobboard_backend/internal/extraction/transport"
	jobstransport "jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/validator"

	"github.com/google/uuid"
)

// JobCreator is the jobs service write the adapter needs.
type JobCreator interface {
	Create(ctx context.Context, req jobstransport.UpsertJobRequest) (jobstransport.JobResponse, error)
}

// DraftJobPublisher creates job postings from extraction drafts, satisfying
// extraction.JobPublisher.
type DraftJobPublisher struct {
	jobs JobCreator
	val  *validator.Validator
}

// NewDraftJobPublisher creates a new draft publishing adapter.
func NewDraftJobPublisher(jobs JobCreator, val *validator.Validator) *DraftJobPublisher {
	return &DraftJobPublisher{jobs: jobs, val: val}
}

// PublishDraft validates the draft as an admin job body and creates it.
func (a *DraftJobPublisher) PublishDraft(ctx context.Context, data extractiontransport.JobData) (uuid.UUID, error) {
	req := DraftToJobRequest(data)
	if err := a.val.Struct(req); err != nil {
		return uuid.Nil, apperr.Validation("invalid job fields").WithDetails(validator.FieldErrors(err))
	}
	job, err := a.jobs.Create(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

// DraftToJobRequest maps extracted fields onto the admin job body. Detail
// blocks are set only when one of their fields is present.
func DraftToJobRequest(d extractiontransport.JobData) jobstransport.UpsertJobRequest {
	attire := d.AttireType
	if attire == "" {
		attire = d.Attire
	}
	req := jobstransport.UpsertJobRequest{
		Title:             strings.TrimSpace(d.Title),
		Type:              optional(d.Type),
		Category:          optional(d.Category),
		Area:              optional(d.Area),
		Salary:            optional(d.Salary),
		HourlyWage:        d.HourlyWage,
		SalaryDescription: optional(d.SalaryDescription),
		Description:       optional(d.Description),
		Requirements:      optional(strings.Join(d.Requirements, "\n")),
		WorkingHours:      optional(d.WorkingHours),
		Holidays:          d.Holidays,
		Benefits:          d.Benefits,
		Tags:              d.Tags,
		SelectionProcess:  optional(d.SelectionProcess),
		NearestStation:    optional(d.NearestStation),
		WorkplaceName:     optional(d.WorkplaceName),
		WorkplaceAddress:  optional(d.WorkplaceAddress),
		WorkplaceAccess:   optional(d.WorkplaceAccess),
		AttireType:        optional(attire),
		HairStyle:         optional(d.HairStyle),
		StartDate:         optional(d.StartDate),
		Period:            optional(d.Period),
	}

	dispatch := jobstransport.DispatchDetails{
		ClientCompanyName: optional(d.ClientCompanyName),
		TrainingPeriod:    optional(d.TrainingPeriod),
		TrainingSalary:    optional(d.TrainingSalary),
		ActualWorkHours:   optional(d.ActualWorkHours),
		WorkDaysPerWeek:   optional(d.WorkDaysPerWeek),
		EndDate:           optional(d.EndDate),
		NailPolicy:        optional(d.NailPolicy),
		GeneralNotes:      optional(d.GeneralNotes),
	}
	if dispatch != (jobstransport.DispatchDetails{}) {
		req.Dispatch = &dispatch
	}

	fulltime := jobstransport.FulltimeDetails{
		CompanyName:         optional(d.CompanyName),
		Industry:            optional(d.Industry),
		CompanyOverview:     optional(d.CompanyOverview),
		CompanySize:         optional(d.CompanySize),
		AnnualSalaryMin:     d.AnnualSalaryMin,
		AnnualSalaryMax:     d.AnnualSalaryMax,
		OvertimeHours:       optional(d.OvertimeHours),
		AnnualHolidays:      optional(d.AnnualHolidays),
		ProbationPeriod:     optional(d.ProbationPeriod),
		ProbationDetails:    optional(d.ProbationDetails),
		AppealPoints:        optional(d.AppealPoints),
		WelcomeRequirements: optional(d.WelcomeRequirements),
	}
	if fulltime != (jobstransport.FulltimeDetails{}) {
		req.Fulltime = &fulltime
	}
	return req
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var _ extraction.JobPublisher = (*DraftJobPublisher)(nil)
