package service

import (
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/sanitize"
)

func toListResponse(jobs []repository.Job) transport.JobListResponse {
	items := make([]transport.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, toResponse(j))
	}
	return transport.JobListResponse{Items: items, Total: len(items)}
}

func toResponse(j repository.Job) transport.JobResponse {
	resp := transport.JobResponse{
		ID:                j.ID,
		Title:             j.Title,
		Type:              j.Type,
		Segment:           string(segment.Detect(j.Type)),
		Category:          j.Category,
		Area:              j.Area,
		SearchAreas:       emptyIfNil(j.SearchAreas),
		Salary:            j.Salary,
		HourlyWage:        j.HourlyWage,
		SalaryDescription: j.SalaryDescription,
		Description:       j.Description,
		Requirements:      j.Requirements,
		WorkingHours:      j.WorkingHours,
		Holidays:          emptyIfNil(j.Holidays),
		Benefits:          emptyIfNil(j.Benefits),
		Tags:              emptyIfNil(j.Tags),
		SelectionProcess:  j.SelectionProcess,
		NearestStation:    j.NearestStation,
		WorkplaceName:     j.WorkplaceName,
		WorkplaceAddress:  j.WorkplaceAddress,
		WorkplaceAccess:   j.WorkplaceAccess,
		AttireType:        j.AttireType,
		HairStyle:         j.HairStyle,
		StartDate:         j.StartDate,
		Period:            j.Period,
		ExpiresAt:         j.ExpiresAt,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
	if d := j.Dispatch; d != nil {
		resp.Dispatch = &transport.DispatchDetails{
			ClientCompanyName: d.ClientCompanyName,
			TrainingPeriod:    d.TrainingPeriod,
			TrainingSalary:    d.TrainingSalary,
			ActualWorkHours:   d.ActualWorkHours,
			WorkDaysPerWeek:   d.WorkDaysPerWeek,
			EndDate:           d.EndDate,
			NailPolicy:        d.NailPolicy,
			GeneralNotes:      d.GeneralNotes,
		}
	}
	if f := j.Fulltime; f != nil {
		resp.Fulltime = &transport.FulltimeDetails{
			CompanyName:         f.CompanyName,
			Industry:            f.Industry,
			CompanyOverview:     f.CompanyOverview,
			CompanySize:         f.CompanySize,
			AnnualSalaryMin:     f.AnnualSalaryMin,
			AnnualSalaryMax:     f.AnnualSalaryMax,
			OvertimeHours:       f.OvertimeHours,
			AnnualHolidays:      f.AnnualHolidays,
			ProbationPeriod:     f.ProbationPeriod,
			ProbationDetails:    f.ProbationDetails,
			AppealPoints:        f.AppealPoints,
			WelcomeRequirements: f.WelcomeRequirements,
		}
	}
	return resp
}

// fromRequest sanitizes admin input into a job row.
func fromRequest(req transport.UpsertJobRequest) repository.Job {
	j := repository.Job{
		Title:             sanitize.Text(req.Title),
		Type:              sanitize.TextPtr(req.Type),
		Category:          sanitize.TextPtr(req.Category),
		Area:              sanitize.TextPtr(req.Area),
		SearchAreas:       cleanList(req.SearchAreas),
		Salary:            sanitize.TextPtr(req.Salary),
		HourlyWage:        req.HourlyWage,
		SalaryDescription: sanitize.TextPtr(req.SalaryDescription),
		Description:       sanitize.TextPtr(req.Description),
		Requirements:      sanitize.TextPtr(req.Requirements),
		WorkingHours:      sanitize.TextPtr(req.WorkingHours),
		Holidays:          cleanList(req.Holidays),
		Benefits:          cleanList(req.Benefits),
		Tags:              cleanList(req.Tags),
		SelectionProcess:  sanitize.TextPtr(req.SelectionProcess),
		NearestStation:    sanitize.TextPtr(req.NearestStation),
		WorkplaceName:     sanitize.TextPtr(req.WorkplaceName),
		WorkplaceAddress:  sanitize.TextPtr(req.WorkplaceAddress),
		WorkplaceAccess:   sanitize.TextPtr(req.WorkplaceAccess),
		AttireType:        sanitize.TextPtr(req.AttireType),
		HairStyle:         sanitize.TextPtr(req.HairStyle),
		StartDate:         sanitize.TextPtr(req.StartDate),
		Period:            sanitize.TextPtr(req.Period),
		ExpiresAt:         req.ExpiresAt,
	}
	if d := req.Dispatch; d != nil {
		j.Dispatch = &repository.DispatchDetails{
			ClientCompanyName: sanitize.TextPtr(d.ClientCompanyName),
			TrainingPeriod:    sanitize.TextPtr(d.TrainingPeriod),
			TrainingSalary:    sanitize.TextPtr(d.TrainingSalary),
			ActualWorkHours:   sanitize.TextPtr(d.ActualWorkHours),
			WorkDaysPerWeek:   sanitize.TextPtr(d.WorkDaysPerWeek),
			EndDate:           sanitize.TextPtr(d.EndDate),
			NailPolicy:        sanitize.TextPtr(d.NailPolicy),
			GeneralNotes:      sanitize.TextPtr(d.GeneralNotes),
		}
	}
	if f := req.Fulltime; f != nil {
		j.Fulltime = &repository.FulltimeDetails{
			CompanyName:         sanitize.TextPtr(f.CompanyName),
			Industry:            sanitize.TextPtr(f.Industry),
			CompanyOverview:     sanitize.TextPtr(f.CompanyOverview),
			CompanySize:         sanitize.TextPtr(f.CompanySize),
			AnnualSalaryMin:     f.AnnualSalaryMin,
			AnnualSalaryMax:     f.AnnualSalaryMax,
			OvertimeHours:       sanitize.TextPtr(f.OvertimeHours),
			AnnualHolidays:      sanitize.TextPtr(f.AnnualHolidays),
			ProbationPeriod:     sanitize.TextPtr(f.ProbationPeriod),
			ProbationDetails:    sanitize.TextPtr(f.ProbationDetails),
			AppealPoints:        sanitize.TextPtr(f.AppealPoints),
			WelcomeRequirements: sanitize.TextPtr(f.WelcomeRequirements),
		}
	}
	return j
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := sanitize.Text(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
