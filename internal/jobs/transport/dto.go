package transport

import (
	"time"

	"github.com/google/uuid"
)

// ClickType distinguishes the two booking buttons on a job page.
type ClickType string

const (
	ClickTypeApply   ClickType = "apply"
	ClickTypeConsult ClickType = "consult"
)

// ListJobsRequest is the query of the public job listing.
type ListJobsRequest struct {
	Area  string `form:"area" validate:"max=100"`
	Type  string `form:"type" validate:"max=50"`
	Tag   string `form:"tag" validate:"max=50"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// SearchJobsRequest is the query of the area search.
type SearchJobsRequest struct {
	Area string `form:"area" validate:"required,max=100"`
	Type string `form:"type" validate:"max=50"`
}

// RecommendedJobsRequest is the query of the recommendation endpoint.
type RecommendedJobsRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=20"`
}

type DispatchDetails struct {
	ClientCompanyName *string `json:"clientCompanyName,omitempty" validate:"omitempty,max=200"`
	TrainingPeriod    *string `json:"trainingPeriod,omitempty" validate:"omitempty,max=200"`
	TrainingSalary    *string `json:"trainingSalary,omitempty" validate:"omitempty,max=200"`
	ActualWorkHours   *string `json:"actualWorkHours,omitempty" validate:"omitempty,max=200"`
	WorkDaysPerWeek   *string `json:"workDaysPerWeek,omitempty" validate:"omitempty,max=100"`
	EndDate           *string `json:"endDate,omitempty" validate:"omitempty,max=100"`
	NailPolicy        *string `json:"nailPolicy,omitempty" validate:"omitempty,max=200"`
	GeneralNotes      *string `json:"generalNotes,omitempty" validate:"omitempty,max=4000"`
}

type FulltimeDetails struct {
	CompanyName         *string `json:"companyName,omitempty" validate:"omitempty,max=200"`
	Industry            *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	CompanyOverview     *string `json:"companyOverview,omitempty" validate:"omitempty,max=4000"`
	CompanySize         *string `json:"companySize,omitempty" validate:"omitempty,max=100"`
	AnnualSalaryMin     *int    `json:"annualSalaryMin,omitempty" validate:"omitempty,min=0"`
	AnnualSalaryMax     *int    `json:"annualSalaryMax,omitempty" validate:"omitempty,min=0"`
	OvertimeHours       *string `json:"overtimeHours,omitempty" validate:"omitempty,max=100"`
	AnnualHolidays      *string `json:"annualHolidays,omitempty" validate:"omitempty,max=100"`
	ProbationPeriod     *string `json:"probationPeriod,omitempty" validate:"omitempty,max=100"`
	ProbationDetails    *string `json:"probationDetails,omitempty" validate:"omitempty,max=2000"`
	AppealPoints        *string `json:"appealPoints,omitempty" validate:"omitempty,max=4000"`
	WelcomeRequirements *string `json:"welcomeRequirements,omitempty" validate:"omitempty,max=4000"`
}

// UpsertJobRequest is the admin body for creating or replacing a job.
type UpsertJobRequest struct {
	Title             string           `json:"title" validate:"required,min=1,max=200"`
	Type              *string          `json:"type,omitempty" validate:"omitempty,max=50"`
	Category          *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Area              *string          `json:"area,omitempty" validate:"omitempty,max=100"`
	SearchAreas       []string         `json:"searchAreas,omitempty" validate:"omitempty,max=20,dive,max=100"`
	Salary            *string          `json:"salary,omitempty" validate:"omitempty,max=200"`
	HourlyWage        *int             `json:"hourlyWage,omitempty" validate:"omitempty,min=0"`
	SalaryDescription *string          `json:"salaryDescription,omitempty" validate:"omitempty,max=2000"`
	Description       *string          `json:"description,omitempty" validate:"omitempty,max=10000"`
	Requirements      *string          `json:"requirements,omitempty" validate:"omitempty,max=4000"`
	WorkingHours      *string          `json:"workingHours,omitempty" validate:"omitempty,max=1000"`
	Holidays          []string         `json:"holidays,omitempty" validate:"omitempty,dive,max=100"`
	Benefits          []string         `json:"benefits,omitempty" validate:"omitempty,dive,max=100"`
	Tags              []string         `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	SelectionProcess  *string          `json:"selectionProcess,omitempty" validate:"omitempty,max=2000"`
	NearestStation    *string          `json:"nearestStation,omitempty" validate:"omitempty,max=200"`
	WorkplaceName     *string          `json:"workplaceName,omitempty" validate:"omitempty,max=200"`
	WorkplaceAddress  *string          `json:"workplaceAddress,omitempty" validate:"omitempty,max=500"`
	WorkplaceAccess   *string          `json:"workplaceAccess,omitempty" validate:"omitempty,max=500"`
	AttireType        *string          `json:"attireType,omitempty" validate:"omitempty,max=100"`
	HairStyle         *string          `json:"hairStyle,omitempty" validate:"omitempty,max=100"`
	StartDate         *string          `json:"startDate,omitempty" validate:"omitempty,max=100"`
	Period            *string          `json:"period,omitempty" validate:"omitempty,max=100"`
	ExpiresAt         *time.Time       `json:"expiresAt,omitempty"`
	Dispatch          *DispatchDetails `json:"dispatch,omitempty"`
	Fulltime          *FulltimeDetails `json:"fulltime,omitempty"`
}

// BookingClickRequest is the body of a booking button click.
type BookingClickRequest struct {
	ClickType ClickType `json:"clickType" validate:"required,oneof=apply consult"`
}

type BookingClickResponse struct {
	URL string `json:"url"`
}

type RecordViewResponse struct {
	Recorded bool `json:"recorded"`
}

type TagResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ListOptionsRequest filters the admin option master listing.
type ListOptionsRequest struct {
	Category string `form:"category" validate:"omitempty,oneof=holidays benefits requirements tags"`
}

// CreateOptionRequest adds an option to a master category. Value defaults
// to the label.
type CreateOptionRequest struct {
	Category  string `json:"category" validate:"required,oneof=holidays benefits requirements tags"`
	Label     string `json:"label" validate:"required,max=100"`
	Value     string `json:"value" validate:"omitempty,max=100"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type OptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	SortOrder int       `json:"sortOrder"`
}

type JobResponse struct {
	ID                uuid.UUID        `json:"id"`
	Title             string           `json:"title"`
	Type              *string          `json:"type"`
	Segment           string           `json:"segment,omitempty"`
	Category          *string          `json:"category"`
	Area              *string          `json:"area"`
	SearchAreas       []string         `json:"searchAreas"`
	Salary            *string          `json:"salary"`
	HourlyWage        *int             `json:"hourlyWage"`
	SalaryDescription *string          `json:"salaryDescription"`
	Description       *string          `json:"description"`
	Requirements      *string          `json:"requirements"`
	WorkingHours      *string          `json:"workingHours"`
	Holidays          []string         `json:"holidays"`
	Benefits          []string         `json:"benefits"`
	Tags              []string         `json:"tags"`
	SelectionProcess  *string          `json:"selectionProcess"`
	NearestStation    *string          `json:"nearestStation"`
	WorkplaceName     *string          `json:"workplaceName"`
	WorkplaceAddress  *string          `json:"workplaceAddress"`
	WorkplaceAccess   *string          `json:"workplaceAccess"`
	AttireType        *string          `json:"attireType"`
	HairStyle         *string          `json:"hairStyle"`
	StartDate         *string          `json:"startDate"`
	Period            *string          `json:"period"`
	ExpiresAt         *time.Time       `json:"expiresAt"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
	Dispatch          *DispatchDetails `json:"dispatch,omitempty"`
	Fulltime          *FulltimeDetails `json:"fulltime,omitempty"`
}

type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Total int           `json:"total"`
}
