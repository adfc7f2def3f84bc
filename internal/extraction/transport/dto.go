package transport

import "jobboard_backend/platform/ai/gemini"

// Extraction modes.
const (
	ModeStandard  = "standard"
	ModeAnonymous = "anonymous"
)

// Validation issue levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Tag match kinds.
const (
	MatchExact   = "exact"
	MatchSimilar = "similar"
	MatchNew     = "new"
)

// JobData is a job posting draft produced by extraction or refinement.
// Keys follow the admin form field names.
type JobData struct {
	Title             string   `json:"title,omitempty"`
	Area              string   `json:"area,omitempty"`
	Type              string   `json:"type,omitempty"`
	Salary            string   `json:"salary,omitempty"`
	Category          string   `json:"category,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Description       string   `json:"description,omitempty"`
	Requirements      []string `json:"requirements,omitempty"`
	WorkingHours      string   `json:"working_hours,omitempty"`
	Holidays          []string `json:"holidays,omitempty"`
	Benefits          []string `json:"benefits,omitempty"`
	SelectionProcess  string   `json:"selection_process,omitempty"`
	NearestStation    string   `json:"nearest_station,omitempty"`
	LocationNotes     string   `json:"location_notes,omitempty"`
	SalaryType        string   `json:"salary_type,omitempty"`
	RaiseInfo         string   `json:"raise_info,omitempty"`
	BonusInfo         string   `json:"bonus_info,omitempty"`
	CommuteAllowance  string   `json:"commute_allowance,omitempty"`
	JobCategoryDetail string   `json:"job_category_detail,omitempty"`
	HourlyWage        *int     `json:"hourly_wage,omitempty"`
	SalaryDescription string   `json:"salary_description,omitempty"`
	Period            string   `json:"period,omitempty"`
	StartDate         string   `json:"start_date,omitempty"`
	WorkplaceName     string   `json:"workplace_name,omitempty"`
	WorkplaceAddress  string   `json:"workplace_address,omitempty"`
	WorkplaceAccess   string   `json:"workplace_access,omitempty"`
	Attire            string   `json:"attire,omitempty"`
	AttireType        string   `json:"attire_type,omitempty"`
	HairStyle         string   `json:"hair_style,omitempty"`

	// Dispatch postings.
	ClientCompanyName string `json:"client_company_name,omitempty"`
	TrainingPeriod    string `json:"training_period,omitempty"`
	TrainingSalary    string `json:"training_salary,omitempty"`
	ActualWorkHours   string `json:"actual_work_hours,omitempty"`
	WorkDaysPerWeek   string `json:"work_days_per_week,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	NailPolicy        string `json:"nail_policy,omitempty"`
	ShiftNotes        string `json:"shift_notes,omitempty"`
	GeneralNotes      string `json:"general_notes,omitempty"`

	// Full-time postings. Salaries are in 万円.
	CompanyName         string `json:"company_name,omitempty"`
	Industry            string `json:"industry,omitempty"`
	CompanyOverview     string `json:"company_overview,omitempty"`
	CompanySize         string `json:"company_size,omitempty"`
	AnnualSalaryMin     *int   `json:"annual_salary_min,omitempty"`
	AnnualSalaryMax     *int   `json:"annual_salary_max,omitempty"`
	OvertimeHours       string `json:"overtime_hours,omitempty"`
	AnnualHolidays      string `json:"annual_holidays,omitempty"`
	ProbationPeriod     string `json:"probation_period,omitempty"`
	ProbationDetails    string `json:"probation_details,omitempty"`
	AppealPoints        string `json:"appeal_points,omitempty"`
	WelcomeRequirements string `json:"welcome_requirements,omitempty"`
}

// UploadResponse is returned after a source file is stored.
type UploadResponse struct {
	FileKey string `json:"fileKey"`
}

// ExtractRequest names the source by storage key or by URL; one is required.
type ExtractRequest struct {
	FileKey string `json:"fileKey" validate:"omitempty,max=512"`
	FileURL string `json:"fileUrl" validate:"omitempty,url,max=2048"`
	Mode    string `json:"mode" validate:"omitempty,oneof=standard anonymous"`
}

// ValidationIssue is one business-rule finding on extracted data.
type ValidationIssue struct {
	Field   string `json:"field"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// OptionRef identifies a job_options row.
type OptionRef struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TagMatch pairs an extracted item with the closest option.
type TagMatch struct {
	Match    string     `json:"match"`
	Original string     `json:"original"`
	Option   *OptionRef `json:"option,omitempty"`
}

// ExtractResponse carries the draft with its checks.
type ExtractResponse struct {
	Data       JobData               `json:"data"`
	Issues     []ValidationIssue     `json:"issues"`
	TagMatches map[string][]TagMatch `json:"tagMatches"`
	Usage      *gemini.Usage         `json:"tokenUsage,omitempty"`
}

// ChatMessage is one turn of the refine conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// RefineRequest asks for an instruction-driven edit of a draft.
type RefineRequest struct {
	CurrentData JobData       `json:"currentData"`
	Instruction string        `json:"instruction" validate:"required,max=2000"`
	JobType     string        `json:"jobType" validate:"omitempty,max=20"`
	History     []ChatMessage `json:"history" validate:"omitempty,max=50,dive"`
}

// RefineResponse is the merged draft and what changed.
type RefineResponse struct {
	Data          JobData  `json:"data"`
	ChangedFields []string `json:"changedFields"`
	TargetFields  []string `json:"targetFields"`
	Reasoning     string   `json:"reasoning,omitempty"`
}
