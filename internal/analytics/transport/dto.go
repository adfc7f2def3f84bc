package transport

// QueryRequest carries the shared period and segment query parameters.
type QueryRequest struct {
	Period  string `form:"period" validate:"omitempty,oneof=7d 30d 90d all"`
	Segment string `form:"segment" validate:"omitempty,oneof=all fulltime dispatch"`
}

type RankingRequest struct {
	QueryRequest
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type SummaryResponse struct {
	TotalViews        int     `json:"totalViews"`
	TotalApplications int     `json:"totalApplications"`
	ActiveJobs        int     `json:"activeJobs"`
	CVR               float64 `json:"cvr"`
}

type DailyViews struct {
	Date         string `json:"date"`
	Views        int    `json:"views"`
	Applications int    `json:"applications"`
}

type JobRanking struct {
	JobID        string  `json:"jobId"`
	Title        string  `json:"title"`
	Type         *string `json:"type"`
	Views        int     `json:"views"`
	Applications int     `json:"applications"`
	CVR          float64 `json:"cvr"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
