package transport

import "jobboard_backend/internal/leads/domain"

// QueryRequest carries the period and segment filter of the lead table.
type QueryRequest struct {
	Period  string `form:"period" validate:"omitempty,oneof=7d 30d 90d all"`
	Segment string `form:"segment" validate:"omitempty,oneof=all fulltime dispatch"`
}

// LeadManagementData is everything the lead management screen shows.
type LeadManagementData struct {
	Summary       domain.Summary           `json:"summary"`
	Leads         []domain.Lead            `json:"leads"`
	Consultations []domain.ConsultationRow `json:"consultations"`
}
