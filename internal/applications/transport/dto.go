package transport

import (
	"time"

	"github.com/google/uuid"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusInterview Status = "interview"
	StatusHired     Status = "hired"
	StatusRejected  Status = "rejected"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []Status{StatusPending, StatusReviewed, StatusInterview, StatusHired, StatusRejected}

type ApplicationStatusResponse struct {
	Applied bool `json:"applied"`
}

type ApplyResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListApplicationsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending reviewed interview hired rejected"`
	JobID    string `form:"jobId" validate:"omitempty,uuid"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending reviewed interview hired rejected"`
}

type UpdateMemoRequest struct {
	Memo string `json:"memo" validate:"max=4000"`
}

type ApplicantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameKana    string    `json:"nameKana,omitempty"`
	Email       *string   `json:"email"`
	PhoneNumber *string   `json:"phoneNumber"`
	Prefecture  *string   `json:"prefecture"`
	Age         *int      `json:"age"`
}

type ApplicationResponse struct {
	ID        uuid.UUID         `json:"id"`
	JobID     uuid.UUID         `json:"jobId"`
	JobTitle  string            `json:"jobTitle"`
	JobType   *string           `json:"jobType"`
	Status    Status            `json:"status"`
	AdminMemo *string           `json:"adminMemo"`
	CreatedAt time.Time         `json:"createdAt"`
	Applicant ApplicantResponse `json:"applicant"`
}

type ApplicationListResponse struct {
	Items    []ApplicationResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}
