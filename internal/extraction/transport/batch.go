package transport

import (
	"time"

	"github.com/google/uuid"
)

// Draft extraction states.
const (
	DraftPending = "pending"
	DraftSuccess = "success"
	DraftWarning = "warning"
	DraftError   = "error"
)

// Batch states.
const (
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
)

type BatchStartResponse struct {
	BatchID    uuid.UUID `json:"batchId"`
	TotalFiles int       `json:"totalFiles"`
	Queued     int       `json:"queued"`
}

type BatchProgressResponse struct {
	ID             uuid.UUID `json:"id"`
	Status         string    `json:"status"`
	TotalFiles     int       `json:"totalFiles"`
	ProcessedCount int       `json:"processedCount"`
	SuccessCount   int       `json:"successCount"`
	WarningCount   int       `json:"warningCount"`
	ErrorCount     int       `json:"errorCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListDraftsRequest filters drafts to one batch when BatchID is set.
type ListDraftsRequest struct {
	BatchID string `form:"batchId" validate:"omitempty,uuid"`
}

type UpdateDraftRequest struct {
	Data JobData `json:"data"`
}

type PublishDraftsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=100"`
}

type DraftResponse struct {
	ID               uuid.UUID  `json:"id"`
	BatchID          *uuid.UUID `json:"batchId"`
	Title            string     `json:"title"`
	Data             JobData    `json:"data"`
	SourceFileName   *string    `json:"sourceFileName"`
	SourceFileType   *string    `json:"sourceFileType"`
	SourceMode       string     `json:"sourceMode"`
	ExtractionStatus string     `json:"extractionStatus"`
	Warnings         []string   `json:"warnings"`
	AIConfidence     *int       `json:"aiConfidence"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type PublishDraftsResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	JobIDs  []uuid.UUID `json:"jobIds"`
	Errors  []string    `json:"errors"`
	Message string      `json:"message"`
}
