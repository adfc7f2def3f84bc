package transport

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses accepted by the admin update.
const (
	StatusBooked      = "booked"
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCompleted   = "completed"
	StatusCanceled    = "canceled"
	StatusNoShow      = "no_show"
)

var AllStatuses = []string{StatusBooked, StatusConfirmed, StatusRescheduled, StatusCompleted, StatusCanceled, StatusNoShow}

// Webhook reply modes.
const (
	ModeInserted = "inserted"
	ModeUpdated  = "updated"
)

type WebhookResponse struct {
	OK   bool   `json:"ok"`
	Mode string `json:"mode"`
}

type ListConsultationsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=booked confirmed rescheduled completed canceled no_show"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

// UpdateBookingRequest is a partial update; absent fields are not written.
// Status is checked by the service so the allowed set lives in one place.
type UpdateBookingRequest struct {
	Status     *string `json:"status"`
	MeetingURL *string `json:"meetingUrl" validate:"omitempty,max=2000"`
	AdminNote  *string `json:"adminNote" validate:"omitempty,max=4000"`
}

type UpdateBookingResponse struct {
	Success bool `json:"success"`
}

type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	Provider          string     `json:"provider"`
	ExternalBookingID *string    `json:"externalBookingId"`
	EventType         *string    `json:"eventType"`
	Status            string     `json:"status"`
	ClickType         *string    `json:"clickType"`
	UserID            *uuid.UUID `json:"userId"`
	JobID             *uuid.UUID `json:"jobId"`
	JobTitle          *string    `json:"jobTitle"`
	AttendeeName      *string    `json:"attendeeName"`
	AttendeeEmail     *string    `json:"attendeeEmail"`
	AttendeePhone     *string    `json:"attendeePhone"`
	StartsAt          *time.Time `json:"startsAt"`
	EndsAt            *time.Time `json:"endsAt"`
	Timezone          *string    `json:"timezone"`
	MeetingURL        *string    `json:"meetingUrl"`
	AdminNote         *string    `json:"adminNote"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type BookingListResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
}
