// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"jobboard_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// ApplicationSubmitted is published after an applicant's row is stored.
type ApplicationSubmitted struct {
	BaseEvent
	ApplicationID uuid.UUID `json:"applicationId"`
	JobID         uuid.UUID `json:"jobId"`
	JobTitle      string    `json:"jobTitle"`
	UserID        uuid.UUID `json:"userId"`
	ApplicantName string    `json:"applicantName"`
}

func (e ApplicationSubmitted) EventName() string { return "applications.submitted" }

// ConsultationBooked is published when a webhook creates or moves a booking
// into the future.
type ConsultationBooked struct {
	BaseEvent
	BookingID     uuid.UUID  `json:"bookingId"`
	Status        string     `json:"status"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	AttendeeEmail string     `json:"attendeeEmail,omitempty"`
	Inserted      bool       `json:"inserted"`
}

func (e ConsultationBooked) EventName() string { return "consultations.booked" }
