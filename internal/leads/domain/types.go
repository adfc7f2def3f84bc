// Package domain reconciles click, application and consultation streams
// into deduplicated leads. Everything here is pure: rows in, leads out.
package domain

import "time"

// AccountType tells whether a lead maps to a registered profile.
type AccountType string

const (
	AccountRegistered AccountType = "registered"
	AccountGuest      AccountType = "guest"
)

// EventKind is the type of a lead timeline entry.
type EventKind string

const (
	EventApplyClick   EventKind = "apply_click"
	EventConsultClick EventKind = "consult_click"
	EventApplication  EventKind = "application"
	EventConsultation EventKind = "consultation"
)

// Click types stored on booking_clicks.
const (
	ClickApply   = "apply"
	ClickConsult = "consult"
)

// MaxLeadEvents caps each lead's timeline.
const MaxLeadEvents = 12

// JobRef is the job joined onto an activity row.
type JobRef struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Type  *string `json:"type"`
}

// ClickRow is one booking button click.
type ClickRow struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	JobID     *string   `json:"job_id"`
	ClickType string    `json:"click_type"`
	ClickedAt time.Time `json:"clicked_at"`
	Job       *JobRef   `json:"job"`
}

// ApplicationRow is one submitted application.
type ApplicationRow struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	JobID     *string   `json:"job_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	AdminMemo *string   `json:"admin_memo"`
	Job       *JobRef   `json:"job"`
}

// ConsultationRow is one consultation booking as exposed to the admin console.
type ConsultationRow struct {
	ID            string     `json:"id"`
	UserID        *string    `json:"user_id"`
	JobID         *string    `json:"job_id"`
	Status        string     `json:"status"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	MeetingURL    *string    `json:"meeting_url"`
	AttendeeName  *string    `json:"attendee_name"`
	AttendeeEmail *string    `json:"attendee_email"`
	AttendeePhone *string    `json:"attendee_phone"`
	AdminNote     *string    `json:"admin_note"`
	CreatedAt     time.Time  `json:"created_at"`
	Job           *JobRef    `json:"job"`
}

// Profile is the subset of a user profile used to label leads.
type Profile struct {
	ID          string
	Email       *string
	LastName    *string
	FirstName   *string
	PhoneNumber *string
	Prefecture  *string
	BirthDate   *time.Time
}

// LeadEvent is one entry on a lead's timeline.
type LeadEvent struct {
	ID     string    `json:"id"`
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
	Status string    `json:"status"`
	Title  string    `json:"title"`
	Note   *string   `json:"note"`
}

// Lead is a deduplicated person. ID is the identity key.
type Lead struct {
	ID                       string      `json:"id"`
	UserID                   *string     `json:"userId"`
	DisplayName              string      `json:"displayName"`
	Email                    *string     `json:"email"`
	Phone                    *string     `json:"phone"`
	Prefecture               *string     `json:"prefecture"`
	Age                      *int        `json:"age"`
	AccountType              AccountType `json:"accountType"`
	JobTitle                 *string     `json:"jobTitle"`
	JobType                  *string     `json:"jobType"`
	LatestApplicationStatus  *string     `json:"latestApplicationStatus"`
	LatestConsultationStatus *string     `json:"latestConsultationStatus"`
	NextConsultationAt       *time.Time  `json:"nextConsultationAt"`
	MeetingURL               *string     `json:"meetingUrl"`
	ApplyClicks              int         `json:"applyClicks"`
	ConsultClicks            int         `json:"consultClicks"`
	Applications             int         `json:"applications"`
	Consultations            int         `json:"consultations"`
	Events                   []LeadEvent `json:"events"`
}

// Summary is the funnel rollup shown above the lead table.
type Summary struct {
	ApplyClicks            int     `json:"applyClicks"`
	ConsultClicks          int     `json:"consultClicks"`
	Applications           int     `json:"applications"`
	BookedConsultations    int     `json:"bookedConsultations"`
	CompletedConsultations int     `json:"completedConsultations"`
	ApplyToBookedRate      float64 `json:"applyToBookedRate"`
}
