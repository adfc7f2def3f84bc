package domain

import "math"

// Consultation statuses.
const (
	StatusBooked      = "booked"
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCompleted   = "completed"
	StatusCanceled    = "canceled"
	StatusNoShow      = "no_show"
)

// IsBookedFamily reports whether a consultation status counts as secured.
func IsBookedFamily(status string) bool {
	switch status {
	case StatusBooked, StatusRescheduled, StatusConfirmed:
		return true
	default:
		return false
	}
}

// IsConsultationStatus reports whether status is one an admin may set.
func IsConsultationStatus(status string) bool {
	switch status {
	case StatusBooked, StatusConfirmed, StatusRescheduled, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Summarize rolls the raw streams up into funnel counters.
func Summarize(clicks []ClickRow, applications []ApplicationRow, consultations []ConsultationRow) Summary {
	var s Summary
	for _, c := range clicks {
		switch c.ClickType {
		case ClickApply:
			s.ApplyClicks++
		case ClickConsult:
			s.ConsultClicks++
		}
	}
	s.Applications = len(applications)
	for _, c := range consultations {
		if IsBookedFamily(c.Status) {
			s.BookedConsultations++
		}
		if c.Status == StatusCompleted {
			s.CompletedConsultations++
		}
	}
	s.ApplyToBookedRate = rate(s.BookedConsultations, s.ApplyClicks)
	return s
}

// rate is num/den as a percentage with one decimal, 0 when den is 0.
func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}
