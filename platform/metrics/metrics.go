// Package metrics holds the domain counters exported on /metrics.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobViewsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_views_recorded_total",
			Help: "Job views handled by the tracker, by outcome",
		},
		[]string{"outcome"},
	)

	bookingClicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_clicks_total",
			Help: "Booking button clicks by click type",
		},
		[]string{"click_type"},
	)

	applicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Applications accepted",
		},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultation_webhook_events_total",
			Help: "Cal.com webhook deliveries by result",
		},
		[]string{"result"},
	)

	aiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Generative model calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Failures talking to external services",
		},
		[]string{"service"},
	)
)

// View outcomes.
const (
	ViewRecorded     = "recorded"
	ViewDeduplicated = "deduplicated"
	ViewBot          = "bot"
	ViewFailed       = "failed"
)

func RecordJobView(outcome string) {
	jobViewsRecorded.WithLabelValues(outcome).Inc()
}

func RecordBookingClick(clickType string) {
	bookingClicks.WithLabelValues(clickType).Inc()
}

func RecordApplication() {
	applicationsSubmitted.Inc()
}

func RecordWebhook(result string) {
	webhookEvents.WithLabelValues(result).Inc()
}

func RecordAIRequest(operation, result string) {
	aiRequests.WithLabelValues(operation, result).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
