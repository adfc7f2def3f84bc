package calcom

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Booking is the normalized content of a webhook delivery.
type Booking struct {
	Trigger           string
	Status            string
	ExternalBookingID string
	EventType         string
	UserID            string
	JobID             string
	ClickType         string
	AttendeeName      string
	AttendeeEmail     string
	AttendeePhone     string
	StartsAt          *time.Time
	EndsAt            *time.Time
	Timezone          string
	MeetingURL        string
	Raw               json.RawMessage
}

var triggerStatus = map[string]string{
	"BOOKING_CREATED":     "booked",
	"BOOKING_RESCHEDULED": "rescheduled",
	"BOOKING_CONFIRMED":   "confirmed",
	"BOOKING_CANCELLED":   "canceled",
	"BOOKING_CANCELED":    "canceled",
	"MEETING_ENDED":       "completed",
}

const defaultTrigger = "BOOKING_CREATED"

// ErrMissingBookingID is returned for deliveries without a uid or id. Such a
// booking has no upsert key and every redelivery would insert a new row.
var ErrMissingBookingID = errors.New("webhook booking has no uid or id")

var (
	httpURLPattern    = regexp.MustCompile(`(?i)^https?://\S+$`)
	googleMeetPattern = regexp.MustCompile(`(?i)meet\.google\.com`)
)

type object = map[string]any

// Parse decodes a webhook body. The booking may sit under payload, data or
// booking; metadata keys may be camelCase or snake_case. A delivery without
// a booking id fails with ErrMissingBookingID.
func Parse(body []byte) (Booking, error) {
	var root object
	if err := json.Unmarshal(body, &root); err != nil {
		return Booking{}, fmt.Errorf("invalid webhook body: %w", err)
	}

	trigger := strings.ToUpper(firstString(root, "triggerEvent", "event", "type"))
	if trigger == "" {
		trigger = defaultTrigger
	}
	status, ok := triggerStatus[trigger]
	if !ok {
		status = "booked"
	}

	data := firstObject(root, "payload", "data", "booking")
	metadata := firstObject(data, "metadata")
	if len(metadata) == 0 {
		metadata = firstObject(root, "metadata")
	}
	attendee := pickAttendee(data)

	clickType := strings.ToLower(firstString(metadata, "clickType", "click_type"))
	if clickType != "apply" && clickType != "consult" {
		clickType = ""
	}

	b := Booking{
		Trigger:           trigger,
		Status:            status,
		ExternalBookingID: firstString(data, "uid", "id"),
		EventType:         firstString(data, "type", "eventTypeSlug", "title"),
		UserID:            firstString(metadata, "userId", "user_id"),
		JobID:             firstString(metadata, "jobId", "job_id"),
		ClickType:         clickType,
		AttendeeName:      orString(firstString(attendee, "name"), firstString(data, "name")),
		AttendeeEmail:     orString(firstString(attendee, "email"), firstString(data, "email")),
		AttendeePhone:     orString(firstString(attendee, "phone", "phoneNumber"), firstString(data, "phone")),
		StartsAt:          parseTime(firstString(data, "startTime", "start", "start_at")),
		EndsAt:            parseTime(firstString(data, "endTime", "end", "end_at")),
		Timezone:          firstString(data, "timeZone", "timezone"),
		MeetingURL:        pickMeetingURL(root, data),
		Raw:               json.RawMessage(body),
	}
	if b.ExternalBookingID == "" {
		b.ExternalBookingID = firstString(root, "id")
	}
	if b.ExternalBookingID == "" {
		return Booking{}, ErrMissingBookingID
	}
	return b, nil
}

func pickAttendee(data object) object {
	for _, key := range []string{"attendees", "responses", "attendee"} {
		switch v := data[key].(type) {
		case []any:
			if len(v) > 0 {
				if first, ok := v[0].(object); ok {
					return first
				}
			}
			return object{}
		case object:
			return v
		}
	}
	return object{}
}

// pickMeetingURL prefers Google Meet links, then the first http(s) URL found
// in the well-known fields, the booking and the whole delivery.
func pickMeetingURL(root, data object) string {
	var candidates []any
	for _, key := range []string{"meetingUrl", "meetingURL", "videoCallUrl", "videoCallURL", "joinUrl", "joinURL"} {
		candidates = append(candidates, data[key])
	}
	for _, parent := range []string{"location", "conferencing"} {
		if nested, ok := data[parent].(object); ok {
			candidates = append(candidates, nested["url"], nested["link"])
		}
	}
	candidates = append(candidates, data["location"])
	if conf, ok := data["conferenceData"].(object); ok {
		candidates = append(candidates, conf["entryPoints"], conf["conferenceSolution"])
	}
	candidates = append(candidates, data, root)

	seen := make(map[string]bool)
	var urls []string
	for _, c := range candidates {
		for _, u := range collectURLs(c, nil) {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	for _, u := range urls {
		if googleMeetPattern.MatchString(u) {
			return u
		}
	}
	if len(urls) > 0 {
		return urls[0]
	}
	return ""
}

func collectURLs(value any, found []string) []string {
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); httpURLPattern.MatchString(trimmed) {
			found = append(found, trimmed)
		}
	case []any:
		for _, item := range v {
			found = collectURLs(item, found)
		}
	case object:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			found = collectURLs(v[key], found)
		}
	}
	return found
}

func firstObject(o object, keys ...string) object {
	for _, k := range keys {
		if nested, ok := o[k].(object); ok {
			return nested
		}
	}
	return object{}
}

// firstString returns the first non-empty value among keys. Numbers are
// accepted for ids.
func firstString(o object, keys ...string) string {
	for _, k := range keys {
		switch v := o[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func orString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
