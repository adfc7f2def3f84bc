package service

import (
	"net/url"
	"strings"
)

const calcomBaseURL = "https://cal.com/"

// BookingURL builds the Cal.com link carrying click metadata back through
// the booking webhook. userID may be empty for anonymous visitors.
func BookingURL(slug, clickType, jobID, userID string) string {
	var b strings.Builder
	b.WriteString(calcomBaseURL)
	b.WriteString(strings.Trim(slug, "/"))
	b.WriteString("?theme=light")
	b.WriteString("&metadata[clickType]=" + url.QueryEscape(clickType))
	b.WriteString("&metadata[jobId]=" + url.QueryEscape(jobID))
	if userID != "" {
		b.WriteString("&metadata[userId]=" + url.QueryEscape(userID))
	}
	return b.String()
}
