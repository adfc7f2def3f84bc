// Package period parses the reporting windows shared by analytics and lead
// management.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Period is a trailing reporting window.
type Period string

const (
	Last7Days  Period = "7d"
	Last30Days Period = "30d"
	Last90Days Period = "90d"
	All        Period = "all"
)

// Default applies when the query omits the period.
const Default = Last30Days

// Parse reads a query value. Empty means Default.
func Parse(raw string) (Period, error) {
	switch p := Period(strings.TrimSpace(raw)); p {
	case "":
		return Default, nil
	case Last7Days, Last30Days, Last90Days, All:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", raw)
	}
}

// Since returns the window start relative to now, or nil for All.
func (p Period) Since(now time.Time) *time.Time {
	var days int
	switch p {
	case Last7Days:
		days = 7
	case Last30Days:
		days = 30
	case Last90Days:
		days = 90
	default:
		return nil
	}
	since := now.AddDate(0, 0, -days)
	return &since
}
