// Package segment buckets jobs into employment segments from their raw type
// label. Every analytics and lead aggregation filters through it.
package segment

import (
	"fmt"
	"strings"
	"unicode"
)

// Segment is a coarse employment bucket. Unknown is the zero value.
type Segment string

const (
	Unknown  Segment = ""
	Fulltime Segment = "fulltime"
	Dispatch Segment = "dispatch"
)

// Filter selects which segments an aggregation keeps.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterFulltime Filter = "fulltime"
	FilterDispatch Filter = "dispatch"
)

const (
	dispatchMarker = "派遣"
	fulltimeMarker = "正社員"
)

// Detect classifies a raw employment-type label. Whitespace anywhere in the
// label is ignored. The dispatch marker wins when both are present, so
// 紹介予定派遣 and 派遣社員 are dispatch contracts.
func Detect(jobType *string) Segment {
	if jobType == nil {
		return Unknown
	}
	normalized := stripSpace(*jobType)
	switch {
	case strings.Contains(normalized, dispatchMarker):
		return Dispatch
	case strings.Contains(normalized, fulltimeMarker):
		return Fulltime
	default:
		return Unknown
	}
}

// DetectString is Detect for non-optional labels.
func DetectString(jobType string) Segment {
	return Detect(&jobType)
}

// Matches reports whether the job passes the filter. Jobs missing from the
// lookup or with an Unknown segment never pass, not even FilterAll.
func Matches(filter Filter, jobID string, lookup map[string]Segment) bool {
	seg, ok := lookup[jobID]
	if !ok || seg == Unknown {
		return false
	}
	return filter == FilterAll || Segment(filter) == seg
}

// Keep is the row-level predicate used by aggregations: FilterAll keeps every
// row, including unclassified jobs and rows without a job, while a concrete
// filter defers to Matches.
func Keep(filter Filter, jobID string, lookup map[string]Segment) bool {
	if filter == FilterAll || filter == "" {
		return true
	}
	return Matches(filter, jobID, lookup)
}

// ParseFilter reads a query value. Empty means FilterAll.
func ParseFilter(raw string) (Filter, error) {
	switch Filter(strings.TrimSpace(raw)) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterFulltime:
		return FilterFulltime, nil
	case FilterDispatch:
		return FilterDispatch, nil
	default:
		return "", fmt.Errorf("unknown segment %q", raw)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
