package service

import (
	"math"
	"sort"

	"jobboard_backend/internal/analytics/repository"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/analytics/transport"
)

// ApplicationStatuses are reported in pipeline order.
var ApplicationStatuses = []string{"pending", "reviewed", "interview", "hired", "rejected"}

// Dataset is the raw material of every report for one period.
type Dataset struct {
	Jobs         []repository.JobRow
	Views        []repository.DailyCount
	Applications []repository.StatusDailyCount
}

func (d Dataset) lookup() map[string]segment.Segment {
	out := make(map[string]segment.Segment, len(d.Jobs))
	for _, j := range d.Jobs {
		out[j.ID] = segment.Detect(j.Type)
	}
	return out
}

// BuildSummary totals views and applications of the kept jobs.
func BuildSummary(d Dataset, filter segment.Filter) transport.SummaryResponse {
	lookup := d.lookup()

	var s transport.SummaryResponse
	for _, v := range d.Views {
		if segment.Keep(filter, v.JobID, lookup) {
			s.TotalViews += v.Count
		}
	}
	for _, a := range d.Applications {
		if segment.Keep(filter, a.JobID, lookup) {
			s.TotalApplications += a.Count
		}
	}
	for _, j := range d.Jobs {
		if j.Active && segment.Keep(filter, j.ID, lookup) {
			s.ActiveJobs++
		}
	}
	s.CVR = conversionRate(s.TotalApplications, s.TotalViews)
	return s
}

// BuildDaily merges view and application dates, oldest first.
func BuildDaily(d Dataset, filter segment.Filter) []transport.DailyViews {
	lookup := d.lookup()
	days := make(map[string]*transport.DailyViews)
	get := func(day string) *transport.DailyViews {
		if row, ok := days[day]; ok {
			return row
		}
		row := &transport.DailyViews{Date: day}
		days[day] = row
		return row
	}

	for _, v := range d.Views {
		if segment.Keep(filter, v.JobID, lookup) {
			get(v.Day).Views += v.Count
		}
	}
	for _, a := range d.Applications {
		if segment.Keep(filter, a.JobID, lookup) {
			get(a.Day).Applications += a.Count
		}
	}

	out := make([]transport.DailyViews, 0, len(days))
	for _, row := range days {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// BuildRanking ranks kept jobs by views, then applications.
func BuildRanking(d Dataset, filter segment.Filter, limit int) []transport.JobRanking {
	lookup := d.lookup()
	views := make(map[string]int)
	apps := make(map[string]int)
	for _, v := range d.Views {
		views[v.JobID] += v.Count
	}
	for _, a := range d.Applications {
		apps[a.JobID] += a.Count
	}

	out := make([]transport.JobRanking, 0, len(d.Jobs))
	for _, j := range d.Jobs {
		if !segment.Keep(filter, j.ID, lookup) {
			continue
		}
		if views[j.ID] == 0 && apps[j.ID] == 0 {
			continue
		}
		out = append(out, transport.JobRanking{
			JobID:        j.ID,
			Title:        j.Title,
			Type:         j.Type,
			Views:        views[j.ID],
			Applications: apps[j.ID],
			CVR:          conversionRate(apps[j.ID], views[j.ID]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Applications > out[j].Applications
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BuildStatusBreakdown always lists all five statuses.
func BuildStatusBreakdown(d Dataset, filter segment.Filter) []transport.StatusCount {
	lookup := d.lookup()
	counts := make(map[string]int, len(ApplicationStatuses))
	for _, a := range d.Applications {
		if segment.Keep(filter, a.JobID, lookup) {
			counts[a.Status] += a.Count
		}
	}

	out := make([]transport.StatusCount, 0, len(ApplicationStatuses))
	for _, status := range ApplicationStatuses {
		out = append(out, transport.StatusCount{Status: status, Count: counts[status]})
	}
	return out
}

// conversionRate is apps/views as a percentage with two decimals.
func conversionRate(applications, views int) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(applications)/float64(views)*100*100) / 100
}
