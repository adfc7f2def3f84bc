package service

import (
	"slices"
	"sort"
	"strings"

	"jobboard_backend/internal/jobs/repository"
)

const (
	recommendCandidates = 30
	recommendLimit      = 6
	searchLimit         = 10

	scoreArea     = 3
	scoreCategory = 2
	scoreType     = 1
)

// RankRecommendations scores candidates against base and returns the best
// limit. Candidates must be newest first; ties keep that order.
func RankRecommendations(base repository.Job, candidates []repository.Job, limit int) []repository.Job {
	type scored struct {
		job   repository.Job
		score int
	}

	prefix := areaPrefix(base.Area)
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == base.ID {
			continue
		}
		score := 0
		if prefix != "" && matchesArea(c, prefix) {
			score += scoreArea
		}
		if sameValue(base.Category, c.Category) {
			score += scoreCategory
		}
		if sameValue(base.Type, c.Type) {
			score += scoreType
		}
		ranked = append(ranked, scored{job: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]repository.Job, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.job)
	}
	return out
}

// areaPrefix is the first whitespace token of the area, e.g. the prefecture.
func areaPrefix(area *string) string {
	if area == nil {
		return ""
	}
	fields := strings.Fields(*area)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func matchesArea(job repository.Job, prefix string) bool {
	if job.Area != nil && strings.HasPrefix(strings.TrimSpace(*job.Area), prefix) {
		return true
	}
	return slices.ContainsFunc(job.SearchAreas, func(a string) bool {
		return strings.Contains(a, prefix)
	})
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	av, bv := strings.TrimSpace(*a), strings.TrimSpace(*b)
	return av != "" && av == bv
}
