// Package adapters bridges bounded contexts without direct service coupling.
package adapters

import (
	"context"
	"fmt"

	extraction "jobboard_backend/internal/extraction/service"
	jobsrepo "jobboard_backend/internal/jobs/repository"
)

// OptionLister is the jobs repository read the adapter needs.
type OptionLister interface {
	ListOptions(ctx context.Context, category string) ([]jobsrepo.Option, error)
}

// JobOptionsReader adapts job_options rows for the extraction domain,
// satisfying extraction.OptionSource.
type JobOptionsReader struct {
	repo OptionLister
}

// NewJobOptionsReader creates a new job options adapter.
func NewJobOptionsReader(repo OptionLister) *JobOptionsReader {
	return &JobOptionsReader{repo: repo}
}

// ListOptions returns the category's options in display order.
func (a *JobOptionsReader) ListOptions(ctx context.Context, category string) ([]extraction.Option, error) {
	rows, err := a.repo.ListOptions(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("job options adapter: %w", err)
	}
	out := make([]extraction.Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, extraction.Option{Category: r.Category, Label: r.Label, Value: r.Value})
	}
	return out, nil
}

var _ extraction.OptionSource = (*JobOptionsReader)(nil)
