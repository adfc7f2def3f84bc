// Package service builds the admin analytics reports.
package service

import (
	"context"
	"time"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/repository"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/analytics/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const defaultRankingLimit = 20

// Store is the persistence the service needs.
type Store interface {
	ListJobs(ctx context.Context) ([]repository.JobRow, error)
	ViewCounts(ctx context.Context, since *time.Time) ([]repository.DailyCount, error)
	ApplicationCounts(ctx context.Context, since *time.Time) ([]repository.StatusDailyCount, error)
}

type Service struct {
	repo Store
	log  *logger.Logger
	now  func() time.Time
}

func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, req transport.QueryRequest) (transport.SummaryResponse, error) {
	d, filter, err := s.load(ctx, req)
	if err != nil {
		return transport.SummaryResponse{}, err
	}
	return BuildSummary(d, filter), nil
}

func (s *Service) DailyViews(ctx context.Context, req transport.QueryRequest) ([]transport.DailyViews, error) {
	d, filter, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return BuildDaily(d, filter), nil
}

func (s *Service) JobRanking(ctx context.Context, req transport.RankingRequest) ([]transport.JobRanking, error) {
	d, filter, err := s.load(ctx, req.QueryRequest)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	return BuildRanking(d, filter, limit), nil
}

func (s *Service) StatusBreakdown(ctx context.Context, req transport.QueryRequest) ([]transport.StatusCount, error) {
	d, filter, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return BuildStatusBreakdown(d, filter), nil
}

func (s *Service) load(ctx context.Context, req transport.QueryRequest) (Dataset, segment.Filter, error) {
	p, err := period.Parse(req.Period)
	if err != nil {
		return Dataset{}, "", apperr.BadRequest(err.Error())
	}
	filter, err := segment.ParseFilter(req.Segment)
	if err != nil {
		return Dataset{}, "", apperr.BadRequest(err.Error())
	}
	since := p.Since(s.now())

	log := s.log.WithContext(ctx)
	var d Dataset

	// A failing read is logged and leaves its slice empty; the other reports
	// still render from what loaded.
	var g errgroup.Group
	g.Go(func() error {
		jobs, err := s.repo.ListJobs(ctx)
		if err != nil {
			log.DatabaseError("list_jobs", err)
			return nil
		}
		d.Jobs = jobs
		return nil
	})
	g.Go(func() error {
		views, err := s.repo.ViewCounts(ctx, since)
		if err != nil {
			log.DatabaseError("count_job_views", err)
			return nil
		}
		d.Views = views
		return nil
	})
	g.Go(func() error {
		apps, err := s.repo.ApplicationCounts(ctx, since)
		if err != nil {
			log.DatabaseError("count_applications", err)
			return nil
		}
		d.Applications = apps
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Dataset{}, "", err
	}
	return d, filter, nil
}
