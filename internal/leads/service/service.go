// Package service assembles the lead management view from the activity
// streams.
package service

import (
	"context"
	"sort"
	"time"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/leads/domain"
	"jobboard_backend/internal/leads/transport"
	"jobboard_backend/platform/db"
	"jobboard_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Store is the persistence the service needs.
type Store interface {
	ListClicks(ctx context.Context, since *time.Time) ([]domain.ClickRow, error)
	ListApplications(ctx context.Context, since *time.Time) ([]domain.ApplicationRow, error)
	ListConsultations(ctx context.Context, since *time.Time) ([]domain.ConsultationRow, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

type Service struct {
	repo Store
	log  *logger.Logger
	now  func() time.Time
}

func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// streams holds one fetch of the four reads.
type streams struct {
	clicks        []domain.ClickRow
	applications  []domain.ApplicationRow
	consultations []domain.ConsultationRow
	profiles      []domain.Profile
}

// GetLeadManagementData folds clicks, applications and consultations of the
// period into leads. A stream that fails to load is logged and counted as
// empty; the call itself only fails on context cancellation.
func (s *Service) GetLeadManagementData(ctx context.Context, p period.Period, filter segment.Filter) (transport.LeadManagementData, error) {
	now := s.now()
	st := s.fetch(ctx, p.Since(now))
	if err := ctx.Err(); err != nil {
		return transport.LeadManagementData{}, err
	}

	clicks := filterRows(st.clicks, filter, func(r domain.ClickRow) *domain.JobRef { return r.Job })
	applications := filterRows(st.applications, filter, func(r domain.ApplicationRow) *domain.JobRef { return r.Job })
	consultations := filterRows(st.consultations, filter, func(r domain.ConsultationRow) *domain.JobRef { return r.Job })

	ensureDesc(clicks, func(r domain.ClickRow) time.Time { return r.ClickedAt })
	ensureDesc(applications, func(r domain.ApplicationRow) time.Time { return r.CreatedAt })
	ensureDesc(consultations, func(r domain.ConsultationRow) time.Time { return r.CreatedAt })

	leads := domain.AggregateLeads(domain.AggregateInput{
		Clicks:        clicks,
		Applications:  applications,
		Consultations: consultations,
		Profiles:      domain.NewProfileLookup(st.profiles),
		Now:           now,
	})

	return transport.LeadManagementData{
		Summary:       domain.Summarize(clicks, applications, consultations),
		Leads:         leads,
		Consultations: consultations,
	}, nil
}

func (s *Service) fetch(ctx context.Context, since *time.Time) streams {
	log := s.log.WithContext(ctx)
	var st streams

	// Every goroutine swallows its error so one failing stream never cancels
	// the others.
	var g errgroup.Group
	g.Go(func() error {
		rows, err := s.repo.ListClicks(ctx, since)
		if err != nil {
			log.DatabaseError("list_booking_clicks", err)
			return nil
		}
		st.clicks = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListApplications(ctx, since)
		if err != nil {
			log.DatabaseError("list_applications", err)
			return nil
		}
		st.applications = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListConsultations(ctx, since)
		if err != nil {
			if !db.IsUndefinedTable(err) {
				log.DatabaseError("list_consultations", err)
			}
			return nil
		}
		st.consultations = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListProfiles(ctx)
		if err != nil {
			log.DatabaseError("list_profiles", err)
			return nil
		}
		st.profiles = rows
		return nil
	})
	_ = g.Wait()

	if st.clicks == nil {
		st.clicks = []domain.ClickRow{}
	}
	if st.applications == nil {
		st.applications = []domain.ApplicationRow{}
	}
	if st.consultations == nil {
		st.consultations = []domain.ConsultationRow{}
	}
	return st
}

// filterRows keeps rows whose job passes the segment filter.
func filterRows[T any](rows []T, filter segment.Filter, job func(T) *domain.JobRef) []T {
	if filter == segment.FilterAll || filter == "" {
		return rows
	}
	lookup := make(map[string]segment.Segment)
	for _, r := range rows {
		if ref := job(r); ref != nil {
			lookup[ref.ID] = segment.Detect(ref.Type)
		}
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var jobID string
		if ref := job(r); ref != nil {
			jobID = ref.ID
		}
		if segment.Keep(filter, jobID, lookup) {
			out = append(out, r)
		}
	}
	return out
}

func ensureDesc[T any](rows []T, at func(T) time.Time) {
	if domain.SortedDesc(rows, at) {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).After(at(rows[j])) })
}
