// Package service implements job applications for applicants and the admin
// review pipeline.
package service

import (
	"context"
	"strings"
	"time"

	"jobboard_backend/internal/applications/repository"
	"jobboard_backend/internal/applications/transport"
	"jobboard_backend/internal/events"
	"jobboard_backend/internal/leads/domain"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/metrics"
	"jobboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxMemoLength   = 4000
)

// Store is the persistence the service needs.
type Store interface {
	HasApplied(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, jobID, userID uuid.UUID) (repository.Application, error)
	Summary(ctx context.Context, jobID, userID uuid.UUID) (repository.ApplicantSummary, error)
	List(ctx context.Context, f repository.ListFilter) ([]repository.Application, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateMemo(ctx context.Context, id uuid.UUID, memo *string) error
}

type Service struct {
	repo Store
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
}

func New(repo Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log, now: time.Now}
}

func (s *Service) Status(ctx context.Context, jobID, userID uuid.UUID) (transport.ApplicationStatusResponse, error) {
	applied, err := s.repo.HasApplied(ctx, jobID, userID)
	if err != nil {
		return transport.ApplicationStatusResponse{}, err
	}
	return transport.ApplicationStatusResponse{Applied: applied}, nil
}

// Apply stores a pending application and notifies subscribers.
func (s *Service) Apply(ctx context.Context, jobID, userID uuid.UUID) (transport.ApplyResponse, error) {
	applied, err := s.repo.HasApplied(ctx, jobID, userID)
	if err != nil {
		return transport.ApplyResponse{}, err
	}
	if applied {
		return transport.ApplyResponse{}, apperr.Conflict(repository.CodeAlreadyApplied)
	}

	summary, err := s.repo.Summary(ctx, jobID, userID)
	if err != nil {
		return transport.ApplyResponse{}, err
	}

	app, err := s.repo.Create(ctx, jobID, userID)
	if err != nil {
		return transport.ApplyResponse{}, err
	}
	metrics.RecordApplication()

	if s.bus != nil {
		s.bus.Publish(ctx, events.ApplicationSubmitted{
			BaseEvent:     events.NewBaseEvent(),
			ApplicationID: app.ID,
			JobID:         jobID,
			JobTitle:      summary.JobTitle,
			UserID:        userID,
			ApplicantName: summary.ApplicantName,
		})
	}

	s.log.WithContext(ctx).Info("application submitted", "applicationId", app.ID, "jobId", jobID)
	return transport.ApplyResponse{ID: app.ID, Status: transport.Status(app.Status), CreatedAt: app.CreatedAt}, nil
}

func (s *Service) List(ctx context.Context, req transport.ListApplicationsRequest) (transport.ApplicationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	filter := repository.ListFilter{Status: req.Status, Limit: pageSize, Offset: (page - 1) * pageSize}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			return transport.ApplicationListResponse{}, apperr.BadRequest("invalid jobId")
		}
		filter.JobID = &jobID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.ApplicationListResponse{}, err
	}

	now := s.now()
	out := make([]transport.ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a, now))
	}
	return transport.ApplicationListResponse{Items: out, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.Status) error {
	return s.repo.UpdateStatus(ctx, id, string(status))
}

// UpdateMemo strips markup from the memo; an empty memo clears it.
func (s *Service) UpdateMemo(ctx context.Context, id uuid.UUID, memo string) error {
	cleaned := strings.TrimSpace(sanitize.Truncate(sanitize.Text(memo), maxMemoLength))
	var value *string
	if cleaned != "" {
		value = &cleaned
	}
	return s.repo.UpdateMemo(ctx, id, value)
}

func toResponse(a repository.Application, now time.Time) transport.ApplicationResponse {
	return transport.ApplicationResponse{
		ID:        a.ID,
		JobID:     a.JobID,
		JobTitle:  a.JobTitle,
		JobType:   a.JobType,
		Status:    transport.Status(a.Status),
		AdminMemo: a.AdminMemo,
		CreatedAt: a.CreatedAt,
		Applicant: transport.ApplicantResponse{
			ID:          a.UserID,
			Name:        join(a.LastName, a.FirstName),
			NameKana:    join(a.LastNameKana, a.FirstNameKana),
			Email:       a.Email,
			PhoneNumber: a.PhoneNumber,
			Prefecture:  a.Prefecture,
			Age:         domain.AgeAt(a.BirthDate, now),
		},
	}
}

func join(last, first *string) string {
	var parts []string
	for _, p := range []*string{last, first} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}
