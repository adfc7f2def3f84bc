// Package service implements job listing, tracking and admin maintenance.
package service

import (
	"context"
	"strings"
	"time"

	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/metrics"
	"jobboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

const tagsCategory = "tags"

// Store is the persistence the service needs.
type Store interface {
	ListActive(ctx context.Context, f repository.ListFilter) ([]repository.Job, error)
	ListRecentActiveExcept(ctx context.Context, id uuid.UUID, limit int) ([]repository.Job, error)
	SearchByArea(ctx context.Context, area, jobType string, limit int) ([]repository.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Job, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, j repository.Job) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, j repository.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOptions(ctx context.Context, category string) ([]repository.Option, error)
	CreateOption(ctx context.Context, o repository.Option) (repository.Option, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error
	InsertView(ctx context.Context, v repository.View) error
	HasRecentView(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID, ipHash string, since time.Time) (bool, error)
	InsertBookingClick(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID, clickType string) error
}

// ViewInput is one tracked page view.
type ViewInput struct {
	JobID        uuid.UUID
	UserID       *uuid.UUID
	ForwardedFor string
	RealIP       string
	UserAgent    string
	Referrer     string
}

type Service struct {
	repo     Store
	gate     ViewGate
	tracking config.TrackingConfig
	calcom   config.CalcomConfig
	log      *logger.Logger
	now      func() time.Time
}

// New creates the jobs service. gate may be nil; dedupe then relies on the
// job_views table alone.
func New(repo Store, gate ViewGate, tracking config.TrackingConfig, calcom config.CalcomConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		tracking: tracking,
		calcom:   calcom,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, req transport.ListJobsRequest) (transport.JobListResponse, error) {
	jobs, err := s.repo.ListActive(ctx, repository.ListFilter{
		Area:  req.Area,
		Type:  req.Type,
		Tag:   req.Tag,
		Limit: req.Limit,
	})
	if err != nil {
		return transport.JobListResponse{}, err
	}
	return toListResponse(jobs), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.JobResponse{}, err
	}
	return toResponse(job), nil
}

// Recommended ranks the newest active jobs against the given one.
func (s *Service) Recommended(ctx context.Context, id uuid.UUID, limit int) (transport.JobListResponse, error) {
	if limit <= 0 {
		limit = recommendLimit
	}
	base, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	candidates, err := s.repo.ListRecentActiveExcept(ctx, id, recommendCandidates)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	return toListResponse(RankRecommendations(base, candidates, limit)), nil
}

func (s *Service) Search(ctx context.Context, req transport.SearchJobsRequest) (transport.JobListResponse, error) {
	jobs, err := s.repo.SearchByArea(ctx, req.Area, req.Type, searchLimit)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	return toListResponse(jobs), nil
}

func (s *Service) Tags(ctx context.Context) ([]transport.TagResponse, error) {
	options, err := s.repo.ListOptions(ctx, tagsCategory)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TagResponse, 0, len(options))
	for _, o := range options {
		out = append(out, transport.TagResponse{Label: o.Label, Value: o.Value})
	}
	return out, nil
}

// RecordView stores a view unless the same viewer was seen within the
// dedupe window. Tracking failures are logged and never surface.
func (s *Service) RecordView(ctx context.Context, in ViewInput) bool {
	log := s.log.WithContext(ctx)

	ipHash := HashIP(ClientIP(in.ForwardedFor, in.RealIP))
	viewer := "ip:" + ipHash
	if in.UserID != nil {
		viewer = "user:" + in.UserID.String()
	}

	window := s.tracking.GetViewDedupeWindow()
	duplicate, err := s.seenRecently(ctx, in, viewer, ipHash, window)
	if err != nil {
		log.DatabaseError("check_recent_view", err)
		metrics.RecordJobView(metrics.ViewFailed)
		return false
	}
	if duplicate {
		metrics.RecordJobView(metrics.ViewDeduplicated)
		return false
	}

	isBot := IsBot(in.UserAgent)
	view := repository.View{
		JobID:     in.JobID,
		UserID:    in.UserID,
		IPHash:    ipHash,
		UserAgent: truncated(in.UserAgent, maxUserAgentLen),
		Referrer:  truncated(in.Referrer, maxReferrerLen),
		IsBot:     isBot,
	}
	if err := s.repo.InsertView(ctx, view); err != nil {
		log.DatabaseError("insert_job_view", err)
		metrics.RecordJobView(metrics.ViewFailed)
		return false
	}

	if isBot {
		metrics.RecordJobView(metrics.ViewBot)
	} else {
		metrics.RecordJobView(metrics.ViewRecorded)
	}
	return true
}

func (s *Service) seenRecently(ctx context.Context, in ViewInput, viewer, ipHash string, window time.Duration) (bool, error) {
	if s.gate != nil {
		admitted, err := s.gate.Admit(ctx, viewGateKey(in.JobID.String(), viewer), window)
		if err == nil {
			return !admitted, nil
		}
		s.log.WithContext(ctx).Warn("view gate unavailable, falling back to database", "error", err)
		metrics.RecordIntegrationError("redis")
	}
	return s.repo.HasRecentView(ctx, in.JobID, in.UserID, ipHash, s.now().Add(-window))
}

// RecordBookingClick stores the click and returns the Cal.com link for it.
func (s *Service) RecordBookingClick(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID, clickType transport.ClickType) (transport.BookingClickResponse, error) {
	slug := s.calcom.GetCalcomApplySlug()
	if clickType == transport.ClickTypeConsult {
		slug = s.calcom.GetCalcomConsultSlug()
	}
	if strings.TrimSpace(slug) == "" {
		return transport.BookingClickResponse{}, apperr.Unavailable("booking link is not configured")
	}

	exists, err := s.repo.Exists(ctx, jobID)
	if err != nil {
		return transport.BookingClickResponse{}, err
	}
	if !exists {
		return transport.BookingClickResponse{}, apperr.NotFound("job not found")
	}

	if err := s.repo.InsertBookingClick(ctx, jobID, userID, string(clickType)); err != nil {
		return transport.BookingClickResponse{}, err
	}
	metrics.RecordBookingClick(string(clickType))

	var uid string
	if userID != nil {
		uid = userID.String()
	}
	return transport.BookingClickResponse{URL: BookingURL(slug, string(clickType), jobID.String(), uid)}, nil
}

func (s *Service) Create(ctx context.Context, req transport.UpsertJobRequest) (transport.JobResponse, error) {
	id, err := s.repo.Create(ctx, fromRequest(req))
	if err != nil {
		return transport.JobResponse{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpsertJobRequest) (transport.JobResponse, error) {
	if err := s.repo.Update(ctx, id, fromRequest(req)); err != nil {
		return transport.JobResponse{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListOptions returns the option masters, optionally of one category.
func (s *Service) ListOptions(ctx context.Context, req transport.ListOptionsRequest) ([]transport.OptionResponse, error) {
	options, err := s.repo.ListOptions(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, toOptionResponse(o))
	}
	return out, nil
}

func (s *Service) CreateOption(ctx context.Context, req transport.CreateOptionRequest) (transport.OptionResponse, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return transport.OptionResponse{}, apperr.Validation("label is required")
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		value = label
	}
	o, err := s.repo.CreateOption(ctx, repository.Option{
		Category:  req.Category,
		Label:     label,
		Value:     value,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.OptionResponse{}, err
	}
	s.log.Info("job option created", "category", o.Category, "value", o.Value)
	return toOptionResponse(o), nil
}

func (s *Service) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOption(ctx, id)
}

func toOptionResponse(o repository.Option) transport.OptionResponse {
	return transport.OptionResponse{
		ID:        o.ID,
		Category:  o.Category,
		Label:     o.Label,
		Value:     o.Value,
		SortOrder: o.SortOrder,
	}
}

func truncated(s string, max int) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	out := sanitize.Truncate(trimmed, max)
	return &out
}
