package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"jobboard_backend/internal/extraction/repository"
	"jobboard_backend/internal/extraction/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/metrics"

	"github.com/google/uuid"
)

const (
	maxBatchFiles = 20

	// Draft confidence starts at full and loses points per missing field.
	fullConfidence      = 100
	lowConfidenceCutoff = 70

	msgBatchDisabled   = "batch extraction is not configured"
	msgNoFiles         = "ファイルが選択されていません"
	msgTooManyFiles    = "一度にアップロードできるファイルは20件までです"
	msgUploadFailed    = "アップロードに失敗しました"
	msgQueueFailed     = "抽出キューへの登録に失敗しました"
	msgExtractFailed   = "抽出に失敗しました"
	msgMissingTitle    = "タイトルが抽出されませんでした"
	msgMissingArea     = "勤務地が抽出されませんでした"
	msgMissingSalary   = "給与が抽出されませんでした"
	msgLowConfidence   = "抽出精度が低いです。確認してください。"
	msgDraftNotReady   = "抽出が完了していません"
	msgPublishDisabled = "job publishing is not configured"
)

// DraftStore persists batches and their drafts.
type DraftStore interface {
	CreateBatch(ctx context.Context, totalFiles int, createdBy *uuid.UUID) (repository.Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (repository.Batch, error)
	CreateDraft(ctx context.Context, d repository.Draft) (uuid.UUID, error)
	FinishDraft(ctx context.Context, id uuid.UUID, o repository.Outcome) (bool, error)
	GetDraft(ctx context.Context, id uuid.UUID) (repository.Draft, error)
	ListDrafts(ctx context.Context, batchID *uuid.UUID) ([]repository.Draft, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, title string, data transport.JobData) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	DeleteDrafts(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// BatchQueue hands a stored draft to the background worker.
type BatchQueue interface {
	EnqueueBatchFile(ctx context.Context, draftID uuid.UUID) error
}

// JobPublisher turns a reviewed draft into a live job posting.
type JobPublisher interface {
	PublishDraft(ctx context.Context, data transport.JobData) (uuid.UUID, error)
}

// BatchFile is one uploaded file of a batch.
type BatchFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StartBatch stores every file, records a draft per file and queues the
// stored ones for extraction. Files that fail to store become error drafts
// so the batch still completes.
func (s *Service) StartBatch(ctx context.Context, createdBy *uuid.UUID, mode string, files []BatchFile) (transport.BatchStartResponse, error) {
	if s.drafts == nil || s.queue == nil {
		return transport.BatchStartResponse{}, apperr.Unavailable(msgBatchDisabled)
	}
	if s.files == nil {
		return transport.BatchStartResponse{}, apperr.Unavailable(msgStorageDisabled)
	}
	if s.gen == nil {
		return transport.BatchStartResponse{}, apperr.Unavailable(msgAIDisabled)
	}
	if len(files) == 0 {
		return transport.BatchStartResponse{}, apperr.BadRequest(msgNoFiles)
	}
	if len(files) > maxBatchFiles {
		return transport.BatchStartResponse{}, apperr.BadRequest(msgTooManyFiles)
	}
	if mode == "" {
		mode = transport.ModeStandard
	}

	batch, err := s.drafts.CreateBatch(ctx, len(files), createdBy)
	if err != nil {
		return transport.BatchStartResponse{}, err
	}
	log := s.log.WithContext(ctx)

	queued := 0
	for _, f := range files {
		draft := repository.Draft{
			BatchID:        &batch.ID,
			Title:          f.Name,
			SourceFileName: nonEmpty(f.Name),
			SourceFileType: nonEmpty(f.ContentType),
			SourceMode:     mode,
			Status:         transport.DraftPending,
		}

		key, err := s.storeBatchFile(ctx, f)
		if err != nil {
			log.Warn("batch file upload failed", "batchId", batch.ID, "file", f.Name, "error", err)
			draft.Status = transport.DraftError
			draft.Warnings = []string{msgUploadFailed + ": " + failureMessage(err)}
			if _, err := s.drafts.CreateDraft(ctx, draft); err != nil {
				return transport.BatchStartResponse{}, err
			}
			continue
		}
		draft.SourceFileKey = &key

		draftID, err := s.drafts.CreateDraft(ctx, draft)
		if err != nil {
			return transport.BatchStartResponse{}, err
		}
		if err := s.queue.EnqueueBatchFile(ctx, draftID); err != nil {
			log.Error("batch file enqueue failed", "batchId", batch.ID, "draftId", draftID, "error", err)
			metrics.RecordIntegrationError("redis")
			if _, err := s.drafts.FinishDraft(ctx, draftID, repository.Outcome{
				Title:    f.Name,
				Status:   transport.DraftError,
				Warnings: []string{msgQueueFailed},
			}); err != nil {
				return transport.BatchStartResponse{}, err
			}
			continue
		}
		queued++
	}

	log.Info("extraction batch started", "batchId", batch.ID, "files", len(files), "queued", queued)
	return transport.BatchStartResponse{BatchID: batch.ID, TotalFiles: len(files), Queued: queued}, nil
}

func (s *Service) storeBatchFile(ctx context.Context, f BatchFile) (string, error) {
	if err := s.files.ValidateUpload(f.ContentType, f.Size); err != nil {
		return "", err
	}
	key, err := s.files.Upload(ctx, f.Name, f.ContentType, f.Reader, f.Size)
	if err != nil {
		metrics.RecordIntegrationError("minio")
		return "", err
	}
	return key, nil
}

// ProcessBatchFile extracts one pending draft. Extraction failures settle the
// draft as an error; only store failures and cancellation are returned so
// the task is retried.
func (s *Service) ProcessBatchFile(ctx context.Context, draftID uuid.UUID) error {
	if s.drafts == nil {
		return apperr.Unavailable(msgBatchDisabled)
	}
	log := s.log.WithContext(ctx)

	draft, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			log.Info("batch draft gone, skipping", "draftId", draftID)
			return nil
		}
		return err
	}
	if draft.Status != transport.DraftPending || draft.SourceFileKey == nil {
		return nil
	}

	res, err := s.Extract(ctx, transport.ExtractRequest{FileKey: *draft.SourceFileKey, Mode: draft.SourceMode})
	var outcome repository.Outcome
	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		log.Warn("batch draft extraction failed", "draftId", draftID, "error", err)
		outcome = repository.Outcome{
			Title:    draft.Title,
			Status:   transport.DraftError,
			Warnings: []string{msgExtractFailed + ": " + failureMessage(err)},
		}
	default:
		outcome = Assess(res.Data, res.Issues)
		if outcome.Title == "" {
			outcome.Title = draft.Title
		}
	}

	finished, err := s.drafts.FinishDraft(ctx, draftID, outcome)
	if err != nil {
		return err
	}
	if finished {
		log.Info("batch draft extracted", "draftId", draftID, "status", outcome.Status)
	}
	return nil
}

// Assess scores an extracted draft and decides its status.
func Assess(data transport.JobData, issues []transport.ValidationIssue) repository.Outcome {
	confidence := CalculateConfidence(data)
	var warnings []string
	if strings.TrimSpace(data.Title) == "" {
		warnings = append(warnings, msgMissingTitle)
	}
	if strings.TrimSpace(data.Area) == "" {
		warnings = append(warnings, msgMissingArea)
	}
	if strings.TrimSpace(data.Salary) == "" {
		warnings = append(warnings, msgMissingSalary)
	}
	if confidence < lowConfidenceCutoff {
		warnings = append(warnings, msgLowConfidence)
	}
	for _, issue := range issues {
		if issue.Level == transport.LevelError {
			warnings = append(warnings, issue.Message)
		}
	}

	status := transport.DraftSuccess
	if len(warnings) > 0 {
		status = transport.DraftWarning
	}
	return repository.Outcome{
		Title:        strings.TrimSpace(data.Title),
		Data:         data,
		Status:       status,
		Warnings:     warnings,
		AIConfidence: &confidence,
	}
}

// CalculateConfidence rates how complete an extracted draft is, 0 to 100.
func CalculateConfidence(data transport.JobData) int {
	score := fullConfidence
	deduct := func(missing bool, points int) {
		if missing {
			score -= points
		}
	}
	deduct(strings.TrimSpace(data.Title) == "", 30)
	deduct(strings.TrimSpace(data.Area) == "", 20)
	deduct(strings.TrimSpace(data.Salary) == "", 20)
	deduct(strings.TrimSpace(data.Description) == "", 10)
	deduct(strings.TrimSpace(data.Type) == "", 5)
	deduct(len(data.Tags) == 0, 5)
	deduct(len(data.Requirements) == 0, 5)
	return max(0, min(fullConfidence, score))
}

func (s *Service) BatchProgress(ctx context.Context, id uuid.UUID) (transport.BatchProgressResponse, error) {
	if s.drafts == nil {
		return transport.BatchProgressResponse{}, apperr.Unavailable(msgBatchDisabled)
	}
	b, err := s.drafts.GetBatch(ctx, id)
	if err != nil {
		return transport.BatchProgressResponse{}, err
	}
	return transport.BatchProgressResponse{
		ID:             b.ID,
		Status:         b.Status,
		TotalFiles:     b.TotalFiles,
		ProcessedCount: b.ProcessedCount,
		SuccessCount:   b.SuccessCount,
		WarningCount:   b.WarningCount,
		ErrorCount:     b.ErrorCount,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}, nil
}

func (s *Service) ListDrafts(ctx context.Context, req transport.ListDraftsRequest) ([]transport.DraftResponse, error) {
	if s.drafts == nil {
		return nil, apperr.Unavailable(msgBatchDisabled)
	}
	var batchID *uuid.UUID
	if req.BatchID != "" {
		id, err := uuid.Parse(req.BatchID)
		if err != nil {
			return nil, apperr.BadRequest("invalid batchId")
		}
		batchID = &id
	}
	drafts, err := s.drafts.ListDrafts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, toDraftResponse(d))
	}
	return out, nil
}

// UpdateDraft replaces a draft's data after admin review. The title follows
// the data.
func (s *Service) UpdateDraft(ctx context.Context, id uuid.UUID, req transport.UpdateDraftRequest) (transport.DraftResponse, error) {
	if s.drafts == nil {
		return transport.DraftResponse{}, apperr.Unavailable(msgBatchDisabled)
	}
	title := strings.TrimSpace(req.Data.Title)
	if title == "" {
		return transport.DraftResponse{}, apperr.Validation("title is required")
	}
	if err := s.drafts.UpdateDraft(ctx, id, title, req.Data); err != nil {
		return transport.DraftResponse{}, err
	}
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return transport.DraftResponse{}, err
	}
	return toDraftResponse(d), nil
}

func (s *Service) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if s.drafts == nil {
		return apperr.Unavailable(msgBatchDisabled)
	}
	return s.drafts.DeleteDraft(ctx, id)
}

// PublishDrafts creates a job from each draft and removes the drafts that
// were published. Failures are reported per draft; the call only fails
// when nothing could be published.
func (s *Service) PublishDrafts(ctx context.Context, req transport.PublishDraftsRequest) (transport.PublishDraftsResponse, error) {
	if s.drafts == nil {
		return transport.PublishDraftsResponse{}, apperr.Unavailable(msgBatchDisabled)
	}
	if s.publisher == nil {
		return transport.PublishDraftsResponse{}, apperr.Unavailable(msgPublishDisabled)
	}
	log := s.log.WithContext(ctx)

	var (
		published []uuid.UUID
		jobIDs    []uuid.UUID
		failures  []string
	)
	for _, id := range req.IDs {
		d, err := s.drafts.GetDraft(ctx, id)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				return transport.PublishDraftsResponse{}, err
			}
			failures = append(failures, id.String()+": "+failureMessage(err))
			continue
		}
		label := d.Title
		if label == "" {
			label = d.ID.String()
		}
		if d.Status == transport.DraftPending {
			failures = append(failures, label+": "+msgDraftNotReady)
			continue
		}

		data := d.Data
		if strings.TrimSpace(data.Title) == "" {
			data.Title = d.Title
		}
		jobID, err := s.publisher.PublishDraft(ctx, data)
		if err != nil {
			log.Warn("draft publish failed", "draftId", d.ID, "error", err)
			failures = append(failures, label+": "+failureMessage(err))
			continue
		}
		published = append(published, d.ID)
		jobIDs = append(jobIDs, jobID)
	}

	if len(published) == 0 {
		return transport.PublishDraftsResponse{}, apperr.Validation("公開に失敗しました: " + strings.Join(failures, ", "))
	}
	if _, err := s.drafts.DeleteDrafts(ctx, published); err != nil {
		return transport.PublishDraftsResponse{}, err
	}
	log.Info("drafts published", "count", len(published), "failed", len(failures))

	message := fmt.Sprintf("%d件公開しました", len(published))
	if len(failures) > 0 {
		message = fmt.Sprintf("%d件公開しました（%d件失敗: %s）", len(published), len(failures), strings.Join(failures, ", "))
	}
	return transport.PublishDraftsResponse{
		Success: len(failures) == 0,
		Count:   len(published),
		JobIDs:  jobIDs,
		Errors:  nonNilStrings(failures),
		Message: message,
	}, nil
}

func toDraftResponse(d repository.Draft) transport.DraftResponse {
	return transport.DraftResponse{
		ID:               d.ID,
		BatchID:          d.BatchID,
		Title:            d.Title,
		Data:             d.Data,
		SourceFileName:   d.SourceFileName,
		SourceFileType:   d.SourceFileType,
		SourceMode:       d.SourceMode,
		ExtractionStatus: d.Status,
		Warnings:         nonNilStrings(d.Warnings),
		AIConfidence:     d.AIConfidence,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// failureMessage keeps user-facing error text and hides internal detail.
func failureMessage(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal && ae.Kind != apperr.KindUnknown {
		return ae.Message
	}
	return msgExtractFailed
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
