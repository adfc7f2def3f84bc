// Package service implements AI-assisted drafting of job postings: field
// extraction from source documents and instruction-driven refinement.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/internal/extraction/transport"
	"jobboard_backend/platform/ai/gemini"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/metrics"

	"google.golang.org/genai"
)

const (
	opExtract = "extract"
	opRefine  = "refine"

	resultOK            = "ok"
	resultError         = "error"
	resultInvalidOutput = "invalid_output"
	resultRejected      = "rejected"

	msgAIDisabled      = "AI機能が設定されていません"
	msgStorageDisabled = "file storage is not configured"
	msgInvalidOutput   = "AIの出力を解析できませんでした"

	maxWageChangePercent = 30.0
)

// Fields that a refinement may never blank.
var requiredFields = []string{"title", "area", "salary", "category"}

// Generator runs one-shot JSON generation.
type Generator interface {
	GenerateJSON(ctx context.Context, model, systemInstruction string, parts []*genai.Part) (gemini.Result, error)
}

// Refiner runs the refine agent on a prepared prompt.
type Refiner interface {
	Refine(ctx context.Context, prompt string) (gemini.Result, error)
}

// OptionSource reads job_options rows of one category.
type OptionSource interface {
	ListOptions(ctx context.Context, category string) ([]Option, error)
}

// Deps wires the service. Generator, Refiner and Files may be nil when the
// backing integration is not configured, as may the batch dependencies.
type Deps struct {
	Generator       Generator
	Refiner         Refiner
	Files           storage.FileStore
	Fetcher         Fetcher
	Options         OptionSource
	Drafts          DraftStore
	Queue           BatchQueue
	Publisher       JobPublisher
	Catalogue       *Catalogue
	ExtractionModel string
	RefineModel     string
	MaxSourceBytes  int64
	Log             *logger.Logger
}

// Service drafts job postings with Gemini.
type Service struct {
	gen         Generator
	refiner     Refiner
	files       storage.FileStore
	fetcher     Fetcher
	options     OptionSource
	drafts      DraftStore
	queue       BatchQueue
	publisher   JobPublisher
	catalogue   *Catalogue
	model       string
	refineModel string
	maxBytes    int64
	log         *logger.Logger
}

// New creates the service.
func New(d Deps) *Service {
	if d.Catalogue == nil {
		d.Catalogue = DefaultCatalogue()
	}
	if d.MaxSourceBytes <= 0 {
		d.MaxSourceBytes = defaultMaxSourceBytes
	}
	if d.Fetcher == nil {
		d.Fetcher = NewHTTPFetcher(d.MaxSourceBytes)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Service{
		gen:         d.Generator,
		refiner:     d.Refiner,
		files:       d.Files,
		fetcher:     d.Fetcher,
		options:     d.Options,
		drafts:      d.Drafts,
		queue:       d.Queue,
		publisher:   d.Publisher,
		catalogue:   d.Catalogue,
		model:       d.ExtractionModel,
		refineModel: d.RefineModel,
		maxBytes:    d.MaxSourceBytes,
		log:         d.Log,
	}
}

// Upload validates and stores a source file.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, r io.Reader, size int64) (transport.UploadResponse, error) {
	if s.files == nil {
		return transport.UploadResponse{}, apperr.Unavailable(msgStorageDisabled)
	}
	if err := s.files.ValidateUpload(contentType, size); err != nil {
		return transport.UploadResponse{}, err
	}
	key, err := s.files.Upload(ctx, fileName, contentType, r, size)
	if err != nil {
		s.log.Error("job file upload failed", "error", err)
		metrics.RecordIntegrationError("minio")
		return transport.UploadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to store file", err)
	}
	return transport.UploadResponse{FileKey: key}, nil
}

// Extract reads a posting document and returns a validated draft.
func (s *Service) Extract(ctx context.Context, req transport.ExtractRequest) (transport.ExtractResponse, error) {
	if s.gen == nil {
		return transport.ExtractResponse{}, apperr.Unavailable(msgAIDisabled)
	}

	src, err := s.loadSource(ctx, req)
	if err != nil {
		return transport.ExtractResponse{}, err
	}
	parts, err := src.Parts()
	if err != nil {
		return transport.ExtractResponse{}, err
	}

	masters, options, err := s.loadMasters(ctx)
	if err != nil {
		return transport.ExtractResponse{}, err
	}

	parts = append(parts, genai.NewPartFromText(BuildUserPrompt(req.Mode)))
	result, err := s.gen.GenerateJSON(ctx, s.model, BuildSystemInstruction(masters), parts)
	if err != nil {
		s.log.Warn("job extraction failed", "error", err)
		metrics.RecordAIRequest(opExtract, resultError)
		return transport.ExtractResponse{}, err
	}
	s.logUsage(opExtract, s.model, result.Usage)

	data, err := DecodeJobData(result.Text)
	if err != nil {
		s.log.Warn("job extraction returned invalid json", "error", err)
		metrics.RecordAIRequest(opExtract, resultInvalidOutput)
		return transport.ExtractResponse{}, apperr.Wrap(apperr.KindUpstream, msgInvalidOutput, err)
	}
	metrics.RecordAIRequest(opExtract, resultOK)

	return transport.ExtractResponse{
		Data:       data,
		Issues:     Validate(data),
		TagMatches: matchAll(data, options),
		Usage:      result.Usage,
	}, nil
}

func (s *Service) loadSource(ctx context.Context, req transport.ExtractRequest) (Source, error) {
	switch {
	case req.FileKey != "":
		if s.files == nil {
			return Source{}, apperr.Unavailable(msgStorageDisabled)
		}
		rc, contentType, err := s.files.Open(ctx, req.FileKey)
		if err != nil {
			return Source{}, err
		}
		defer rc.Close()
		data, err := readLimited(rc, s.maxBytes)
		if err != nil {
			return Source{}, err
		}
		return Source{Data: data, MIMEType: detectMIME(contentType, data)}, nil
	case req.FileURL != "":
		return s.fetcher.Fetch(ctx, req.FileURL)
	default:
		return Source{}, apperr.BadRequest("fileKey or fileUrl is required")
	}
}

// loadMasters reads option labels for the prompt and full rows for matching.
func (s *Service) loadMasters(ctx context.Context) (Masters, map[string][]Option, error) {
	masters := make(Masters, len(MasterCategories))
	options := make(map[string][]Option, len(MasterCategories))
	if s.options == nil {
		return masters, options, nil
	}
	for _, category := range MasterCategories {
		rows, err := s.options.ListOptions(ctx, category)
		if err != nil {
			s.log.DatabaseError("list_job_options", err)
			return nil, nil, apperr.Wrap(apperr.KindInternal, "failed to load job options", err)
		}
		options[category] = rows
		for _, o := range rows {
			masters[category] = append(masters[category], o.Label)
		}
	}
	return masters, options, nil
}

func matchAll(data transport.JobData, options map[string][]Option) map[string][]transport.TagMatch {
	items := map[string][]string{
		CategoryTags:         data.Tags,
		CategoryHolidays:     data.Holidays,
		CategoryBenefits:     data.Benefits,
		CategoryRequirements: data.Requirements,
	}
	out := make(map[string][]transport.TagMatch, len(items))
	for category, values := range items {
		out[category] = MatchTags(values, options[category])
	}
	return out
}

type refineReply struct {
	TargetFields    []string       `json:"targetFields"`
	Reasoning       string         `json:"reasoning"`
	ProposedChanges map[string]any `json:"proposedChanges"`
}

// Refine applies an admin instruction to a draft. Only fields the
// instruction targets are merged; with no detected target the fields the
// model reports as changed are taken, limited to known fields.
func (s *Service) Refine(ctx context.Context, req transport.RefineRequest) (transport.RefineResponse, error) {
	if s.refiner == nil {
		return transport.RefineResponse{}, apperr.Unavailable(msgAIDisabled)
	}

	current, err := ToMap(req.CurrentData)
	if err != nil {
		return transport.RefineResponse{}, apperr.Wrap(apperr.KindBadRequest, "invalid currentData", err)
	}
	targets := s.catalogue.TargetFields(req.Instruction)

	masters, _, err := s.loadMasters(ctx)
	if err != nil {
		return transport.RefineResponse{}, err
	}

	prompt := BuildRefinePrompt(current, req.Instruction, req.JobType, req.History, targets, masters, s.catalogue)
	result, err := s.refiner.Refine(ctx, prompt)
	if err != nil {
		s.log.Warn("job refinement failed", "error", err)
		metrics.RecordAIRequest(opRefine, resultError)
		return transport.RefineResponse{}, err
	}
	s.logUsage(opRefine, s.refineModel, result.Usage)

	var reply refineReply
	if err := json.Unmarshal([]byte(ExtractJSON(result.Text)), &reply); err != nil {
		metrics.RecordAIRequest(opRefine, resultInvalidOutput)
		return transport.RefineResponse{}, apperr.Wrap(apperr.KindUpstream, msgInvalidOutput, err)
	}

	changed := s.selectChanges(reply, targets)
	if warnings := guardWarnings(changed, reply.ProposedChanges, req.CurrentData); len(warnings) > 0 {
		metrics.RecordAIRequest(opRefine, resultRejected)
		return transport.RefineResponse{}, apperr.Validation("ガードレール警告:\n" + strings.Join(warnings, "\n"))
	}

	for _, field := range changed {
		current[field] = reply.ProposedChanges[field]
	}
	merged, err := FromMap(current)
	if err != nil {
		metrics.RecordAIRequest(opRefine, resultInvalidOutput)
		return transport.RefineResponse{}, apperr.Wrap(apperr.KindUpstream, msgInvalidOutput, err)
	}
	metrics.RecordAIRequest(opRefine, resultOK)

	return transport.RefineResponse{
		Data:          merged,
		ChangedFields: changed,
		TargetFields:  targets,
		Reasoning:     reply.Reasoning,
	}, nil
}

func (s *Service) selectChanges(reply refineReply, targets []string) []string {
	changed := make([]string, 0, len(reply.TargetFields))
	for _, field := range reply.TargetFields {
		if _, proposed := reply.ProposedChanges[field]; !proposed {
			continue
		}
		allowed := s.catalogue.Known(field)
		if len(targets) > 0 {
			allowed = slices.Contains(targets, field)
		}
		if allowed && !slices.Contains(changed, field) {
			changed = append(changed, field)
		}
	}
	return changed
}

// guardWarnings blocks blanking required fields and hourly wage swings
// above 30%.
func guardWarnings(changed []string, proposed map[string]any, current transport.JobData) []string {
	var warnings []string
	for _, field := range changed {
		if slices.Contains(requiredFields, field) && strings.TrimSpace(toText(proposed[field])) == "" {
			warnings = append(warnings, fmt.Sprintf("%sは必須フィールドです。空値にすることはできません。", field))
		}
		if field == "hourly_wage" && current.HourlyWage != nil && *current.HourlyWage > 0 {
			next, ok := toInt(proposed[field])
			if !ok || next == 0 {
				continue
			}
			original := float64(*current.HourlyWage)
			pct := math.Abs(original-float64(next)) / original * 100
			if pct > maxWageChangePercent {
				warnings = append(warnings, fmt.Sprintf("時給の変更が大きくなっています（%d%%変動）", int(math.Round(pct))))
			}
		}
	}
	return warnings
}

func (s *Service) logUsage(op, model string, u *gemini.Usage) {
	if u == nil {
		return
	}
	s.log.AIUsage(op, model, u.PromptTokens, u.OutputTokens, u.TotalTokens)
}
