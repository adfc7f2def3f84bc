// Package extraction drafts job postings from uploaded documents with
// Gemini, singly or as queued batches of draft jobs, and refines drafts on
// admin instruction.
package extraction

import (
	"context"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/internal/extraction/agent"
	"jobboard_backend/internal/extraction/handler"
	"jobboard_backend/internal/extraction/repository"
	"jobboard_backend/internal/extraction/service"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/ai/gemini"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is what the extraction module reads from configuration.
type Config interface {
	config.GeminiConfig
	config.StorageConfig
}

// Module is the extraction module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the extraction module. Without a Gemini key or MinIO the
// module still mounts and answers 503 for the missing capability. files,
// queue and publisher may be nil.
func NewModule(ctx context.Context, cfg Config, pool *pgxpool.Pool, files storage.FileStore, options service.OptionSource, queue service.BatchQueue, publisher service.JobPublisher, val *validator.Validator, log *logger.Logger) (*Module, error) {
	svc, err := newService(ctx, cfg, service.Deps{
		Files:     files,
		Options:   options,
		Drafts:    repository.New(pool),
		Queue:     queue,
		Publisher: publisher,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}
	if queue == nil {
		log.Info("task queue not configured, batch extraction disabled")
	}
	return &Module{handler: handler.New(svc, val)}, nil
}

// NewBatchProcessor builds the service the task worker runs batch drafts
// through.
func NewBatchProcessor(ctx context.Context, cfg Config, pool *pgxpool.Pool, files storage.FileStore, options service.OptionSource, log *logger.Logger) (*service.Service, error) {
	return newService(ctx, cfg, service.Deps{
		Files:   files,
		Options: options,
		Drafts:  repository.New(pool),
		Log:     log,
	})
}

func newService(ctx context.Context, cfg Config, deps service.Deps) (*service.Service, error) {
	client, err := gemini.NewClient(ctx, cfg.GetGeminiAPIKey())
	if err != nil {
		return nil, err
	}

	deps.ExtractionModel = cfg.GetGeminiExtractionModel()
	deps.RefineModel = cfg.GetGeminiRefineModel()
	deps.MaxSourceBytes = cfg.GetMinIOMaxFileSize()
	if client != nil {
		refiner, err := agent.NewRefiner(gemini.NewModel(client, cfg.GetGeminiRefineModel()), service.RefineInstruction)
		if err != nil {
			return nil, err
		}
		deps.Generator = client
		deps.Refiner = refiner
	} else if deps.Log != nil {
		deps.Log.Info("gemini api key not set, AI extraction disabled")
	}
	return service.New(deps), nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "extraction"
}

// RegisterRoutes mounts admin extraction routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/extraction")
	admin.POST("/files", m.handler.Upload)
	admin.POST("/extract", m.handler.Extract)
	admin.POST("/refine", m.handler.Refine)
	admin.POST("/batches", m.handler.StartBatch)
	admin.GET("/batches/:id", m.handler.BatchProgress)

	drafts := ctx.Admin.Group("/draft-jobs")
	drafts.GET("", m.handler.ListDrafts)
	drafts.POST("/publish", m.handler.PublishDrafts)
	drafts.PUT("/:id", m.handler.UpdateDraft)
	drafts.DELETE("/:id", m.handler.DeleteDraft)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
