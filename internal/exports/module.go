// Package exports serves the lead management screen as spreadsheet downloads.
package exports

import (
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the exports module on top of the lead read.
func NewModule(leads LeadReader, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(leads, val, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/leads/export", m.handler.ExportLeads)
}

var _ apphttp.Module = (*Module)(nil)
