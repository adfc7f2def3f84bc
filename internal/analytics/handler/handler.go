package handler

import (
	"net/http"

	"jobboard_backend/internal/analytics/service"
	"jobboard_backend/internal/analytics/transport"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// Summary handles GET /api/v1/admin/analytics/summary
func (h *Handler) Summary(c *gin.Context) {
	var req transport.QueryRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.Summary(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DailyViews handles GET /api/v1/admin/analytics/daily-views
func (h *Handler) DailyViews(c *gin.Context) {
	var req transport.QueryRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.DailyViews(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// JobRanking handles GET /api/v1/admin/analytics/job-ranking
func (h *Handler) JobRanking(c *gin.Context) {
	var req transport.RankingRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.JobRanking(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// StatusBreakdown handles GET /api/v1/admin/analytics/status-breakdown
func (h *Handler) StatusBreakdown(c *gin.Context) {
	var req transport.QueryRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.StatusBreakdown(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
