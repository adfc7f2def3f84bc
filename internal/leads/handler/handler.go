package handler

import (
	"net/http"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/leads/service"
	"jobboard_backend/internal/leads/transport"
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

// ParseQuery binds and validates the period and segment query.
func ParseQuery(c *gin.Context, val *validator.Validator) (period.Period, segment.Filter, bool) {
	var req transport.QueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return "", "", false
	}
	if err := val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return "", "", false
	}
	p, err := period.Parse(req.Period)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, nil)
		return "", "", false
	}
	filter, err := segment.ParseFilter(req.Segment)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, nil)
		return "", "", false
	}
	return p, filter, true
}

// Get handles GET /api/v1/admin/leads
func (h *Handler) Get(c *gin.Context) {
	p, filter, ok := ParseQuery(c, h.val)
	if !ok {
		return
	}

	result, err := h.svc.GetLeadManagementData(c.Request.Context(), p, filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
