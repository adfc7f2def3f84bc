package handler

import (
	"net/http"
	"time"

	"jobboard_backend/internal/auth/repository"
	"jobboard_backend/internal/auth/service"
	"jobboard_backend/internal/auth/transport"
	"jobboard_backend/platform/apperr"
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

func (h *Handler) GetMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	profile, err := h.svc.GetMe(c.Request.Context(), id.UserID())
	if apperr.Is(err, apperr.KindNotFound) {
		email := id.Email()
		httpkit.OK(c, transport.ProfileResponse{ID: id.UserID().String(), Email: &email})
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(profile))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	profile, err := h.svc.UpdateMe(c.Request.Context(), id.UserID(), id.Email(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(profile))
}

func toResponse(p repository.Profile) transport.ProfileResponse {
	resp := transport.ProfileResponse{
		ID:            p.ID.String(),
		Email:         p.Email,
		LastName:      p.LastName,
		FirstName:     p.FirstName,
		LastNameKana:  p.LastNameKana,
		FirstNameKana: p.FirstNameKana,
		Prefecture:    p.Prefecture,
		PhoneNumber:   p.PhoneNumber,
		IsAdmin:       p.IsAdmin,
	}
	if p.BirthDate != nil {
		birth := p.BirthDate.Format(time.DateOnly)
		resp.BirthDate = &birth
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
