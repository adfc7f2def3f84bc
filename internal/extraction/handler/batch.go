package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"jobboard_backend/internal/extraction/service"
	"jobboard_backend/internal/extraction/transport"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	filesField = "files"
	modeField  = "mode"
)

// StartBatch handles POST /api/v1/admin/extraction/batches
func (h *Handler) StartBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgFileRequired, nil)
		return
	}
	mode := c.PostForm(modeField)
	if err := h.val.Var(mode, "omitempty,oneof=standard anonymous"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, map[string]string{modeField: "oneof"})
		return
	}

	headers := form.File[filesField]
	files := make([]service.BatchFile, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgFileRequired, nil)
			return
		}
		closers = append(closers, f)
		files = append(files, batchFile(fh, f))
	}

	result, err := h.svc.StartBatch(c.Request.Context(), httpkit.OptionalUserID(c), mode, files)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}

func batchFile(fh *multipart.FileHeader, r io.Reader) service.BatchFile {
	return service.BatchFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      r,
	}
}

// BatchProgress handles GET /api/v1/admin/extraction/batches/:id
func (h *Handler) BatchProgress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.BatchProgress(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListDrafts handles GET /api/v1/admin/draft-jobs
func (h *Handler) ListDrafts(c *gin.Context) {
	var req transport.ListDraftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ListDrafts(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateDraft handles PUT /api/v1/admin/draft-jobs/:id
func (h *Handler) UpdateDraft(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.UpdateDraft(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteDraft handles DELETE /api/v1/admin/draft-jobs/:id
func (h *Handler) DeleteDraft(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteDraft(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishDrafts handles POST /api/v1/admin/draft-jobs/publish
func (h *Handler) PublishDrafts(c *gin.Context) {
	var req transport.PublishDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.PublishDrafts(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
