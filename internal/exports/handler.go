package exports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/segment"
	leadshandler "jobboard_backend/internal/leads/handler"
	"jobboard_backend/internal/leads/transport"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	formatXLSX = "xlsx"
	formatCSV  = "csv"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// LeadReader is the lead management read the export renders.
type LeadReader interface {
	GetLeadManagementData(ctx context.Context, p period.Period, filter segment.Filter) (transport.LeadManagementData, error)
}

// Handler renders lead management data as downloadable files.
type Handler struct {
	leads LeadReader
	val   *validator.Validator
	log   *logger.Logger
	now   func() time.Time
}

func NewHandler(leads LeadReader, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{leads: leads, val: val, log: log, now: time.Now}
}

// ExportLeads handles GET /api/v1/admin/leads/export
func (h *Handler) ExportLeads(c *gin.Context) {
	p, filter, ok := leadshandler.ParseQuery(c, h.val)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", formatXLSX)
	if format != formatXLSX && format != formatCSV {
		httpkit.Error(c, http.StatusBadRequest, "unsupported format", nil)
		return
	}

	data, err := h.leads.GetLeadManagementData(c.Request.Context(), p, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	name := fileName(h.now(), p, filter, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

	if format == formatCSV {
		c.Header("Content-Type", contentTypeCSV)
		c.Status(http.StatusOK)
		if err := WriteLeadsCSV(c.Writer, data.Leads); err != nil {
			h.log.Error("failed to write leads csv", "error", err)
		}
		return
	}

	f, err := BuildWorkbook(data)
	if err != nil {
		h.log.Error("failed to build leads workbook", "error", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to build export", nil)
		return
	}
	defer f.Close()

	c.Header("Content-Type", contentTypeXLSX)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Error("failed to write leads workbook", "error", err)
	}
}

func fileName(now time.Time, p period.Period, filter segment.Filter, format string) string {
	return fmt.Sprintf("leads-%s-%s-%s.%s", now.In(displayZone).Format("20060102"), p, filter, format)
}
