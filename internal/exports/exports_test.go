package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobboard_backend/internal/analytics/period"
	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/internal/leads/domain"
	"jobboard_backend/internal/leads/transport"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

var at = time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)

func sampleData() transport.LeadManagementData {
	return transport.LeadManagementData{
		Summary: domain.Summary{ApplyClicks: 3, BookedConsultations: 2, ApplyToBookedRate: 66.7},
		Leads: []domain.Lead{{
			ID:          "u:1",
			DisplayName: "山田 太郎",
			AccountType: domain.AccountRegistered,
			Email:       strPtr("taro@example.com"),
			JobTitle:    strPtr("倉庫スタッフ"),
			ApplyClicks: 2,
			MeetingURL:  strPtr("https://meet.google.com/abc"),
			Events:      []domain.LeadEvent{{At: at}},
		}},
		Consultations: []domain.ConsultationRow{{
			ID:        "c1",
			Status:    domain.StatusBooked,
			CreatedAt: at,
			Job:       &domain.JobRef{ID: "j1", Title: "倉庫スタッフ"},
		}},
	}
}

type fakeLeads struct {
	p      period.Period
	filter segment.Filter
}

func (f *fakeLeads) GetLeadManagementData(_ context.Context, p period.Period, filter segment.Filter) (transport.LeadManagementData, error) {
	f.p, f.filter = p, filter
	return sampleData(), nil
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleData())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetLeads, sheetConsultations}, f.GetSheetList())

	name, err := f.GetCellValue(sheetLeads, "A2")
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", name)

	last, err := f.GetCellValue(sheetLeads, "P2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 10:00", last)

	linked, target, err := f.GetCellHyperLink(sheetLeads, "Q2")
	require.NoError(t, err)
	assert.True(t, linked)
	assert.Equal(t, "https://meet.google.com/abc", target)

	rate, err := f.GetCellValue(sheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "66.7", rate)

	title, err := f.GetCellValue(sheetConsultations, "H2")
	require.NoError(t, err)
	assert.Equal(t, "倉庫スタッフ", title)
}

func TestWriteLeadsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, sampleData().Leads))

	body := buf.String()
	require.True(t, strings.HasPrefix(body, utf8BOM))
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, leadHeaders, records[0])
	assert.Equal(t, "会員", records[1][1])
	assert.Equal(t, "2", records[1][8])
}

func TestExportLeadsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	leads := &fakeLeads{}
	h := NewHandler(leads, validator.New(), logger.Nop())
	h.now = func() time.Time { return at }

	r := gin.New()
	r.GET("/export", h.ExportLeads)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?period=7d&segment=dispatch", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leads-20260301-7d-dispatch.xlsx")
	assert.Equal(t, period.Period("7d"), leads.p)
	assert.Equal(t, segment.Filter("dispatch"), leads.filter)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=csv", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leads-20260301-30d-all.csv")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?period=1y", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
