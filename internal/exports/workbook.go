package exports

import (
	"fmt"
	"strconv"
	"time"

	"jobboard_backend/internal/leads/domain"
	"jobboard_backend/internal/leads/transport"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary       = "サマリー"
	sheetLeads         = "リード"
	sheetConsultations = "相談予約"
	timeLayout         = "2006-01-02 15:04"
)

var displayZone = time.FixedZone("JST", 9*60*60)

var leadHeaders = []string{
	"氏名", "区分", "メール", "電話", "都道府県", "年齢", "求人", "雇用形態",
	"応募クリック", "相談クリック", "応募数", "相談数",
	"最新応募ステータス", "最新相談ステータス", "次回相談", "最終アクティビティ", "面談URL",
}

var consultationHeaders = []string{
	"受付日時", "ステータス", "開始", "終了", "氏名", "メール", "電話", "求人", "面談URL", "管理メモ",
}

// BuildWorkbook lays the lead management data out as three sheets. The
// caller owns the returned file and must Close it.
func BuildWorkbook(data transport.LeadManagementData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{sheetLeads, sheetConsultations} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []func() error{
		func() error { return writeSummary(f, header, data.Summary) },
		func() error { return writeLeads(f, header, data.Leads) },
		func() error { return writeConsultations(f, header, data.Consultations) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSummary(f *excelize.File, header int, s domain.Summary) error {
	rows := [][]any{
		{"指標", "値"},
		{"応募クリック", s.ApplyClicks},
		{"相談クリック", s.ConsultClicks},
		{"応募数", s.Applications},
		{"相談予約(確定)", s.BookedConsultations},
		{"相談完了", s.CompletedConsultations},
		{"応募クリック→予約率(%)", s.ApplyToBookedRate},
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "A", "A", 28)
}

func writeLeads(f *excelize.File, header int, leads []domain.Lead) error {
	rows := make([][]any, 0, len(leads)+1)
	rows = append(rows, toAny(leadHeaders))
	for _, l := range leads {
		rows = append(rows, []any{
			l.DisplayName,
			accountLabel(l.AccountType),
			str(l.Email),
			str(l.Phone),
			str(l.Prefecture),
			age(l.Age),
			str(l.JobTitle),
			str(l.JobType),
			l.ApplyClicks,
			l.ConsultClicks,
			l.Applications,
			l.Consultations,
			str(l.LatestApplicationStatus),
			str(l.LatestConsultationStatus),
			formatTime(l.NextConsultationAt),
			formatTime(latestActivity(l)),
			str(l.MeetingURL),
		})
	}
	if err := writeRows(f, sheetLeads, rows); err != nil {
		return err
	}
	if err := linkColumn(f, sheetLeads, len(leadHeaders), len(leads)); err != nil {
		return err
	}
	return finishTable(f, sheetLeads, header, len(leadHeaders))
}

func writeConsultations(f *excelize.File, header int, consultations []domain.ConsultationRow) error {
	rows := make([][]any, 0, len(consultations)+1)
	rows = append(rows, toAny(consultationHeaders))
	for _, c := range consultations {
		title := ""
		if c.Job != nil {
			title = c.Job.Title
		}
		rows = append(rows, []any{
			formatTime(&c.CreatedAt),
			c.Status,
			formatTime(c.StartsAt),
			formatTime(c.EndsAt),
			str(c.AttendeeName),
			str(c.AttendeeEmail),
			str(c.AttendeePhone),
			title,
			str(c.MeetingURL),
			str(c.AdminNote),
		})
	}
	if err := writeRows(f, sheetConsultations, rows); err != nil {
		return err
	}
	if err := linkColumn(f, sheetConsultations, 9, len(consultations)); err != nil {
		return err
	}
	return finishTable(f, sheetConsultations, header, len(consultationHeaders))
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// linkColumn turns the non-empty URL cells of col into hyperlinks.
func linkColumn(f *excelize.File, sheet string, col, rows int) error {
	for r := 2; r <= rows+1; r++ {
		cell, err := excelize.CoordinatesToCellName(col, r)
		if err != nil {
			return err
		}
		url, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return err
		}
		if url == "" {
			continue
		}
		if err := f.SetCellHyperLink(sheet, cell, url, "External"); err != nil {
			return err
		}
	}
	return nil
}

func finishTable(f *excelize.File, sheet string, header, cols int) error {
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func latestActivity(l domain.Lead) *time.Time {
	if len(l.Events) == 0 {
		return nil
	}
	return &l.Events[0].At
}

func accountLabel(t domain.AccountType) string {
	if t == domain.AccountRegistered {
		return "会員"
	}
	return "ゲスト"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(displayZone).Format(timeLayout)
}

func age(a *int) string {
	if a == nil {
		return ""
	}
	return strconv.Itoa(*a)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
