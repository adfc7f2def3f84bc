package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"jobboard_backend/internal/leads/domain"
)

// utf8BOM makes spreadsheet apps read the file as UTF-8.
const utf8BOM = "\ufeff"

// WriteLeadsCSV writes the lead table with the same columns as the workbook.
func WriteLeadsCSV(w io.Writer, leads []domain.Lead) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(leadHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range leads {
		record := []string{
			l.DisplayName,
			accountLabel(l.AccountType),
			str(l.Email),
			str(l.Phone),
			str(l.Prefecture),
			age(l.Age),
			str(l.JobTitle),
			str(l.JobType),
			strconv.Itoa(l.ApplyClicks),
			strconv.Itoa(l.ConsultClicks),
			strconv.Itoa(l.Applications),
			strconv.Itoa(l.Consultations),
			str(l.LatestApplicationStatus),
			str(l.LatestConsultationStatus),
			formatTime(l.NextConsultationAt),
			formatTime(latestActivity(l)),
			str(l.MeetingURL),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
