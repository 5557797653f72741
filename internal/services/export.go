package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/TalineFS/Dashboards/internal/models"
)

// ExportService writes a filtered view back out as CSV with the same
// column set the upload carried, so an export re-ingests cleanly.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Write renders the view as UTF-8 CSV. Columns follow the canonical export
// order, restricted to the headers present in the source dataset; date
// fields are rendered in the Jira export format.
func (s *ExportService) Write(ds *models.Dataset, view []models.Issue) ([]byte, error) {
	cols := make([]string, 0, len(ExportColumns))
	for _, c := range ExportColumns {
		if ds.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		cols = ExportColumns
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, err
	}

	for _, issue := range view {
		rec := make([]string, len(cols))
		for n, col := range cols {
			rec[n] = exportField(issue, col)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds the download name from the export time, not any
// data-derived date.
func (s *ExportService) Filename(now time.Time) string {
	return fmt.Sprintf("jira_filtered_%s.csv", now.Format("20060102"))
}

func exportField(issue models.Issue, col string) string {
	switch col {
	case ColKey:
		return issue.Key
	case ColSummary:
		return issue.Summary
	case ColType:
		return issue.Type
	case ColStatus:
		return issue.Status
	case ColPriority:
		return issue.Priority
	case ColAssignee:
		return issue.Assignee
	case ColCreated:
		return FormatExportDate(issue.Created)
	case ColUpdated:
		return FormatExportDate(issue.Updated)
	case ColResolved:
		return FormatExportDate(issue.Resolved)
	default:
		return ""
	}
}
