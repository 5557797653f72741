package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

// ErrNoRows signals an upload with no usable data rows. It is an expected
// state (the UI shows a guidance prompt), not a failure.
var ErrNoRows = errors.New("no usable rows in upload")

// Canonical column headers of a Jira CSV export. ColCreated is the only
// one the dashboard genuinely cannot work without.
const (
	ColKey      = "Issue key"
	ColSummary  = "Summary"
	ColType     = "Issue Type"
	ColStatus   = "Status"
	ColPriority = "Priority"
	ColAssignee = "Assignee"
	ColCreated  = "Created"
	ColUpdated  = "Updated"
	ColResolved = "Resolved"
)

// ExportColumns is the canonical column order used when writing a filtered
// view back out as CSV.
var ExportColumns = []string{
	ColKey, ColSummary, ColType, ColStatus, ColPriority,
	ColAssignee, ColCreated, ColUpdated, ColResolved,
}

// Jira renders export dates as e.g. "11/Feb/26 14:30". Some exports drop
// the zero padding on the day, so both layouts are tried.
var exportDateLayouts = []string{"02/Jan/06 15:04", "2/Jan/06 15:04"}

// ExportDateLayout is the layout used when rendering dates back to CSV.
const ExportDateLayout = "02/Jan/06 15:04"

type IngestService struct {
	storyType string
}

func NewIngestService(cfg *config.AnalyticsConfig) *IngestService {
	return &IngestService{storyType: cfg.StoryType}
}

// Parse reads a Jira CSV export into a Dataset, deriving the category and
// lead-time columns as it goes. Unparsable date values become nil on the
// affected field only; the row is kept. The returned dataset has no ID —
// the store assigns one.
func (s *IngestService) Parse(data []byte, name string) (*models.Dataset, error) {
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, ErrNoRows
	}

	cols := make([]string, len(header))
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		cols[i] = h
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	// Everything else degrades, but without Created there is nothing to
	// build a dashboard on.
	if _, ok := idx[ColCreated]; !ok {
		return nil, ErrNoRows
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ds := &models.Dataset{Name: name, Columns: cols}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or malformed line: skip it, keep the rest.
			continue
		}

		issue := models.Issue{
			Key:      field(rec, ColKey),
			Summary:  field(rec, ColSummary),
			Type:     field(rec, ColType),
			Status:   field(rec, ColStatus),
			Priority: field(rec, ColPriority),
			Assignee: field(rec, ColAssignee),
			Created:  parseExportDate(field(rec, ColCreated)),
			Updated:  parseExportDate(field(rec, ColUpdated)),
			Resolved: parseExportDate(field(rec, ColResolved)),
		}
		issue.Category = s.Categorize(issue.Type)
		if issue.Resolved != nil && issue.Created != nil {
			days := issue.Resolved.Sub(*issue.Created).Hours() / 24
			issue.LeadTimeDays = &days
		}

		ds.Rows = append(ds.Rows, issue)
		if issue.IsResolved() {
			ds.Resolved = append(ds.Resolved, issue)
		}
	}

	if len(ds.Rows) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

// Categorize maps a raw issue type to its coarse category: the configured
// story label matches exactly, "Bug" matches as a case-sensitive substring
// (Jira projects carry variants like "Bug Produção"), everything else is
// Other.
func (s *IngestService) Categorize(issueType string) models.Category {
	switch {
	case issueType == s.storyType:
		return models.CategoryStory
	case strings.Contains(issueType, "Bug"):
		return models.CategoryBug
	default:
		return models.CategoryOther
	}
}

func parseExportDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range exportDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// FormatExportDate renders a timestamp back in the export format, or an
// empty string for nil.
func FormatExportDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ExportDateLayout)
}
