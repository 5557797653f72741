package services

import (
	"sort"
	"strings"
	"time"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

// DashboardService runs the full pipeline for one interaction: look up the
// dataset, apply the requested filters, aggregate, and shape the chart
// payloads. Every call recomputes from the parsed dataset; only parsing
// itself is memoized (in the store).
type DashboardService struct {
	store          *DatasetStore
	filter         *FilterService
	metrics        *MetricsService
	charts         *ChartService
	export         *ExportService
	filterResolved bool
}

func NewDashboardService(store *DatasetStore, cfg *config.AnalyticsConfig) *DashboardService {
	return &DashboardService{
		store:          store,
		filter:         NewFilterService(cfg),
		metrics:        NewMetricsService(cfg),
		charts:         NewChartService(cfg),
		export:         NewExportService(),
		filterResolved: cfg.FilterResolved,
	}
}

type DashboardRequest struct {
	StartDate string   `form:"start_date"`
	EndDate   string   `form:"end_date"`
	Status    []string `form:"status"`
	Category  []string `form:"category"`
}

// Spec translates the raw query values into a FilterSpec. Unparsable or
// missing date endpoints disable the range check rather than erroring,
// matching the tolerant posture of the rest of the pipeline.
func (r *DashboardRequest) Spec() models.FilterSpec {
	return models.FilterSpec{
		StartDate:  parseQueryDate(r.StartDate),
		EndDate:    parseQueryDate(r.EndDate),
		Statuses:   expandCSV(r.Status),
		Categories: expandCSV(r.Category),
	}
}

type TableRow struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Type     string `json:"issue_type"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee"`
	Created  string `json:"created"`
	Resolved string `json:"resolved"`
}

type DashboardResponse struct {
	DatasetID  string      `json:"dataset_id"`
	Aggregates *Aggregates `json:"aggregates"`
	Charts     *Charts     `json:"charts"`
	Table      []TableRow  `json:"table"`
}

// GetStats runs filter → aggregate → charts for the dataset.
func (s *DashboardService) GetStats(datasetID string, req *DashboardRequest) (*DashboardResponse, error) {
	ds, err := s.store.Get(datasetID)
	if err != nil {
		return nil, err
	}

	view := s.filter.Apply(ds.Rows, req.Spec())
	agg := s.metrics.Aggregate(view, s.resolvedBasis(ds, view))

	return &DashboardResponse{
		DatasetID:  ds.ID,
		Aggregates: agg,
		Charts:     s.charts.Build(agg),
		Table:      buildTable(view),
	}, nil
}

// Export renders the filtered view as a CSV download.
func (s *DashboardService) Export(datasetID string, req *DashboardRequest) (data []byte, filename string, err error) {
	ds, err := s.store.Get(datasetID)
	if err != nil {
		return nil, "", err
	}

	view := s.filter.Apply(ds.Rows, req.Spec())
	data, err = s.export.Write(ds, view)
	if err != nil {
		return nil, "", err
	}
	return data, s.export.Filename(time.Now()), nil
}

// resolvedBasis picks which resolved rows feed the lead-time statistics.
// Historically the full resolved subset was used no matter which filters
// were active; filter_resolved opts into the consistent behavior.
func (s *DashboardService) resolvedBasis(ds *models.Dataset, view []models.Issue) []models.Issue {
	if s.filterResolved {
		return s.filter.ResolvedOf(view)
	}
	return ds.Resolved
}

// DatasetSummary describes an upload to the frontend: enough to build the
// filter controls (observed value domains, creation-date bounds) without
// shipping the rows.
type DatasetSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Rows       int      `json:"rows"`
	Resolved   int      `json:"resolved"`
	Reused     bool     `json:"reused,omitempty"`
	Uploaded   string   `json:"uploaded"`
	MinCreated string   `json:"min_created,omitempty"`
	MaxCreated string   `json:"max_created,omitempty"`
	Statuses   []string `json:"statuses"`
	Categories []string `json:"categories"`
	Priorities []string `json:"priorities"`
}

func Summarize(ds *models.Dataset) *DatasetSummary {
	sum := &DatasetSummary{
		ID:         ds.ID,
		Name:       ds.Name,
		Rows:       len(ds.Rows),
		Resolved:   len(ds.Resolved),
		Uploaded:   ds.Uploaded.Format(time.RFC3339),
		Statuses:   distinct(ds.Rows, func(i models.Issue) string { return i.Status }),
		Categories: distinct(ds.Rows, func(i models.Issue) string { return string(i.Category) }),
		Priorities: distinct(ds.Rows, func(i models.Issue) string { return i.Priority }),
	}
	if min, max, ok := ds.MinMaxCreated(); ok {
		sum.MinCreated = min.Format("2006-01-02")
		sum.MaxCreated = max.Format("2006-01-02")
	}
	return sum
}

func buildTable(view []models.Issue) []TableRow {
	ordered := make([]models.Issue, len(view))
	copy(ordered, view)
	// Creation date descending, undated rows last.
	sort.SliceStable(ordered, func(a, b int) bool {
		ca, cb := ordered[a].Created, ordered[b].Created
		if ca == nil {
			return false
		}
		if cb == nil {
			return true
		}
		return ca.After(*cb)
	})

	rows := make([]TableRow, 0, len(ordered))
	for _, i := range ordered {
		rows = append(rows, TableRow{
			Key:      i.Key,
			Summary:  i.Summary,
			Type:     i.Type,
			Status:   i.Status,
			Priority: i.Priority,
			Assignee: i.Assignee,
			Created:  formatTableDate(i.Created),
			Resolved: formatTableDate(i.Resolved),
		})
	}
	return rows
}

func formatTableDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func parseQueryDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}

// expandCSV allows multi-select values either as repeated query params or
// as a single comma-separated value.
func expandCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func distinct(rows []models.Issue, key func(models.Issue) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
