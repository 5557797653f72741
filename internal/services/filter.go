package services

import (
	"time"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

type FilterService struct {
	sentinels []string
}

func NewFilterService(cfg *config.AnalyticsConfig) *FilterService {
	return &FilterService{sentinels: cfg.AllSentinels}
}

// Normalize drops a selection that is effectively "everything": an empty
// set, or one containing an "All"/"Todos" sentinel, disables the filter.
func (s *FilterService) Normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	for _, v := range values {
		for _, sentinel := range s.sentinels {
			if v == sentinel {
				return nil
			}
		}
	}
	return values
}

// Apply narrows rows by the spec. Predicates are independent and combine
// with AND, so application order never matters and re-applying the same
// spec is a no-op. The date range is inclusive and compares the date
// portion of Created only; rows without a parsed Created date are excluded
// whenever the range filter is active.
func (s *FilterService) Apply(rows []models.Issue, f models.FilterSpec) []models.Issue {
	if f.IsZero() {
		return rows
	}

	statuses := toSet(s.Normalize(f.Statuses))
	categories := toSet(s.Normalize(f.Categories))
	// An incomplete range (only one endpoint) skips the date filter,
	// matching the behavior while a user is mid-selection.
	dateActive := f.StartDate != nil && f.EndDate != nil

	out := make([]models.Issue, 0, len(rows))
	for _, r := range rows {
		if dateActive {
			if r.Created == nil {
				continue
			}
			d := dateOnly(*r.Created)
			if d.Before(dateOnly(*f.StartDate)) || d.After(dateOnly(*f.EndDate)) {
				continue
			}
		}
		if statuses != nil {
			if _, ok := statuses[r.Status]; !ok {
				continue
			}
		}
		if categories != nil {
			if _, ok := categories[string(r.Category)]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// ResolvedOf returns the subset of rows carrying a resolution timestamp.
// Used when lead-time statistics should respect the active filters.
func (s *FilterService) ResolvedOf(rows []models.Issue) []models.Issue {
	out := make([]models.Issue, 0, len(rows))
	for _, r := range rows {
		if r.IsResolved() {
			out = append(out, r)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if values == nil {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
