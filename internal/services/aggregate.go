package services

import (
	"sort"
	"time"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

// MetricsService derives all dashboard aggregates from a filtered view.
// Every method is a pure function of its input and treats an empty view as
// valid, returning zeros instead of faulting on empty denominators.
type MetricsService struct {
	doneStatus     string
	closedStatuses []string
	topAssignees   int
}

func NewMetricsService(cfg *config.AnalyticsConfig) *MetricsService {
	return &MetricsService{
		doneStatus:     cfg.DoneStatus,
		closedStatuses: cfg.ClosedStatuses,
		topAssignees:   cfg.TopAssignees,
	}
}

// HeadlineStats backs the metric cards at the top of the dashboard.
type HeadlineStats struct {
	TotalIssues    int     `json:"total_issues"`
	DoneIssues     int     `json:"done_issues"`
	CompletionRate float64 `json:"completion_rate"` // percent
	Stories        int     `json:"stories"`
	Bugs           int     `json:"bugs"`
	Others         int     `json:"others"`
	StoryBugRatio  float64 `json:"story_bug_ratio"`
	BugRate        float64 `json:"bug_rate"` // percent
	LeadTimeMedian float64 `json:"lead_time_median_days"`
	ResolvedCount  int     `json:"resolved_count"`
	WIP            int     `json:"wip"`
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // "YYYY-MM"
	Count int    `json:"count"`
}

// AssigneeStat splits one assignee's issues into done and everything else
// for the stacked bar chart.
type AssigneeStat struct {
	Assignee string `json:"assignee"`
	Done     int    `json:"done"`
	Open     int    `json:"open"`
	Total    int    `json:"total"`
}

// FlowPoint is one step of the cumulative flow series. Rank is the
// position in creation order; Date is the creation date at that rank when
// known (the chart can plot against either axis).
type FlowPoint struct {
	Rank  int        `json:"rank"`
	Date  *time.Time `json:"date,omitempty"`
	Total int        `json:"total"`
	Done  int        `json:"done"`
}

type Aggregates struct {
	Stats        HeadlineStats  `json:"stats"`
	ByStatus     []GroupCount   `json:"by_status"`
	ByCategory   []GroupCount   `json:"by_category"`
	ByPriority   []GroupCount   `json:"by_priority"`
	ByMonth      []MonthCount   `json:"by_month"`
	TopAssignees []AssigneeStat `json:"top_assignees"`
	Flow         []FlowPoint    `json:"flow"`
	// LeadTimes are the per-issue lead times (days) behind the median and
	// the distribution box plot.
	LeadTimes []float64 `json:"-"`
}

// Aggregate computes every dashboard metric from the filtered view.
// resolved is the basis for lead-time statistics; depending on
// configuration it is either the dataset's full resolved subset or the
// resolved rows of the view itself.
func (s *MetricsService) Aggregate(view, resolved []models.Issue) *Aggregates {
	agg := &Aggregates{}

	agg.Stats = s.headline(view, resolved)
	agg.ByStatus = countBy(view, func(i models.Issue) string { return i.Status })
	agg.ByCategory = countBy(view, func(i models.Issue) string { return string(i.Category) })
	agg.ByPriority = countBy(view, func(i models.Issue) string { return i.Priority })
	agg.ByMonth = s.byMonth(view)
	agg.TopAssignees = s.assignees(view)
	agg.Flow = s.flow(view)
	agg.LeadTimes = leadTimes(resolved)

	return agg
}

func (s *MetricsService) headline(view, resolved []models.Issue) HeadlineStats {
	st := HeadlineStats{TotalIssues: len(view), ResolvedCount: len(resolved)}

	for _, i := range view {
		if i.Status == s.doneStatus {
			st.DoneIssues++
		}
		switch i.Category {
		case models.CategoryStory:
			st.Stories++
		case models.CategoryBug:
			st.Bugs++
		default:
			st.Others++
		}
		if !s.isClosed(i.Status) {
			st.WIP++
		}
	}

	if st.TotalIssues > 0 {
		st.CompletionRate = float64(st.DoneIssues) / float64(st.TotalIssues) * 100
		st.BugRate = float64(st.Bugs) / float64(st.TotalIssues) * 100
	}
	if st.Bugs > 0 {
		st.StoryBugRatio = float64(st.Stories) / float64(st.Bugs)
	}
	st.LeadTimeMedian = Median(leadTimes(resolved))

	return st
}

func (s *MetricsService) isClosed(status string) bool {
	for _, closed := range s.closedStatuses {
		if status == closed {
			return true
		}
	}
	return false
}

func (s *MetricsService) byMonth(view []models.Issue) []MonthCount {
	counts := map[string]int{}
	for _, i := range view {
		if i.Created == nil {
			continue
		}
		counts[i.Created.Format("2006-01")]++
	}
	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)
	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}

// assignees ranks assignees by issue count. Unassigned rows are skipped
// so the open backlog never occupies a top slot.
func (s *MetricsService) assignees(view []models.Issue) []AssigneeStat {
	byName := map[string]*AssigneeStat{}
	for _, i := range view {
		if i.Assignee == "" {
			continue
		}
		st, ok := byName[i.Assignee]
		if !ok {
			st = &AssigneeStat{Assignee: i.Assignee}
			byName[i.Assignee] = st
		}
		st.Total++
		if i.Status == s.doneStatus {
			st.Done++
		} else {
			st.Open++
		}
	}

	out := make([]AssigneeStat, 0, len(byName))
	for _, st := range byName {
		out = append(out, *st)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Total != out[b].Total {
			return out[a].Total > out[b].Total
		}
		return out[a].Assignee < out[b].Assignee
	})
	if s.topAssignees > 0 && len(out) > s.topAssignees {
		out = out[:s.topAssignees]
	}
	return out
}

// flow builds the cumulative series: rows ordered by creation date (rows
// without one sort last), running total vs running done count. Rank
// indexing mirrors the original dashboard; the per-point Date enables a
// calendar-axis rendering as well.
func (s *MetricsService) flow(view []models.Issue) []FlowPoint {
	ordered := make([]models.Issue, len(view))
	copy(ordered, view)
	sort.SliceStable(ordered, func(a, b int) bool {
		ca, cb := ordered[a].Created, ordered[b].Created
		if ca == nil {
			return false
		}
		if cb == nil {
			return true
		}
		return ca.Before(*cb)
	})

	out := make([]FlowPoint, 0, len(ordered))
	done := 0
	for n, i := range ordered {
		if i.Status == s.doneStatus {
			done++
		}
		out = append(out, FlowPoint{Rank: n, Date: i.Created, Total: n + 1, Done: done})
	}
	return out
}

func leadTimes(resolved []models.Issue) []float64 {
	out := make([]float64, 0, len(resolved))
	for _, i := range resolved {
		if i.LeadTimeDays != nil {
			out = append(out, *i.LeadTimeDays)
		}
	}
	return out
}

func countBy(view []models.Issue, key func(models.Issue) string) []GroupCount {
	counts := map[string]int{}
	for _, i := range view {
		counts[key(i)]++
	}
	out := make([]GroupCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, GroupCount{Name: name, Count: c})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Median returns the middle value of vs, or 0 for an empty input.
func Median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Quantile returns the q-th quantile (0..1) of vs using linear
// interpolation between closest ranks. Empty input yields 0.
func Quantile(vs []float64, q float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
