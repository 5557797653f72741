package services

import (
	"strings"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

// ChartService turns aggregates into chart-ready payloads: labels, values
// and the color coding the frontend renders verbatim. No metric is derived
// here.
type ChartService struct {
	targetDays float64
}

func NewChartService(cfg *config.AnalyticsConfig) *ChartService {
	return &ChartService{targetDays: cfg.LeadTimeTargetDays}
}

const (
	colorGreen  = "#2ecc71"
	colorRed    = "#e74c3c"
	colorBlue   = "#3498db"
	colorOrange = "#f39c12"
	colorAmber  = "#e67e22"
	colorGray   = "#95a5a6"
	colorDark   = "#2c3e50"
)

// Status and priority domains are open string sets observed from the data,
// so coloring is lookup-with-fallback, never a closed enumeration.
var priorityColors = map[string]string{
	"Low":     colorGreen,
	"Medium":  colorOrange,
	"High":    colorAmber,
	"Highest": colorRed,
}

var categoryColors = map[models.Category]string{
	models.CategoryStory: colorBlue,
	models.CategoryBug:   colorRed,
	models.CategoryOther: colorGray,
}

type Donut struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Colors []string `json:"colors"`
}

type Bars struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Colors []string `json:"colors"`
}

// Combo is the monthly throughput chart: bars plus a trend line over the
// same series.
type Combo struct {
	Labels    []string `json:"labels"`
	Bars      []int    `json:"bars"`
	LineColor string   `json:"line_color"`
	BarColor  string   `json:"bar_color"`
}

// BoxPlot summarizes the lead-time distribution. Available is false when
// there are no resolved rows to summarize.
type BoxPlot struct {
	Available  bool    `json:"available"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	Count      int     `json:"count"`
	TargetDays float64 `json:"target_days"`
}

type StackedBars struct {
	Labels    []string `json:"labels"`
	Done      []int    `json:"done"`
	Open      []int    `json:"open"`
	DoneColor string   `json:"done_color"`
	OpenColor string   `json:"open_color"`
}

type FlowChart struct {
	Ranks  []int    `json:"ranks"`
	Dates  []string `json:"dates"`
	Totals []int    `json:"totals"`
	Done   []int    `json:"done"`
}

type Charts struct {
	Categories Donut       `json:"categories"`
	Statuses   Bars        `json:"statuses"`
	Monthly    Combo       `json:"monthly"`
	LeadTime   BoxPlot     `json:"lead_time"`
	Assignees  StackedBars `json:"assignees"`
	Priorities Donut       `json:"priorities"`
	Flow       FlowChart   `json:"flow"`
}

func (s *ChartService) Build(agg *Aggregates) *Charts {
	return &Charts{
		Categories: s.categoryDonut(agg.ByCategory),
		Statuses:   s.statusBars(agg.ByStatus),
		Monthly:    s.monthly(agg.ByMonth),
		LeadTime:   s.leadTimeBox(agg.LeadTimes),
		Assignees:  s.assigneeBars(agg.TopAssignees),
		Priorities: s.priorityDonut(agg.ByPriority),
		Flow:       s.flowChart(agg.Flow),
	}
}

func (s *ChartService) categoryDonut(groups []GroupCount) Donut {
	d := Donut{Labels: []string{}, Values: []int{}, Colors: []string{}}
	for _, g := range groups {
		d.Labels = append(d.Labels, g.Name)
		d.Values = append(d.Values, g.Count)
		color, ok := categoryColors[models.Category(g.Name)]
		if !ok {
			color = colorGray
		}
		d.Colors = append(d.Colors, color)
	}
	return d
}

func (s *ChartService) statusBars(groups []GroupCount) Bars {
	b := Bars{Labels: []string{}, Values: []int{}, Colors: []string{}}
	for _, g := range groups {
		b.Labels = append(b.Labels, g.Name)
		b.Values = append(b.Values, g.Count)
		b.Colors = append(b.Colors, StatusColor(g.Name))
	}
	return b
}

// StatusColor applies the keyword rule: done-like statuses render green,
// canceled-like red, anything else blue.
func StatusColor(status string) string {
	switch {
	case strings.Contains(status, "Done"):
		return colorGreen
	case strings.Contains(status, "Cancel"):
		return colorRed
	default:
		return colorBlue
	}
}

// PriorityColor looks up the fixed priority palette, falling back to gray
// for priorities the palette does not know.
func PriorityColor(priority string) string {
	if c, ok := priorityColors[priority]; ok {
		return c
	}
	return colorGray
}

func (s *ChartService) monthly(months []MonthCount) Combo {
	c := Combo{Labels: []string{}, Bars: []int{}, BarColor: colorBlue, LineColor: colorDark}
	for _, m := range months {
		c.Labels = append(c.Labels, m.Month)
		c.Bars = append(c.Bars, m.Count)
	}
	return c
}

func (s *ChartService) leadTimeBox(leadTimes []float64) BoxPlot {
	box := BoxPlot{TargetDays: s.targetDays, Count: len(leadTimes)}
	if len(leadTimes) == 0 {
		return box
	}
	box.Available = true
	box.Min = Quantile(leadTimes, 0)
	box.Q1 = Quantile(leadTimes, 0.25)
	box.Median = Median(leadTimes)
	box.Q3 = Quantile(leadTimes, 0.75)
	box.Max = Quantile(leadTimes, 1)
	return box
}

func (s *ChartService) assigneeBars(stats []AssigneeStat) StackedBars {
	b := StackedBars{
		Labels:    []string{},
		Done:      []int{},
		Open:      []int{},
		DoneColor: colorGreen,
		OpenColor: colorBlue,
	}
	for _, st := range stats {
		b.Labels = append(b.Labels, assigneeLabel(st.Assignee))
		b.Done = append(b.Done, st.Done)
		b.Open = append(b.Open, st.Open)
	}
	return b
}

// assigneeLabel shortens a full name for the chart axis: first name only,
// capped at 15 runes.
func assigneeLabel(name string) string {
	first := name
	if i := strings.IndexByte(name, ' '); i > 0 {
		first = name[:i]
	}
	runes := []rune(first)
	if len(runes) > 15 {
		return string(runes[:15])
	}
	return first
}

func (s *ChartService) priorityDonut(groups []GroupCount) Donut {
	d := Donut{Labels: []string{}, Values: []int{}, Colors: []string{}}
	for _, g := range groups {
		d.Labels = append(d.Labels, g.Name)
		d.Values = append(d.Values, g.Count)
		d.Colors = append(d.Colors, PriorityColor(g.Name))
	}
	return d
}

func (s *ChartService) flowChart(points []FlowPoint) FlowChart {
	f := FlowChart{Ranks: []int{}, Dates: []string{}, Totals: []int{}, Done: []int{}}
	for _, p := range points {
		f.Ranks = append(f.Ranks, p.Rank)
		date := ""
		if p.Date != nil {
			date = p.Date.Format("2006-01-02")
		}
		f.Dates = append(f.Dates, date)
		f.Totals = append(f.Totals, p.Total)
		f.Done = append(f.Done, p.Done)
	}
	return f
}
