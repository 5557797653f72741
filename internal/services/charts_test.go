package services

import (
	"testing"
)

func TestStatusColor(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"Done", colorGreen},
		{"Done - Deployed", colorGreen},
		{"Canceled", colorRed},
		{"Cancelado", colorRed},
		{"In Progress", colorBlue},
		{"To Do", colorBlue},
		{"", colorBlue},
	}
	for _, c := range cases {
		if got := StatusColor(c.status); got != c.want {
			t.Errorf("StatusColor(%q) = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestPriorityColor(t *testing.T) {
	cases := []struct {
		priority string
		want     string
	}{
		{"Low", colorGreen},
		{"Medium", colorOrange},
		{"High", colorAmber},
		{"Highest", colorRed},
		{"Blocker", colorGray},
		{"", colorGray},
	}
	for _, c := range cases {
		if got := PriorityColor(c.priority); got != c.want {
			t.Errorf("PriorityColor(%q) = %q, want %q", c.priority, got, c.want)
		}
	}
}

func TestChartService_Build(t *testing.T) {
	svc := NewChartService(testAnalytics())
	metrics := NewMetricsService(testAnalytics())

	agg := metrics.Aggregate(sprintFixture(), nil)
	charts := svc.Build(agg)

	if len(charts.Categories.Labels) != 2 {
		t.Errorf("Expected 2 category slices, got %d", len(charts.Categories.Labels))
	}
	if charts.Categories.Labels[0] != "Story" {
		t.Errorf("Largest category should lead, got %q", charts.Categories.Labels[0])
	}
	if charts.Categories.Colors[0] != colorBlue {
		t.Errorf("Story slice should be blue, got %q", charts.Categories.Colors[0])
	}

	if len(charts.Statuses.Labels) != len(charts.Statuses.Colors) {
		t.Error("Status bars must carry one color per label")
	}
	for n, label := range charts.Statuses.Labels {
		if charts.Statuses.Colors[n] != StatusColor(label) {
			t.Errorf("Status %q colored %q, want %q", label, charts.Statuses.Colors[n], StatusColor(label))
		}
	}
}

func TestChartService_LeadTimeBox(t *testing.T) {
	svc := NewChartService(testAnalytics())

	box := svc.leadTimeBox(nil)
	if box.Available {
		t.Error("No lead times should yield an unavailable box")
	}
	if box.TargetDays != 10 {
		t.Errorf("Target should come from config, got %v", box.TargetDays)
	}

	box = svc.leadTimeBox([]float64{1, 2, 3, 4, 5})
	if !box.Available {
		t.Fatal("Box should be available with data")
	}
	if box.Min != 1 || box.Max != 5 || box.Median != 3 {
		t.Errorf("Five-number summary wrong: %+v", box)
	}
	if box.Q1 != 2 || box.Q3 != 4 {
		t.Errorf("Quartiles wrong: q1=%v q3=%v", box.Q1, box.Q3)
	}
	if box.Count != 5 {
		t.Errorf("Count should be 5, got %d", box.Count)
	}
}

func TestAssigneeLabel(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ana", "Ana"},
		{"Ana Souza", "Ana"},
		{"Maximiliano Albuquerque", "Maximiliano"},
		{"Abcdefghijklmnopqrstuvwxyz", "Abcdefghijklmno"},
	}
	for _, c := range cases {
		if got := assigneeLabel(c.name); got != c.want {
			t.Errorf("assigneeLabel(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestChartService_FlowChart(t *testing.T) {
	svc := NewChartService(testAnalytics())
	metrics := NewMetricsService(testAnalytics())

	agg := metrics.Aggregate(nil, nil)
	flow := svc.Build(agg).Flow
	if flow.Ranks == nil || flow.Totals == nil {
		t.Error("Empty flow should marshal as empty arrays, not null")
	}
	if len(flow.Ranks) != 0 {
		t.Errorf("Expected no flow points, got %d", len(flow.Ranks))
	}
}
