package services

import (
	"strings"
	"testing"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/models"
)

func testAnalytics() *config.AnalyticsConfig {
	return &config.DefaultConfig().Analytics
}

const sampleCSV = `Issue key,Summary,Issue Type,Status,Priority,Assignee,Created,Updated,Resolved
PROJ-1,Login page,História,Done,High,Ana Souza,11/Feb/26 09:00,13/Feb/26 09:00,13/Feb/26 09:00
PROJ-2,Fix crash,Bug,Done,Highest,Bruno Lima,12/Feb/26 10:30,14/Feb/26 10:30,14/Feb/26 10:30
PROJ-3,Refactor,Task,In Progress,Medium,Ana Souza,13/Feb/26 08:00,13/Feb/26 08:00,
PROJ-4,Bug Produção,Bug Produção,Canceled,Low,,14/Feb/26 12:00,,
`

func TestIngestService_Parse(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	ds, err := svc.Parse([]byte(sampleCSV), "sample.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ds.Rows) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(ds.Rows))
	}
	if len(ds.Resolved) != 2 {
		t.Errorf("Expected 2 resolved rows, got %d", len(ds.Resolved))
	}
	if len(ds.Columns) != 9 {
		t.Errorf("Expected 9 columns, got %d", len(ds.Columns))
	}

	first := ds.Rows[0]
	if first.Key != "PROJ-1" {
		t.Errorf("Key should be 'PROJ-1', got %q", first.Key)
	}
	if first.Category != models.CategoryStory {
		t.Errorf("'História' should categorize as Story, got %q", first.Category)
	}
	if first.Created == nil {
		t.Fatal("Created should parse for PROJ-1")
	}
	if first.Created.Day() != 11 || first.Created.Hour() != 9 {
		t.Errorf("Created parsed wrong: %v", first.Created)
	}
	if first.LeadTimeDays == nil {
		t.Fatal("LeadTimeDays should be derived for a resolved row")
	}
	if *first.LeadTimeDays != 2.0 {
		t.Errorf("Lead time should be 2.0 days, got %v", *first.LeadTimeDays)
	}

	// Row without a Resolved value gets no lead time and stays out of the
	// resolved subset.
	third := ds.Rows[2]
	if third.LeadTimeDays != nil {
		t.Error("Unresolved row should not carry a lead time")
	}
	if third.IsResolved() {
		t.Error("PROJ-3 should not be resolved")
	}
}

func TestIngestService_Parse_BOM(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	data := append([]byte{0xef, 0xbb, 0xbf}, []byte(sampleCSV)...)
	ds, err := svc.Parse(data, "bom.csv")
	if err != nil {
		t.Fatalf("Parse with BOM failed: %v", err)
	}
	if ds.Columns[0] != ColKey {
		t.Errorf("BOM should be stripped from the first header, got %q", ds.Columns[0])
	}
}

func TestIngestService_Parse_NoRows(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	if _, err := svc.Parse([]byte(""), "empty.csv"); err != ErrNoRows {
		t.Errorf("Empty file should return ErrNoRows, got %v", err)
	}

	headerOnly := "Issue key,Status,Created\n"
	if _, err := svc.Parse([]byte(headerOnly), "header.csv"); err != ErrNoRows {
		t.Errorf("Header-only file should return ErrNoRows, got %v", err)
	}

	noCreated := "Issue key,Status\nPROJ-1,Done\n"
	if _, err := svc.Parse([]byte(noCreated), "nocreated.csv"); err != ErrNoRows {
		t.Errorf("File without a Created column should return ErrNoRows, got %v", err)
	}
}

func TestIngestService_Parse_BadDates(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	csv := "Issue key,Status,Created,Resolved\nPROJ-9,Done,not-a-date,13/Feb/26 09:00\n"
	ds, err := svc.Parse([]byte(csv), "bad.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	row := ds.Rows[0]
	if row.Created != nil {
		t.Error("Unparsable Created should be nil")
	}
	if row.Resolved == nil {
		t.Error("Resolved should still parse")
	}
	if row.LeadTimeDays != nil {
		t.Error("Lead time needs both endpoints")
	}
}

func TestIngestService_Parse_UnpaddedDay(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	csv := "Issue key,Created\nPROJ-5,1/Feb/26 08:15\n"
	ds, err := svc.Parse([]byte(csv), "unpadded.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Rows[0].Created == nil {
		t.Fatal("Single-digit day should parse")
	}
	if ds.Rows[0].Created.Day() != 1 {
		t.Errorf("Day should be 1, got %d", ds.Rows[0].Created.Day())
	}
}

func TestIngestService_Categorize(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	cases := []struct {
		issueType string
		want      models.Category
	}{
		{"História", models.CategoryStory},
		{"Bug", models.CategoryBug},
		{"Bug Produção", models.CategoryBug},
		{"Debugging", models.CategoryBug}, // substring rule is deliberate
		{"bug", models.CategoryOther},     // case-sensitive
		{"Task", models.CategoryOther},
		{"Story", models.CategoryOther}, // only the configured label counts
		{"", models.CategoryOther},
	}
	for _, c := range cases {
		if got := svc.Categorize(c.issueType); got != c.want {
			t.Errorf("Categorize(%q) = %q, want %q", c.issueType, got, c.want)
		}
	}
}

func TestIngestService_Categorize_ConfiguredStoryType(t *testing.T) {
	cfg := testAnalytics()
	cfg.StoryType = "Story"
	svc := NewIngestService(cfg)

	if svc.Categorize("Story") != models.CategoryStory {
		t.Error("Configured story label should categorize as Story")
	}
	if svc.Categorize("História") != models.CategoryOther {
		t.Error("Default label should no longer match after reconfiguration")
	}
}

func TestIngestService_Parse_RaggedRows(t *testing.T) {
	svc := NewIngestService(testAnalytics())

	csv := strings.Join([]string{
		"Issue key,Summary,Status,Created",
		"PROJ-1,Short row", // fewer fields than the header
		"PROJ-2,Full row,Done,12/Feb/26 10:30",
	}, "\n")
	ds, err := svc.Parse([]byte(csv), "ragged.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(ds.Rows))
	}
	if ds.Rows[0].Status != "" {
		t.Errorf("Missing field should read as empty, got %q", ds.Rows[0].Status)
	}
}
