package models

import "time"

// Category is the coarse work-item classification derived from the raw
// Jira issue type. It is computed once at ingest time and never changes.
type Category string

const (
	CategoryStory Category = "Story"
	CategoryBug   Category = "Bug"
	CategoryOther Category = "Other"
)

// Issue is one row of a Jira CSV export. Date fields are nil when the
// source value was missing or did not match the export date format.
type Issue struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Type     string `json:"issue_type"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee"`

	Created  *time.Time `json:"created"`
	Updated  *time.Time `json:"updated,omitempty"`
	Resolved *time.Time `json:"resolved,omitempty"`

	// Derived at ingest time.
	Category Category `json:"category"`
	// LeadTimeDays is (Resolved - Created) in fractional days. Set only
	// when both timestamps parsed; may be negative for anomalous exports
	// where Resolved precedes Created.
	LeadTimeDays *float64 `json:"lead_time_days,omitempty"`
}

// IsResolved reports whether the issue reached a terminal state with a
// usable resolution timestamp.
func (i *Issue) IsResolved() bool {
	return i.Resolved != nil
}
