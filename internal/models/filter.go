package models

import "time"

// FilterSpec narrows a dataset. Each member is optional: a nil date
// endpoint skips the range check entirely, and an empty (or sentinel, see
// services.ApplyFilter) value set disables that predicate. Enabled
// predicates combine with AND.
type FilterSpec struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Statuses   []string
	Categories []string
}

// IsZero reports whether no predicate is enabled.
func (f FilterSpec) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		len(f.Statuses) == 0 && len(f.Categories) == 0
}
