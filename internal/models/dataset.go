package models

import "time"

// Dataset is one parsed upload held in memory. Rows is the full record
// set; Resolved is the subset with a resolution timestamp, kept separately
// as the basis for lead-time statistics. Nothing here survives a restart.
type Dataset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Hash     string    `json:"-"`
	Columns  []string  `json:"-"`
	Rows     []Issue   `json:"-"`
	Resolved []Issue   `json:"-"`
	Uploaded time.Time `json:"uploaded"`
}

// HasColumn reports whether the upload carried the given header. Features
// depending on an absent optional column degrade instead of failing.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MinMaxCreated returns the observed creation-date bounds, skipping rows
// whose Created failed to parse. ok is false when no row has a usable date.
func (d *Dataset) MinMaxCreated() (min, max time.Time, ok bool) {
	for _, r := range d.Rows {
		if r.Created == nil {
			continue
		}
		if !ok {
			min, max, ok = *r.Created, *r.Created, true
			continue
		}
		if r.Created.Before(min) {
			min = *r.Created
		}
		if r.Created.After(max) {
			max = *r.Created
		}
	}
	return min, max, ok
}
