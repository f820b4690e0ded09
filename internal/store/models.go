package store

import "time"

// TimeBlockRecord is one logged block of time. Records are immutable once
// appended; the store only prepends or clears.
type TimeBlockRecord struct {
	ID            string
	Timestamp     time.Time // instant of save
	Duration      int       // minutes, always >= 1
	CategoryID    string
	CategoryLabel string
	Note          string
	Mode          string // focus, countup, record; empty for imported records
}

// Key returns the aggregation key: the category id, or the label when the
// record has no id.
func (r TimeBlockRecord) Key() string {
	if r.CategoryID != "" {
		return r.CategoryID
	}
	return r.CategoryLabel
}

type Category struct {
	ID    string
	Label string
	Icon  string
	Color string
}

// DaySettings is the process-wide configuration persisted in the settings table.
type DaySettings struct {
	DayStartHour          int
	DayEndHour            int
	FocusIntervalMinutes  int
	RecordIntervalMinutes int
}

type Setting struct {
	Key   string
	Value string
}

// CategoryTotal is one row of a daily breakdown.
type CategoryTotal struct {
	Key     string
	Label   string
	Minutes int
	Count   int
}

// Summary aggregates a set of records.
type Summary struct {
	TotalMinutes int
	Breakdown    []CategoryTotal // first-seen order
}
