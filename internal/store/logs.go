package store

import (
	"fmt"
	"strings"
	"time"
)

// Load replaces the in-memory log with the persisted one. On failure the
// in-memory log is left empty.
func (s *Store) Load() error {
	s.logs = nil
	rows, err := s.db.Query(
		`SELECT id, timestamp, duration, category_id, category_label, note, mode
		 FROM time_logs ORDER BY seq DESC`,
	)
	if err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	defer rows.Close()

	var logs []TimeBlockRecord
	for rows.Next() {
		var r TimeBlockRecord
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Duration, &r.CategoryID, &r.CategoryLabel, &r.Note, &r.Mode); err != nil {
			return fmt.Errorf("scan log: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		logs = append(logs, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	s.logs = logs
	return nil
}

// Logs returns a copy of the log, most recent first.
func (s *Store) Logs() []TimeBlockRecord {
	out := make([]TimeBlockRecord, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Store) Count() int { return len(s.logs) }

// Latest returns the head of the log.
func (s *Store) Latest() (TimeBlockRecord, bool) {
	if len(s.logs) == 0 {
		return TimeBlockRecord{}, false
	}
	return s.logs[0], true
}

// Append prepends r to the log and persists it. If the insert fails the
// record stays in memory and the returned error wraps ErrNotDurable.
func (s *Store) Append(r TimeBlockRecord) error {
	if r.Duration < 1 {
		return fmt.Errorf("%w: duration %d", ErrInvalidRecord, r.Duration)
	}
	if strings.TrimSpace(r.CategoryLabel) == "" {
		return fmt.Errorf("%w: missing category label", ErrInvalidRecord)
	}

	s.logs = append([]TimeBlockRecord{r}, s.logs...)

	_, err := s.db.Exec(
		`INSERT INTO time_logs (id, timestamp, duration, category_id, category_label, note, mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UnixMilli(), r.Duration, r.CategoryID, r.CategoryLabel, r.Note, r.Mode,
	)
	if err != nil {
		return fmt.Errorf("append log %s: %w: %v", r.ID, ErrNotDurable, err)
	}
	return nil
}

// Clear removes every record. The in-memory copy is only emptied once the
// delete has been persisted.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM time_logs`); err != nil {
		return fmt.Errorf("clear logs: %w", err)
	}
	s.logs = nil
	return nil
}

// Today returns the records saved on the same local calendar day as now.
func (s *Store) Today(now time.Time) []TimeBlockRecord {
	return FilterByDay(s.logs, now)
}
