package store

import (
	"fmt"
	"strconv"
)

const (
	KeyDayStartHour          = "dayStartHour"
	KeyDayEndHour            = "dayEndHour"
	KeyFocusIntervalMinutes  = "focusIntervalMinutes"
	KeyRecordIntervalMinutes = "recordIntervalMinutes"
)

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() DaySettings {
	return DaySettings{
		DayStartHour:          9,
		DayEndHour:            18,
		FocusIntervalMinutes:  30,
		RecordIntervalMinutes: 30,
	}
}

// Validate checks hour and interval ranges.
func (d DaySettings) Validate() error {
	if d.DayStartHour < 0 || d.DayStartHour > 23 {
		return fmt.Errorf("day start hour %d out of range 0-23", d.DayStartHour)
	}
	if d.DayEndHour < 0 || d.DayEndHour > 23 {
		return fmt.Errorf("day end hour %d out of range 0-23", d.DayEndHour)
	}
	if d.FocusIntervalMinutes < 1 {
		return fmt.Errorf("focus interval must be at least 1 minute")
	}
	if d.RecordIntervalMinutes < 1 {
		return fmt.Errorf("record interval must be at least 1 minute")
	}
	return nil
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings reads DaySettings, falling back to the default for any key
// that is missing or unparsable.
func (s *Store) LoadSettings() DaySettings {
	d := DefaultSettings()
	d.DayStartHour = s.intSetting(KeyDayStartHour, d.DayStartHour)
	d.DayEndHour = s.intSetting(KeyDayEndHour, d.DayEndHour)
	d.FocusIntervalMinutes = s.intSetting(KeyFocusIntervalMinutes, d.FocusIntervalMinutes)
	d.RecordIntervalMinutes = s.intSetting(KeyRecordIntervalMinutes, d.RecordIntervalMinutes)
	if d.Validate() != nil {
		return DefaultSettings()
	}
	return d
}

// SaveSettings validates and persists all four settings in one transaction.
func (s *Store) SaveSettings(d DaySettings) error {
	if err := d.Validate(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer tx.Rollback()

	values := []Setting{
		{KeyDayStartHour, strconv.Itoa(d.DayStartHour)},
		{KeyDayEndHour, strconv.Itoa(d.DayEndHour)},
		{KeyFocusIntervalMinutes, strconv.Itoa(d.FocusIntervalMinutes)},
		{KeyRecordIntervalMinutes, strconv.Itoa(d.RecordIntervalMinutes)},
	}
	for _, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			v.Key, v.Value,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", v.Key, err)
		}
	}
	return tx.Commit()
}

func (s *Store) intSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
