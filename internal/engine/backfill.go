package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeRange is the span a pending block covers.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// ParseBackfill builds a range from HH:MM start and end times on day's
// calendar date. An end earlier than the start crosses midnight once; equal
// times are rejected.
func ParseBackfill(day time.Time, start, end string) (TimeRange, int, error) {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, 0, err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, 0, err
	}

	minutes := (eh*60 + em) - (sh*60 + sm)
	if minutes < 0 {
		minutes += 24 * 60
	}
	if minutes <= 0 {
		return TimeRange{}, 0, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}

	y, mo, d := day.Date()
	from := time.Date(y, mo, d, sh, sm, 0, 0, day.Location())
	return TimeRange{Start: from, End: from.Add(time.Duration(minutes) * time.Minute)}, minutes, nil
}

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// roundMinutes converts elapsed seconds to whole minutes, rounding half up,
// with a one-minute floor.
func roundMinutes(seconds int) int {
	return atLeastOne(math.Floor(float64(seconds)/60 + 0.5))
}

// minutesBetween rounds a wall-clock span in milliseconds. Backward clock
// jumps clamp to the floor.
func minutesBetween(from, to time.Time) int {
	ms := float64(to.Sub(from).Milliseconds())
	return atLeastOne(math.Floor(ms/60000 + 0.5))
}

func atLeastOne(m float64) int {
	if m < 1 {
		return 1
	}
	return int(m)
}
