package engine

import "time"

// DayProgress maps now onto the [startHour, endHour] window as a percentage.
// A window whose end is not after its start counts as complete; windows
// never wrap past midnight.
func DayProgress(now time.Time, startHour, endHour int) float64 {
	if endHour <= startHour {
		return 100
	}
	hour := float64(now.Hour()) + float64(now.Minute())/60
	start, end := float64(startHour), float64(endHour)
	switch {
	case hour < start:
		return 0
	case hour > end:
		return 100
	}
	return (hour - start) / (end - start) * 100
}
