package engine

import "time"

type policyKind int

const (
	policyAbsolute policyKind = iota
	policyRelative
)

// ReminderPolicy decides, once per tick, whether a Record-mode reminder
// fires. It is either clock-aligned or anchored to an instant; the zero
// value is the clock-aligned policy.
type ReminderPolicy struct {
	kind   policyKind
	anchor time.Time
}

// AbsolutePolicy fires on wall-clock minute marks divisible by the interval,
// counted from local midnight, at second zero. Intervals that divide 60 land
// on the same marks every hour; others such as 45 or 90 step from midnight
// (00:45, 01:30, 02:15), not from the top of each hour.
func AbsolutePolicy() ReminderPolicy {
	return ReminderPolicy{kind: policyAbsolute}
}

// RelativePolicy fires every interval after anchor.
func RelativePolicy(anchor time.Time) ReminderPolicy {
	return ReminderPolicy{kind: policyRelative, anchor: anchor}
}

func (p ReminderPolicy) IsRelative() bool { return p.kind == policyRelative }

// Anchor returns the anchor instant of a relative policy.
func (p ReminderPolicy) Anchor() (time.Time, bool) {
	if p.kind != policyRelative {
		return time.Time{}, false
	}
	return p.anchor, true
}

// ShouldFire reports whether now is a reminder instant for an interval of
// intervalMinutes.
func (p ReminderPolicy) ShouldFire(now time.Time, intervalMinutes int) bool {
	if intervalMinutes < 1 {
		return false
	}
	switch p.kind {
	case policyRelative:
		diff := int64(now.Sub(p.anchor) / time.Second)
		return diff > 0 && diff%int64(intervalMinutes*60) == 0
	default:
		if now.Second() != 0 {
			return false
		}
		minuteOfDay := now.Hour()*60 + now.Minute()
		return minuteOfDay%intervalMinutes == 0
	}
}

// Next returns the first reminder instant strictly after now, at second
// resolution. Used for display only.
func (p ReminderPolicy) Next(now time.Time, intervalMinutes int) time.Time {
	if intervalMinutes < 1 {
		return time.Time{}
	}
	step := time.Duration(intervalMinutes) * time.Minute
	switch p.kind {
	case policyRelative:
		if now.Before(p.anchor) {
			return p.anchor.Add(step)
		}
		k := now.Sub(p.anchor)/step + 1
		return p.anchor.Add(k * step)
	default:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		minuteOfDay := now.Hour()*60 + now.Minute()
		next := (minuteOfDay/intervalMinutes + 1) * intervalMinutes
		if next >= 24*60 {
			return midnight.AddDate(0, 0, 1)
		}
		return midnight.Add(time.Duration(next) * time.Minute)
	}
}
