package engine

import (
	"time"

	"github.com/sadopc/timechunk/internal/store"
)

// Mode selects which timer the session runs.
type Mode int

const (
	ModeFocus Mode = iota
	ModeCountUp
	ModeRecord
)

var modeNames = map[Mode]string{
	ModeFocus:   "focus",
	ModeCountUp: "countup",
	ModeRecord:  "record",
}

func (m Mode) String() string { return modeNames[m] }

// PromptReason says why a save prompt was opened.
type PromptReason int

const (
	ReasonFocusComplete PromptReason = iota
	ReasonManualEnd
	ReasonReminder
	ReasonRecordNow
	ReasonBackfill
)

// Prompt is a pending time block waiting for a category.
type Prompt struct {
	Reason  PromptReason
	Minutes int
	Range   *TimeRange // Record mode only
}

// Manual reports whether the block came from user-entered clock times.
func (p Prompt) Manual() bool { return p.Reason == ReasonBackfill }

// FocusState is the countdown toward a fixed interval.
type FocusState struct {
	Interval int // minutes
	TimeLeft int // seconds
	Running  bool
}

// CountUpState is an open-ended stopwatch.
type CountUpState struct {
	Elapsed int // seconds
	Running bool
}

// RecordState tracks the last log and the reminder policy for Record mode.
type RecordState struct {
	LastLog time.Time
	Policy  ReminderPolicy
}

// State is the session state. Mode selects which of Focus, CountUp and
// Record is live; the other two are zero. Pending is non-nil while a save
// prompt is open.
type State struct {
	Mode    Mode
	Focus   FocusState
	CountUp CountUpState
	Record  RecordState
	Pending *Prompt
}

// NewState returns an idle state in mode. lastLog seeds Record mode.
func NewState(mode Mode, cfg store.DaySettings, lastLog time.Time) State {
	s := State{Mode: mode, Record: RecordState{LastLog: lastLog, Policy: AbsolutePolicy()}}
	return s.resetMode(cfg)
}

// Running reports whether a Focus or CountUp timer is ticking. Record mode
// is never running; it always listens.
func (s State) Running() bool {
	switch s.Mode {
	case ModeFocus:
		return s.Focus.Running
	case ModeCountUp:
		return s.CountUp.Running
	}
	return false
}

// FocusProgress is the share of the focus interval already spent, 0-100.
func (s State) FocusProgress() float64 {
	total := s.Focus.Interval * 60
	if total <= 0 {
		return 0
	}
	return float64(total-s.Focus.TimeLeft) / float64(total) * 100
}

func (s State) resetMode(cfg store.DaySettings) State {
	s.Focus = FocusState{}
	s.CountUp = CountUpState{}
	if s.Mode == ModeFocus {
		s.Focus = FocusState{
			Interval: cfg.FocusIntervalMinutes,
			TimeLeft: cfg.FocusIntervalMinutes * 60,
		}
	}
	return s
}

// Event is an input to the state machine.
type Event interface{ isEvent() }

type (
	Start           struct{}
	Toggle          struct{}
	Tick            struct{ Now time.Time }
	ManualEnd       struct{ Now time.Time }
	RecordNow       struct{ Now time.Time }
	Backfill        struct {
		Range   TimeRange
		Minutes int
	}
	ResetAnchor     struct{ Now time.Time }
	ClearAnchor     struct{}
	CancelPrompt    struct{}
	Committed       struct{ Now time.Time }
	SwitchMode      struct{ Mode Mode }
	IntervalChanged struct{}
)

func (Start) isEvent()           {}
func (Toggle) isEvent()          {}
func (Tick) isEvent()            {}
func (ManualEnd) isEvent()       {}
func (RecordNow) isEvent()       {}
func (Backfill) isEvent()        {}
func (ResetAnchor) isEvent()     {}
func (ClearAnchor) isEvent()     {}
func (CancelPrompt) isEvent()    {}
func (Committed) isEvent()       {}
func (SwitchMode) isEvent()      {}
func (IntervalChanged) isEvent() {}

// Effect reports what a transition asks of the outside world.
type Effect struct {
	Prompt *Prompt // a save prompt was opened
	Notify bool    // a user-facing notification should be sent
}

// Apply is the transition function. Events that do not apply to the current
// state return it unchanged with an empty Effect.
func (s State) Apply(ev Event, cfg store.DaySettings) (State, Effect) {
	switch ev := ev.(type) {
	case Start:
		return s.start(), Effect{}

	case Toggle:
		if s.Running() {
			return s.stop(), Effect{}
		}
		return s.start(), Effect{}

	case Tick:
		return s.tick(ev.Now, cfg)

	case ManualEnd:
		return s.manualEnd(ev.Now)

	case RecordNow:
		if s.Mode != ModeRecord || s.Pending != nil {
			return s, Effect{}
		}
		return s.openRecordPrompt(ReasonRecordNow, ev.Now, false)

	case Backfill:
		if s.Mode != ModeRecord || ev.Minutes <= 0 {
			return s, Effect{}
		}
		if s.Pending != nil && s.Pending.Range == nil {
			return s, Effect{}
		}
		r := ev.Range
		p := &Prompt{Reason: ReasonBackfill, Minutes: ev.Minutes, Range: &r}
		s.Pending = p
		return s, Effect{Prompt: p}

	case ResetAnchor:
		s.Record.Policy = RelativePolicy(ev.Now)
		return s, Effect{}

	case ClearAnchor:
		s.Record.Policy = AbsolutePolicy()
		return s, Effect{}

	case CancelPrompt:
		s.Pending = nil
		if s.Mode == ModeFocus && s.Focus.TimeLeft <= 0 {
			s.Focus.TimeLeft = s.Focus.Interval * 60
		}
		return s, Effect{}

	case Committed:
		s.Pending = nil
		s.Record.LastLog = ev.Now
		switch s.Mode {
		case ModeFocus:
			s.Focus.Running = false
			s.Focus.Interval = cfg.FocusIntervalMinutes
			s.Focus.TimeLeft = cfg.FocusIntervalMinutes * 60
		case ModeCountUp:
			s.CountUp = CountUpState{}
		}
		return s, Effect{}

	case SwitchMode:
		s.Mode = ev.Mode
		s.Pending = nil
		return s.resetMode(cfg), Effect{}

	case IntervalChanged:
		if s.Pending != nil {
			return s, Effect{}
		}
		if s.Mode == ModeFocus {
			s.Focus = FocusState{
				Interval: cfg.FocusIntervalMinutes,
				TimeLeft: cfg.FocusIntervalMinutes * 60,
			}
		}
		return s, Effect{}
	}
	return s, Effect{}
}

func (s State) start() State {
	if s.Pending != nil {
		return s
	}
	switch s.Mode {
	case ModeFocus:
		if s.Focus.TimeLeft <= 0 {
			s.Focus.TimeLeft = s.Focus.Interval * 60
		}
		s.Focus.Running = true
	case ModeCountUp:
		s.CountUp.Running = true
	}
	return s
}

func (s State) stop() State {
	s.Focus.Running = false
	s.CountUp.Running = false
	return s
}

func (s State) tick(now time.Time, cfg store.DaySettings) (State, Effect) {
	switch s.Mode {
	case ModeFocus:
		if !s.Focus.Running {
			return s, Effect{}
		}
		if s.Focus.TimeLeft > 0 {
			s.Focus.TimeLeft--
		}
		if s.Focus.TimeLeft == 0 {
			s.Focus.Running = false
			p := &Prompt{Reason: ReasonFocusComplete, Minutes: s.Focus.Interval}
			s.Pending = p
			return s, Effect{Prompt: p, Notify: true}
		}

	case ModeCountUp:
		if s.CountUp.Running {
			s.CountUp.Elapsed++
		}

	case ModeRecord:
		if s.Pending != nil {
			return s, Effect{}
		}
		if s.Record.Policy.ShouldFire(now, cfg.RecordIntervalMinutes) {
			return s.openRecordPrompt(ReasonReminder, now, true)
		}
	}
	return s, Effect{}
}

func (s State) manualEnd(now time.Time) (State, Effect) {
	if s.Pending != nil {
		return s, Effect{}
	}
	switch s.Mode {
	case ModeFocus:
		if !s.Focus.Running || s.Focus.TimeLeft <= 0 {
			return s, Effect{}
		}
		s.Focus.Running = false
		elapsed := s.Focus.Interval*60 - s.Focus.TimeLeft
		p := &Prompt{Reason: ReasonManualEnd, Minutes: roundMinutes(elapsed)}
		s.Pending = p
		return s, Effect{Prompt: p}

	case ModeCountUp:
		if s.CountUp.Elapsed <= 0 {
			return s, Effect{}
		}
		s.CountUp.Running = false
		p := &Prompt{Reason: ReasonManualEnd, Minutes: roundMinutes(s.CountUp.Elapsed)}
		s.Pending = p
		return s, Effect{Prompt: p}

	case ModeRecord:
		return s.openRecordPrompt(ReasonRecordNow, now, false)
	}
	return s, Effect{}
}

func (s State) openRecordPrompt(reason PromptReason, now time.Time, notify bool) (State, Effect) {
	r := TimeRange{Start: s.Record.LastLog, End: now}
	p := &Prompt{
		Reason:  reason,
		Minutes: minutesBetween(s.Record.LastLog, now),
		Range:   &r,
	}
	s.Pending = p
	return s, Effect{Prompt: p, Notify: notify}
}
