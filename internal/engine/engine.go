package engine

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/timechunk/internal/notify"
	"github.com/sadopc/timechunk/internal/store"
)

// LogStore is the part of the Log Store the engine writes to.
type LogStore interface {
	Append(r store.TimeBlockRecord) error
	Latest() (store.TimeBlockRecord, bool)
	Clear() error
}

// Options configures an Engine. Store and Settings are required.
type Options struct {
	Store    LogStore
	Settings store.DaySettings
	Clock    Clock
	Notifier notify.Notifier
	Mode     Mode
}

// Engine owns the session state and applies transitions to it. It is not
// safe for concurrent use; the TUI drives it from a single update loop.
type Engine struct {
	store    LogStore
	settings store.DaySettings
	clock    Clock
	notifier notify.Notifier
	state    State
}

func New(opts Options) *Engine {
	e := &Engine{
		store:    opts.Store,
		settings: opts.Settings,
		clock:    opts.Clock,
		notifier: opts.Notifier,
	}
	if e.clock == nil {
		e.clock = SystemClock()
	}
	if e.notifier == nil {
		e.notifier = notify.Disabled()
	}
	e.state = NewState(opts.Mode, e.settings, e.lastLogDefault())
	return e
}

// lastLogDefault is the newest record's timestamp, or now.
func (e *Engine) lastLogDefault() time.Time {
	if r, ok := e.store.Latest(); ok {
		return r.Timestamp
	}
	return e.clock.Now()
}

func (e *Engine) State() State                { return e.state }
func (e *Engine) Settings() store.DaySettings { return e.settings }
func (e *Engine) Now() time.Time              { return e.clock.Now() }

func (e *Engine) apply(ev Event) Effect {
	var eff Effect
	e.state, eff = e.state.Apply(ev, e.settings)
	if eff.Notify {
		e.sendNotification()
	}
	return eff
}

// sendNotification never blocks the prompt; failures are only logged.
func (e *Engine) sendNotification() {
	var title, body string
	if e.state.Mode == ModeFocus {
		title, body = notify.FocusCompleteTitle, notify.FocusCompleteBody
	} else {
		title, body = notify.ReminderTitle, notify.ReminderBody
	}
	if err := e.notifier.Notify(title, body); err != nil && !errors.Is(err, notify.ErrPermissionDenied) {
		log.Printf("notify: %v", err)
	}
}

func (e *Engine) Start()  { e.apply(Start{}) }
func (e *Engine) Toggle() { e.apply(Toggle{}) }

// Tick advances one second of clock time.
func (e *Engine) Tick(now time.Time) Effect {
	return e.apply(Tick{Now: now})
}

// ManualEnd stops the active session early and opens a save prompt.
func (e *Engine) ManualEnd() Effect {
	return e.apply(ManualEnd{Now: e.clock.Now()})
}

// RecordNow opens a Record-mode prompt covering lastLog..now.
func (e *Engine) RecordNow() (Effect, error) {
	if e.state.Mode != ModeRecord {
		return Effect{}, ErrWrongMode
	}
	return e.apply(RecordNow{Now: e.clock.Now()}), nil
}

// Backfill opens (or replaces) a Record-mode prompt for user-entered HH:MM
// times on today's date.
func (e *Engine) Backfill(start, end string) (Effect, error) {
	if e.state.Mode != ModeRecord {
		return Effect{}, ErrWrongMode
	}
	r, minutes, err := ParseBackfill(e.clock.Now(), start, end)
	if err != nil {
		return Effect{}, err
	}
	eff := e.apply(Backfill{Range: r, Minutes: minutes})
	if eff.Prompt == nil {
		return eff, ErrNothingPending
	}
	return eff, nil
}

func (e *Engine) ResetAnchor()  { e.apply(ResetAnchor{Now: e.clock.Now()}) }
func (e *Engine) ClearAnchor()  { e.apply(ClearAnchor{}) }
func (e *Engine) CancelPrompt() { e.apply(CancelPrompt{}) }

// SwitchMode discards timer progress and any open prompt.
func (e *Engine) SwitchMode(m Mode) { e.apply(SwitchMode{Mode: m}) }

// UpdateSettings replaces the settings. A changed focus interval resets the
// focus timer.
func (e *Engine) UpdateSettings(d store.DaySettings) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	changed := d.FocusIntervalMinutes != e.settings.FocusIntervalMinutes
	e.settings = d
	if changed {
		e.apply(IntervalChanged{})
	}
	return nil
}

// CommitRequest carries the user's answer to a save prompt. Custom selects
// an ad hoc category named by CustomLabel instead of Category. Minutes
// overrides the pending duration when non-nil.
type CommitRequest struct {
	Category    *store.Category
	Custom      bool
	CustomLabel string
	Note        string
	Minutes     *int
}

// Commit turns the pending block into a record and appends it. Validation
// errors leave state and store untouched. A store.ErrNotDurable error is
// returned together with the record: it is kept in memory and the session
// still resets.
func (e *Engine) Commit(req CommitRequest) (store.TimeBlockRecord, error) {
	if e.state.Pending == nil {
		return store.TimeBlockRecord{}, ErrNothingPending
	}
	now := e.clock.Now()

	var id, label string
	switch {
	case req.Custom:
		label = strings.TrimSpace(req.CustomLabel)
		if label == "" {
			return store.TimeBlockRecord{}, ErrEmptyCustomLabel
		}
		id = fmt.Sprintf("%s%d", store.CustomPrefix, now.UnixMilli())
	case req.Category != nil:
		id, label = req.Category.ID, req.Category.Label
	default:
		return store.TimeBlockRecord{}, ErrNoCategory
	}

	minutes := e.state.Pending.Minutes
	if req.Minutes != nil {
		minutes = *req.Minutes
	}
	if minutes <= 0 {
		return store.TimeBlockRecord{}, ErrInvalidDuration
	}

	rec := store.TimeBlockRecord{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Duration:      minutes,
		CategoryID:    id,
		CategoryLabel: label,
		Note:          strings.TrimSpace(req.Note),
		Mode:          e.state.Mode.String(),
	}

	err := e.store.Append(rec)
	if err != nil && !errors.Is(err, store.ErrNotDurable) {
		return store.TimeBlockRecord{}, err
	}
	e.apply(Committed{Now: now})
	return rec, err
}

// ResetLogs clears the whole log. Record mode restarts counting from now.
func (e *Engine) ResetLogs() error {
	if err := e.store.Clear(); err != nil {
		return err
	}
	e.state.Record.LastLog = e.clock.Now()
	return nil
}

// DayProgress is the day-window completion at the current time.
func (e *Engine) DayProgress() float64 {
	return DayProgress(e.clock.Now(), e.settings.DayStartHour, e.settings.DayEndHour)
}
