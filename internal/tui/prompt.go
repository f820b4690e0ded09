package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

const (
	customChoice = "custom"
	recentPrefix = "recent:"
	recentLimit  = 5
)

var promptTitles = map[engine.PromptReason]string{
	engine.ReasonFocusComplete: "Focus complete",
	engine.ReasonManualEnd:     "Session ended",
	engine.ReasonReminder:      "What have you been doing?",
	engine.ReasonRecordNow:     "Record time",
	engine.ReasonBackfill:      "Record time",
}

// promptModel is the log overlay shown while the engine has a pending block.
type promptModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int

	active bool
	form   *huh.Form
	prompt engine.Prompt

	// Form values as pointers (survive value copies)
	choice      *string
	customLabel *string
	note        *string
	minutes     *string
	start       *string
	end         *string
}

func newPromptModel(e *engine.Engine, s *store.Store) promptModel {
	choice, label, note, minutes, start, end := "", "", "", "", "", ""
	return promptModel{
		engine:      e,
		store:       s,
		choice:      &choice,
		customLabel: &label,
		note:        &note,
		minutes:     &minutes,
		start:       &start,
		end:         &end,
	}
}

func (p *promptModel) setSize(w, _ int) {
	p.width = w
}

func (p promptModel) categoryOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, c := range store.DefaultCategories() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", c.Icon, c.Label), c.ID))
	}
	recent, _ := p.store.RecentCustomLabels(recentLimit)
	for _, label := range recent {
		opts = append(opts, huh.NewOption("★ "+label, recentPrefix+label))
	}
	return append(opts, huh.NewOption("+ Custom…", customChoice))
}

func (p promptModel) open(pr engine.Prompt) (promptModel, tea.Cmd) {
	p.prompt = pr
	*p.choice = store.DefaultCategories()[0].ID
	*p.customLabel = ""
	*p.note = ""
	*p.minutes = strconv.Itoa(pr.Minutes)
	*p.start, *p.end = "", ""
	if pr.Range != nil {
		*p.start = engine.FormatClock(pr.Range.Start)
		*p.end = engine.FormatClock(pr.Range.End)
	}

	choice, start := p.choice, p.start
	now := p.engine.Now()

	var timing *huh.Group
	if pr.Range != nil {
		orig := *pr.Range
		timing = huh.NewGroup(
			huh.NewInput().Title("Start (HH:MM)").Value(p.start).Validate(validClock),
			huh.NewInput().Title("End (HH:MM)").Value(p.end).Validate(func(s string) error {
				return validRange(now, orig, *start, s)
			}),
			huh.NewInput().Title("Note").Placeholder("optional").Value(p.note),
		)
	} else {
		timing = huh.NewGroup(
			huh.NewInput().Title("Minutes").Value(p.minutes).Validate(validMinutes),
			huh.NewInput().Title("Note").Placeholder("optional").Value(p.note),
		)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(promptTitles[pr.Reason]).
				Description(p.describe()).
				Options(p.categoryOptions()...).
				Value(p.choice),
		),
		huh.NewGroup(
			huh.NewInput().Title("Custom category").Value(p.customLabel).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return engine.ErrEmptyCustomLabel
				}
				return nil
			}),
		).WithHideFunc(func() bool { return *choice != customChoice }),
		timing,
	).WithShowHelp(true).WithShowErrors(true)

	p.active = true
	return p, p.form.Init()
}

func (p promptModel) describe() string {
	if p.prompt.Range != nil {
		return fmt.Sprintf("%s to %s · %s",
			engine.FormatClock(p.prompt.Range.Start),
			engine.FormatClock(p.prompt.Range.End),
			formatMinutes(p.prompt.Minutes))
	}
	return formatMinutes(p.prompt.Minutes)
}

func validClock(s string) error {
	_, _, err := engine.ParseClock(s)
	return err
}

// rangeEdited reports whether start or end differ from the pending block.
func rangeEdited(r engine.TimeRange, start, end string) bool {
	return start != engine.FormatClock(r.Start) || end != engine.FormatClock(r.End)
}

// validRange accepts the pending block's own range as shown, even when both
// ends fall in the same minute. Edited times must form a valid backfill.
func validRange(now time.Time, r engine.TimeRange, start, end string) error {
	if !rangeEdited(r, start, end) {
		return nil
	}
	_, _, err := engine.ParseBackfill(now, start, end)
	return err
}

func validMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return engine.ErrInvalidDuration
	}
	return nil
}

func (p promptModel) update(msg tea.Msg) (promptModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			return p.cancel()
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		return p.submit()
	case huh.StateAborted:
		return p.cancel()
	}
	return p, cmd
}

func (p promptModel) cancel() (promptModel, tea.Cmd) {
	p.engine.CancelPrompt()
	p.active = false
	p.form = nil
	return p, statusCmd("Log discarded", false)
}

func (p promptModel) submit() (promptModel, tea.Cmd) {
	rec, err := p.commit()
	switch {
	case errors.Is(err, engine.ErrValidation):
		// Keep the prompt open; the engine still holds the pending block.
		pr := p.prompt
		if pending := p.engine.State().Pending; pending != nil {
			pr = *pending
		}
		next, cmd := p.open(pr)
		return next, tea.Batch(cmd, statusCmd(err.Error(), true))
	case errors.Is(err, store.ErrNotDurable):
		p.active = false
		p.form = nil
		return p, func() tea.Msg { return loggedMsg{record: rec, err: err} }
	case err != nil:
		p.active = false
		p.form = nil
		p.engine.CancelPrompt()
		return p, statusCmd("Log failed: "+err.Error(), true)
	}

	p.active = false
	p.form = nil
	return p, func() tea.Msg { return loggedMsg{record: rec} }
}

// commit turns the form values into a CommitRequest. Edited clock times
// replace the pending block before committing.
func (p promptModel) commit() (store.TimeBlockRecord, error) {
	if r := p.prompt.Range; r != nil {
		if rangeEdited(*r, *p.start, *p.end) {
			if _, err := p.engine.Backfill(*p.start, *p.end); err != nil {
				return store.TimeBlockRecord{}, err
			}
		}
	}

	req := engine.CommitRequest{Note: *p.note}
	switch {
	case *p.choice == customChoice:
		req.Custom = true
		req.CustomLabel = *p.customLabel
	case strings.HasPrefix(*p.choice, recentPrefix):
		req.Custom = true
		req.CustomLabel = strings.TrimPrefix(*p.choice, recentPrefix)
	default:
		if c, ok := store.CategoryByID(*p.choice); ok {
			req.Category = &c
		}
	}

	if p.prompt.Range == nil {
		n, err := strconv.Atoi(strings.TrimSpace(*p.minutes))
		if err != nil {
			return store.TimeBlockRecord{}, engine.ErrInvalidDuration
		}
		req.Minutes = &n
	}
	return p.engine.Commit(req)
}

func (p promptModel) view() string {
	if !p.active || p.form == nil {
		return ""
	}
	w := p.width - 4
	title := titleStyle.Render("Log time")
	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
	)
}
