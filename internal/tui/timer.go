package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

var modeTitles = []string{"Focus", "Count Up", "Record"}

// timerModel renders the session engine and forwards timer keys to it.
type timerModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	focusBar progress.Model
	dayBar   progress.Model
}

func newTimerModel(e *engine.Engine, s *store.Store) timerModel {
	return timerModel{
		engine:   e,
		store:    s,
		focusBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		dayBar:   progress.New(progress.WithSolidFill(string(colorSecondary)), progress.WithoutPercentage()),
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	barWidth := w - 16
	if barWidth < 10 {
		barWidth = 10
	}
	t.focusBar.Width = barWidth
	t.dayBar.Width = barWidth
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	st := t.engine.State()
	switch {
	case key.Matches(keyMsg, keys.Start):
		if st.Mode == engine.ModeRecord {
			return t, statusCmd("Record mode is always listening", false)
		}
		t.engine.Start()

	case key.Matches(keyMsg, keys.Pause):
		t.engine.Toggle()

	case key.Matches(keyMsg, keys.Stop):
		if eff := t.engine.ManualEnd(); eff.Prompt == nil {
			return t, statusCmd("Nothing to log yet", true)
		}

	case key.Matches(keyMsg, keys.Mode):
		next := engine.Mode((int(st.Mode) + 1) % len(modeTitles))
		t.engine.SwitchMode(next)
		return t, statusCmd(modeTitles[next]+" mode", false)

	case key.Matches(keyMsg, keys.Record):
		if _, err := t.engine.RecordNow(); err != nil {
			return t, statusCmd(fmt.Sprintf("Record: %v", err), true)
		}

	case key.Matches(keyMsg, keys.Anchor):
		if st.Mode != engine.ModeRecord {
			return t, statusCmd("Anchoring only applies in Record mode", true)
		}
		t.engine.ResetAnchor()
		return t, statusCmd(fmt.Sprintf("Reminders every %d min from %s",
			t.engine.Settings().RecordIntervalMinutes, engine.FormatClock(t.engine.Now())), false)

	case key.Matches(keyMsg, keys.ClearAnchor):
		if st.Mode != engine.ModeRecord {
			return t, nil
		}
		t.engine.ClearAnchor()
		return t, statusCmd("Reminders follow the clock", false)
	}
	return t, nil
}

func (t timerModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		t.renderTimerPanel(w),
		t.renderDayPanel(w),
		t.renderTodayPanel(w),
	)
}

func (t timerModel) renderModeTabs() string {
	mode := t.engine.State().Mode
	var tabs []string
	for i, name := range modeTitles {
		if engine.Mode(i) == mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (t timerModel) renderTimerPanel(w int) string {
	st := t.engine.State()
	now := t.engine.Now()
	inner := w - 6

	var timeDisplay, indicator, detail string
	switch st.Mode {
	case engine.ModeFocus:
		timeDisplay = t.styleFor(st).Width(inner).Render(formatCountdown(st.Focus.TimeLeft))
		indicator = t.indicator(st)
		detail = lipgloss.JoinVertical(lipgloss.Center,
			t.focusBar.ViewAs(st.FocusProgress()/100),
			mutedStyle.Render(fmt.Sprintf("%d min interval", st.Focus.Interval)),
		)

	case engine.ModeCountUp:
		timeDisplay = t.styleFor(st).Width(inner).Render(formatSeconds(st.CountUp.Elapsed))
		indicator = t.indicator(st)
		detail = mutedStyle.Render("Press x to end and log")

	case engine.ModeRecord:
		since := now.Sub(st.Record.LastLog)
		if since < 0 {
			since = 0
		}
		timeDisplay = timerStyle.Foreground(modeColors["record"]).Width(inner).Render(formatDuration(since))
		indicator = highlightStyle.Render("◉  LISTENING")

		interval := t.engine.Settings().RecordIntervalMinutes
		next := engine.FormatClock(st.Record.Policy.Next(now, interval))
		policy := "on the clock"
		if anchor, ok := st.Record.Policy.Anchor(); ok {
			policy = "anchored at " + engine.FormatClock(anchor)
		}
		detail = lipgloss.JoinVertical(lipgloss.Center,
			mutedStyle.Render(fmt.Sprintf("Last log %s (%s)",
				engine.FormatClock(st.Record.LastLog),
				humanize.RelTime(st.Record.LastLog, now, "ago", "from now"))),
			mutedStyle.Render(fmt.Sprintf("Next reminder %s, every %d min, %s", next, interval, policy)),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		t.renderModeTabs(),
		"",
		timeDisplay,
		indicator,
		detail,
	)
	if st.Running() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

// paused reports a timer that has progress but is not ticking.
func paused(st engine.State) bool {
	switch st.Mode {
	case engine.ModeFocus:
		return !st.Focus.Running && st.Focus.TimeLeft > 0 && st.Focus.TimeLeft < st.Focus.Interval*60
	case engine.ModeCountUp:
		return !st.CountUp.Running && st.CountUp.Elapsed > 0
	}
	return false
}

func (t timerModel) styleFor(st engine.State) lipgloss.Style {
	switch {
	case st.Running():
		return timerRunningStyle
	case paused(st):
		return timerPausedStyle
	}
	return timerStyle.Foreground(modeColors[st.Mode.String()])
}

func (t timerModel) indicator(st engine.State) string {
	switch {
	case st.Pending != nil:
		return warningStyle.Render("✎  WAITING FOR LOG")
	case st.Running():
		return successStyle.Render("●  RUNNING")
	case paused(st):
		return warningStyle.Render("⏸  PAUSED")
	}
	return mutedStyle.Render("■  READY  press s to start")
}

func (t timerModel) renderDayPanel(w int) string {
	cfg := t.engine.Settings()
	pct := t.engine.DayProgress()
	title := titleStyle.Render("Day")
	window := mutedStyle.Render(fmt.Sprintf("%02d:00 to %02d:00", cfg.DayStartHour, cfg.DayEndHour))
	bar := t.dayBar.ViewAs(pct / 100)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s  %s", title, window),
		fmt.Sprintf("%s %3.0f%%", bar, pct),
	))
}

func (t timerModel) renderTodayPanel(w int) string {
	sum := store.Aggregate(t.store.Today(t.engine.Now()))
	header := fmt.Sprintf("%s  %s", titleStyle.Render("Today"), highlightStyle.Render(formatMinutes(sum.TotalMinutes)))

	if len(sum.Breakdown) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No logs today"),
		))
	}

	rows := []string{header}
	for _, c := range sum.Breakdown {
		rows = append(rows, fmt.Sprintf("  %s %-20s %8s  (%d)",
			dot(store.ColorFor(c.Key)), c.Label, formatMinutes(c.Minutes), c.Count))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// elapsedLabel is the compact running indicator shown in the footer.
func (t timerModel) elapsedLabel() (string, bool) {
	st := t.engine.State()
	switch st.Mode {
	case engine.ModeFocus:
		if st.Focus.Running || paused(st) {
			return formatCountdown(st.Focus.TimeLeft), st.Focus.Running
		}
	case engine.ModeCountUp:
		if st.CountUp.Running || paused(st) {
			return formatSeconds(st.CountUp.Elapsed), st.CountUp.Running
		}
	}
	return "", false
}
