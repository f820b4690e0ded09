package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

type settingsModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dayStart       *string
	dayEnd         *string
	focusInterval  *string
	recordInterval *string
}

func newSettingsModel(e *engine.Engine, s *store.Store) settingsModel {
	ds, de, fi, ri := "", "", "", ""
	return settingsModel{
		engine:         e,
		store:          s,
		dayStart:       &ds,
		dayEnd:         &de,
		focusInterval:  &fi,
		recordInterval: &ri,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Edit) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.engine.Settings()
	*s.dayStart = strconv.Itoa(cur.DayStartHour)
	*s.dayEnd = strconv.Itoa(cur.DayEndHour)
	*s.focusInterval = strconv.Itoa(cur.FocusIntervalMinutes)
	*s.recordInterval = strconv.Itoa(cur.RecordIntervalMinutes)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Day starts at (hour)").Value(s.dayStart).Validate(validHour),
			huh.NewInput().Title("Day ends at (hour)").Value(s.dayEnd).Validate(validHour),
		).Title("Day window"),
		huh.NewGroup(
			huh.NewInput().Title("Focus interval (min)").Value(s.focusInterval).Validate(validMinutes),
			huh.NewInput().Title("Record reminder every (min)").
				Description("Clock-aligned: 15, 30, 45 or 60 line up with the hour").
				Value(s.recordInterval).Validate(validMinutes),
		).Title("Intervals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validHour(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 23 {
		return fmt.Errorf("hour must be 0-23")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}
	return s, cmd
}

// formSettings parses the form fields.
func (s settingsModel) formSettings() (store.DaySettings, error) {
	var d store.DaySettings
	fields := []struct {
		dst *int
		src string
	}{
		{&d.DayStartHour, *s.dayStart},
		{&d.DayEndHour, *s.dayEnd},
		{&d.FocusIntervalMinutes, *s.focusInterval},
		{&d.RecordIntervalMinutes, *s.recordInterval},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.src))
		if err != nil {
			return d, fmt.Errorf("%q is not a number", f.src)
		}
		*f.dst = n
	}
	return d, d.Validate()
}

func (s settingsModel) saveSettings() tea.Cmd {
	d, err := s.formSettings()
	if err != nil {
		return statusCmd("Settings: "+err.Error(), true)
	}
	if err := s.engine.UpdateSettings(d); err != nil {
		return statusCmd("Settings: "+err.Error(), true)
	}
	err = s.store.SaveSettings(d)
	return func() tea.Msg { return settingsSavedMsg{settings: d, err: err} }
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cur := s.engine.Settings()
	values := []struct{ label, value string }{
		{"Day starts", fmt.Sprintf("%02d:00", cur.DayStartHour)},
		{"Day ends", fmt.Sprintf("%02d:00", cur.DayEndHour)},
		{"Focus interval", fmt.Sprintf("%d min", cur.FocusIntervalMinutes)},
		{"Record reminder", fmt.Sprintf("every %d min", cur.RecordIntervalMinutes)},
	}

	rows := []string{title, ""}
	for _, v := range values {
		label := lipgloss.NewStyle().Width(24).Render(v.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(v.value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
