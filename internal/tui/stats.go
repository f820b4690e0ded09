package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

const chartDays = 7

type statsModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	end   time.Time
	today store.Summary
	days  []store.Summary

	chart barchart.Model

	formActive   bool
	form         *huh.Form
	confirmReset *bool
}

func newStatsModel(e *engine.Engine, s *store.Store) statsModel {
	confirm := false
	return statsModel{
		engine:       e,
		store:        s,
		chart:        barchart.New(60, 12),
		confirmReset: &confirm,
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

type statsDataMsg struct {
	end   time.Time
	today store.Summary
	days  []store.Summary
}

func (s statsModel) refresh() tea.Cmd {
	logs := s.store.Logs()
	now := s.engine.Now()
	return func() tea.Msg {
		return statsDataMsg{
			end:   now,
			today: store.Aggregate(store.FilterByDay(logs, now)),
			days:  store.DailyTotals(logs, now, chartDays),
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case statsDataMsg:
		s.end = msg.end
		s.today = msg.today
		s.days = msg.days
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Reset) {
			return s.showResetForm()
		}
	}
	return s, nil
}

func (s statsModel) showResetForm() (statsModel, tea.Cmd) {
	*s.confirmReset = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete every log?").
				Description(fmt.Sprintf("%d records will be removed. This cannot be undone.", s.store.Count())).
				Affirmative("Delete").
				Negative("Keep").
				Value(s.confirmReset),
		),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s statsModel) updateForm(msg tea.Msg) (statsModel, tea.Cmd) {
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
		if !*s.confirmReset {
			return s, nil
		}
		return s, s.resetLogs()
	}
	return s, cmd
}

func (s statsModel) resetLogs() tea.Cmd {
	if err := s.engine.ResetLogs(); err != nil {
		return statusCmd(fmt.Sprintf("Reset failed: %v", err), true)
	}
	return func() tea.Msg { return logsResetMsg{} }
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)
	if len(s.days) == 0 {
		return
	}

	var bars []barchart.BarData
	for i, day := range s.days {
		date := s.end.AddDate(0, 0, i-len(s.days)+1)

		var values []barchart.BarValue
		for _, c := range day.Breakdown {
			values = append(values, barchart.BarValue{
				Name:  c.Label,
				Value: float64(c.Minutes) / 60,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(store.ColorFor(c.Key))),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  date.Format("Mon 02"),
			Values: values,
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Reset"), "", s.form.View()),
		)
	}

	from := s.end.AddDate(0, 0, 1-chartDays)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s to %s (hours)", from.Format("Jan 02"), s.end.Format("Jan 02, 2006"))),
	)

	nav := mutedStyle.Render("  e: export  R: reset logs")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", s.renderLegend(), "", s.renderBreakdown(w), "", nav,
		),
	)
}

func (s statsModel) renderBreakdown(w int) string {
	title := fmt.Sprintf("%s  %s", titleStyle.Render("Today"), highlightStyle.Render(formatMinutes(s.today.TotalMinutes)))
	if len(s.today.Breakdown) == 0 {
		return title + "\n" + mutedStyle.Render("  No logs today")
	}

	rows := []string{title}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-22s %10s %6s %8s", "Category", "Duration", "Share", "Logs")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 50))))
	for _, c := range s.today.Breakdown {
		rows = append(rows, fmt.Sprintf("  %s %-20s %10s %5d%% %8d",
			dot(store.ColorFor(c.Key)), c.Label, formatMinutes(c.Minutes),
			percentOf(c.Minutes, s.today.TotalMinutes), c.Count))
	}
	return strings.Join(rows, "\n")
}

func (s statsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, day := range s.days {
		for _, c := range day.Breakdown {
			if seen[c.Key] {
				continue
			}
			seen[c.Key] = true
			items = append(items, fmt.Sprintf("%s %s", dot(store.ColorFor(c.Key)), c.Label))
		}
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
