package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/report"
	"github.com/sadopc/taskit/internal/store"
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	period    report.Period
	anchor    time.Time
	weekStart time.Weekday

	taskStats  report.TaskStats
	habitStats report.HabitStats
	sessions   int
	focusSecs  int64

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store:     s,
		period:    report.PeriodWeek,
		anchor:    today(),
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	taskStats  report.TaskStats
	habitStats report.HabitStats
	sessions   int
	focusSecs  int64
	weekStart  time.Weekday
}

func (r reportsModel) refresh() tea.Cmd {
	period, anchor := r.period, r.anchor
	return func() tea.Msg {
		weekStart := parseWeekStart(r.store.GetPreferences().WeekStart)
		now := time.Now()

		tasks, _ := r.store.ListTasks(store.TaskFilter{})
		habits, _ := r.store.ListHabits(true)
		completions, _ := r.store.ListAllCompletions()

		from, to := report.RangeForPeriod(period, anchor, weekStart)
		sessions, focusSecs, _ := r.store.PomodoroStats(from, to.Add(24*time.Hour-time.Second))

		return reportsDataMsg{
			taskStats:  report.ComputeTaskStats(tasks, period, anchor, now, weekStart),
			habitStats: report.ComputeHabitStats(habits, completions, period, anchor, now, weekStart),
			sessions:   sessions,
			focusSecs:  focusSecs,
			weekStart:  weekStart,
		}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.taskStats = msg.taskStats
		r.habitStats = msg.habitStats
		r.sessions = msg.sessions
		r.focusSecs = msg.focusSecs
		r.weekStart = msg.weekStart
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.anchor = r.shiftAnchor(-1)
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			r.anchor = r.shiftAnchor(1)
			return r, r.refresh()
		case key.Matches(msg, keys.Filter):
			r.period = (r.period + 1) % 4
			r.anchor = today()
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) shiftAnchor(dir int) time.Time {
	switch r.period {
	case report.PeriodWeek:
		return r.anchor.AddDate(0, 0, 7*dir)
	case report.PeriodMonth:
		return r.anchor.AddDate(0, dir, 0)
	case report.PeriodYear:
		return r.anchor.AddDate(dir, 0, 0)
	default:
		return r.anchor.AddDate(0, 0, dir)
	}
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	r.chart = barchart.New(chartWidth, 10)

	from, to := report.RangeForPeriod(r.period, r.anchor, r.weekStart)

	taskStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	habitStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	var bars []barchart.BarData
	if r.period == report.PeriodYear {
		// One bar per month; per-day bars would not fit.
		for m := time.January; m <= time.December; m++ {
			var tasksDone, habitsDone float64
			for key, n := range r.taskStats.CompletedByDay {
				if d, err := time.Parse("2006-01-02", key); err == nil && d.Month() == m {
					tasksDone += float64(n)
				}
			}
			for key, n := range r.habitStats.CompletionsByDay {
				if d, err := time.Parse("2006-01-02", key); err == nil && d.Month() == m {
					habitsDone += float64(n)
				}
			}
			bars = append(bars, barchart.BarData{
				Label: time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC).Format("Jan"),
				Values: []barchart.BarValue{
					{Name: "tasks", Value: tasksDone, Style: taskStyle},
					{Name: "habits", Value: habitsDone, Style: habitStyle},
				},
			})
		}
	} else {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			bars = append(bars, barchart.BarData{
				Label: d.Format("02"),
				Values: []barchart.BarValue{
					{Name: "tasks", Value: float64(r.taskStats.CompletedByDay[key]), Style: taskStyle},
					{Name: "habits", Value: float64(r.habitStats.CompletionsByDay[key]), Style: habitStyle},
				},
			})
		}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for p := report.PeriodDay; p <= report.PeriodYear; p++ {
		if p == r.period {
			tabs = append(tabs, activeTabStyle.Render(p.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(p.String()))
		}
	}
	periodTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	from, to := report.RangeForPeriod(r.period, r.anchor, r.weekStart)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", periodTabs, "  ", dateLabel)

	legend := fmt.Sprintf("  %s tasks completed  %s habit completions",
		lipgloss.NewStyle().Foreground(colorPrimary).Render("●"),
		successStyle.Render("●"))

	nav := mutedStyle.Render("  ←/→: navigate  f: switch period")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), legend, "",
			r.renderTaskStats(), "", r.renderHabitStats(), "", nav,
		),
	)
}

func (r reportsModel) renderTaskStats() string {
	s := r.taskStats
	var rows []string
	rows = append(rows, titleStyle.Render("Tasks"))
	rows = append(rows, fmt.Sprintf("  %s %d   %s %d   %s %d   %s %d",
		mutedStyle.Render("total"), s.Total,
		successStyle.Render("done"), s.CompletedCount,
		warningStyle.Render("pending"), s.PendingCount,
		errorStyle.Render("overdue"), s.OverdueCount,
	))
	rows = append(rows, fmt.Sprintf("  %s %.0f%%   %s %.0f min",
		mutedStyle.Render("completion"), s.CompletionRate*100,
		mutedStyle.Render("avg time to complete"), s.AvgCompletionMinutes,
	))
	rows = append(rows, fmt.Sprintf("  %s %d sessions · %s",
		mutedStyle.Render("focus"), r.sessions, formatFocusTotal(r.focusSecs),
	))
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderHabitStats() string {
	s := r.habitStats
	var rows []string
	rows = append(rows, titleStyle.Render("Habits"))
	rows = append(rows, fmt.Sprintf("  %s %d (%d daily, %d weekly, %d monthly)",
		mutedStyle.Render("tracked"), s.TotalHabits, s.DailyHabits, s.WeeklyHabits, s.MonthlyHabits,
	))
	rows = append(rows, fmt.Sprintf("  %s %.0f%%   %s %d   %s %d days",
		mutedStyle.Render("completion"), s.CompletionRatio*100,
		mutedStyle.Render("best streak"), s.BestStreak,
		mutedStyle.Render("current streak"), s.CurrentStreak,
	))
	return strings.Join(rows, "\n")
}
