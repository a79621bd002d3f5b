package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/remind"
	"github.com/sadopc/taskit/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	sched  *remind.Scheduler
	width  int
	height int

	todayTasks []store.Task
	overdue    int
	habits     []store.Habit
	doneToday  map[string]bool
	sessions   int
	focusSecs  int64

	cursor int
}

func newDashboardModel(s *store.Store, sched *remind.Scheduler) dashboardModel {
	return dashboardModel{store: s, sched: sched}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	todayTasks []store.Task
	overdue    int
	habits     []store.Habit
	doneToday  map[string]bool
	sessions   int
	focusSecs  int64
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		start := today()
		end := start.Add(24*time.Hour - time.Second)
		now := time.Now()

		todayTasks, _ := d.store.ListTasks(store.TaskFilter{DueFrom: &start, DueTo: &end})

		overdue := 0
		all, _ := d.store.ListTasks(store.TaskFilter{})
		for _, t := range all {
			if t.Status != store.StatusCompleted && t.DueDate != nil && t.DueDate.Before(now) {
				overdue++
			}
		}

		habits, _ := d.store.ListHabits(true)
		doneToday := make(map[string]bool, len(habits))
		for _, h := range habits {
			c, _ := d.store.GetCompletionForDate(h.ID, start)
			doneToday[h.ID] = c != nil
		}

		sessions, focusSecs, _ := d.store.PomodoroStats(start, end)

		return dashboardDataMsg{
			todayTasks: todayTasks,
			overdue:    overdue,
			habits:     habits,
			doneToday:  doneToday,
			sessions:   sessions,
			focusSecs:  focusSecs,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayTasks = msg.todayTasks
		d.overdue = msg.overdue
		d.habits = msg.habits
		d.doneToday = msg.doneToday
		d.sessions = msg.sessions
		d.focusSecs = msg.focusSecs
		if d.cursor >= len(d.todayTasks) {
			d.cursor = max(0, len(d.todayTasks)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.todayTasks)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(d.todayTasks) > 0 {
				return d.toggleTask(d.todayTasks[d.cursor])
			}
		}
	}
	return d, nil
}

func (d dashboardModel) toggleTask(task store.Task) (dashboardModel, tea.Cmd) {
	if task.Status == store.StatusCompleted {
		task.Status = store.StatusPending
		task.CompletedAt = nil
	} else {
		now := time.Now()
		task.Status = store.StatusCompleted
		task.CompletedAt = &now
	}
	if err := d.store.UpdateTask(task); err != nil {
		return d, errStatus(err)
	}
	if d.sched != nil {
		if task.Status == store.StatusCompleted {
			d.sched.CancelTaskReminder(task.ID)
		} else {
			d.sched.ScheduleTaskReminder(task)
		}
	}
	return d, d.loadData()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderSummaryPanel(w),
		d.renderTasksPanel(w),
		d.renderHabitsPanel(w),
	)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	completed, pending := 0, 0
	for _, t := range d.todayTasks {
		if t.Status == store.StatusCompleted {
			completed++
		} else {
			pending++
		}
	}

	title := titleStyle.Render(time.Now().Format("Monday, January 2"))
	summary := highlightStyle.Render(remind.SummaryText(completed, pending))

	extras := []string{
		fmt.Sprintf("%s %d", mutedStyle.Render("overdue"), d.overdue),
		fmt.Sprintf("%s %d sessions · %s", mutedStyle.Render("focus"), d.sessions, formatFocusTotal(d.focusSecs)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title, summary, "  "+strings.Join(extras, "   "))
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTasksPanel(w int) string {
	title := titleStyle.Render("Due Today")

	if len(d.todayTasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Nothing due today")))
	}

	var rows []string
	rows = append(rows, title)
	for i, t := range d.todayTasks {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := "○"
		if t.Status == store.StatusCompleted {
			status = successStyle.Render("✓")
		}
		due := ""
		if t.DueDate != nil {
			due = mutedStyle.Render(t.DueDate.Local().Format("15:04"))
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s  %s",
			cursor, status, priorityDot(t.Priority), style.Render(t.Title), due))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderHabitsPanel(w int) string {
	title := titleStyle.Render("Habits Today")

	if len(d.habits) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No habits tracked yet")))
	}

	done := 0
	var rows []string
	rows = append(rows, title)
	for _, h := range d.habits {
		check := mutedStyle.Render("○")
		if d.doneToday[h.ID] {
			check = successStyle.Render("✓")
			done++
		}
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
		streak := ""
		if h.CurrentStreak > 0 {
			streak = mutedStyle.Render(fmt.Sprintf("  %d day streak", h.CurrentStreak))
		}
		rows = append(rows, fmt.Sprintf("  %s %s %s%s", check, colorDot, h.Name, streak))
	}
	rows[0] = title + "  " + mutedStyle.Render(fmt.Sprintf("%d/%d", done, len(d.habits)))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
