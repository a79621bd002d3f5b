package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/remind"
	"github.com/sadopc/taskit/internal/store"
)

type settingsModel struct {
	store  *store.Store
	sched  *remind.Scheduler
	width  int
	height int

	prefs      store.Preferences
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	darkMode       *bool
	summaryEnabled *bool
	summaryTime    *string
	reminderLead   *string
	sound          *bool
	vibration      *bool
	showCompleted  *bool
	taskView       *string
	taskSort       *string
	sortDirection  *string
	weekStart      *string
}

func newSettingsModel(s *store.Store, sched *remind.Scheduler) settingsModel {
	dm, se, snd, vib, sc := false, false, false, false, false
	st, rl, tv, ts, sd, ws := "", "", "", "", "", ""
	return settingsModel{
		store:          s,
		sched:          sched,
		darkMode:       &dm,
		summaryEnabled: &se,
		summaryTime:    &st,
		reminderLead:   &rl,
		sound:          &snd,
		vibration:      &vib,
		showCompleted:  &sc,
		taskView:       &tv,
		taskSort:       &ts,
		sortDirection:  &sd,
		weekStart:      &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	prefs store.Preferences
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{prefs: s.store.GetPreferences()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.prefs = msg.prefs
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.prefs
	*s.darkMode = p.DarkMode
	*s.summaryEnabled = p.DailySummaryEnabled
	*s.summaryTime = p.DailySummaryTime
	*s.reminderLead = strconv.Itoa(p.ReminderLeadMinutes)
	*s.sound = p.NotificationSound
	*s.vibration = p.Vibration
	*s.showCompleted = p.ShowCompletedTasks
	*s.taskView = p.TaskView
	*s.taskSort = p.TaskSort
	*s.sortDirection = p.TaskSortDirection
	*s.weekStart = p.WeekStart

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Dark mode").Value(s.darkMode),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
		huh.NewGroup(
			huh.NewConfirm().Title("Daily summary").Value(s.summaryEnabled),
			huh.NewInput().Title("Summary time (HH:MM)").Value(s.summaryTime),
			huh.NewInput().Title("Reminder lead (min)").Value(s.reminderLead),
			huh.NewConfirm().Title("Notification sound").Value(s.sound),
			huh.NewConfirm().Title("Vibration").Value(s.vibration),
		).Title("Notifications"),
		huh.NewGroup(
			huh.NewConfirm().Title("Show completed tasks").Value(s.showCompleted),
			huh.NewSelect[string]().Title("Task view").
				Options(
					huh.NewOption("List", "list"),
					huh.NewOption("Grid", "grid"),
					huh.NewOption("Calendar", "calendar"),
				).Value(s.taskView),
			huh.NewSelect[string]().Title("Sort by").
				Options(
					huh.NewOption("Due date", "due_date"),
					huh.NewOption("Title", "title"),
					huh.NewOption("Priority", "priority"),
					huh.NewOption("Created", "creation_date"),
					huh.NewOption("Category", "category"),
				).Value(s.taskSort),
			huh.NewSelect[string]().Title("Direction").
				Options(
					huh.NewOption("Ascending", "asc"),
					huh.NewOption("Descending", "desc"),
				).Value(s.sortDirection),
		).Title("Tasks"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
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
		s.savePrefs()
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return statusMsg{text: "Preferences saved"}
		})
	}

	return s, cmd
}

func (s settingsModel) savePrefs() {
	s.store.SetDarkMode(*s.darkMode)
	s.store.SetDailySummaryEnabled(*s.summaryEnabled)
	if _, err := remind.NextSummaryTime(*s.summaryTime, today()); err == nil {
		s.store.SetDailySummaryTime(*s.summaryTime)
	}
	if lead, err := strconv.Atoi(*s.reminderLead); err == nil && lead >= 0 {
		s.store.SetReminderLeadMinutes(lead)
	}
	s.store.SetNotificationSound(*s.sound)
	s.store.SetVibration(*s.vibration)
	s.store.SetShowCompletedTasks(*s.showCompleted)
	s.store.SetTaskView(*s.taskView)
	s.store.SetTaskSort(*s.taskSort)
	s.store.SetTaskSortDirection(*s.sortDirection)
	s.store.SetWeekStart(*s.weekStart)

	// Summary timer depends on the time and enabled flag; re-arm it.
	if s.sched != nil {
		s.sched.ScheduleDailySummary()
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	p := s.prefs
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		settingRow("Dark mode", onOff(p.DarkMode)),
		settingRow("Week starts on", p.WeekStart),
		"",
		settingRow("Daily summary", onOff(p.DailySummaryEnabled)),
		settingRow("Summary time", p.DailySummaryTime),
		settingRow("Reminder lead", fmt.Sprintf("%d min", p.ReminderLeadMinutes)),
		settingRow("Notification sound", onOff(p.NotificationSound)),
		settingRow("Vibration", onOff(p.Vibration)),
		"",
		settingRow("Show completed tasks", onOff(p.ShowCompletedTasks)),
		settingRow("Task view", p.TaskView),
		settingRow("Sort by", p.TaskSort+" ("+p.TaskSortDirection+")"),
		"",
		settingRow("Pomodoro", fmt.Sprintf("%d/%d/%d min × %d",
			p.PomodoroFocusMin, p.PomodoroBreakMin, p.PomodoroLongMin, p.PomodoroSessions)),
		"",
		mutedStyle.Render("Press enter to edit. Pomodoro durations are edited in the Focus view."),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(24).Render(label),
		highlightStyle.Render(value))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
