package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/pomodoro"
	"github.com/sadopc/taskit/internal/store"
)

type focusModel struct {
	store  *store.Store
	width  int
	height int

	session   *pomodoro.Session
	sessionID string // persisted session record, "" while idle

	taskID    *string
	taskTitle string

	picking      bool
	pickerCursor int
	pickerTasks  []store.Task

	todaySessions int
	todayFocus    int64

	formActive bool
	form       *huh.Form

	formFocus     *string
	formBreak     *string
	formLongBreak *string
	formSessions  *string
}

func newFocusModel(s *store.Store) focusModel {
	prefs := s.GetPreferences()
	f, b, lb, n := "", "", "", ""
	return focusModel{
		store:         s,
		session:       pomodoro.NewSession(pomodoro.SystemClock{}, configFromPrefs(prefs)),
		formFocus:     &f,
		formBreak:     &b,
		formLongBreak: &lb,
		formSessions:  &n,
	}
}

func configFromPrefs(p store.Preferences) pomodoro.Config {
	return pomodoro.Config{
		Focus:     time.Duration(p.PomodoroFocusMin) * time.Minute,
		Break:     time.Duration(p.PomodoroBreakMin) * time.Minute,
		LongBreak: time.Duration(p.PomodoroLongMin) * time.Minute,
		Threshold: p.PomodoroSessions,
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

type focusDataMsg struct {
	tasks    []store.Task
	sessions int
	focus    int64
}

func (f focusModel) refresh() tea.Cmd {
	return func() tea.Msg {
		status := store.StatusPending
		tasks, _ := f.store.ListTasks(store.TaskFilter{Status: &status})
		from := today()
		sessions, focus, _ := f.store.PomodoroStats(from, from.Add(24*time.Hour-time.Second))
		return focusDataMsg{tasks: tasks, sessions: sessions, focus: focus}
	}
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	switch msg := msg.(type) {
	case focusDataMsg:
		f.pickerTasks = msg.tasks
		f.todaySessions = msg.sessions
		f.todayFocus = msg.focus
		return f, nil

	case tickMsg:
		if f.session.Tick() {
			return f.onPhaseComplete()
		}
		return f, nil

	case tea.KeyMsg:
		if f.picking {
			return f.updatePicker(msg)
		}
		return f.updateKeys(msg)
	}
	return f, nil
}

func (f focusModel) updateKeys(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		return f.start()
	case key.Matches(msg, keys.Pause):
		if f.session.Running() {
			f.session.Pause()
			f.persistProgress(store.PomodoroPaused)
		} else if f.session.Paused() {
			f.session.Resume()
			f.persistProgress(phaseStatus(f.session.Phase()))
		}
		return f, nil
	case key.Matches(msg, keys.Skip):
		if f.session.Running() || f.session.Paused() {
			f.session.Skip()
			f.persistProgress(phaseStatus(f.session.Phase()))
			return f, f.refresh()
		}
	case key.Matches(msg, keys.Cancel):
		return f.cancel()
	case key.Matches(msg, keys.Edit):
		return f.showDurationForm()
	default:
		if msg.String() == "t" && !f.session.Running() {
			f.picking = true
			f.pickerCursor = 0
			return f, f.refresh()
		}
	}
	return f, nil
}

func (f focusModel) updatePicker(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.pickerCursor > 0 {
			f.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickerCursor < len(f.pickerTasks)-1 {
			f.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(f.pickerTasks) > 0 {
			t := f.pickerTasks[f.pickerCursor]
			id := t.ID
			f.taskID = &id
			f.taskTitle = t.Title
		}
		f.picking = false
	case key.Matches(msg, keys.Back):
		f.picking = false
	}
	return f, nil
}

func (f focusModel) start() (focusModel, tea.Cmd) {
	if f.session.Running() {
		return f, nil
	}
	if f.session.Paused() {
		f.session.Resume()
		return f, nil
	}

	if f.sessionID == "" {
		cfg := f.session.Config()
		rec, err := f.store.StartPomodoroSession(store.PomodoroSession{
			TaskID:           f.taskID,
			FocusMinutes:     int(cfg.Focus.Minutes()),
			BreakMinutes:     int(cfg.Break.Minutes()),
			LongBreakMinutes: int(cfg.LongBreak.Minutes()),
			SessionsBeforeLB: cfg.Threshold,
		})
		if err != nil {
			return f, errStatus(err)
		}
		f.sessionID = rec.ID
	}

	f.session.Start(f.taskID)
	f.persistProgress(phaseStatus(f.session.Phase()))
	return f, nil
}

func (f focusModel) cancel() (focusModel, tea.Cmd) {
	if f.sessionID != "" {
		f.store.FinishPomodoroSession(f.sessionID, store.PomodoroCancelled)
		f.sessionID = ""
	}
	f.session.Cancel()
	f.taskID = nil
	f.taskTitle = ""
	return f, tea.Batch(f.refresh(), func() tea.Msg {
		return statusMsg{text: "Focus session cancelled"}
	})
}

// onPhaseComplete fires when a countdown reaches zero. The next phase is
// armed but waits for an explicit start.
func (f focusModel) onPhaseComplete() (focusModel, tea.Cmd) {
	f.persistProgress(phaseStatus(f.session.Phase()))

	text := "Break over — ready for the next focus round"
	if f.session.Phase() != pomodoro.PhaseFocus {
		text = fmt.Sprintf("Focus complete! Time for a %s", strings.ToLower(f.session.Phase().String()))
	}
	if f.store.GetPreferences().NotificationSound {
		text += " \a"
	}
	return f, tea.Batch(f.refresh(), func() tea.Msg { return statusMsg{text: text} })
}

func (f *focusModel) persistProgress(status store.PomodoroStatus) {
	if f.sessionID == "" {
		return
	}
	f.store.UpdatePomodoroProgress(f.sessionID, status, f.session.CompletedFocus(), f.session.FocusSeconds())
}

func phaseStatus(p pomodoro.Phase) store.PomodoroStatus {
	switch p {
	case pomodoro.PhaseBreak:
		return store.PomodoroBreak
	case pomodoro.PhaseLongBreak:
		return store.PomodoroLongBreak
	default:
		return store.PomodoroFocus
	}
}

func (f focusModel) showDurationForm() (focusModel, tea.Cmd) {
	if f.session.Running() {
		return f, func() tea.Msg {
			return statusMsg{text: "Stop the timer before changing durations", isError: true}
		}
	}

	cfg := f.session.Config()
	*f.formFocus = strconv.Itoa(int(cfg.Focus.Minutes()))
	*f.formBreak = strconv.Itoa(int(cfg.Break.Minutes()))
	*f.formLongBreak = strconv.Itoa(int(cfg.LongBreak.Minutes()))
	*f.formSessions = strconv.Itoa(cfg.Threshold)

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(f.formFocus),
			huh.NewInput().Title("Break (min)").Value(f.formBreak),
			huh.NewInput().Title("Long break (min)").Value(f.formLongBreak),
			huh.NewInput().Title("Sessions before long break").Value(f.formSessions),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		f.saveDurations()
		return f, func() tea.Msg { return statusMsg{text: "Timer durations saved"} }
	}
	return f, cmd
}

// saveDurations applies the edits to the live session (clamped there) and
// persists the accepted values.
func (f *focusModel) saveDurations() {
	if v, err := strconv.Atoi(*f.formFocus); err == nil {
		f.store.SetPomodoroFocusMin(f.session.SetFocusMinutes(v))
	}
	if v, err := strconv.Atoi(*f.formBreak); err == nil {
		f.store.SetPomodoroBreakMin(f.session.SetBreakMinutes(v))
	}
	if v, err := strconv.Atoi(*f.formLongBreak); err == nil {
		f.store.SetPomodoroLongMin(f.session.SetLongBreakMinutes(v))
	}
	if v, err := strconv.Atoi(*f.formSessions); err == nil {
		f.store.SetPomodoroSessions(f.session.SetThreshold(v))
	}
}

func (f focusModel) view() string {
	w := f.width - 4

	if f.formActive && f.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Timer Durations"), "", f.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if f.picking {
		return f.renderTaskPicker(w)
	}

	title := titleStyle.Render("Focus")

	var timeDisplay, phaseLabel, indicator string
	remaining := f.session.Remaining()

	switch {
	case f.session.Running():
		style := accentStyle
		if f.session.Phase() != pomodoro.PhaseFocus {
			style = successStyle
		}
		timeDisplay = style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatClock(remaining))
		phaseLabel = style.Bold(true).Render(strings.ToUpper(f.session.Phase().String()))
		indicator = f.renderProgress()
	case f.session.Paused():
		timeDisplay = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatClock(remaining))
		phaseLabel = warningStyle.Bold(true).Render("PAUSED — " + strings.ToUpper(f.session.Phase().String()))
		indicator = f.renderProgress()
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(remaining))
		phaseLabel = mutedStyle.Render("Ready — " + f.session.Phase().String())
		indicator = mutedStyle.Render("Press s to start")
	}

	taskLine := ""
	if f.taskTitle != "" {
		taskLine = highlightStyle.Render("Task: " + f.taskTitle)
	}

	statsLine := mutedStyle.Render(fmt.Sprintf("Today: %d sessions · %s focused",
		f.todaySessions, formatFocusTotal(f.todayFocus)))

	controls := mutedStyle.Render("s: start  p: pause  k: skip  x: cancel  e: durations  t: pick task")

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", timeDisplay, phaseLabel, "", indicator, taskLine, "", statsLine, "", controls)

	if f.session.Running() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (f focusModel) renderProgress() string {
	threshold := f.session.Config().Threshold
	done := f.session.CompletedFocus() % threshold
	if done == 0 && f.session.CompletedFocus() > 0 && f.session.Phase() == pomodoro.PhaseLongBreak {
		done = threshold
	}

	var parts []string
	for i := 0; i < threshold; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && f.session.Phase() == pomodoro.PhaseFocus:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", f.session.CompletedFocus()))
	return strings.Join(parts, " ") + counter
}

func (f focusModel) renderTaskPicker(w int) string {
	title := titleStyle.Render("Bind a Task")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	if len(f.pickerTasks) == 0 {
		rows = append(rows, mutedStyle.Render("No pending tasks."))
	}
	for i, t := range f.pickerTasks {
		cursor := "  "
		style := normalItemStyle
		if i == f.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+t.Title))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
