package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sadopc/taskit/internal/habit"
	"github.com/sadopc/taskit/internal/remind"
	"github.com/sadopc/taskit/internal/store"
	"github.com/sadopc/taskit/internal/taskview"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestScheduler(t *testing.T, s *store.Store) *remind.Scheduler {
	t.Helper()
	sched := remind.NewScheduler(s, remind.NotifierFunc(func(string, string) {}), zerolog.Nop())
	t.Cleanup(sched.Close)
	return sched
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// App view switching
// ============================================================

func TestAppTabKeys(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s, newTestScheduler(t, s))

	cases := []struct {
		key  string
		want viewState
	}{
		{"1", viewDashboard},
		{"2", viewTasks},
		{"3", viewHabits},
		{"4", viewFocus},
		{"5", viewReports},
		{"6", viewSettings},
	}
	for _, tc := range cases {
		model, _ := a.Update(keyRunes(tc.key))
		got := model.(App)
		if got.activeView != tc.want {
			t.Fatalf("key %q: view = %d, want %d", tc.key, got.activeView, tc.want)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s, newTestScheduler(t, s))

	current := a.activeView
	for i := 0; i < 6; i++ {
		model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
		a = model.(App)
		next := (current + 1) % 6
		if a.activeView != next {
			t.Fatalf("tab %d: view = %d, want %d", i, a.activeView, next)
		}
		current = next
	}
	if a.activeView != viewDashboard {
		t.Fatal("six tabs should land back on the dashboard")
	}
}

func TestAppWindowSize(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s, newTestScheduler(t, s))

	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = model.(App)
	if a.width != 120 || a.height != 40 {
		t.Fatalf("size = %dx%d, want 120x40", a.width, a.height)
	}
	if a.tasks.width != 120 || a.tasks.height != 36 {
		t.Fatalf("child size = %dx%d, want 120x36", a.tasks.width, a.tasks.height)
	}
}

func TestAppNotificationSetsStatus(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s, newTestScheduler(t, s))

	model, _ := a.Update(Notification{Title: "Task Reminder", Body: "Pay rent is due in 30 minutes"})
	a = model.(App)
	if a.status != "Task Reminder: Pay rent is due in 30 minutes" {
		t.Fatalf("status = %q", a.status)
	}
}

// ============================================================
// Export picker
// ============================================================

func TestExportPicker(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s, newTestScheduler(t, s))

	model, _ := a.Update(keyRunes("E"))
	a = model.(App)
	if !a.exportPicking {
		t.Fatal("E should open the export picker")
	}

	// Cursor moves down and stays in range.
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a = model.(App)
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a = model.(App)
	if a.exportCursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.exportCursor)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Tasks model
// ============================================================

func taskData(tasks []store.Task) tasksDataMsg {
	return tasksDataMsg{
		tasks: tasks,
		prefs: store.Preferences{TaskSort: "due_date", TaskSortDirection: "asc"},
	}
}

func TestTasksModelHidesCompleted(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)

	tasks := []store.Task{
		{ID: "a", Title: "Open", Status: store.StatusPending},
		{ID: "b", Title: "Closed", Status: store.StatusCompleted},
	}
	m, _ = m.update(taskData(tasks))
	if len(m.visible) != 1 || m.visible[0].ID != "a" {
		t.Fatalf("unexpected visible set: %+v", m.visible)
	}
}

func TestTasksModelFilterCycles(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)
	m, _ = m.update(taskData(nil))

	m, _ = m.update(keyRunes("f"))
	if m.filter != taskview.FilterToday {
		t.Fatalf("filter = %v, want today", m.filter)
	}
	for i := 0; i < 4; i++ {
		m, _ = m.update(keyRunes("f"))
	}
	if m.filter != taskview.FilterAll {
		t.Fatalf("filter should wrap back to all, got %v", m.filter)
	}
}

func TestTasksModelSearch(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)
	m, _ = m.update(taskData([]store.Task{
		{ID: "a", Title: "Water plants", Status: store.StatusPending},
		{ID: "b", Title: "File taxes", Status: store.StatusPending},
	}))

	m, _ = m.update(keyRunes("/"))
	if !m.searching {
		t.Fatal("slash should enter search mode")
	}
	m, _ = m.update(keyRunes("tax"))
	if len(m.visible) != 1 || m.visible[0].ID != "b" {
		t.Fatalf("unexpected matches: %+v", m.visible)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching || m.query != "" {
		t.Fatal("esc should clear the search")
	}
	if len(m.visible) != 2 {
		t.Fatal("clearing the search should restore the list")
	}
}

func TestToggleDoneCompletes(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)

	task, err := s.CreateTask(store.Task{Title: "One shot"})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = m.toggleDone(*task)

	got, _ := s.GetTask(task.ID)
	if got.Status != store.StatusCompleted || got.CompletedAt == nil {
		t.Fatalf("task not completed: %+v", got)
	}

	// Toggling again reopens it.
	m, _ = m.toggleDone(*got)
	got, _ = s.GetTask(task.ID)
	if got.Status != store.StatusPending || got.CompletedAt != nil {
		t.Fatalf("task not reopened: %+v", got)
	}
}

func TestToggleDoneSpawnsNextOccurrence(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)

	due := time.Now().Add(time.Hour).Truncate(time.Second)
	interval := 7
	task, err := s.CreateTask(store.Task{
		Title: "Weekly review", DueDate: &due,
		Repeating: true, RepeatInterval: &interval,
	})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = m.toggleDone(*task)

	all, _ := s.ListTasks(store.TaskFilter{})
	if len(all) != 2 {
		t.Fatalf("expected spawned occurrence, got %d tasks", len(all))
	}

	status := store.StatusPending
	pending, _ := s.ListTasks(store.TaskFilter{Status: &status})
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}
	next := pending[0]
	wantDue := due.AddDate(0, 0, 7)
	if next.DueDate == nil || !next.DueDate.Equal(wantDue) {
		t.Fatalf("next due = %v, want %v", next.DueDate, wantDue)
	}
	if !next.Repeating || next.RepeatInterval == nil || *next.RepeatInterval != 7 {
		t.Fatalf("repeat fields not carried: %+v", next)
	}
}

func TestParseDueInput(t *testing.T) {
	if _, ok := parseDueInput(""); ok {
		t.Fatal("empty input should not parse")
	}
	if _, ok := parseDueInput("not a date"); ok {
		t.Fatal("garbage should not parse")
	}
	got, ok := parseDueInput("2026-03-11 14:30")
	if !ok || got.Hour() != 14 || got.Minute() != 30 {
		t.Fatalf("unexpected: %v %v", got, ok)
	}
	got, ok = parseDueInput("2026-03-11")
	if !ok || got.Hour() != 0 {
		t.Fatalf("date-only input should parse to midnight: %v %v", got, ok)
	}
}

// ============================================================
// Habits model
// ============================================================

func TestHabitsModelFilter(t *testing.T) {
	s := newTestStore(t)
	m := newHabitsModel(s)

	habits := []store.Habit{
		{ID: "d1", Name: "Stretch", Frequency: habit.Daily},
		{ID: "w1", Name: "Review", Frequency: habit.Weekly},
	}
	m, _ = m.update(habitsDataMsg{habits: habits, completions: map[string][]store.HabitCompletion{}})
	if len(m.visible) != 2 {
		t.Fatalf("expected 2 visible, got %d", len(m.visible))
	}

	m.filter = habitFilterWeekly
	m.applyView()
	if len(m.visible) != 1 || m.visible[0].ID != "w1" {
		t.Fatalf("unexpected: %+v", m.visible)
	}
}

func TestHabitsModelDoneFilter(t *testing.T) {
	s := newTestStore(t)
	m := newHabitsModel(s)

	now := today()
	habits := []store.Habit{
		{ID: "a", Name: "Done today", Frequency: habit.Daily},
		{ID: "b", Name: "Not yet", Frequency: habit.Daily},
	}
	completions := map[string][]store.HabitCompletion{
		"a": {{ID: "c1", HabitID: "a", Date: now}},
	}
	m, _ = m.update(habitsDataMsg{habits: habits, completions: completions})

	m.filter = habitFilterCompleted
	m.applyView()
	if len(m.visible) != 1 || m.visible[0].ID != "a" {
		t.Fatalf("done filter: %+v", m.visible)
	}

	m.filter = habitFilterUncompleted
	m.applyView()
	if len(m.visible) != 1 || m.visible[0].ID != "b" {
		t.Fatalf("not-done filter: %+v", m.visible)
	}
}

func TestHabitsModelToggle(t *testing.T) {
	s := newTestStore(t)
	m := newHabitsModel(s)

	hb, err := s.CreateHabit(store.Habit{Name: "Journal"})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = m.toggle(*hb)
	c, err := s.GetCompletionForDate(hb.ID, m.selectedDate)
	if err != nil {
		t.Fatal(err)
	}
	if c == nil {
		t.Fatal("toggle should add a completion")
	}

	m, _ = m.toggle(*hb)
	c, _ = s.GetCompletionForDate(hb.ID, m.selectedDate)
	if c != nil {
		t.Fatal("second toggle should remove the completion")
	}
}

func TestHabitsModelDateNavigation(t *testing.T) {
	s := newTestStore(t)
	m := newHabitsModel(s)
	m, _ = m.update(habitsDataMsg{completions: map[string][]store.HabitCompletion{}})

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	if !sameDay(m.selectedDate, today().AddDate(0, 0, -1)) {
		t.Fatalf("left should go to yesterday, got %v", m.selectedDate)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	if !sameDay(m.selectedDate, today()) {
		t.Fatalf("right must not pass today, got %v", m.selectedDate)
	}
}

// ============================================================
// Focus model
// ============================================================

func TestFocusModelStartPersistsSession(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)

	m, _ = m.start()
	if m.sessionID == "" {
		t.Fatal("start should create a session record")
	}
	if !m.session.Running() {
		t.Fatal("session should be running")
	}

	rec, err := s.GetPomodoroSession(m.sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != store.PomodoroFocus {
		t.Fatalf("status = %q, want focus", rec.Status)
	}
	if rec.FocusMinutes != 25 || rec.SessionsBeforeLB != 4 {
		t.Fatalf("config not persisted: %+v", rec)
	}
}

func TestFocusModelCancel(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m, _ = m.start()
	id := m.sessionID

	m, _ = m.cancel()
	if m.sessionID != "" {
		t.Fatal("cancel should drop the session record id")
	}
	if m.session.Running() {
		t.Fatal("countdown should be stopped")
	}

	rec, _ := s.GetPomodoroSession(id)
	if rec.Status != store.PomodoroCancelled || rec.EndedAt == nil {
		t.Fatalf("record not closed out: %+v", rec)
	}
}

func TestConfigFromPrefs(t *testing.T) {
	cfg := configFromPrefs(store.Preferences{
		PomodoroFocusMin: 30, PomodoroBreakMin: 10,
		PomodoroLongMin: 20, PomodoroSessions: 3,
	})
	if cfg.Focus != 30*time.Minute || cfg.Break != 10*time.Minute {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.LongBreak != 20*time.Minute || cfg.Threshold != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

// ============================================================
// Formatting helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{61 * time.Second, "01:01"},
		{25 * time.Minute, "25:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.d); got != tc.want {
			t.Fatalf("formatClock(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatFocusTotal(t *testing.T) {
	if got := formatFocusTotal(30 * 60); got != "30m" {
		t.Fatalf("got %q", got)
	}
	if got := formatFocusTotal(65 * 60); got != "1h 05m" {
		t.Fatalf("got %q", got)
	}
}

func TestParseWeekStart(t *testing.T) {
	if parseWeekStart("sunday") != time.Sunday {
		t.Fatal("sunday")
	}
	if parseWeekStart("monday") != time.Monday {
		t.Fatal("monday")
	}
	if parseWeekStart("bogus") != time.Monday {
		t.Fatal("fallback should be monday")
	}
}
