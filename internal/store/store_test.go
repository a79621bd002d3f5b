package store

import (
	"testing"
	"time"

	"github.com/sadopc/taskit/internal/habit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateTask(t *testing.T, s *Store, task Task) *Task {
	t.Helper()
	created, err := s.CreateTask(task)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func mustCreateHabit(t *testing.T, s *Store, h Habit) *Habit {
	t.Helper()
	created, err := s.CreateHabit(h)
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return created
}

func dayAgo(days int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/taskit.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateTaskDefaults(t *testing.T) {
	s := newTestStore(t)

	task := mustCreateTask(t, s, Task{Title: "Buy milk"})
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Status != StatusPending {
		t.Fatalf("status = %q, want pending", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)

	due := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	interval := 7
	created := mustCreateTask(t, s, Task{
		Title:          "Weekly review",
		Description:    "Go through the backlog",
		Priority:       PriorityHigh,
		DueDate:        &due,
		Repeating:      true,
		RepeatInterval: &interval,
	})

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Weekly review" || got.Description != "Go through the backlog" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due date = %v, want %v", got.DueDate, due)
	}
	if !got.Repeating || got.RepeatInterval == nil || *got.RepeatInterval != 7 {
		t.Fatalf("repeat fields lost: %+v", got)
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	task := mustCreateTask(t, s, Task{Title: "Draft"})

	now := time.Now().Truncate(time.Second)
	task.Title = "Final"
	task.Status = StatusCompleted
	task.CompletedAt = &now
	if err := s.UpdateTask(*task); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Title != "Final" || got.Status != StatusCompleted {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Fatalf("completed_at = %v, want %v", got.CompletedAt, now)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task := mustCreateTask(t, s, Task{Title: "Gone"})

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(task.ID); err == nil {
		t.Fatal("expected error for deleted task")
	}
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)

	early := time.Now().Add(1 * time.Hour).Truncate(time.Second)
	late := time.Now().Add(72 * time.Hour).Truncate(time.Second)

	mustCreateTask(t, s, Task{Title: "Pay rent", Priority: PriorityHigh, DueDate: &early})
	mustCreateTask(t, s, Task{Title: "Clean garage", DueDate: &late})
	done := mustCreateTask(t, s, Task{Title: "Call plumber"})
	done.Status = StatusCompleted
	s.UpdateTask(*done)

	t.Run("all", func(t *testing.T) {
		tasks, err := s.ListTasks(TaskFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
	})

	t.Run("by status", func(t *testing.T) {
		status := StatusCompleted
		tasks, _ := s.ListTasks(TaskFilter{Status: &status})
		if len(tasks) != 1 || tasks[0].Title != "Call plumber" {
			t.Fatalf("unexpected: %+v", tasks)
		}
	})

	t.Run("by priority", func(t *testing.T) {
		prio := PriorityHigh
		tasks, _ := s.ListTasks(TaskFilter{Priority: &prio})
		if len(tasks) != 1 || tasks[0].Title != "Pay rent" {
			t.Fatalf("unexpected: %+v", tasks)
		}
	})

	t.Run("due range inclusive", func(t *testing.T) {
		tasks, _ := s.ListTasks(TaskFilter{DueFrom: &early, DueTo: &early})
		if len(tasks) != 1 || tasks[0].Title != "Pay rent" {
			t.Fatalf("bounds should be inclusive: %+v", tasks)
		}
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		tasks, _ := s.ListTasks(TaskFilter{Search: "GARAGE"})
		if len(tasks) != 1 || tasks[0].Title != "Clean garage" {
			t.Fatalf("unexpected: %+v", tasks)
		}
	})

	t.Run("ordered by due date", func(t *testing.T) {
		tasks, _ := s.ListTasks(TaskFilter{})
		if tasks[0].Title != "Pay rent" || tasks[1].Title != "Clean garage" {
			t.Fatalf("unexpected order: %+v", tasks)
		}
	})
}

// ============================================================
// Categories
// ============================================================

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory(Category{Name: "Work", Color: "#6C63FF"})
	if err != nil {
		t.Fatal(err)
	}

	cat.Name = "Office"
	if err := s.UpdateCategory(*cat); err != nil {
		t.Fatal(err)
	}

	cats, _ := s.ListCategories()
	if len(cats) != 1 || cats[0].Name != "Office" {
		t.Fatalf("unexpected: %+v", cats)
	}

	if err := s.DeleteCategory(cat.ID); err != nil {
		t.Fatal(err)
	}
	cats, _ = s.ListCategories()
	if len(cats) != 0 {
		t.Fatal("category should be gone")
	}
}

func TestDeleteCategoryLeavesTasks(t *testing.T) {
	s := newTestStore(t)
	cat, _ := s.CreateCategory(Category{Name: "Errands"})
	task := mustCreateTask(t, s, Task{Title: "Post office", CategoryID: &cat.ID})

	if err := s.DeleteCategory(cat.ID); err != nil {
		t.Fatal(err)
	}

	// The task survives with its (now dangling) category reference.
	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryID == nil || *got.CategoryID != cat.ID {
		t.Fatalf("category reference should remain, got %v", got.CategoryID)
	}
}

// ============================================================
// Habits
// ============================================================

func TestCreateHabitDefaults(t *testing.T) {
	s := newTestStore(t)

	h := mustCreateHabit(t, s, Habit{Name: "Stretch"})
	if h.Frequency != habit.Daily {
		t.Fatalf("frequency = %q, want daily", h.Frequency)
	}
	if !h.Active {
		t.Fatal("new habits should be active")
	}
}

func TestListHabitsActiveOnly(t *testing.T) {
	s := newTestStore(t)
	a := mustCreateHabit(t, s, Habit{Name: "Run"})
	mustCreateHabit(t, s, Habit{Name: "Meditate"})

	a.Active = false
	if err := s.UpdateHabit(*a); err != nil {
		t.Fatal(err)
	}

	all, _ := s.ListHabits(false)
	if len(all) != 2 {
		t.Fatalf("expected 2, got %d", len(all))
	}
	active, _ := s.ListHabits(true)
	if len(active) != 1 || active[0].Name != "Meditate" {
		t.Fatalf("unexpected: %+v", active)
	}
}

func TestSearchHabits(t *testing.T) {
	s := newTestStore(t)
	mustCreateHabit(t, s, Habit{Name: "Morning run"})
	mustCreateHabit(t, s, Habit{Name: "Read", Description: "20 pages before bed"})

	got, err := s.SearchHabits("RUN")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Morning run" {
		t.Fatalf("unexpected: %+v", got)
	}

	got, _ = s.SearchHabits("pages")
	if len(got) != 1 || got[0].Name != "Read" {
		t.Fatalf("description should match: %+v", got)
	}
}

func TestCompletionLifecycle(t *testing.T) {
	s := newTestStore(t)
	h := mustCreateHabit(t, s, Habit{Name: "Journal"})

	c, err := s.AddCompletion(HabitCompletion{HabitID: h.ID, Date: dayAgo(0)})
	if err != nil {
		t.Fatal(err)
	}
	if !c.Completed {
		t.Fatal("completion should be marked completed")
	}

	got, err := s.GetCompletionForDate(h.ID, dayAgo(0))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != c.ID {
		t.Fatalf("unexpected: %+v", got)
	}

	// No completion yesterday.
	got, err = s.GetCompletionForDate(h.ID, dayAgo(1))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}

	if err := s.DeleteCompletion(c.ID); err != nil {
		t.Fatal(err)
	}
	// Deleting again is a silent no-op.
	if err := s.DeleteCompletion(c.ID); err != nil {
		t.Fatal(err)
	}
}

func TestCounterRecompute(t *testing.T) {
	s := newTestStore(t)
	h := mustCreateHabit(t, s, Habit{Name: "Stretch"})

	for _, days := range []int{0, 1, 2, 4} {
		if _, err := s.AddCompletion(HabitCompletion{HabitID: h.ID, Date: dayAgo(days)}); err != nil {
			t.Fatal(err)
		}
	}

	got, _ := s.GetHabit(h.ID)
	if got.DaysCompleted != 4 {
		t.Fatalf("days_completed = %d, want 4", got.DaysCompleted)
	}
	if got.CurrentStreak != 3 {
		t.Fatalf("current_streak = %d, want 3", got.CurrentStreak)
	}
	if got.BestStreak != 3 {
		t.Fatalf("best_streak = %d, want 3", got.BestStreak)
	}
	if got.LastCompleted == nil {
		t.Fatal("last_completed should be set")
	}

	// Deleting today's completion breaks the current streak.
	c, _ := s.GetCompletionForDate(h.ID, dayAgo(0))
	if err := s.DeleteCompletion(c.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetHabit(h.ID)
	if got.CurrentStreak != 0 {
		t.Fatalf("current_streak = %d, want 0", got.CurrentStreak)
	}
	if got.DaysCompleted != 3 {
		t.Fatalf("days_completed = %d, want 3", got.DaysCompleted)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	s := newTestStore(t)
	h := mustCreateHabit(t, s, Habit{Name: "Floss"})
	s.AddCompletion(HabitCompletion{HabitID: h.ID, Date: dayAgo(0)})

	if err := s.DeleteHabit(h.ID); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListAllCompletions()
	if err != nil {
		t.Fatal(err)
	}
	if len(all[h.ID]) != 0 {
		t.Fatalf("completions should cascade, got %d", len(all[h.ID]))
	}
}

func TestListCompletionsInRange(t *testing.T) {
	s := newTestStore(t)
	h := mustCreateHabit(t, s, Habit{Name: "Walk"})
	for _, days := range []int{0, 3, 10} {
		s.AddCompletion(HabitCompletion{HabitID: h.ID, Date: dayAgo(days)})
	}

	got, err := s.ListCompletionsInRange(dayAgo(5), dayAgo(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 in range, got %d", len(got))
	}
}

// ============================================================
// Goals
// ============================================================

func TestGoalCRUD(t *testing.T) {
	s := newTestStore(t)

	g, err := s.CreateGoal(Goal{Title: "Ship the release"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != GoalActive {
		t.Fatalf("status = %q, want active", g.Status)
	}

	g.Progress = 60
	g.Status = GoalCompleted
	if err := s.UpdateGoal(*g); err != nil {
		t.Fatal(err)
	}

	status := GoalCompleted
	goals, _ := s.ListGoals(&status)
	if len(goals) != 1 || goals[0].Progress != 60 {
		t.Fatalf("unexpected: %+v", goals)
	}

	if err := s.DeleteGoal(g.ID); err != nil {
		t.Fatal(err)
	}
	goals, _ = s.ListGoals(nil)
	if len(goals) != 0 {
		t.Fatal("goal should be gone")
	}
}

// ============================================================
// Pomodoro sessions
// ============================================================

func TestPomodoroSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.StartPomodoroSession(PomodoroSession{
		FocusMinutes: 25, BreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLB: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != PomodoroFocus {
		t.Fatalf("status = %q, want focus", rec.Status)
	}
	if rec.StartedAt == nil {
		t.Fatal("started_at should be set")
	}

	if err := s.UpdatePomodoroProgress(rec.ID, PomodoroBreak, 1, 1500); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetPomodoroSession(rec.ID)
	if got.SessionsCompleted != 1 || got.FocusSeconds != 1500 {
		t.Fatalf("progress not applied: %+v", got)
	}

	if err := s.FinishPomodoroSession(rec.ID, PomodoroDone); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetPomodoroSession(rec.ID)
	if got.Status != PomodoroDone || got.EndedAt == nil {
		t.Fatalf("finish not applied: %+v", got)
	}
}

func TestPomodoroStats(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.StartPomodoroSession(PomodoroSession{FocusMinutes: 25})
	s.UpdatePomodoroProgress(a.ID, PomodoroBreak, 2, 3000)
	b, _ := s.StartPomodoroSession(PomodoroSession{FocusMinutes: 25})
	s.UpdatePomodoroProgress(b.ID, PomodoroBreak, 1, 1500)

	sessions, focusSecs, err := s.PomodoroStats(dayAgo(1), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 3 {
		t.Fatalf("sessions = %d, want 3", sessions)
	}
	if focusSecs != 4500 {
		t.Fatalf("focus seconds = %d, want 4500", focusSecs)
	}
}

// ============================================================
// Preferences
// ============================================================

func TestPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)

	p := s.GetPreferences()
	if p.DarkMode {
		t.Fatal("dark mode should default off")
	}
	if !p.DailySummaryEnabled || p.DailySummaryTime != "08:00" {
		t.Fatalf("summary defaults wrong: %+v", p)
	}
	if p.ReminderLeadMinutes != 30 {
		t.Fatalf("reminder lead = %d, want 30", p.ReminderLeadMinutes)
	}
	if p.PomodoroFocusMin != 25 || p.PomodoroBreakMin != 5 || p.PomodoroLongMin != 15 || p.PomodoroSessions != 4 {
		t.Fatalf("pomodoro defaults wrong: %+v", p)
	}
	if p.TaskSort != "due_date" || p.TaskSortDirection != "asc" {
		t.Fatalf("sort defaults wrong: %+v", p)
	}
	if p.WeekStart != "monday" {
		t.Fatalf("week start = %q, want monday", p.WeekStart)
	}
}

func TestPartialPreferenceUpdate(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetDarkMode(true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetReminderLeadMinutes(10); err != nil {
		t.Fatal(err)
	}

	p := s.GetPreferences()
	if !p.DarkMode {
		t.Fatal("dark mode should be on")
	}
	if p.ReminderLeadMinutes != 10 {
		t.Fatalf("reminder lead = %d, want 10", p.ReminderLeadMinutes)
	}
	// Untouched fields keep their defaults.
	if p.PomodoroFocusMin != 25 || p.DailySummaryTime != "08:00" {
		t.Fatalf("unrelated fields changed: %+v", p)
	}
}

func TestSetWeekStart(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetWeekStart("sunday"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetPreferences().WeekStart; got != "sunday" {
		t.Fatalf("week start = %q, want sunday", got)
	}
}
