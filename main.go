package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sadopc/taskit/internal/remind"
	"github.com/sadopc/taskit/internal/store"
	"github.com/sadopc/taskit/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	log := newLogger(filepath.Join(filepath.Dir(dbPath), "taskit.log"))

	// The TUI owns the terminal, so notifications are injected into the
	// running program. The program handle is bound after construction.
	var (
		mu      sync.Mutex
		program *tea.Program
	)
	notifier := remind.NotifierFunc(func(title, body string) {
		mu.Lock()
		p := program
		mu.Unlock()
		if p != nil {
			p.Send(tui.Notification{Title: title, Body: body})
		}
	})

	sched := remind.NewScheduler(s, notifier, log)
	defer sched.Close()
	sched.ScheduleDailySummary()
	scheduleExistingReminders(s, sched)

	app := tui.NewApp(s, sched)
	p := tea.NewProgram(app, tea.WithAltScreen())
	mu.Lock()
	program = p
	mu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) zerolog.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// No log file, no logging; the TUI can't use stderr anyway.
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}

// scheduleExistingReminders re-arms reminders for pending tasks after a
// restart. Timers only live in-process.
func scheduleExistingReminders(s *store.Store, sched *remind.Scheduler) {
	status := store.StatusPending
	tasks, err := s.ListTasks(store.TaskFilter{Status: &status})
	if err != nil {
		return
	}
	for _, t := range tasks {
		sched.ScheduleTaskReminder(t)
	}
}
