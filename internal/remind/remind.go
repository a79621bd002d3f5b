// Package remind derives wake times from task due dates and user preference
// offsets, and turns them into user-visible notifications. Timers are
// in-process; a reminder firing for a task that has since been deleted or
// completed is a silent no-op.
package remind

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/taskit/internal/store"
)

// Notifier delivers a user-visible notification. The TUI implementation
// surfaces it in the status bar; tests substitute a recorder.
type Notifier interface {
	Notify(title, body string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Notify(title, body string) { f(title, body) }

// Scheduler owns the one-shot task reminders and the recurring daily
// summary. All timers are released on Close.
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	summary *time.Timer
	closed  bool
}

func NewScheduler(s *store.Store, n Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:    s,
		notifier: n,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

// ReminderAt computes when a reminder should fire for a due time.
func ReminderAt(due time.Time, leadMinutes int) time.Time {
	return due.Add(-time.Duration(leadMinutes) * time.Minute)
}

// ScheduleTaskReminder arms a one-shot reminder at due minus the preference
// lead, replacing any prior reminder for the task. It is a no-op when the
// task has no due date, is already completed, or the reminder time has
// already passed.
func (s *Scheduler) ScheduleTaskReminder(t store.Task) {
	s.CancelTaskReminder(t.ID)

	if t.DueDate == nil || t.Status == store.StatusCompleted {
		return
	}

	lead := s.store.GetPreferences().ReminderLeadMinutes
	at := ReminderAt(*t.DueDate, lead)
	delay := time.Until(at)
	if delay <= 0 {
		s.log.Debug().Str("task", t.ID).Time("at", at).Msg("reminder time already passed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	taskID := t.ID
	s.timers[taskID] = time.AfterFunc(delay, func() { s.fireTaskReminder(taskID) })
}

// CancelTaskReminder drops any pending reminder for the task id.
func (s *Scheduler) CancelTaskReminder(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
}

func (s *Scheduler) fireTaskReminder(taskID string) {
	s.mu.Lock()
	delete(s.timers, taskID)
	s.mu.Unlock()

	t, err := s.store.GetTask(taskID)
	if err != nil {
		// Task was deleted after scheduling; nothing to say.
		s.log.Debug().Str("task", taskID).Msg("reminder fired for missing task")
		return
	}
	if t.Status == store.StatusCompleted {
		return
	}

	s.notifier.Notify("Task Reminder", TaskReminderText(*t, time.Now()))
}

// ScheduleDailySummary arms (or re-arms) the recurring summary notification
// at the preference time. Call it again after any preference change; it is
// disabled entirely while the daily-summary flag is off.
func (s *Scheduler) ScheduleDailySummary() {
	s.mu.Lock()
	if s.summary != nil {
		s.summary.Stop()
		s.summary = nil
	}
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	prefs := s.store.GetPreferences()
	if !prefs.DailySummaryEnabled {
		s.log.Debug().Msg("daily summary disabled")
		return
	}

	at, err := NextSummaryTime(prefs.DailySummaryTime, time.Now())
	if err != nil {
		s.log.Error().Err(err).Str("time", prefs.DailySummaryTime).Msg("bad daily summary time")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = time.AfterFunc(time.Until(at), s.fireDailySummary)
}

func (s *Scheduler) fireDailySummary() {
	completed, pending, err := s.todayCounts()
	if err != nil {
		s.log.Error().Err(err).Msg("daily summary query failed")
	} else {
		s.notifier.Notify("Daily Summary", SummaryText(completed, pending))
	}
	// Re-arm for tomorrow.
	s.ScheduleDailySummary()
}

func (s *Scheduler) todayCounts() (completed, pending int, err error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Second)
	tasks, err := s.store.ListTasks(store.TaskFilter{DueFrom: &start, DueTo: &end})
	if err != nil {
		return 0, 0, err
	}
	for _, t := range tasks {
		if t.Status == store.StatusCompleted {
			completed++
		} else {
			pending++
		}
	}
	return completed, pending, nil
}

// Close stops every pending timer. Safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	if s.summary != nil {
		s.summary.Stop()
		s.summary = nil
	}
}

// NextSummaryTime resolves a "15:04" clock value to its next occurrence
// strictly after now.
func NextSummaryTime(clock string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse summary time %q: %w", clock, err)
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// TaskReminderText phrases how close a task is to its due time.
func TaskReminderText(t store.Task, now time.Time) string {
	if t.DueDate == nil {
		return t.Title
	}
	minutes := int(t.DueDate.Sub(now).Minutes())
	switch {
	case minutes < 0:
		return fmt.Sprintf("%s is overdue by %d minutes", t.Title, -minutes)
	case minutes == 0:
		return fmt.Sprintf("%s is due now", t.Title)
	default:
		return fmt.Sprintf("%s is due in %d minutes", t.Title, minutes)
	}
}

// SummaryText phrases the same-day completed/pending counts.
func SummaryText(completed, pending int) string {
	total := completed + pending
	if total == 0 {
		return "You have no tasks scheduled for today"
	}
	text := fmt.Sprintf("Today's summary: %d/%d tasks completed", completed, total)
	if pending > 0 {
		text += fmt.Sprintf(", %d pending", pending)
	}
	return text
}
