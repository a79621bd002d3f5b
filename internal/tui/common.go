package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewHabits
	viewFocus
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Habits", "Focus", "Reports", "Settings"}

// --- Messages ---

// Notification is sent into the program from outside goroutines, typically
// by the reminder scheduler.
type Notification struct {
	Title string
	Body  string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type taskSavedMsg struct{}
type habitSavedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatFocusTotal(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Local().Format("Jan 02 15:04")
}

func parseWeekStart(v string) time.Weekday {
	if v == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
