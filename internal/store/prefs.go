package store

import (
	"fmt"
	"strconv"
)

// Preference keys. Defaults are seeded by the v1 migration, so a read never
// observes a missing key on a healthy database; the fallbacks below only
// matter for databases that predate a key.
const (
	prefDarkMode            = "dark_mode"
	prefDailySummaryEnabled = "daily_summary_enabled"
	prefDailySummaryTime    = "daily_summary_time"
	prefReminderLead        = "reminder_lead_minutes"
	prefTaskDuration        = "task_duration_minutes"
	prefPomodoroFocus       = "pomodoro_focus"
	prefPomodoroBreak       = "pomodoro_break"
	prefPomodoroLongBreak   = "pomodoro_long_break"
	prefPomodoroSessions    = "pomodoro_sessions"
	prefNotificationSound   = "notification_sound"
	prefVibration           = "vibration"
	prefShowCompleted       = "show_completed"
	prefTaskView            = "task_view"
	prefTaskSort            = "task_sort"
	prefTaskSortDirection   = "task_sort_direction"
	prefWeekStart           = "week_start"
)

func (s *Store) getPref(key, fallback string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Store) setPref(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

func (s *Store) getPrefBool(key string, fallback bool) bool {
	return s.getPref(key, boolVal(fallback)) == "1"
}

func (s *Store) getPrefInt(key string, fallback int) int {
	v, err := strconv.Atoi(s.getPref(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// GetPreferences reads the whole settings record in one shot.
func (s *Store) GetPreferences() Preferences {
	return Preferences{
		DarkMode:            s.getPrefBool(prefDarkMode, false),
		DailySummaryEnabled: s.getPrefBool(prefDailySummaryEnabled, true),
		DailySummaryTime:    s.getPref(prefDailySummaryTime, "08:00"),
		ReminderLeadMinutes: s.getPrefInt(prefReminderLead, 30),
		TaskDurationMinutes: s.getPrefInt(prefTaskDuration, 60),
		PomodoroFocusMin:    s.getPrefInt(prefPomodoroFocus, 25),
		PomodoroBreakMin:    s.getPrefInt(prefPomodoroBreak, 5),
		PomodoroLongMin:     s.getPrefInt(prefPomodoroLongBreak, 15),
		PomodoroSessions:    s.getPrefInt(prefPomodoroSessions, 4),
		NotificationSound:   s.getPrefBool(prefNotificationSound, true),
		Vibration:           s.getPrefBool(prefVibration, true),
		ShowCompletedTasks:  s.getPrefBool(prefShowCompleted, false),
		TaskView:            s.getPref(prefTaskView, "list"),
		TaskSort:            s.getPref(prefTaskSort, "due_date"),
		TaskSortDirection:   s.getPref(prefTaskSortDirection, "asc"),
		WeekStart:           s.getPref(prefWeekStart, "monday"),
	}
}

// Each setter updates exactly one field and leaves the rest untouched.

func (s *Store) SetDarkMode(v bool) error { return s.setPref(prefDarkMode, boolVal(v)) }

func (s *Store) SetDailySummaryEnabled(v bool) error {
	return s.setPref(prefDailySummaryEnabled, boolVal(v))
}

// SetDailySummaryTime expects a "15:04" clock value.
func (s *Store) SetDailySummaryTime(v string) error { return s.setPref(prefDailySummaryTime, v) }

func (s *Store) SetReminderLeadMinutes(v int) error {
	return s.setPref(prefReminderLead, strconv.Itoa(v))
}

func (s *Store) SetTaskDurationMinutes(v int) error {
	return s.setPref(prefTaskDuration, strconv.Itoa(v))
}

func (s *Store) SetPomodoroFocusMin(v int) error {
	return s.setPref(prefPomodoroFocus, strconv.Itoa(v))
}

func (s *Store) SetPomodoroBreakMin(v int) error {
	return s.setPref(prefPomodoroBreak, strconv.Itoa(v))
}

func (s *Store) SetPomodoroLongMin(v int) error {
	return s.setPref(prefPomodoroLongBreak, strconv.Itoa(v))
}

func (s *Store) SetPomodoroSessions(v int) error {
	return s.setPref(prefPomodoroSessions, strconv.Itoa(v))
}

func (s *Store) SetNotificationSound(v bool) error {
	return s.setPref(prefNotificationSound, boolVal(v))
}

func (s *Store) SetVibration(v bool) error { return s.setPref(prefVibration, boolVal(v)) }

func (s *Store) SetShowCompletedTasks(v bool) error {
	return s.setPref(prefShowCompleted, boolVal(v))
}

func (s *Store) SetTaskView(v string) error { return s.setPref(prefTaskView, v) }

func (s *Store) SetTaskSort(v string) error { return s.setPref(prefTaskSort, v) }

func (s *Store) SetTaskSortDirection(v string) error {
	return s.setPref(prefTaskSortDirection, v)
}

func (s *Store) SetWeekStart(v string) error { return s.setPref(prefWeekStart, v) }

func boolVal(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
