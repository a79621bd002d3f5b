package store

import (
	"time"

	"github.com/sadopc/taskit/internal/habit"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Rank orders priorities for sorting; higher is more urgent.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

type Task struct {
	ID             string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	CategoryID     *string
	DueDate        *time.Time
	ReminderTime   *time.Time
	Repeating      bool
	RepeatInterval *int // days between repeats
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
	Color       string
	Icon        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Habit struct {
	ID            string
	Name          string
	Description   string
	Color         string
	Icon          *string
	Frequency     habit.Frequency
	FrequencyDays []int // days of week (1-7, 1 = Monday) for specific days
	Reminder      *time.Time
	DaysCompleted int
	CurrentStreak int
	BestStreak    int
	LastCompleted *time.Time
	GoalID        *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type HabitCompletion struct {
	ID          string
	HabitID     string
	Date        time.Time // day granularity
	Completed   bool
	CompletedAt time.Time
	Notes       string
}

type GoalPeriod string

const (
	GoalWeekly    GoalPeriod = "weekly"
	GoalMonthly   GoalPeriod = "monthly"
	GoalQuarterly GoalPeriod = "quarterly"
	GoalYearly    GoalPeriod = "yearly"
	GoalCustom    GoalPeriod = "custom"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

type Goal struct {
	ID          string
	Title       string
	Description string
	Period      GoalPeriod
	StartDate   time.Time
	TargetDate  time.Time
	Status      GoalStatus
	Progress    int // 0-100
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type PomodoroStatus string

const (
	PomodoroNotStarted PomodoroStatus = "not_started"
	PomodoroFocus      PomodoroStatus = "focus"
	PomodoroBreak      PomodoroStatus = "break"
	PomodoroLongBreak  PomodoroStatus = "long_break"
	PomodoroPaused     PomodoroStatus = "paused"
	PomodoroDone       PomodoroStatus = "completed"
	PomodoroCancelled  PomodoroStatus = "cancelled"
)

type PomodoroSession struct {
	ID                string
	TaskID            *string
	Label             *string
	FocusMinutes      int
	BreakMinutes      int
	LongBreakMinutes  int
	SessionsBeforeLB  int
	SessionsCompleted int
	Status            PomodoroStatus
	StartedAt         *time.Time
	EndedAt           *time.Time
	FocusSeconds      int64
	CreatedAt         time.Time
}

// TaskFilter narrows task list queries. Date bounds are inclusive on both
// ends; Search matches a case-insensitive substring of title or description.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	CategoryID *string
	DueFrom    *time.Time
	DueTo      *time.Time
	Search     string
}

// Preferences is the single logical user settings record. It is defaulted
// on first read and only ever updated field-by-field.
type Preferences struct {
	DarkMode            bool
	DailySummaryEnabled bool
	DailySummaryTime    string // "15:04"
	ReminderLeadMinutes int
	TaskDurationMinutes int
	PomodoroFocusMin    int
	PomodoroBreakMin    int
	PomodoroLongMin     int
	PomodoroSessions    int
	NotificationSound   bool
	Vibration           bool
	ShowCompletedTasks  bool
	TaskView            string // list, grid, calendar
	TaskSort            string // title, due_date, priority, creation_date, category
	TaskSortDirection   string // asc, desc
	WeekStart           string // monday, sunday
}
