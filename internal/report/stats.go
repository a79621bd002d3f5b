package report

import (
	"time"

	"github.com/sadopc/taskit/internal/habit"
	"github.com/sadopc/taskit/internal/store"
)

// TaskStats summarizes the tasks touching a reporting window.
type TaskStats struct {
	CompletedCount int
	PendingCount   int
	OverdueCount   int
	CompletionRate float64
	// AvgCompletionMinutes is the mean of completedAt-createdAt over tasks
	// completed with a recorded completion time; 0 when there are none.
	AvgCompletionMinutes float64
	ByCategory           map[string]int // "" groups uncategorized tasks
	ByPriority           map[store.TaskPriority]int
	CompletedByDay       map[string]int // keyed "2006-01-02"
	Total                int
}

// HabitStats summarizes habit completions inside a reporting window.
type HabitStats struct {
	TotalHabits   int
	DailyHabits   int
	WeeklyHabits  int
	MonthlyHabits int
	// CompletionRatio is actual/expected completions, clamped to [0,1];
	// 0 when no habits exist.
	CompletionRatio float64
	BestStreak      int
	// CurrentStreak counts consecutive days, walking back from today, on
	// which every daily habit was completed; 0 without daily habits.
	CurrentStreak    int
	CompletionsByDay map[string]int
}

const dayKey = "2006-01-02"

// ComputeTaskStats aggregates tasks whose due, creation, completion or
// last-update time falls inside the period (a union, not an intersection).
func ComputeTaskStats(tasks []store.Task, p Period, anchor, now time.Time, weekStart time.Weekday) TaskStats {
	start, end := RangeForPeriod(p, anchor, weekStart)
	from := start
	to := day(end).Add(24*time.Hour - time.Second)

	stats := TaskStats{
		ByCategory:     make(map[string]int),
		ByPriority:     make(map[store.TaskPriority]int),
		CompletedByDay: make(map[string]int),
	}

	var latencySum float64
	var latencyCount int

	for _, t := range tasks {
		if !taskInRange(t, from, to) {
			continue
		}
		stats.Total++

		switch t.Status {
		case store.StatusCompleted:
			stats.CompletedCount++
			if t.CompletedAt != nil {
				latencySum += t.CompletedAt.Sub(t.CreatedAt).Minutes()
				latencyCount++
				stats.CompletedByDay[t.CompletedAt.Format(dayKey)]++
			}
		case store.StatusPending:
			stats.PendingCount++
			if t.DueDate != nil && t.DueDate.Before(now) {
				stats.OverdueCount++
			}
		}

		cat := ""
		if t.CategoryID != nil {
			cat = *t.CategoryID
		}
		stats.ByCategory[cat]++
		stats.ByPriority[t.Priority]++
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.Total)
	}
	if latencyCount > 0 {
		stats.AvgCompletionMinutes = latencySum / float64(latencyCount)
	}
	return stats
}

func taskInRange(t store.Task, from, to time.Time) bool {
	in := func(ts *time.Time) bool {
		return ts != nil && !ts.Before(from) && !ts.After(to)
	}
	created := t.CreatedAt
	updated := t.UpdatedAt
	return in(t.DueDate) || in(&created) || in(t.CompletedAt) || in(&updated)
}

// ComputeHabitStats aggregates completions dated inside the period.
// Completions are keyed by habit id.
func ComputeHabitStats(habits []store.Habit, completions map[string][]store.HabitCompletion, p Period, anchor, today time.Time, weekStart time.Weekday) HabitStats {
	start, end := RangeForPeriod(p, anchor, weekStart)

	stats := HabitStats{
		TotalHabits:      len(habits),
		CompletionsByDay: make(map[string]int),
	}

	for _, h := range habits {
		switch h.Frequency {
		case habit.Daily:
			stats.DailyHabits++
		case habit.Weekly:
			stats.WeeklyHabits++
		case habit.Monthly:
			stats.MonthlyHabits++
		}
	}

	inPeriod := 0
	for _, cs := range completions {
		for _, c := range cs {
			d := day(c.Date)
			if d.Before(start) || d.After(end) {
				continue
			}
			inPeriod++
			stats.CompletionsByDay[d.Format(dayKey)]++
		}
	}

	if len(habits) > 0 {
		days := DaysIn(start, end)
		expected := stats.DailyHabits*days +
			stats.WeeklyHabits*maxInt(1, days/7) +
			stats.MonthlyHabits*maxInt(1, days/30)
		if expected > 0 {
			ratio := float64(inPeriod) / float64(expected)
			stats.CompletionRatio = clamp01(ratio)
		}
	}

	for _, h := range habits {
		best := habit.BestStreak(h.Frequency, completionDates(completions[h.ID]))
		if best > stats.BestStreak {
			stats.BestStreak = best
		}
	}

	stats.CurrentStreak = currentStreakAllDaily(habits, completions, today)
	return stats
}

// currentStreakAllDaily counts consecutive days, ending today, on which
// every daily habit has a completion.
func currentStreakAllDaily(habits []store.Habit, completions map[string][]store.HabitCompletion, today time.Time) int {
	var daily []store.Habit
	for _, h := range habits {
		if h.Frequency == habit.Daily {
			daily = append(daily, h)
		}
	}
	if len(daily) == 0 {
		return 0
	}

	sets := make([]map[string]bool, len(daily))
	for i, h := range daily {
		set := make(map[string]bool)
		for _, c := range completions[h.ID] {
			set[day(c.Date).Format(dayKey)] = true
		}
		sets[i] = set
	}

	streak := 0
	for d := day(today); ; d = d.AddDate(0, 0, -1) {
		key := d.Format(dayKey)
		all := true
		for _, set := range sets {
			if !set[key] {
				all = false
				break
			}
		}
		if !all {
			break
		}
		streak++
	}
	return streak
}

func completionDates(cs []store.HabitCompletion) []time.Time {
	dates := make([]time.Time, len(cs))
	for i, c := range cs {
		dates[i] = c.Date
	}
	return dates
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
