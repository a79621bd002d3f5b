// Package habit holds the pure streak and completion-rate calculations.
// All functions operate on completion dates at day granularity; callers
// are expected to pass dates already truncated to midnight.
package habit

import (
	"sort"
	"time"
)

// Frequency is how often a habit is meant to be performed.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Custom  Frequency = "custom"
)

const dateLayout = "2006-01-02"

// Day truncates t to its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyStreak walks backward day-by-day from today and counts consecutive
// calendar days that have at least one completion. Frequency is ignored;
// this is the streak shown next to each habit in the list view.
func DailyStreak(dates []time.Time, today time.Time) int {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d.Format(dateLayout)] = true
	}

	streak := 0
	for d := Day(today); set[d.Format(dateLayout)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// BestStreak returns the longest run of completions spaced at the habit's
// declared cadence: the next expected date is the previous date plus one
// day, week or month. A Custom cadence has no expected spacing, so its
// streaks never extend past 1.
func BestStreak(freq Frequency, dates []time.Time) int {
	days := uniqueSortedDays(dates)
	if len(days) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if freq == Custom {
			run = 1
			continue
		}
		if days[i].Equal(nextExpected(freq, days[i-1])) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func nextExpected(freq Frequency, prev time.Time) time.Time {
	switch freq {
	case Weekly:
		return prev.AddDate(0, 0, 7)
	case Monthly:
		return prev.AddDate(0, 1, 0)
	default:
		return prev.AddDate(0, 0, 1)
	}
}

// CompletionRate is the count of completions in the trailing month divided
// by a fixed expected count per frequency (30 daily, 12 weekly, 6 monthly,
// 30 custom). The result is intentionally not clamped; over-performing a
// weekly habit reads as a rate above 1.
func CompletionRate(freq Frequency, dates []time.Time, today time.Time) float64 {
	cutoff := Day(today).AddDate(0, -1, 0)
	end := Day(today)

	count := 0
	for _, d := range dates {
		day := Day(d)
		if day.After(cutoff) && !day.After(end) {
			count++
		}
	}
	return float64(count) / float64(expectedPerMonth(freq))
}

func expectedPerMonth(freq Frequency) int {
	switch freq {
	case Weekly:
		return 12
	case Monthly:
		return 6
	default:
		return 30
	}
}

func uniqueSortedDays(dates []time.Time) []time.Time {
	seen := make(map[string]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		day := Day(d)
		key := day.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
