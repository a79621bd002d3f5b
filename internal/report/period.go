// Package report computes period-bucketed statistics over tasks and habits.
package report

import "time"

// Period selects the reporting window around an anchor date.
type Period int

const (
	PeriodDay Period = iota
	PeriodWeek
	PeriodMonth
	PeriodYear
)

func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "Day"
	case PeriodWeek:
		return "Week"
	case PeriodMonth:
		return "Month"
	case PeriodYear:
		return "Year"
	}
	return "Unknown"
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RangeForPeriod returns the inclusive [start, end] date range for a period
// anchored at the given date. Weeks run from weekStart; any anchor within
// the same week yields the identical pair.
func RangeForPeriod(p Period, anchor time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	anchor = day(anchor)

	switch p {
	case PeriodWeek:
		offset := (int(anchor.Weekday()) - int(weekStart) + 7) % 7
		start := anchor.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case PeriodMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return start, start.AddDate(0, 1, -1)
	case PeriodYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
		return start, time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location())
	default:
		return anchor, anchor
	}
}

// DaysIn counts the calendar days in an inclusive [start, end] range.
func DaysIn(start, end time.Time) int {
	return int(day(end).Sub(day(start)).Hours()/24) + 1
}
