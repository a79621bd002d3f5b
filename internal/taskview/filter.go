// Package taskview applies the list-view filter, search and sort rules to
// task slices already loaded from the store.
package taskview

import (
	"sort"
	"strings"
	"time"

	"github.com/sadopc/taskit/internal/store"
)

// Filter is the mutually exclusive quick-filter row above the task list.
type Filter int

const (
	FilterAll Filter = iota
	FilterToday
	FilterUpcoming
	FilterPriority
	FilterCategories
)

var filterNames = []string{"All", "Today", "Upcoming", "Priority", "Categorized"}

func (f Filter) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return "All"
}

// Sort is a task list sort key.
type Sort string

const (
	SortTitle        Sort = "title"
	SortDueDate      Sort = "due_date"
	SortPriority     Sort = "priority"
	SortCreationDate Sort = "creation_date"
	SortCategory     Sort = "category"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Apply runs the quick filter, the independent show-completed toggle and the
// independent free-text query over tasks, in that order.
func Apply(tasks []store.Task, f Filter, showCompleted bool, query string, now time.Time) []store.Task {
	var out []store.Task
	for _, t := range tasks {
		if !matchesFilter(t, f, now) {
			continue
		}
		if !showCompleted && t.Status == store.StatusCompleted {
			continue
		}
		if !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesFilter(t store.Task, f Filter, now time.Time) bool {
	switch f {
	case FilterToday:
		return t.DueDate != nil && sameDay(*t.DueDate, now)
	case FilterUpcoming:
		return t.DueDate != nil && t.DueDate.After(now) && !sameDay(*t.DueDate, now)
	case FilterPriority:
		return t.Priority != store.PriorityLow
	case FilterCategories:
		return t.CategoryID != nil
	default:
		return true
	}
}

func matchesQuery(t store.Task, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SortTasks orders tasks by the given key and direction. The sort is stable
// so equal keys keep their store order. Tasks without a due date always sort
// after dated ones under SortDueDate; a missing category sorts as the empty
// string.
func SortTasks(tasks []store.Task, key Sort, dir Direction) []store.Task {
	out := make([]store.Task, len(tasks))
	copy(out, tasks)

	less := lessFunc(key)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key Sort) func(a, b store.Task) bool {
	switch key {
	case SortTitle:
		return func(a, b store.Task) bool { return a.Title < b.Title }
	case SortPriority:
		// High first in ascending order, matching the list header.
		return func(a, b store.Task) bool { return a.Priority.Rank() > b.Priority.Rank() }
	case SortCreationDate:
		return func(a, b store.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCategory:
		return func(a, b store.Task) bool { return categoryKey(a) < categoryKey(b) }
	default: // SortDueDate
		return func(a, b store.Task) bool {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	}
}

func categoryKey(t store.Task) string {
	if t.CategoryID == nil {
		return ""
	}
	return *t.CategoryID
}

// ParseSort maps a stored preference value to a sort key.
func ParseSort(v string) Sort {
	switch Sort(v) {
	case SortTitle, SortDueDate, SortPriority, SortCreationDate, SortCategory:
		return Sort(v)
	default:
		return SortDueDate
	}
}

// ParseDirection maps a stored preference value to a direction.
func ParseDirection(v string) Direction {
	if Direction(v) == Descending {
		return Descending
	}
	return Ascending
}
