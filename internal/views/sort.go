package views

import (
	"sort"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// SortTasks orders tasks by urgency descending, ties broken by native
// id ascending (lexicographic). Every view uses this as its base order.
func SortTasks(tasks []backend.Task) {
	SortTasksBy(tasks, "urgency", true)
}

// SortTasksBy orders tasks by the named key in the given direction,
// with ties always broken by id ascending so output is deterministic.
// Unknown keys fall back to urgency. Missing timestamps sort after
// present ones in ascending order, and tasks without a priority sort
// below L.
func SortTasksBy(tasks []backend.Task, key string, descending bool) {
	less := lessFunc(key)
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case less(a, b):
			return !descending
		case less(b, a):
			return descending
		default:
			return a.ID < b.ID
		}
	})
}

func lessFunc(key string) func(a, b backend.Task) bool {
	switch key {
	case "id":
		return func(a, b backend.Task) bool { return a.ID < b.ID }
	case "description":
		return func(a, b backend.Task) bool { return a.Description < b.Description }
	case "project":
		return func(a, b backend.Task) bool { return a.Project < b.Project }
	case "status":
		return func(a, b backend.Task) bool { return a.Status < b.Status }
	case "priority":
		// Rank is 0 for H; ascending means least important first.
		return func(a, b backend.Task) bool { return a.Priority.Rank() > b.Priority.Rank() }
	case "due":
		return func(a, b backend.Task) bool { return timeLess(a.Due, b.Due) }
	case "entry":
		return func(a, b backend.Task) bool { return timeLess(a.Entry, b.Entry) }
	case "modified":
		return func(a, b backend.Task) bool { return timeLess(a.Modified, b.Modified) }
	default:
		return func(a, b backend.Task) bool { return a.Urgency < b.Urgency }
	}
}

func timeLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
