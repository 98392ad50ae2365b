// Package views turns canonical tasks into terminal output.
//
// The grouping engine is pure: it buckets, sorts and truncates tasks
// without touching I/O. The renderers (kanban, table, list, markdown)
// consume its output and write to an io.Writer, so every format shows
// the same ordering for the same input.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// Mode selects how the kanban board buckets tasks.
type Mode string

const (
	ModeStatus   Mode = "status"
	ModePriority Mode = "priority"
	ModeProject  Mode = "project"
	ModeTag      Mode = "tag"
)

// NoneLabel is the column holding tasks without a value in the grouped
// field.
const NoneLabel = "(none)"

// Status-mode column labels, in board order.
const (
	ColumnBlocked    = "Blocked"
	ColumnBacklog    = "Backlog"
	ColumnInProgress = "In Progress"
	ColumnWaiting    = "Waiting"
	ColumnCompleted  = "Completed"
)

// ParseMode maps a config or flag string to a grouping mode. Unknown
// modes fall back to status so a typo degrades to the default board
// instead of failing the query.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priority":
		return ModePriority
	case "project":
		return ModeProject
	case "tag", "tags":
		return ModeTag
	default:
		return ModeStatus
	}
}

// Column is one kanban bucket after grouping, sorting and truncation.
type Column struct {
	Label     string
	Tasks     []backend.Task
	Truncated int // eligible tasks beyond the per-column cap, not in Tasks
}

// Total returns the column's eligible task count including the
// truncated tail.
func (c Column) Total() int { return len(c.Tasks) + c.Truncated }

// GroupOptions control column assignment and truncation.
type GroupOptions struct {
	Mode          Mode
	Now           time.Time
	ShowCompleted bool
	CompletedDays int
	MaxPerColumn  int // 0 disables truncation
}

// Group buckets tasks into ordered columns.
//
// Status mode partitions every task into exactly one of the fixed
// columns [Blocked, Backlog, In Progress, Waiting, Completed]; the
// Blocked column is emitted only when non-empty, the rest always.
// Completed tasks whose modified timestamp is older than CompletedDays
// are dropped from the board entirely.
//
// Priority, project and tag modes emit one column per distinct value
// plus a "(none)" column for tasks without one; empty columns are
// omitted. A task appears once per tag it carries in tag mode.
func Group(tasks []backend.Task, opts GroupOptions) []Column {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	switch opts.Mode {
	case ModePriority:
		return groupByPriority(tasks, opts)
	case ModeProject:
		return groupByValue(tasks, opts, func(t backend.Task) []string {
			if t.Project == "" {
				return nil
			}
			return []string{t.Project}
		})
	case ModeTag:
		return groupByValue(tasks, opts, func(t backend.Task) []string {
			return t.Tags
		})
	default:
		return groupByStatus(tasks, opts)
	}
}

// BlockedSet returns the ids of tasks with at least one dependency that
// is present in the set and not completed. Dependencies are matched
// against both native ids and uuids, since backends reference either.
func BlockedSet(tasks []backend.Task) map[string]bool {
	byRef := make(map[string]backend.Status, len(tasks)*2)
	for _, t := range tasks {
		if t.ID != "" {
			byRef[t.ID] = t.Status
		}
		if t.UUID != "" {
			byRef[t.UUID] = t.Status
		}
	}
	blocked := make(map[string]bool)
	for _, t := range tasks {
		for _, dep := range t.Depends {
			if st, ok := byRef[dep]; ok && st != backend.StatusCompleted {
				blocked[t.ID] = true
				break
			}
		}
	}
	return blocked
}

func groupByStatus(tasks []backend.Task, opts GroupOptions) []Column {
	blocked := BlockedSet(tasks)
	buckets := make(map[string][]backend.Task, 5)

	for _, t := range tasks {
		switch {
		case blocked[t.ID]:
			buckets[ColumnBlocked] = append(buckets[ColumnBlocked], t)
		case t.Status == backend.StatusWaiting:
			buckets[ColumnWaiting] = append(buckets[ColumnWaiting], t)
		case t.Status == backend.StatusCompleted:
			if opts.ShowCompleted && completedRecently(t, opts) {
				buckets[ColumnCompleted] = append(buckets[ColumnCompleted], t)
			}
		case t.Start != nil && t.Status == backend.StatusPending:
			buckets[ColumnInProgress] = append(buckets[ColumnInProgress], t)
		default:
			buckets[ColumnBacklog] = append(buckets[ColumnBacklog], t)
		}
	}

	order := []string{ColumnBlocked, ColumnBacklog, ColumnInProgress, ColumnWaiting, ColumnCompleted}
	columns := make([]Column, 0, len(order))
	for _, label := range order {
		if label == ColumnBlocked && len(buckets[label]) == 0 {
			continue
		}
		columns = append(columns, finishColumn(label, buckets[label], opts))
	}
	return columns
}

// completedRecently reports whether a completed task still falls inside
// the completed_days window. Tasks without a modified timestamp have no
// known completion time and age out immediately.
func completedRecently(t backend.Task, opts GroupOptions) bool {
	if t.Modified == nil {
		return false
	}
	window := time.Duration(opts.CompletedDays) * 24 * time.Hour
	return opts.Now.Sub(*t.Modified) <= window
}

func groupByPriority(tasks []backend.Task, opts GroupOptions) []Column {
	buckets := make(map[backend.Priority][]backend.Task, 4)
	for _, t := range tasks {
		buckets[t.Priority] = append(buckets[t.Priority], t)
	}

	order := []backend.Priority{backend.PriorityHigh, backend.PriorityMedium, backend.PriorityLow, backend.PriorityNone}
	columns := make([]Column, 0, len(order))
	for _, p := range order {
		if len(buckets[p]) == 0 {
			continue
		}
		label := string(p)
		if p == backend.PriorityNone {
			label = NoneLabel
		}
		columns = append(columns, finishColumn(label, buckets[p], opts))
	}
	return columns
}

func groupByValue(tasks []backend.Task, opts GroupOptions, keys func(backend.Task) []string) []Column {
	buckets := make(map[string][]backend.Task)
	var none []backend.Task

	for _, t := range tasks {
		ks := keys(t)
		if len(ks) == 0 {
			none = append(none, t)
			continue
		}
		for _, k := range ks {
			buckets[k] = append(buckets[k], t)
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	columns := make([]Column, 0, len(labels)+1)
	for _, label := range labels {
		columns = append(columns, finishColumn(label, buckets[label], opts))
	}
	if len(none) > 0 {
		columns = append(columns, finishColumn(NoneLabel, none, opts))
	}
	return columns
}

func finishColumn(label string, tasks []backend.Task, opts GroupOptions) Column {
	SortTasks(tasks)
	col := Column{Label: label, Tasks: tasks}
	if opts.MaxPerColumn > 0 && len(tasks) > opts.MaxPerColumn {
		col.Truncated = len(tasks) - opts.MaxPerColumn
		col.Tasks = tasks[:opts.MaxPerColumn]
	}
	return col
}
