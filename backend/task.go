// Package backend turns the output of external task-tracking CLIs into a
// canonical task model. It runs one process per query, maps the raw JSON
// records through a configurable field mapping, and normalizes
// backend-specific status and priority vocabulary into fixed enums.
package backend

import (
	"strings"
	"time"
)

// Status is the canonical task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusWaiting   Status = "waiting"
	StatusDeleted   Status = "deleted"
)

// Priority is the canonical task priority. The zero value means the task
// has no priority assigned.
type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
	PriorityNone   Priority = ""
)

// Rank orders priorities for display: H before M before L before none.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Task is one normalized task. Tasks are values: nothing mutates a Task
// after the mapper constructs it, and reclassifying tasks means building a
// new view over the same slice.
type Task struct {
	ID          string
	UUID        string
	Description string
	Project     string
	Tags        []string
	Status      Status
	Priority    Priority
	Due         *time.Time
	Entry       *time.Time
	Modified    *time.Time
	Start       *time.Time
	Depends     []string
	Urgency     float64
}

// HasTag reports whether the task carries the given tag. Tags are stored
// lower-cased, so the lookup folds case.
func (t Task) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the task has a due date in the past relative
// to now. Completed and deleted tasks are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Due == nil || t.Status == StatusCompleted || t.Status == StatusDeleted {
		return false
	}
	return t.Due.Before(now)
}

// IsDueSoon reports whether the task is due within the next seven days.
func (t Task) IsDueSoon(now time.Time) bool {
	if t.Due == nil || t.Status == StatusCompleted || t.Status == StatusDeleted {
		return false
	}
	return !t.Due.Before(now) && t.Due.Sub(now) <= 7*24*time.Hour
}
