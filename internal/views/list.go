package views

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// ListOptions control the flat list view.
type ListOptions struct {
	// ShowMetadata appends project, tags, due date and urgency to each line.
	ShowMetadata bool
	// MaxWidth caps the description length. 0 means no cap.
	MaxWidth int
	Theme    Theme
	Now      time.Time
}

// RenderList writes one line per task: id, status icon, description and
// optional metadata, with a blank line separating the high-urgency block
// from the rest. Tasks render in the order given; callers sort first.
func RenderList(w io.Writer, tasks []backend.Task, opts ListOptions) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found. Try adjusting your query.")
		return err
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	blocked := BlockedSet(tasks)

	var b strings.Builder
	for i, t := range tasks {
		b.WriteString(listLine(t, blocked[t.ID], opts))
		b.WriteByte('\n')
		if i+1 < len(tasks) && t.Urgency >= 10 && tasks[i+1].Urgency < 10 {
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(statsLine(tasks, opts.Theme, opts.Now))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func listLine(t backend.Task, isBlocked bool, opts ListOptions) string {
	th := opts.Theme
	var b strings.Builder

	b.WriteString(th.TaskID.Render(fmt.Sprintf("[%3s]", padID(t.ID))))
	b.WriteByte(' ')
	b.WriteString(statusIcon(t, isBlocked))
	b.WriteByte(' ')

	if t.IsOverdue(opts.Now) {
		b.WriteString(th.Overdue.Render("⚠") + " ")
	}

	desc := t.Description
	if opts.MaxWidth > 30 {
		desc = truncate(desc, opts.MaxWidth-30)
	}
	if t.Status == backend.StatusCompleted {
		desc = th.Completed.Render(desc)
	} else if t.Urgency >= 10 {
		desc = th.UrgencyHigh.Render(desc)
	}
	b.WriteString(desc)

	if opts.ShowMetadata {
		if t.Project != "" {
			b.WriteString(th.Project.Render(fmt.Sprintf(" (%s)", t.Project)))
		}
		if len(t.Tags) > 0 {
			b.WriteString(" " + th.Tag.Render(formatTags(t.Tags, 40)))
		}
		if t.Due != nil {
			due := " due:" + humanDate(t.Due, opts.Now)
			switch {
			case t.IsOverdue(opts.Now):
				due = th.Overdue.Render(due)
			case t.IsDueSoon(opts.Now):
				due = th.DueSoon.Render(due)
			}
			b.WriteString(due)
		}
		b.WriteString(th.Dim.Render(fmt.Sprintf(" [%.1f]", t.Urgency)))
	}
	return b.String()
}
