package views

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// TableOptions control the flat table view.
type TableOptions struct {
	// Columns to show, in order. Empty means the default set.
	Columns []string
	Theme   Theme
	Now     time.Time
}

var defaultTableColumns = []string{"id", "description", "project", "tags", "due", "priority", "urgency"}

var tableHeaders = map[string]string{
	"id":          "ID",
	"uuid":        "UUID",
	"description": "Description",
	"project":     "Project",
	"tags":        "Tags",
	"status":      "Status",
	"priority":    "Pri",
	"due":         "Due",
	"entry":       "Entry",
	"modified":    "Modified",
	"urgency":     "Urg",
}

// rightAligned columns are numeric.
var rightAligned = map[string]bool{"id": true, "urgency": true}

// RenderTable writes tasks as an aligned text table followed by a
// stats line. Tasks render in the order given; callers sort first.
func RenderTable(w io.Writer, tasks []backend.Task, opts TableOptions) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found. Try adjusting your query.")
		return err
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	cols := opts.Columns
	if len(cols) == 0 {
		cols = defaultTableColumns
	}

	blocked := BlockedSet(tasks)

	// Raw cell text first so column widths can be measured, styles after.
	rows := make([][]string, len(tasks))
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len(tableHeaders[col])
	}
	for r, t := range tasks {
		rows[r] = make([]string, len(cols))
		for i, col := range cols {
			cell := tableCell(t, col, blocked[t.ID], opts.Now)
			rows[r][i] = cell
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, col := range cols {
		b.WriteString(padCell(opts.Theme.Header.Render(tableHeaders[col]), widths[i], rightAligned[col]))
		if i < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteByte('\n')
	for i := range cols {
		b.WriteString(strings.Repeat("─", widths[i]))
		if i < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteByte('\n')

	for r, t := range tasks {
		for i, col := range cols {
			cell := styleCell(rows[r][i], col, t, opts)
			b.WriteString(padCell(cell, widths[i], rightAligned[col]))
			if i < len(cols)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteByte('\n')
	b.WriteString(statsLine(tasks, opts.Theme, opts.Now))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func tableCell(t backend.Task, col string, blocked bool, now time.Time) string {
	switch col {
	case "id":
		if t.ID == "" {
			return "?"
		}
		return t.ID
	case "uuid":
		return t.UUID
	case "description":
		desc := statusIcon(t, blocked) + " " + truncate(t.Description, 60)
		if t.IsOverdue(now) {
			desc = "⚠ " + desc
		}
		return desc
	case "project":
		return t.Project
	case "tags":
		return formatTags(t.Tags, 20)
	case "status":
		return string(t.Status)
	case "priority":
		return string(t.Priority)
	case "due":
		return humanDate(t.Due, now)
	case "entry":
		if t.Entry == nil {
			return ""
		}
		return t.Entry.Format("2006-01-02")
	case "modified":
		if t.Modified == nil {
			return ""
		}
		return t.Modified.Format("2006-01-02")
	case "urgency":
		return fmt.Sprintf("%.1f", t.Urgency)
	default:
		return ""
	}
}

func styleCell(cell string, col string, t backend.Task, opts TableOptions) string {
	if !opts.Theme.Enabled || cell == "" {
		return cell
	}
	th := opts.Theme
	switch col {
	case "id":
		return th.TaskID.Render(cell)
	case "project":
		return th.Project.Render(cell)
	case "tags":
		return th.Tag.Render(cell)
	case "due":
		switch {
		case t.IsOverdue(opts.Now):
			return th.Overdue.Render(cell)
		case t.IsDueSoon(opts.Now):
			return th.DueSoon.Render(cell)
		}
	case "urgency":
		switch {
		case t.Urgency >= 10:
			return th.UrgencyHigh.Render(cell)
		case t.Urgency >= 5:
			return th.UrgencyMedium.Render(cell)
		}
	case "description", "status":
		if t.Status == backend.StatusCompleted {
			return th.Completed.Render(cell)
		}
	}
	return cell
}

func padCell(cell string, width int, right bool) string {
	gap := width - lipgloss.Width(cell)
	if gap <= 0 {
		return cell
	}
	if right {
		return strings.Repeat(" ", gap) + cell
	}
	return cell + strings.Repeat(" ", gap)
}

// statsLine summarizes the result set: total count, overdue, due soon
// and high urgency, separated by bullets.
func statsLine(tasks []backend.Task, th Theme, now time.Time) string {
	var overdue, dueSoon, high int
	for _, t := range tasks {
		if t.IsOverdue(now) {
			overdue++
		} else if t.IsDueSoon(now) {
			dueSoon++
		}
		if t.Urgency >= 10 {
			high++
		}
	}
	parts := []string{fmt.Sprintf("Total: %d tasks", len(tasks))}
	if overdue > 0 {
		parts = append(parts, th.Overdue.Render(fmt.Sprintf("%d overdue", overdue)))
	}
	if dueSoon > 0 {
		parts = append(parts, th.DueSoon.Render(fmt.Sprintf("%d due soon", dueSoon)))
	}
	if high > 0 {
		parts = append(parts, th.UrgencyHigh.Render(fmt.Sprintf("%d high urgency", high)))
	}
	return th.Dim.Render(strings.Join(parts, " • "))
}
