package views

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// KanbanOptions control the board layout.
type KanbanOptions struct {
	// MinColumnWidth is the narrowest a column may render.
	MinColumnWidth int
	// TotalWidth is the terminal width. When positive, columns stretch
	// to share it; otherwise every column uses MinColumnWidth.
	TotalWidth int
	Theme      Theme
	Now        time.Time
}

const columnGap = "   "

// RenderKanban writes grouped tasks as side-by-side board columns.
// Rows are aligned across columns; a truncated column ends with a
// "... and N more tasks" marker.
func RenderKanban(w io.Writer, columns []Column, opts KanbanOptions) error {
	if len(columns) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found. Try adjusting your query.")
		return err
	}
	if opts.MinColumnWidth <= 0 {
		opts.MinColumnWidth = 40
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	width := opts.MinColumnWidth
	if opts.TotalWidth > 0 {
		share := (opts.TotalWidth - len(columnGap)*(len(columns)-1)) / len(columns)
		if share > width {
			width = share
		}
	}

	blocks := make([][]string, len(columns))
	height := 0
	for i, col := range columns {
		blocks[i] = columnLines(col, width, opts)
		if len(blocks[i]) > height {
			height = len(blocks[i])
		}
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		cells := make([]string, len(columns))
		for i := range columns {
			var line string
			if row < len(blocks[i]) {
				line = blocks[i][row]
			}
			cells[i] = padRight(line, width)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// columnLines renders one column: title, rule, one line per task, and
// the truncation marker when tasks were capped.
func columnLines(col Column, width int, opts KanbanOptions) []string {
	title := col.Label
	if n := col.Total(); n > 0 {
		title = fmt.Sprintf("%s (%d)", col.Label, n)
	}
	lines := []string{
		opts.Theme.ColumnTitle.Render(truncate(title, width)),
		opts.Theme.Border.Render(strings.Repeat("─", width)),
	}
	for _, t := range col.Tasks {
		lines = append(lines, kanbanCell(t, width, opts))
	}
	if col.Truncated > 0 {
		lines = append(lines, opts.Theme.Dim.Render(fmt.Sprintf("... and %d more tasks", col.Truncated)))
	}
	return lines
}

// kanbanCell formats one task as "[id] (tag) description", appending
// an |urgency| marker past 10 and a |days-until-due| marker when a due
// date exists.
func kanbanCell(t backend.Task, width int, opts KanbanOptions) string {
	th := opts.Theme

	id := th.TaskID.Render(padID(t.ID))

	var tag string
	switch {
	case t.Project != "":
		tag = th.Project.Render(t.Project)
	case len(t.Tags) > 0:
		tag = th.Tag.Render(t.Tags[0])
	default:
		tag = th.Dim.Render("--")
	}

	maxDesc := width - 15
	if maxDesc < 15 {
		maxDesc = 15
	}
	desc := truncate(t.Description, maxDesc)
	if t.Status == backend.StatusCompleted {
		desc = th.Completed.Render(desc)
	}

	cell := fmt.Sprintf("[%s] (%s) %s", id, tag, desc)

	if t.Urgency >= 10 {
		cell += " " + th.UrgencyHigh.Render(fmt.Sprintf("|%.1f|", t.Urgency))
	}
	if t.Due != nil {
		days := int(math.Floor(t.Due.Sub(opts.Now).Hours() / 24))
		marker := fmt.Sprintf("|%02d|", days)
		switch {
		case days < 0:
			marker = th.Overdue.Render(marker)
		case days <= 7:
			marker = th.DueSoon.Render(marker)
		}
		cell += " " + marker
	}
	return cell
}
