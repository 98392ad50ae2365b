package views

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// MarkdownOptions control the markdown export.
type MarkdownOptions struct {
	// GroupByProject adds per-project sections to the detailed list.
	GroupByProject bool
	// IncludeMetadata emits a YAML front-matter block.
	IncludeMetadata bool
	// UseCheckboxes renders tasks as "- [ ]" / "- [x]" items.
	UseCheckboxes bool
	Now           time.Time
}

// RenderMarkdown writes tasks as a markdown document: front matter, a
// summary line, a GFM table, and a detailed list grouped by project
// with the "(none)" section last. Markdown output is exhaustive, never
// truncated.
func RenderMarkdown(w io.Writer, tasks []backend.Task, opts MarkdownOptions) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var b strings.Builder

	if opts.IncludeMetadata {
		b.WriteString("---\n")
		b.WriteString("generated: " + opts.Now.UTC().Format(time.RFC3339) + "\n")
		fmt.Fprintf(&b, "total_tasks: %d\n", len(tasks))
		b.WriteString("---\n\n")
	}

	b.WriteString("# Tasks\n\n")

	var completed, overdue int
	for _, t := range tasks {
		if t.Status == backend.StatusCompleted {
			completed++
		}
		if t.IsOverdue(opts.Now) {
			overdue++
		}
	}
	pending := len(tasks) - completed
	fmt.Fprintf(&b, "**Summary:** %d tasks (%d pending, %d completed", len(tasks), pending, completed)
	if overdue > 0 {
		fmt.Fprintf(&b, ", %d overdue", overdue)
	}
	b.WriteString(")\n\n")

	b.WriteString("## Task Summary (Table)\n\n")
	writeMarkdownTable(&b, tasks, opts.Now)
	b.WriteString("\n")

	b.WriteString("## Detailed Task List\n\n")
	if opts.GroupByProject {
		columns := Group(tasks, GroupOptions{Mode: ModeProject, Now: opts.Now})
		for _, col := range columns {
			fmt.Fprintf(&b, "### %s\n\n", col.Label)
			for _, t := range col.Tasks {
				b.WriteString(markdownItem(t, opts) + "\n")
			}
			b.WriteString("\n")
		}
	} else {
		for _, t := range tasks {
			b.WriteString(markdownItem(t, opts) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownTable(b *strings.Builder, tasks []backend.Task, now time.Time) {
	blocked := BlockedSet(tasks)
	b.WriteString("| ID | Status | Priority | Description | Project | Tags | Due | Urgency |\n")
	b.WriteString("|---:|:------:|:--------:|:------------|:--------|:-----|:----|--------:|\n")
	for _, t := range tasks {
		id := t.ID
		if id == "" {
			id = "-"
		}
		priority := string(t.Priority)
		if priority == "" {
			priority = "-"
		}
		project := t.Project
		if project == "" {
			project = "-"
		}
		tags := "-"
		if len(t.Tags) > 0 {
			shown := t.Tags
			if len(shown) > 3 {
				shown = shown[:3]
			}
			tags = strings.Join(shown, ", ")
			if extra := len(t.Tags) - 3; extra > 0 {
				tags += fmt.Sprintf(" +%d", extra)
			}
		}
		due := "-"
		if t.Due != nil {
			due = t.Due.Format("2006-01-02")
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %.1f |\n",
			id, markdownStatus(t, blocked[t.ID]), priority, t.Description, project, tags, due, t.Urgency)
	}
}

func markdownStatus(t backend.Task, blocked bool) string {
	switch {
	case t.Status == backend.StatusCompleted:
		return "✅"
	case blocked:
		return "🚫"
	case t.Status == backend.StatusWaiting:
		return "⏸"
	case t.Start != nil && t.Status == backend.StatusPending:
		return "▶"
	default:
		return "📋"
	}
}

func markdownItem(t backend.Task, opts MarkdownOptions) string {
	var b strings.Builder
	b.WriteString("- ")
	if opts.UseCheckboxes {
		if t.Status == backend.StatusCompleted {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	}
	b.WriteString(t.Description)

	var meta []string
	if t.Project != "" {
		meta = append(meta, "project:"+t.Project)
	}
	if t.Priority != backend.PriorityNone {
		meta = append(meta, "priority:"+string(t.Priority))
	}
	if t.Due != nil {
		meta = append(meta, "due:"+t.Due.Format("2006-01-02"))
	}
	if len(t.Tags) > 0 {
		meta = append(meta, "tags:"+strings.Join(t.Tags, ","))
	}
	if t.ID != "" {
		meta = append(meta, "id:"+t.ID)
	}
	if len(meta) > 0 {
		b.WriteString(" `[" + strings.Join(meta, " | ") + "]`")
	}
	return b.String()
}
