package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// padRight pads s with spaces to the given display width. Measurement
// goes through lipgloss so ANSI sequences do not count.
func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// formatTags renders tags as "+tag1 +tag2", capped at maxLen runes.
func formatTags(tags []string, maxLen int) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "+" + tag
	}
	return truncate(strings.Join(parts, " "), maxLen)
}

// humanDate renders a timestamp relative to now: "Today 14:30",
// "Tomorrow", a weekday name within a week, "3 days ago", and plain
// dates beyond that.
func humanDate(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	d := t.In(now.Location())
	days := int(math.Floor(d.Sub(now).Hours() / 24))

	switch {
	case sameDay(d, now):
		return "Today " + d.Format("15:04")
	case days == 0, days == 1:
		if sameDay(d, now.AddDate(0, 0, 1)) {
			return "Tomorrow"
		}
		return d.Format("Monday")
	case days == -1:
		if sameDay(d, now.AddDate(0, 0, -1)) {
			return "Yesterday"
		}
		return "1 day ago"
	case days > 1 && days < 7:
		return d.Format("Monday")
	case days < 0:
		ago := -days
		switch {
		case ago < 7:
			return fmt.Sprintf("%d days ago", ago)
		case ago < 30:
			weeks := ago / 7
			if weeks == 1 {
				return "1 week ago"
			}
			return fmt.Sprintf("%d weeks ago", weeks)
		default:
			return d.Format("2006-01-02")
		}
	default:
		return d.Format("2006-01-02")
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// padID zero-pads short numeric ids so board cells line up, leaving
// non-numeric ids (jira keys) alone.
func padID(id string) string {
	if id == "" {
		return "--"
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 && n < 100 {
		return fmt.Sprintf("%02d", n)
	}
	return id
}

// statusIcon is the single-rune marker used by the list and table views.
func statusIcon(t backend.Task, blocked bool) string {
	switch {
	case t.Status == backend.StatusCompleted:
		return "✓"
	case blocked:
		return "!"
	case t.Status == backend.StatusWaiting:
		return "⏸"
	case t.Start != nil && t.Status == backend.StatusPending:
		return "▶"
	default:
		return "○"
	}
}
