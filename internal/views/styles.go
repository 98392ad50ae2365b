package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
)

// Theme holds the lipgloss styles shared by the renderers. A disabled
// theme renders everything unstyled, which is also what tests use.
type Theme struct {
	Enabled       bool
	Header        lipgloss.Style
	ColumnTitle   lipgloss.Style
	TaskID        lipgloss.Style
	Project       lipgloss.Style
	Tag           lipgloss.Style
	Border        lipgloss.Style
	UrgencyHigh   lipgloss.Style
	UrgencyMedium lipgloss.Style
	Overdue       lipgloss.Style
	DueSoon       lipgloss.Style
	Completed     lipgloss.Style
	Dim           lipgloss.Style
}

// PlainTheme returns a theme that leaves text untouched.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:        plain,
		ColumnTitle:   plain,
		TaskID:        plain,
		Project:       plain,
		Tag:           plain,
		Border:        plain,
		UrgencyHigh:   plain,
		UrgencyMedium: plain,
		Overdue:       plain,
		DueSoon:       plain,
		Completed:     plain,
		Dim:           plain,
	}
}

// NewTheme builds a theme from the colors section of the config file.
func NewTheme(colors config.ColorsConfig) Theme {
	if !colors.Enabled {
		return PlainTheme()
	}
	return Theme{
		Enabled:       true,
		Header:        lipgloss.NewStyle().Bold(true).Foreground(toColor(colors.Header)),
		ColumnTitle:   lipgloss.NewStyle().Bold(true).Foreground(toColor(colors.ColumnTitle)),
		TaskID:        lipgloss.NewStyle().Foreground(toColor(colors.TaskID)),
		Project:       lipgloss.NewStyle().Foreground(toColor(colors.Project)),
		Tag:           lipgloss.NewStyle().Foreground(toColor(colors.Tag)),
		Border:        lipgloss.NewStyle().Foreground(toColor(colors.Border)),
		UrgencyHigh:   lipgloss.NewStyle().Bold(true).Foreground(toColor(colors.UrgencyHigh)),
		UrgencyMedium: lipgloss.NewStyle().Foreground(toColor(colors.UrgencyMedium)),
		Overdue:       lipgloss.NewStyle().Bold(true).Foreground(toColor(colors.Overdue)),
		DueSoon:       lipgloss.NewStyle().Foreground(toColor(colors.DueSoon)),
		Completed:     lipgloss.NewStyle().Foreground(toColor(colors.Completed)),
		Dim:           lipgloss.NewStyle().Faint(true),
	}
}

// namedColors maps the color names users write in config.toml to the
// ANSI 16 palette. Anything else is handed to lipgloss verbatim, which
// accepts ANSI 256 codes and hex strings.
var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

func toColor(name string) lipgloss.Color {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedColors[n]; ok {
		return lipgloss.Color(code)
	}
	return lipgloss.Color(n)
}
