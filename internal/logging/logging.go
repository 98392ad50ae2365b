// Package logging builds the console logger shared by every command.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns the process logger. By default only warnings and errors
// reach the terminal so view output stays clean; verbose lowers the
// level to debug for tracing backend invocations.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "tw",
	})
}
