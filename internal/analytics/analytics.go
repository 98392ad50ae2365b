// Package analytics keeps a local SQLite log of command usage: which
// views run, against which backend, how long queries take and how they
// fail. Nothing leaves the machine; the log exists for `tw analytics`.
package analytics

import (
	"os"
	"path/filepath"

	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
)

// Event is one recorded command execution.
type Event struct {
	ID         int64
	Timestamp  int64
	Session    string
	Command    string
	View       string
	Backend    string
	Success    bool
	DurationMs int64
	ErrorType  string
}

// IsEnabledFromEnv resolves the effective enabled state. The
// TW_CLI_ANALYTICS_ENABLED environment variable overrides the config
// value; anything other than "true"/"1" disables.
func IsEnabledFromEnv(configEnabled bool) bool {
	env := os.Getenv("TW_CLI_ANALYTICS_ENABLED")
	if env == "" {
		return configEnabled
	}
	return env == "true" || env == "1"
}

// DefaultDBPath is where the event log lives, honoring XDG_DATA_HOME.
func DefaultDBPath() string {
	return filepath.Join(config.GetDataDir(), "analytics.db")
}
