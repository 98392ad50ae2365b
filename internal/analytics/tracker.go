package analytics

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// Tracker records command events. All events from one process share a
// session id, so a shell session's queries can be grouped together.
type Tracker struct {
	db      *sql.DB
	enabled bool
	session string
	mu      sync.Mutex
}

// NewTracker opens the analytics database at dbPath. If enabled is
// false, tracking is disabled but the database is still created so
// `tw analytics` can report on past events.
func NewTracker(dbPath string, enabled bool) (*Tracker, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	return &Tracker{
		db:      db,
		enabled: enabled,
		session: uuid.NewString(),
	}, nil
}

// Close closes the database connection.
func (t *Tracker) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// Enabled reports whether events are being recorded.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Track wraps a command execution with timing and outcome recording.
// The provided function is always executed; an event is only recorded
// when analytics is enabled. The write is synchronous so events from
// short-lived CLI runs are not lost at process exit.
func (t *Tracker) Track(command, view, backendName string, fn func() error) error {
	if !t.enabled {
		return fn()
	}

	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()

	event := Event{
		Timestamp:  time.Now().Unix(),
		Session:    t.session,
		Command:    command,
		View:       view,
		Backend:    backendName,
		Success:    err == nil,
		DurationMs: duration,
	}
	if err != nil {
		event.ErrorType = categorizeError(err)
	}

	t.logEvent(event)

	return err
}

// logEvent records an event to the database.
func (t *Tracker) logEvent(event Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = t.db.Exec(`
		INSERT INTO events (timestamp, session, command, view, backend, success, duration_ms, error_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, event.Timestamp, event.Session, event.Command, nullString(event.View), nullString(event.Backend),
		boolToInt(event.Success), event.DurationMs, nullString(event.ErrorType))
}

// Cleanup removes events older than retentionDays and returns the
// number of deleted rows.
func (t *Tracker) Cleanup(retentionDays int) (int64, error) {
	cutoff := time.Now().Unix() - int64(retentionDays*86400)

	result, err := t.db.Exec("DELETE FROM events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	// Vacuum to reclaim space
	_, _ = t.db.Exec("VACUUM")

	return deleted, nil
}

// BucketCount is one name/count pair in a Stats breakdown.
type BucketCount struct {
	Name  string
	Count int64
}

// Stats summarizes the recorded events.
type Stats struct {
	TotalEvents   int64
	SuccessRate   float64
	AvgDurationMs float64
	Commands      []BucketCount
	Views         []BucketCount
	Backends      []BucketCount
	Errors        []BucketCount
}

// Stats aggregates the event log.
func (t *Tracker) Stats() (*Stats, error) {
	stats := &Stats{}

	row := t.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(success), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM events
	`)
	if err := row.Scan(&stats.TotalEvents, &stats.SuccessRate, &stats.AvgDurationMs); err != nil {
		return nil, err
	}

	var err error
	if stats.Commands, err = t.countBy("command", ""); err != nil {
		return nil, err
	}
	if stats.Views, err = t.countBy("view", "WHERE view IS NOT NULL"); err != nil {
		return nil, err
	}
	if stats.Backends, err = t.countBy("backend", "WHERE backend IS NOT NULL"); err != nil {
		return nil, err
	}
	if stats.Errors, err = t.countBy("error_type", "WHERE success = 0 AND error_type IS NOT NULL"); err != nil {
		return nil, err
	}

	return stats, nil
}

func (t *Tracker) countBy(column, where string) ([]BucketCount, error) {
	rows, err := t.db.Query(
		"SELECT " + column + ", COUNT(*) AS n FROM events " + where +
			" GROUP BY " + column + " ORDER BY n DESC, " + column + " ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []BucketCount
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Name, &bc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, bc)
	}
	return counts, rows.Err()
}

// categorizeError maps an error to a stable type for aggregation.
// Backend execution failures carry their own reason; everything else
// falls back to substring matching.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	var execErr *backend.ExecError
	if errors.As(err, &execErr) {
		return string(execErr.Reason)
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "context deadline") || strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "interrupt"):
		return "canceled"
	case strings.Contains(errStr, "credential") || strings.Contains(errStr, "keyring"):
		return "credentials"
	case strings.Contains(errStr, "config"):
		return "config"
	case strings.Contains(errStr, "view"):
		return "view"
	default:
		return "unknown"
	}
}

// nullString returns nil for empty strings, otherwise the string
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false)
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
