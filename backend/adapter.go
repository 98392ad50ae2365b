package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecReason classifies why a backend invocation failed.
type ExecReason string

const (
	ReasonProcessNotFound ExecReason = "process-not-found"
	ReasonNonZeroExit     ExecReason = "nonzero-exit"
	ReasonInvalidJSON     ExecReason = "invalid-json"
)

// ExecError is a failed backend invocation. Queries are one-shot: the
// caller reports the error and moves on, nothing retries.
type ExecError struct {
	Reason  ExecReason
	Command string
	Stderr  string
	Err     error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "backend %q: %s", e.Command, e.Reason)
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error { return e.Err }

// buildArgs turns a query string into the argument list for the backend
// command. A leading token equal to the command name is stripped (people
// paste whole command lines into the shell), and the export argument is
// appended when the query does not already carry it.
func buildArgs(cfg Config, query string) []string {
	if strings.TrimSpace(query) == "" {
		query = cfg.DefaultQuery
	}
	args := strings.Fields(query)
	if len(args) > 0 && args[0] == filepath.Base(cfg.Command) {
		args = args[1:]
	}
	if cfg.ExportFormat != "" {
		present := false
		for _, a := range args {
			if a == cfg.ExportFormat {
				present = true
				break
			}
		}
		if !present {
			args = append(args, cfg.ExportFormat)
		}
	}
	return args
}

// runQuery executes one backend invocation and decodes its stdout into
// raw records. extraEnv entries are appended to the inherited
// environment. The skipped count reports elements of the payload that
// were not JSON objects.
func runQuery(ctx context.Context, cfg Config, query string, extraEnv []string) (records []Record, skipped int, err error) {
	args := buildArgs(cfg, query)
	cmd := exec.CommandContext(ctx, cfg.Command, args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Environ(), extraEnv...)
	}

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		line := commandLine(cfg.Command, args)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, 0, &ExecError{
				Reason:  ReasonNonZeroExit,
				Command: line,
				Stderr:  strings.TrimSpace(string(exitErr.Stderr)),
				Err:     err,
			}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, 0, &ExecError{Reason: ReasonProcessNotFound, Command: line, Err: err}
		}
		return nil, 0, &ExecError{Reason: ReasonProcessNotFound, Command: line, Err: err}
	}

	records, skipped, err = decodeRecords(out, cfg.Type)
	if err != nil {
		return nil, 0, &ExecError{
			Reason:  ReasonInvalidJSON,
			Command: commandLine(cfg.Command, args),
			Err:     err,
		}
	}
	return records, skipped, nil
}

// decodeRecords reduces a backend payload to a flat record list. Every
// backend may print a bare JSON array; jira and custom tools may wrap it
// in an "issues" or "values" envelope or print a single object.
func decodeRecords(data []byte, t Type) ([]Record, int, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, 0, err
	}

	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		if t == TypeTaskwarrior {
			return nil, 0, fmt.Errorf("expected a JSON array of tasks")
		}
		if issues, ok := v["issues"].([]any); ok {
			items = issues
		} else if values, ok := v["values"].([]any); ok {
			items = values
		} else {
			items = []any{v}
		}
	default:
		return nil, 0, fmt.Errorf("expected a JSON array of records")
	}

	records := make([]Record, 0, len(items))
	skipped := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, Record(obj))
	}
	return records, skipped, nil
}

func commandLine(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
