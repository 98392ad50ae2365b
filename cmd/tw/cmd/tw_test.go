package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ivishalgandhi/tw-cli-utils/internal/credentials"
)

// runCLI executes the CLI with isolated IO and returns the exit code
// and both output streams.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// isolateEnv points the XDG directories at temp space so tests never
// touch the developer's real config, views, or event log.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("TW_CLI_ANALYTICS_ENABLED", "")
}

// writeBackendScript drops an executable script into a temp dir so CLI
// tests can play the role of a backend CLI.
func writeBackendScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("CLI tests need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-backend")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// writeConfig writes a config file driving the given backend script.
// extra lines land at the end of the [backend] section; new sections
// can be appended after a blank line.
func writeConfig(t *testing.T, script, extra string) string {
	t.Helper()
	body := fmt.Sprintf(`default_view = "table"

[colors]
enabled = false

[shell]
enable_history = false
show_welcome = true

[backend]
type = "custom"
command = %q
%s`, script, extra)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// twoTaskScript emits one plain pending task and one started task.
func twoTaskScript(t *testing.T) string {
	t.Helper()
	return writeBackendScript(t, `printf '[
  {"id":1,"description":"Write report","project":"work","priority":"H","urgency":12.4,"status":"pending"},
  {"id":2,"description":"Deploy service","tags":["ops"],"status":"pending","start":"2024-01-01T10:00:00Z"}
]'`)
}

// withMockKeyring reroutes the credentials commands to an in-memory
// keyring for the duration of the test.
func withMockKeyring(t *testing.T) *credentials.MockKeyring {
	t.Helper()
	mock := credentials.NewMockKeyring()
	orig := newCredentialsManager
	newCredentialsManager = func() *credentials.Manager {
		return credentials.NewManager(credentials.WithKeyring(mock))
	}
	t.Cleanup(func() { newCredentialsManager = orig })
	return mock
}

// --- Help and Version Tests ---

// TestHelpFlag verifies that --help displays usage information
func TestHelpFlag(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "--help")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "tw") {
		t.Errorf("help output should contain 'tw', got: %s", stdout)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("help output should contain 'Usage:', got: %s", stdout)
	}
	for _, sub := range []string{"view", "shell", "board", "config", "credentials", "analytics", "version"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("help output should list the %q command, got: %s", sub, stdout)
		}
	}
}

// TestVersionCommand verifies that 'tw version' displays build information
func TestVersionCommand(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "version")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"tw " + Version, "Commit:", "Built:", "Go Version:", "Platform:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("version output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestVersionFlag verifies that --version works as the short form
func TestVersionFlag(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "--version")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, Version) {
		t.Errorf("version output should contain %q, got: %s", Version, stdout)
	}
}

// --- View Command Tests ---

// TestViewTable verifies one full query-and-render cycle
func TestViewTable(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "view", "table", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"Write report", "Deploy service", "Total: 2 tasks"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("table output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestViewKanban verifies status columns and task placement
func TestViewKanban(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "view", "kanban", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"Backlog", "In Progress", "Waiting", "Completed", "Write report", "Deploy service"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("kanban output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestViewKanbanGroupFlag verifies --group switches the column set
func TestViewKanbanGroupFlag(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "view", "kanban", "--group", "project", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "work") {
		t.Errorf("project grouping should produce a work column, got: %s", stdout)
	}
	if !strings.Contains(stdout, "(none)") {
		t.Errorf("project grouping should produce a (none) column, got: %s", stdout)
	}
	if strings.Contains(stdout, "Backlog") {
		t.Errorf("project grouping should not produce status columns, got: %s", stdout)
	}
}

// TestBareRootRunsDefaultView verifies `tw` with no arguments renders
// the configured default view
func TestBareRootRunsDefaultView(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Total: 2 tasks") {
		t.Errorf("bare tw should render the default table view, got: %s", stdout)
	}
}

// TestViewNamedView verifies custom YAML views resolve from the views
// directory
func TestViewNamedView(t *testing.T) {
	isolateEnv(t)
	viewsDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "tw-cli", "views")
	if err := os.MkdirAll(viewsDir, 0o755); err != nil {
		t.Fatalf("mkdir views: %v", err)
	}
	view := `name: mine
description: Only the essentials
columns: ["id", "description"]
`
	if err := os.WriteFile(filepath.Join(viewsDir, "mine.yaml"), []byte(view), 0o644); err != nil {
		t.Fatalf("write view: %v", err)
	}
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "view", "mine", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Write report") {
		t.Errorf("named view should render task rows, got: %s", stdout)
	}
	if strings.Contains(stdout, "Urg") {
		t.Errorf("named view should only render its own columns, got: %s", stdout)
	}
}

// TestViewUnknownName verifies unknown view names fail with exit 1
func TestViewUnknownName(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, _, stderr := runCLI(t, "", "view", "gantt", "--config", cfgPath)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "gantt") || !strings.Contains(stderr, "not found") {
		t.Errorf("stderr should name the missing view, got: %s", stderr)
	}
}

// TestViewBackendFailure verifies backend errors reach stderr with a
// suggestion and a nonzero exit code
func TestViewBackendFailure(t *testing.T) {
	isolateEnv(t)
	script := writeBackendScript(t, `echo "boom" >&2
exit 3`)
	cfgPath := writeConfig(t, script, "")

	code, _, stderr := runCLI(t, "", "view", "table", "--config", cfgPath)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("stderr should contain 'Error:', got: %s", stderr)
	}
	if !strings.Contains(stderr, "nonzero-exit") {
		t.Errorf("stderr should carry the failure reason, got: %s", stderr)
	}
	if !strings.Contains(stderr, "by hand") {
		t.Errorf("stderr should carry the reason-specific suggestion, got: %s", stderr)
	}
}

// TestViewUnknownBackendFlag verifies --backend validation
func TestViewUnknownBackendFlag(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, _, stderr := runCLI(t, "", "view", "table", "--backend", "asana", "--config", cfgPath)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "unknown backend type") {
		t.Errorf("stderr should reject the backend type, got: %s", stderr)
	}
	if !strings.Contains(stderr, "taskwarrior") {
		t.Errorf("stderr should suggest the valid types, got: %s", stderr)
	}
}

// TestViewMissingExplicitConfig verifies an explicit --config path that
// does not exist is an error, not a silent fallback
func TestViewMissingExplicitConfig(t *testing.T) {
	isolateEnv(t)

	code, _, stderr := runCLI(t, "", "view", "table", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "config file not found") {
		t.Errorf("stderr should report the missing file, got: %s", stderr)
	}
	if !strings.Contains(stderr, "config init") {
		t.Errorf("stderr should suggest config init, got: %s", stderr)
	}
}

// --- Views Listing Tests ---

// TestViewsListsBuiltinsAndCustom verifies 'tw views' output
func TestViewsListsBuiltinsAndCustom(t *testing.T) {
	isolateEnv(t)
	viewsDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "tw-cli", "views")
	if err := os.MkdirAll(viewsDir, 0o755); err != nil {
		t.Fatalf("mkdir views: %v", err)
	}
	view := `name: sprint
description: Sprint review layout
columns: ["id", "description", "status"]
`
	if err := os.WriteFile(filepath.Join(viewsDir, "sprint.yaml"), []byte(view), 0o644); err != nil {
		t.Fatalf("write view: %v", err)
	}

	code, stdout, stderr := runCLI(t, "", "views")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"default", "detailed", "built-in", "sprint", "custom", "Sprint review layout"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("views output should contain %q, got: %s", want, stdout)
		}
	}
}

// --- Shell Command Tests ---

// TestShellSession drives a scripted session end to end
func TestShellSession(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	input := ".mode list\nstatus:pending\n.exit\n"
	code, stdout, stderr := runCLI(t, input, "shell", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"interactive shell", "Switched to list view", "Write report", "Goodbye!"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("shell output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestShellSurvivesBackendFailure verifies a failing query keeps the
// session alive
func TestShellSurvivesBackendFailure(t *testing.T) {
	isolateEnv(t)
	script := writeBackendScript(t, `echo "no database" >&2
exit 1`)
	cfgPath := writeConfig(t, script, "")

	input := "anything\n.exit\n"
	code, stdout, stderr := runCLI(t, input, "shell", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("shell should exit cleanly after a backend failure, got %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "nonzero-exit") {
		t.Errorf("stderr should report the query failure, got: %s", stderr)
	}
	if !strings.Contains(stdout, "Goodbye!") {
		t.Errorf("session should continue to .exit, got: %s", stdout)
	}
}

// --- Config Command Tests ---

// TestConfigShow verifies the effective config is printed as TOML
func TestConfigShow(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "config", "show", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `default_view = "table"`) {
		t.Errorf("show output should contain the default view, got: %s", stdout)
	}
	if !strings.Contains(stdout, "[backend]") {
		t.Errorf("show output should contain the backend section, got: %s", stdout)
	}
	if !strings.Contains(stdout, "[kanban]") {
		t.Errorf("show output should include filled-in defaults, got: %s", stdout)
	}
}

// TestConfigInit verifies the starter file is written once
func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	code, stdout, stderr := runCLI(t, "", "config", "init", "--config", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Wrote") {
		t.Errorf("init should report the written path, got: %s", stdout)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	code, _, stderr = runCLI(t, "", "config", "init", "--config", path)
	if code != 1 {
		t.Fatalf("second init should refuse, got exit %d", code)
	}
	if !strings.Contains(stderr, "refusing to overwrite") {
		t.Errorf("stderr should explain the refusal, got: %s", stderr)
	}
}

// TestConfigPath verifies path resolution with and without --config
func TestConfigPath(t *testing.T) {
	isolateEnv(t)

	code, stdout, _ := runCLI(t, "", "config", "path", "--config", "/tmp/custom.toml")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "/tmp/custom.toml") {
		t.Errorf("path should echo the flag value, got: %s", stdout)
	}

	code, stdout, _ = runCLI(t, "", "config", "path")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, filepath.Join("tw-cli", "config.toml")) {
		t.Errorf("path should fall back to the default location, got: %s", stdout)
	}
}

// --- Credentials Command Tests ---

// TestCredentialsSetGetDelete drives the token lifecycle with a mock
// keyring
func TestCredentialsSetGetDelete(t *testing.T) {
	isolateEnv(t)
	withMockKeyring(t)
	t.Setenv("TW_CLI_JIRA_TOKEN", "")

	code, stdout, stderr := runCLI(t, "", "credentials", "set", "jira", "--token", "sekrit")
	if code != 0 {
		t.Fatalf("set: expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Stored token for jira") {
		t.Errorf("set should confirm storage, got: %s", stdout)
	}

	code, stdout, _ = runCLI(t, "", "credentials", "get", "jira")
	if code != 0 {
		t.Fatalf("get: expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "Backend: jira") || !strings.Contains(stdout, "keyring") {
		t.Errorf("get should report the keyring source, got: %s", stdout)
	}
	if strings.Contains(stdout, "sekrit") {
		t.Errorf("get must never print the token, got: %s", stdout)
	}

	code, stdout, _ = runCLI(t, "", "credentials", "delete", "jira", "-y")
	if code != 0 {
		t.Fatalf("delete: expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "Removed token for jira") {
		t.Errorf("delete should confirm removal, got: %s", stdout)
	}

	code, _, stderr = runCLI(t, "", "credentials", "get", "jira")
	if code != 1 {
		t.Fatalf("get after delete: expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "no credentials stored for jira") {
		t.Errorf("stderr should report the missing token, got: %s", stderr)
	}
}

// TestCredentialsSetPrompts verifies the token prompt path
func TestCredentialsSetPrompts(t *testing.T) {
	isolateEnv(t)
	mock := withMockKeyring(t)

	code, stdout, stderr := runCLI(t, "hunter2\n", "credentials", "set", "github")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Token for github:") {
		t.Errorf("prompt should be written, got: %s", stdout)
	}
	got, err := mock.Get("tw-cli", "github")
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("stored token = %q, want %q", got, "hunter2")
	}
}

// TestCredentialsDeleteConfirmation verifies delete asks before acting
func TestCredentialsDeleteConfirmation(t *testing.T) {
	isolateEnv(t)
	mock := withMockKeyring(t)
	if err := mock.Set("tw-cli", "jira", "keep-me"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	code, stdout, _ := runCLI(t, "n\n", "credentials", "delete", "jira")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "Aborted") {
		t.Errorf("declined confirmation should abort, got: %s", stdout)
	}
	if _, err := mock.Get("tw-cli", "jira"); err != nil {
		t.Errorf("token should survive a declined delete: %v", err)
	}
}

// TestCredentialsGetJSON verifies machine-readable output without the
// token value
func TestCredentialsGetJSON(t *testing.T) {
	isolateEnv(t)
	mock := withMockKeyring(t)
	if err := mock.Set("tw-cli", "jira", "sekrit"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	code, stdout, stderr := runCLI(t, "", "credentials", "get", "jira", "--json")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{`"backend":"jira"`, `"source":"keyring"`, `"found":true`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("JSON output should contain %s, got: %s", want, stdout)
		}
	}
	if strings.Contains(stdout, "sekrit") {
		t.Errorf("JSON output must never include the token, got: %s", stdout)
	}
}

// TestCredentialsList verifies the per-backend status table
func TestCredentialsList(t *testing.T) {
	isolateEnv(t)
	mock := withMockKeyring(t)
	if err := mock.Set("tw-cli", "jira", "sekrit"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	t.Setenv("TW_CLI_TASKWARRIOR_TOKEN", "")
	t.Setenv("TW_CLI_CUSTOM_TOKEN", "from-env")

	code, stdout, stderr := runCLI(t, "", "credentials", "list")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"BACKEND", "taskwarrior", "jira", "custom", "keyring", "environment", "none"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestViewInjectsCredential verifies the keyring token reaches the
// backend process through the configured environment variable
func TestViewInjectsCredential(t *testing.T) {
	isolateEnv(t)
	mock := withMockKeyring(t)
	if err := mock.Set("tw-cli", "custom", "tok-123"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	t.Setenv("FAKE_TOKEN", "")

	script := writeBackendScript(t, `printf '[{"id":1,"description":"%s"}]' "$FAKE_TOKEN"`)
	cfgPath := writeConfig(t, script, `credential_env = "FAKE_TOKEN"`)

	code, stdout, stderr := runCLI(t, "", "view", "table", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "tok-123") {
		t.Errorf("backend should have seen the injected token, got: %s", stdout)
	}
}

// TestViewMissingCredential verifies the failure mode when a token is
// configured but nowhere to be found
func TestViewMissingCredential(t *testing.T) {
	isolateEnv(t)
	withMockKeyring(t)
	t.Setenv("TW_CLI_CUSTOM_TOKEN", "")
	t.Setenv("FAKE_TOKEN", "")

	cfgPath := writeConfig(t, twoTaskScript(t), `credential_env = "FAKE_TOKEN"`)

	code, _, stderr := runCLI(t, "", "view", "table", "--config", cfgPath)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "no credentials stored for custom") {
		t.Errorf("stderr should report the missing token, got: %s", stderr)
	}
	if !strings.Contains(stderr, "credentials set custom") {
		t.Errorf("stderr should suggest storing one, got: %s", stderr)
	}
}

// --- Analytics Command Tests ---

// TestAnalyticsStatsEmpty verifies stats on a fresh database
func TestAnalyticsStatsEmpty(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "analytics", "stats", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Recording:    disabled") {
		t.Errorf("stats should report recording disabled, got: %s", stdout)
	}
	if !strings.Contains(stdout, "Events:       0") {
		t.Errorf("stats should report zero events, got: %s", stdout)
	}
}

// TestAnalyticsRecordsViewRuns verifies opt-in tracking end to end:
// run a view, then read it back from the stats
func TestAnalyticsRecordsViewRuns(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "\n[analytics]\nenabled = true")

	code, _, stderr := runCLI(t, "", "view", "kanban", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("view: expected exit code 0, got %d: %s", code, stderr)
	}

	code, stdout, stderr := runCLI(t, "", "analytics", "stats", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("stats: expected exit code 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"Recording:    enabled", "Events:       1", "Success rate: 100%", "view", "kanban", "custom"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stats output should contain %q, got: %s", want, stdout)
		}
	}
}

// TestAnalyticsCleanup verifies cleanup reports what it deleted
func TestAnalyticsCleanup(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "", "analytics", "cleanup", "-y", "--days", "5", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Deleted 0 events older than 5 days") {
		t.Errorf("cleanup should report the deletion, got: %s", stdout)
	}
}

// TestAnalyticsCleanupConfirmation verifies cleanup asks before acting
func TestAnalyticsCleanupConfirmation(t *testing.T) {
	isolateEnv(t)
	cfgPath := writeConfig(t, twoTaskScript(t), "")

	code, stdout, stderr := runCLI(t, "n\n", "analytics", "cleanup", "--config", cfgPath)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Aborted") {
		t.Errorf("declined confirmation should abort, got: %s", stdout)
	}
}
