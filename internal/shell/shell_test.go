package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
	"github.com/ivishalgandhi/tw-cli-utils/internal/views"
)

var shellNow = time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

type fakeQuerier struct {
	tasks   []backend.Task
	err     error
	queries []string
}

func (f *fakeQuerier) Query(ctx context.Context, query string) ([]backend.Task, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Colors.Enabled = false
	cfg.Shell.EnableHistory = false
	cfg.Shell.ShowWelcome = false
	return cfg
}

func runShell(t *testing.T, cfg *config.Config, querier Querier, input string) (string, string) {
	t.Helper()
	renderer := views.NewRenderer(cfg, views.WithNow(func() time.Time { return shellNow }))
	var out, errOut strings.Builder
	s := New(cfg, querier, renderer, strings.NewReader(input), &out, &errOut)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	return out.String(), errOut.String()
}

func sampleTasks() []backend.Task {
	return []backend.Task{
		{ID: "1", Description: "First", Project: "web", Urgency: 5, Status: backend.StatusPending},
		{ID: "2", Description: "Second", Urgency: 2, Status: backend.StatusPending},
	}
}

func TestShellRunsQueryInDefaultView(t *testing.T) {
	querier := &fakeQuerier{tasks: sampleTasks()}

	out, _ := runShell(t, testConfig(), querier, "status:pending\n.exit\n")

	if len(querier.queries) != 1 || querier.queries[0] != "status:pending" {
		t.Errorf("queries = %v, want the raw line passed through", querier.queries)
	}
	if !strings.Contains(out, "Backlog") {
		t.Errorf("default kanban view not rendered:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("missing exit message:\n%s", out)
	}
}

func TestShellModeSwitch(t *testing.T) {
	querier := &fakeQuerier{tasks: sampleTasks()}

	out, _ := runShell(t, testConfig(), querier, ".mode table\nall\n.exit\n")

	if !strings.Contains(out, "✓ Switched to table view") {
		t.Errorf("missing switch confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 tasks") {
		t.Errorf("table view not rendered after switch:\n%s", out)
	}
}

func TestShellKanbanGrouping(t *testing.T) {
	querier := &fakeQuerier{tasks: sampleTasks()}

	out, _ := runShell(t, testConfig(), querier, ".mode kanban:project\nall\n.exit\n")

	if !strings.Contains(out, "grouped by project") {
		t.Errorf("missing grouping confirmation:\n%s", out)
	}
	if !strings.Contains(out, "web") || !strings.Contains(out, views.NoneLabel) {
		t.Errorf("project columns not rendered:\n%s", out)
	}
}

func TestShellRejectsBadModes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid grouping", ".mode kanban:assignee\n.exit\n", "Invalid grouping"},
		{"grouping non-kanban", ".mode table:project\n.exit\n", "only supported for kanban"},
		{"unknown mode", ".mode gantt\n.exit\n", "Unknown mode"},
		{"unknown dot command", ".frobnicate\n.exit\n", "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut := runShell(t, testConfig(), &fakeQuerier{}, tt.input)
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr = %q, want substring %q", errOut, tt.want)
			}
		})
	}
}

func TestShellModeWithoutArgsShowsCurrent(t *testing.T) {
	out, _ := runShell(t, testConfig(), &fakeQuerier{}, ".mode\n.exit\n")

	if !strings.Contains(out, "Current mode: kanban") {
		t.Errorf("missing current mode:\n%s", out)
	}
	if !strings.Contains(out, "Available modes: kanban, table, list, markdown") {
		t.Errorf("missing available modes:\n%s", out)
	}
}

func TestShellBackendErrorContinues(t *testing.T) {
	querier := &fakeQuerier{err: &backend.ExecError{
		Reason:  backend.ReasonNonZeroExit,
		Command: "task export",
		Stderr:  "no matches",
	}}

	out, errOut := runShell(t, testConfig(), querier, "bogus\n.mode table\n.exit\n")

	if !strings.Contains(errOut, "✗") || !strings.Contains(errOut, "no matches") {
		t.Errorf("backend error not reported:\n%s", errOut)
	}
	if !strings.Contains(errOut, "Run the backend command by hand") {
		t.Errorf("missing failure suggestion:\n%s", errOut)
	}
	if !strings.Contains(out, "✓ Switched to table view") {
		t.Errorf("shell should keep accepting commands after a failed query:\n%s", out)
	}
}

func TestShellEndOfInput(t *testing.T) {
	out, _ := runShell(t, testConfig(), &fakeQuerier{}, "")

	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("EOF should end the session politely:\n%s", out)
	}
}

func TestShellSkipsEmptyLines(t *testing.T) {
	querier := &fakeQuerier{}

	runShell(t, testConfig(), querier, "\n   \n.exit\n")

	if len(querier.queries) != 0 {
		t.Errorf("queries = %v, want none for blank input", querier.queries)
	}
}

func TestShellHelp(t *testing.T) {
	out, _ := runShell(t, testConfig(), &fakeQuerier{}, ".help\n.exit\n")

	if !strings.Contains(out, "Commands:") || !strings.Contains(out, ".mode kanban:<group>") {
		t.Errorf("help text incomplete:\n%s", out)
	}
}

func TestShellWelcomeShownOnce(t *testing.T) {
	cfg := testConfig()
	cfg.Shell.ShowWelcome = true

	out, _ := runShell(t, cfg, &fakeQuerier{}, ".exit\n")

	if !strings.Contains(out, "tw interactive shell") {
		t.Errorf("welcome banner missing:\n%s", out)
	}
}

func TestShellConfigCommand(t *testing.T) {
	out, _ := runShell(t, testConfig(), &fakeQuerier{}, ".config\n.exit\n")

	if !strings.Contains(out, "View Mode:") || !strings.Contains(out, "taskwarrior") {
		t.Errorf("config summary incomplete:\n%s", out)
	}
}

func TestShellHistoryPersisted(t *testing.T) {
	cfg := testConfig()
	cfg.Shell.EnableHistory = true
	cfg.Shell.HistoryFile = filepath.Join(t.TempDir(), "history")

	runShell(t, cfg, &fakeQuerier{tasks: sampleTasks()}, ".mode table\nall\n.exit\n")

	data, err := os.ReadFile(cfg.Shell.HistoryFile)
	if err != nil {
		t.Fatalf("history file not written: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{".mode table", "all", ".exit"}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestShellHistoryAppendsAcrossSessions(t *testing.T) {
	cfg := testConfig()
	cfg.Shell.EnableHistory = true
	cfg.Shell.HistoryFile = filepath.Join(t.TempDir(), "history")

	runShell(t, cfg, &fakeQuerier{}, "first\n.exit\n")
	runShell(t, cfg, &fakeQuerier{}, "second\n.exit\n")

	data, err := os.ReadFile(cfg.Shell.HistoryFile)
	if err != nil {
		t.Fatalf("history file not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "first") || !strings.Contains(content, "second") {
		t.Errorf("history should span sessions:\n%s", content)
	}
	if strings.Index(content, "first") > strings.Index(content, "second") {
		t.Errorf("history out of order:\n%s", content)
	}
}
