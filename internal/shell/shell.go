// Package shell implements the interactive REPL. Lines starting with a
// dot control the shell; anything else is passed to the backend as a
// query and rendered in the current view mode.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
	"github.com/ivishalgandhi/tw-cli-utils/internal/utils"
	"github.com/ivishalgandhi/tw-cli-utils/internal/views"
)

// Querier runs one backend query. *backend.Provider satisfies it; tests
// substitute fakes.
type Querier interface {
	Query(ctx context.Context, query string) ([]backend.Task, error)
}

// Shell is one interactive session. Queries run strictly sequentially;
// each is a fresh snapshot with no caching in between.
type Shell struct {
	cfg      *config.Config
	querier  Querier
	renderer *views.Renderer
	in       io.Reader
	out      io.Writer
	errOut   io.Writer

	view    string
	groupBy string
	history []string
}

// maxHistory caps the history file length.
const maxHistory = 1000

// New builds a shell reading commands from in and writing rendered
// views to out and diagnostics to errOut.
func New(cfg *config.Config, querier Querier, renderer *views.Renderer, in io.Reader, out, errOut io.Writer) *Shell {
	return &Shell{
		cfg:      cfg,
		querier:  querier,
		renderer: renderer,
		in:       in,
		out:      out,
		errOut:   errOut,
		view:     cfg.DefaultView,
		groupBy:  cfg.Kanban.GroupBy,
	}
}

// Run reads commands until .exit or end of input. Backend failures are
// reported and the loop continues; only input errors end the session.
func (s *Shell) Run(ctx context.Context) error {
	if s.cfg.Shell.EnableHistory {
		s.loadHistory()
		defer s.saveHistory()
	}
	if s.cfg.Shell.ShowWelcome {
		s.printWelcome()
	}

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprintf(s.out, "\ntw (%s) › ", s.view)
		if !scanner.Scan() {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.history = append(s.history, line)

		if strings.HasPrefix(line, ".") {
			if quit := s.dotCommand(line); quit {
				return nil
			}
			continue
		}
		s.runQuery(ctx, line)
	}
}

// dotCommand handles one control command and reports whether the shell
// should exit.
func (s *Shell) dotCommand(line string) bool {
	cmd, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case ".exit", ".quit", ".q":
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	case ".help":
		s.printWelcome()
	case ".mode":
		if args == "" {
			fmt.Fprintf(s.out, "Current mode: %s\n", s.view)
			fmt.Fprintln(s.out, "Available modes: kanban, table, list, markdown")
			fmt.Fprintln(s.out, "Kanban grouping: kanban:status, kanban:priority, kanban:project, kanban:tag")
		} else {
			s.switchMode(args)
		}
	case ".config":
		s.printConfig()
	default:
		fmt.Fprintf(s.errOut, "Unknown command: %s\n", cmd)
		fmt.Fprintln(s.errOut, "Type .help for available commands")
	}
	return false
}

func (s *Shell) switchMode(mode string) {
	if view, group, ok := strings.Cut(mode, ":"); ok {
		if view != "kanban" {
			fmt.Fprintln(s.errOut, "✗ Grouping is only supported for kanban mode")
			return
		}
		group = strings.ToLower(strings.TrimSpace(group))
		valid := false
		for _, m := range config.GroupModes {
			if m == group {
				valid = true
				break
			}
		}
		if !valid {
			fmt.Fprintf(s.errOut, "✗ Invalid grouping: %s\n", group)
			fmt.Fprintln(s.errOut, "Available groupings: status, priority, project, tag")
			return
		}
		s.view = "kanban"
		s.groupBy = group
		fmt.Fprintf(s.out, "✓ Switched to kanban view, grouped by %s\n", group)
		return
	}

	mode = strings.ToLower(strings.TrimSpace(mode))
	for _, v := range config.ViewNames {
		if v == mode {
			s.view = mode
			fmt.Fprintf(s.out, "✓ Switched to %s view\n", mode)
			return
		}
	}
	fmt.Fprintf(s.errOut, "✗ Unknown mode: %s\n", mode)
	fmt.Fprintln(s.errOut, "Available modes: kanban, table, list, markdown")
}

func (s *Shell) runQuery(ctx context.Context, query string) {
	tasks, err := s.querier.Query(ctx, query)
	if err != nil {
		fmt.Fprintf(s.errOut, "\n✗ %v\n", err)
		var execErr *backend.ExecError
		if errors.As(err, &execErr) {
			fmt.Fprintln(s.errOut, utils.SuggestForBackendFailure(string(execErr.Reason), s.cfg.Backend.Command))
		} else if suggestion := utils.GetSuggestion(err); suggestion != "" {
			fmt.Fprintln(s.errOut, suggestion)
		}
		return
	}

	fmt.Fprintln(s.out)
	if err := s.renderer.Render(s.out, s.view, s.groupBy, tasks); err != nil {
		fmt.Fprintf(s.errOut, "✗ %v\n", err)
	}
}

func (s *Shell) printWelcome() {
	fmt.Fprintf(s.out, `tw interactive shell

Commands:
  .mode <view>          switch view (kanban, table, list, markdown)
  .mode kanban:<group>  set kanban grouping (status, priority, project, tag)
  .config               show current settings
  .help                 show this message
  .exit | .quit | .q    leave the shell

Type a backend query to run it in the current view, for example
"+work" or "project:home status:pending".

Current mode: %s
`, s.view)
}

func (s *Shell) printConfig() {
	fmt.Fprintf(s.out, "View Mode:        %s\n", s.view)
	if s.view == "kanban" {
		fmt.Fprintf(s.out, "Kanban Grouping:  %s\n", s.groupBy)
	}
	fmt.Fprintf(s.out, "Backend:          %s (%s)\n", s.cfg.Backend.Type, backendCommand(s.cfg))
	fmt.Fprintf(s.out, "Config File:      %s\n", config.DefaultPath())
}

func backendCommand(cfg *config.Config) string {
	if cfg.Backend.Command != "" {
		return cfg.Backend.Command
	}
	bc, err := cfg.ToBackend()
	if err != nil {
		return "?"
	}
	full, err := backend.DefaultConfig(bc.Type)
	if err != nil {
		return "?"
	}
	return full.Command
}

// loadHistory reads prior session commands so saveHistory can append to
// them instead of truncating the file to this session only.
func (s *Shell) loadHistory() {
	path := s.cfg.HistoryFile()
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			s.history = append(s.history, line)
		}
	}
}

// saveHistory writes the capped history file. Failures are silent, the
// history is a convenience.
func (s *Shell) saveHistory() {
	path := s.cfg.HistoryFile()
	if path == "" || len(s.history) == 0 {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	lines := s.history
	if len(lines) > maxHistory {
		lines = lines[len(lines)-maxHistory:]
	}
	_ = os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
