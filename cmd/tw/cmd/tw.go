package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/analytics"
	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
	"github.com/ivishalgandhi/tw-cli-utils/internal/credentials"
	"github.com/ivishalgandhi/tw-cli-utils/internal/logging"
	"github.com/ivishalgandhi/tw-cli-utils/internal/shell"
	"github.com/ivishalgandhi/tw-cli-utils/internal/tui"
	"github.com/ivishalgandhi/tw-cli-utils/internal/utils"
	"github.com/ivishalgandhi/tw-cli-utils/internal/views"
)

// Version is set at build time
var Version = "dev"

// Commit is set at build time
var Commit = "none"

// BuildDate is set at build time
var BuildDate = "unknown"

// newCredentialsManager builds the manager used to resolve backend
// tokens. Tests swap in a mock keyring.
var newCredentialsManager = func() *credentials.Manager {
	return credentials.NewManager()
}

// Execute runs the CLI with the given arguments and IO streams and
// returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd(stdin, stdout, stderr)

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		var execErr *backend.ExecError
		if errors.As(err, &execErr) {
			_, _ = fmt.Fprintln(stderr, utils.SuggestForBackendFailure(string(execErr.Reason), execErr.Command))
		}
		return 1
	}
	return 0
}

// NewRootCmd creates the root command with injectable IO
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tw",
		Short:   "Render tasks from your tracker's CLI as kanban, table, list, or markdown",
		Long:    "tw pulls tasks from an external tracker CLI (taskwarrior, the jira CLI, or any JSON-emitting tool) and renders them in alternative layouts. It never creates or modifies tasks.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `tw` renders the configured default view with the
			// backend's default query.
			return runView(cmd, stdout, stderr, "")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default ~/.config/tw-cli/config.toml)")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")

	// Bare `tw` accepts the same rendering flags as `tw view`.
	addViewFlags(cmd)

	cmd.AddCommand(newViewCmd(stdout, stderr))
	cmd.AddCommand(newViewsCmd(stdout, stderr))
	cmd.AddCommand(newShellCmd(stdin, stdout, stderr))
	cmd.AddCommand(newBoardCmd(stdin, stdout, stderr))
	cmd.AddCommand(newConfigCmd(stdout))
	cmd.AddCommand(newCredentialsCmd(stdin, stdout, stderr))
	cmd.AddCommand(newAnalyticsCmd(stdin, stdout))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// addViewFlags registers the flags shared by the root command and the
// view subcommand.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("cmd", "", "Backend query to run (default from config)")
	cmd.Flags().StringP("backend", "b", "", "Backend type to query (taskwarrior, jira, custom)")
	cmd.Flags().StringP("group", "g", "", "Kanban grouping (status, priority, project, tag)")
	cmd.Flags().IntP("width", "w", 0, "Total kanban width in cells (default terminal width)")
}

// newViewCmd creates the 'view' subcommand
func newViewCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [format]",
		Short: "Query the backend and render tasks",
		Long:  "Render tasks in the given format (kanban, table, list, markdown) or in a named table view from the views directory. With no argument the configured default view is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runView(cmd, stdout, stderr, name)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addViewFlags(cmd)
	return cmd
}

// runView executes one query-and-render cycle: load config, resolve the
// backend and its credentials, query, render to stdout.
func runView(cmd *cobra.Command, stdout, stderr io.Writer, name string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := commandLogger(cmd, stderr)
	applyBackendFlag(cmd, cfg)

	if name == "" {
		name = cfg.DefaultView
	}
	name = strings.ToLower(strings.TrimSpace(name))

	// A name that is not one of the four formats refers to a custom
	// table view on disk, resolved before touching the backend.
	var namedView *views.View
	if !isFormat(name) {
		namedView, err = views.NewLoader(views.DefaultViewsDir()).LoadView(name)
		if err != nil {
			return err
		}
	}

	provider, err := buildProvider(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("cmd")
	groupBy, _ := cmd.Flags().GetString("group")
	renderer := newRenderer(cmd, cfg, stdout)

	tracker := openTracker(cfg, logger)
	defer closeTracker(tracker)

	return track(tracker, "view", name, string(provider.Config().Type), func() error {
		tasks, err := provider.Query(cmd.Context(), query)
		if err != nil {
			return err
		}
		if namedView != nil {
			return renderer.RenderView(stdout, namedView, tasks)
		}
		return renderer.Render(stdout, name, groupBy, tasks)
	})
}

// newViewsCmd creates the 'views' subcommand listing named table views
func newViewsCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List available table views",
		Long:  "Show the built-in table views and any custom views defined in the views directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doViewsList(stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// doViewsList displays the built-in and on-disk table views
func doViewsList(stdout io.Writer) error {
	infos, err := views.NewLoader(views.DefaultViewsDir()).ListViews()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Available views (%d):\n\n", len(infos))
	_, _ = fmt.Fprintf(stdout, "%-14s %-9s %s\n", "NAME", "SOURCE", "DESCRIPTION")
	for _, info := range infos {
		source := "custom"
		if info.BuiltIn {
			source = "built-in"
		}
		_, _ = fmt.Fprintf(stdout, "%-14s %-9s %s\n", info.Name, source, info.Description)
	}
	_, _ = fmt.Fprintf(stdout, "\nUse one with: tw view <name>\n")
	return nil
}

// newShellCmd creates the 'shell' subcommand
func newShellCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive query shell",
		Long:  "Start an interactive session: type backend queries and see them rendered in the current view mode. Switch modes with .mode, leave with .exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := commandLogger(cmd, stderr)
			applyBackendFlag(cmd, cfg)

			provider, err := buildProvider(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			tracker := openTracker(cfg, logger)
			defer closeTracker(tracker)

			var querier shell.Querier = provider
			if tracker != nil {
				querier = &trackingQuerier{
					q:       provider,
					tracker: tracker,
					command: "shell",
					backend: string(provider.Config().Type),
				}
			}

			renderer := newRenderer(cmd, cfg, stdout)
			return shell.New(cfg, querier, renderer, stdin, stdout, stderr).Run(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("backend", "b", "", "Backend type to query (taskwarrior, jira, custom)")
	return cmd
}

// newBoardCmd creates the 'board' subcommand
func newBoardCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Interactive kanban board",
		Long:  "Open the kanban board as a full-screen terminal program. Arrow keys move between columns and tasks, g cycles the grouping, r re-queries the backend, q quits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := commandLogger(cmd, stderr)
			applyBackendFlag(cmd, cfg)

			provider, err := buildProvider(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			tracker := openTracker(cfg, logger)
			defer closeTracker(tracker)

			var querier tui.Querier = provider
			if tracker != nil {
				querier = &trackingQuerier{
					q:       provider,
					tracker: tracker,
					command: "board",
					backend: string(provider.Config().Type),
				}
			}

			query, _ := cmd.Flags().GetString("cmd")
			groupBy, _ := cmd.Flags().GetString("group")
			renderer := newRenderer(cmd, cfg, stdout)

			model := tui.New(cmd.Context(), querier, renderer, query, groupBy)
			program := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithInput(stdin),
				tea.WithOutput(stdout),
			)
			_, err = program.Run()
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("cmd", "", "Backend query to run (default from config)")
	cmd.Flags().StringP("backend", "b", "", "Backend type to query (taskwarrior, jira, custom)")
	cmd.Flags().StringP("group", "g", "", "Initial grouping (status, priority, project, tag)")
	return cmd
}

// newConfigCmd creates the 'config' subcommand
func newConfigCmd(stdout io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	configCmd.AddCommand(newConfigShowCmd(stdout))
	configCmd.AddCommand(newConfigInitCmd(stdout))
	configCmd.AddCommand(newConfigPathCmd(stdout))

	return configCmd
}

// newConfigShowCmd creates the 'config show' subcommand
func newConfigShowCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the loaded configuration with every default filled in, as TOML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return toml.NewEncoder(stdout).Encode(cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newConfigInitCmd creates the 'config init' subcommand
func newConfigInitCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long:  "Write the documented sample configuration to the config path. Refuses to overwrite an existing file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			if err := config.WriteSample(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "Wrote %s\n", config.ExpandPath(path))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newConfigPathCmd creates the 'config path' subcommand
func newConfigPathCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(stdout, config.ExpandPath(configPath(cmd)))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// configPath resolves the config file path from the --config flag,
// falling back to the default location.
func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultPath()
}

// newCredentialsCmd creates the 'credentials' subcommand for token management
func newCredentialsCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage backend tokens",
		Long:  "Store, inspect, and remove backend API tokens in the system keyring (macOS Keychain, Windows Credential Manager, or Linux Secret Service).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	credentialsCmd.AddCommand(newCredentialsSetCmd(stdin, stdout))
	credentialsCmd.AddCommand(newCredentialsGetCmd(stdout))
	credentialsCmd.AddCommand(newCredentialsDeleteCmd(stdin, stdout))
	credentialsCmd.AddCommand(newCredentialsListCmd(stdout))

	return credentialsCmd
}

// newCredentialsSetCmd creates the 'credentials set' subcommand
func newCredentialsSetCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [backend]",
		Short: "Store a token in the system keyring",
		Long:  "Store an API token for a backend. Without --token the token is read from a hidden prompt.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				var err error
				token, err = credentials.ReadToken(stdin, stdout, args[0])
				if err != nil {
					return err
				}
			}

			if err := newCredentialsManager().Set(cmd.Context(), args[0], token); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "Stored token for %s in the system keyring\n", args[0])
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("token", "", "Token value (omit to be prompted with hidden input)")
	return cmd
}

// newCredentialsGetCmd creates the 'credentials get' subcommand
func newCredentialsGetCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [backend]",
		Short: "Show whether a token is available and where from",
		Long:  "Report whether a token for the backend can be resolved, and whether it comes from the keyring or an environment variable. The token itself is never printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := newCredentialsManager().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !info.Found {
				return utils.ErrCredentialsNotFound(args[0])
			}

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				out, err := info.JSON()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(stdout, string(out))
				return nil
			}

			_, _ = fmt.Fprintf(stdout, "Backend: %s\n", info.Backend)
			_, _ = fmt.Fprintf(stdout, "Source:  %s\n", info.Source)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

// newCredentialsDeleteCmd creates the 'credentials delete' subcommand
func newCredentialsDeleteCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [backend]",
		Short: "Remove a token from the system keyring",
		Long:  "Remove the stored token for a backend. Environment variables are not affected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				if !utils.Confirm(stdin, stdout, fmt.Sprintf("Remove stored token for %s?", args[0])) {
					_, _ = fmt.Fprintln(stdout, "Aborted")
					return nil
				}
			}

			if err := newCredentialsManager().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "Removed token for %s\n", args[0])
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newCredentialsListCmd creates the 'credentials list' subcommand
func newCredentialsListCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backends with token status",
		Long:  "Show each backend type and whether a token can be resolved for it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doCredentialsList(cmd.Context(), stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// doCredentialsList displays token availability per backend type
func doCredentialsList(ctx context.Context, stdout io.Writer) error {
	names := []string{
		string(backend.TypeTaskwarrior),
		string(backend.TypeJira),
		string(backend.TypeCustom),
	}
	statuses, err := newCredentialsManager().List(ctx, names)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "%-14s %-11s %s\n", "BACKEND", "TOKEN", "SOURCE")
	for _, st := range statuses {
		token := "none"
		if st.HasToken {
			token = "available"
		}
		_, _ = fmt.Fprintf(stdout, "%-14s %-11s %s\n", st.Backend, token, st.Source)
	}
	return nil
}

// newAnalyticsCmd creates the 'analytics' subcommand
func newAnalyticsCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Inspect the local usage log",
		Long:  "Summarize or clean up the opt-in local usage log. Nothing is ever sent anywhere; enable recording with analytics.enabled or TW_CLI_ANALYTICS_ENABLED=true.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	analyticsCmd.AddCommand(newAnalyticsStatsCmd(stdout))
	analyticsCmd.AddCommand(newAnalyticsCleanupCmd(stdin, stdout))

	return analyticsCmd
}

// newAnalyticsStatsCmd creates the 'analytics stats' subcommand
func newAnalyticsStatsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded command usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return doAnalyticsStats(cfg, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// doAnalyticsStats aggregates and prints the event log
func doAnalyticsStats(cfg *config.Config, stdout io.Writer) error {
	// Open regardless of the enabled switch so past events stay
	// inspectable after opting back out.
	tracker, err := analytics.NewTracker(analytics.DefaultDBPath(), analytics.IsEnabledFromEnv(cfg.Analytics.Enabled))
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	stats, err := tracker.Stats()
	if err != nil {
		return err
	}

	state := "disabled"
	if tracker.Enabled() {
		state = "enabled"
	}
	_, _ = fmt.Fprintf(stdout, "Recording:    %s\n", state)
	_, _ = fmt.Fprintf(stdout, "Events:       %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Success rate: %.0f%%\n", stats.SuccessRate*100)
	_, _ = fmt.Fprintf(stdout, "Avg duration: %.0fms\n", stats.AvgDurationMs)

	writeBuckets(stdout, "Commands", stats.Commands)
	writeBuckets(stdout, "Views", stats.Views)
	writeBuckets(stdout, "Backends", stats.Backends)
	writeBuckets(stdout, "Errors", stats.Errors)
	return nil
}

// writeBuckets prints one name/count breakdown of the stats output
func writeBuckets(stdout io.Writer, title string, buckets []analytics.BucketCount) {
	if len(buckets) == 0 {
		return
	}
	_, _ = fmt.Fprintf(stdout, "\n%s:\n", title)
	for _, b := range buckets {
		_, _ = fmt.Fprintf(stdout, "  %-14s %d\n", b.Name, b.Count)
	}
}

// newAnalyticsCleanupCmd creates the 'analytics cleanup' subcommand
func newAnalyticsCleanupCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete events older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				days = cfg.Analytics.RetentionDays
			}

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				if !utils.Confirm(stdin, stdout, fmt.Sprintf("Delete events older than %d days?", days)) {
					_, _ = fmt.Fprintln(stdout, "Aborted")
					return nil
				}
			}
			return doAnalyticsCleanup(cfg, days, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntP("days", "d", 0, "Retention in days (default analytics.retention_days)")
	return cmd
}

// doAnalyticsCleanup removes old events and reports how many went
func doAnalyticsCleanup(cfg *config.Config, days int, stdout io.Writer) error {
	tracker, err := analytics.NewTracker(analytics.DefaultDBPath(), analytics.IsEnabledFromEnv(cfg.Analytics.Enabled))
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	deleted, err := tracker.Cleanup(days)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Deleted %d events older than %d days\n", deleted, days)
	return nil
}

// newVersionCmd creates the 'version' subcommand
func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(stdout, "tw %s\n", Version)
			_, _ = fmt.Fprintf(stdout, "Commit:     %s\n", Commit)
			_, _ = fmt.Fprintf(stdout, "Built:      %s\n", BuildDate)
			_, _ = fmt.Fprintf(stdout, "Go Version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(stdout, "Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// loadConfig loads the configuration honoring the --config flag
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// commandLogger builds the process logger honoring the --verbose flag
func commandLogger(cmd *cobra.Command, stderr io.Writer) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(stderr, verbose)
}

// applyBackendFlag switches the configured backend type for this run.
// The rest of the backend section belongs to the configured type, so a
// different type starts from its own defaults.
func applyBackendFlag(cmd *cobra.Command, cfg *config.Config) {
	name, _ := cmd.Flags().GetString("backend")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == cfg.Backend.Type {
		return
	}
	cfg.Backend = config.BackendConfig{Type: name}
}

// buildProvider assembles the backend provider for one command run:
// backend config from the file, credentials resolved into the child
// process environment, logger for adapter diagnostics.
func buildProvider(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.Provider, error) {
	bcfg, err := cfg.ToBackend()
	if err != nil {
		return nil, err
	}

	opts := []backend.Option{backend.WithLogger(logger)}
	if bcfg.CredentialEnv != "" {
		env, err := newCredentialsManager().Env(ctx, string(bcfg.Type), bcfg.CredentialEnv)
		if err != nil {
			return nil, err
		}
		opts = append(opts, backend.WithEnv(env))
	}
	return backend.New(bcfg, opts...)
}

// newRenderer builds the renderer for stdout: colors only when stdout
// is a terminal, kanban width from the terminal unless the --width
// flag overrides it.
func newRenderer(cmd *cobra.Command, cfg *config.Config, stdout io.Writer) *views.Renderer {
	width, _ := cmd.Flags().GetInt("width")

	var opts []views.RendererOption
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width <= 0 {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = w
			}
		}
	} else {
		opts = append(opts, views.WithTheme(views.PlainTheme()))
	}
	if width > 0 {
		opts = append(opts, views.WithWidth(width))
	}
	return views.NewRenderer(cfg, opts...)
}

// openTracker opens the usage log when recording is enabled. Analytics
// must never break a command, so failures only log and disable it.
func openTracker(cfg *config.Config, logger *log.Logger) *analytics.Tracker {
	if !analytics.IsEnabledFromEnv(cfg.Analytics.Enabled) {
		return nil
	}
	tracker, err := analytics.NewTracker(analytics.DefaultDBPath(), true)
	if err != nil {
		logger.Debug("usage log unavailable", "err", err)
		return nil
	}
	return tracker
}

func closeTracker(t *analytics.Tracker) {
	if t != nil {
		_ = t.Close()
	}
}

// track runs fn through the tracker when one is open.
func track(t *analytics.Tracker, command, view, backendName string, fn func() error) error {
	if t == nil {
		return fn()
	}
	return t.Track(command, view, backendName, fn)
}

// trackingQuerier records one analytics event per backend query run
// through it. The shell and board use it so every interactive query is
// logged under the session it belongs to.
type trackingQuerier struct {
	q       shell.Querier
	tracker *analytics.Tracker
	command string
	backend string
}

func (t *trackingQuerier) Query(ctx context.Context, query string) ([]backend.Task, error) {
	var tasks []backend.Task
	err := t.tracker.Track(t.command, "", t.backend, func() error {
		var qerr error
		tasks, qerr = t.q.Query(ctx, query)
		return qerr
	})
	return tasks, err
}

// isFormat reports whether name is one of the four rendering formats.
func isFormat(name string) bool {
	for _, v := range config.ViewNames {
		if v == name {
			return true
		}
	}
	return false
}
