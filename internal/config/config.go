// Package config loads tw configuration from a TOML file.
//
// The file lives at ~/.config/tw-cli/config.toml by default (XDG aware).
// On first run a documented sample is written there so users have
// something to edit instead of hunting through docs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/utils"
)

// ViewNames are the rendering modes accepted by default_view and the
// view command.
var ViewNames = []string{"kanban", "table", "list", "markdown"}

// GroupModes are the kanban grouping modes. An unrecognized mode falls
// back to status at render time, but the config loader rejects it so
// typos surface early.
var GroupModes = []string{"status", "priority", "project", "tag"}

// SortKeys are the task fields the table view can sort by.
var SortKeys = []string{"urgency", "id", "description", "project", "status", "priority", "due", "entry", "modified"}

// Config is the root of the TOML file.
type Config struct {
	DefaultView string          `toml:"default_view"`
	Backend     BackendConfig   `toml:"backend"`
	Kanban      KanbanConfig    `toml:"kanban"`
	Table       TableConfig     `toml:"table"`
	List        ListConfig      `toml:"list"`
	Markdown    MarkdownConfig  `toml:"markdown"`
	Shell       ShellConfig     `toml:"shell"`
	Colors      ColorsConfig    `toml:"colors"`
	Analytics   AnalyticsConfig `toml:"analytics"`
}

// BackendConfig describes the external CLI tasks are pulled from.
type BackendConfig struct {
	Type          string            `toml:"type"`
	Command       string            `toml:"command"`
	ExportFormat  string            `toml:"export_format"`
	DefaultQuery  string            `toml:"default_query"`
	CredentialEnv string            `toml:"credential_env"`
	FieldMapping  map[string]string `toml:"field_mapping"`
	StatusMap     [][]string        `toml:"status_map"`
	PriorityMap   [][]string        `toml:"priority_map"`
}

// KanbanConfig controls the kanban board.
type KanbanConfig struct {
	GroupBy           string `toml:"group_by"`
	ShowCompleted     bool   `toml:"show_completed"`
	CompletedDays     int    `toml:"completed_days"`
	ColumnMinWidth    int    `toml:"column_min_width"`
	MaxTasksPerColumn int    `toml:"max_tasks_per_column"`
}

// TableConfig controls the table view.
type TableConfig struct {
	Columns     []string `toml:"columns"`
	DefaultSort string   `toml:"default_sort"`
	SortOrder   string   `toml:"sort_order"`
}

// ListConfig controls the flat list view.
type ListConfig struct {
	ShowMetadata bool `toml:"show_metadata"`
	MaxWidth     int  `toml:"max_width"`
}

// MarkdownConfig controls the markdown export.
type MarkdownConfig struct {
	GroupByProject  bool `toml:"group_by_project"`
	IncludeMetadata bool `toml:"include_metadata"`
	UseCheckboxes   bool `toml:"use_checkboxes"`
}

// ShellConfig controls the interactive shell.
type ShellConfig struct {
	EnableHistory bool   `toml:"enable_history"`
	HistoryFile   string `toml:"history_file"`
	ShowWelcome   bool   `toml:"show_welcome"`
}

// ColorsConfig holds the palette used by the renderers. Values are
// color names ("cyan"), ANSI 256 codes ("213") or hex ("#ff8800").
type ColorsConfig struct {
	Enabled       bool   `toml:"enabled"`
	Header        string `toml:"header"`
	ColumnTitle   string `toml:"column_title"`
	TaskID        string `toml:"task_id"`
	Project       string `toml:"project"`
	Tag           string `toml:"tag"`
	Border        string `toml:"border"`
	UrgencyHigh   string `toml:"urgency_high"`
	UrgencyMedium string `toml:"urgency_medium"`
	Overdue       string `toml:"overdue"`
	DueSoon       string `toml:"due_soon"`
	Completed     string `toml:"completed"`
}

// AnalyticsConfig controls the local usage log. Disabled unless the
// user opts in here or via TW_CLI_ANALYTICS_ENABLED.
type AnalyticsConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultView: "kanban",
		Backend: BackendConfig{
			Type: "taskwarrior",
		},
		Kanban: KanbanConfig{
			GroupBy:           "status",
			ShowCompleted:     true,
			CompletedDays:     7,
			ColumnMinWidth:    40,
			MaxTasksPerColumn: 20,
		},
		Table: TableConfig{
			Columns:     []string{"id", "description", "project", "tags", "due", "priority", "urgency"},
			DefaultSort: "urgency",
			SortOrder:   "desc",
		},
		List: ListConfig{
			ShowMetadata: true,
			MaxWidth:     100,
		},
		Markdown: MarkdownConfig{
			GroupByProject:  true,
			IncludeMetadata: true,
			UseCheckboxes:   true,
		},
		Shell: ShellConfig{
			EnableHistory: true,
			HistoryFile:   filepath.Join("~", ".config", "tw-cli", "history"),
			ShowWelcome:   true,
		},
		Colors: ColorsConfig{
			Enabled:       true,
			Header:        "cyan",
			ColumnTitle:   "cyan",
			TaskID:        "blue",
			Project:       "magenta",
			Tag:           "yellow",
			Border:        "8",
			UrgencyHigh:   "red",
			UrgencyMedium: "yellow",
			Overdue:       "red",
			DueSoon:       "yellow",
			Completed:     "green",
		},
		Analytics: AnalyticsConfig{
			Enabled:       false,
			RetentionDays: 90,
		},
	}
}

// GetConfigDir returns the directory holding config.toml, honoring
// XDG_CONFIG_HOME.
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", filepath.Join("~", ".config"))
}

// GetDataDir returns the directory for mutable state such as the
// analytics database, honoring XDG_DATA_HOME.
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join("~", ".local", "share"))
}

func getXDGDir(envVar, fallback string) string {
	base := os.Getenv(envVar)
	if base == "" {
		base = ExpandPath(fallback)
	}
	return filepath.Join(base, "tw-cli")
}

// DefaultPath returns the config file path used when --config is not given.
func DefaultPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// ExpandPath expands a leading ~/ and any environment variables in path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	return os.ExpandEnv(path)
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file at the default location is created with the
// documented sample; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, utils.WrapWithSuggestion(
				fmt.Errorf("config file not found: %s", path),
				"Run 'tw config init' to generate a starter file.")
		}
		if err := WriteSample(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, utils.WrapWithSuggestion(
			fmt.Errorf("parsing %s: %w", path, err),
			"Check the file for TOML syntax errors (unclosed quotes, stray brackets).")
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteSample writes the documented sample config to path, creating
// parent directories as needed. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing config: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0644)
}

// normalize lowercases the enum-like fields so validation and dispatch
// can compare exactly.
func (c *Config) normalize() {
	c.DefaultView = strings.ToLower(strings.TrimSpace(c.DefaultView))
	c.Backend.Type = strings.ToLower(strings.TrimSpace(c.Backend.Type))
	c.Kanban.GroupBy = strings.ToLower(strings.TrimSpace(c.Kanban.GroupBy))
	c.Table.DefaultSort = strings.ToLower(strings.TrimSpace(c.Table.DefaultSort))
	c.Table.SortOrder = strings.ToLower(strings.TrimSpace(c.Table.SortOrder))
	for i, col := range c.Table.Columns {
		c.Table.Columns[i] = strings.ToLower(strings.TrimSpace(col))
	}
}

// Validate checks the enum fields and numeric ranges. It returns errors
// with suggestions so the CLI can print actionable messages.
func (c *Config) Validate() error {
	if !contains(ViewNames, c.DefaultView) {
		return utils.ErrUnknownView(c.DefaultView)
	}
	if _, err := backend.ParseType(c.Backend.Type); err != nil {
		return utils.ErrUnknownBackendType(c.Backend.Type)
	}
	if c.Backend.Type == "custom" && c.Backend.Command == "" {
		return utils.WrapWithSuggestion(
			fmt.Errorf("backend type 'custom' requires a command"),
			"Set backend.command in the config file to the CLI that emits task JSON.")
	}
	if !contains(GroupModes, c.Kanban.GroupBy) {
		return utils.WrapWithSuggestion(
			fmt.Errorf("unknown kanban group mode: %q", c.Kanban.GroupBy),
			"Valid modes: "+strings.Join(GroupModes, ", "))
	}
	if c.Kanban.CompletedDays < 0 {
		return utils.WrapWithSuggestion(
			fmt.Errorf("kanban.completed_days must not be negative: %d", c.Kanban.CompletedDays),
			"Use 0 to hide completed tasks entirely.")
	}
	if c.Kanban.ColumnMinWidth < 10 {
		return utils.WrapWithSuggestion(
			fmt.Errorf("kanban.column_min_width too small: %d", c.Kanban.ColumnMinWidth),
			"Columns need at least 10 cells to render task ids.")
	}
	if c.Kanban.MaxTasksPerColumn < 1 {
		return utils.WrapWithSuggestion(
			fmt.Errorf("kanban.max_tasks_per_column must be positive: %d", c.Kanban.MaxTasksPerColumn),
			"Raise the limit instead of disabling it.")
	}
	if !contains(SortKeys, c.Table.DefaultSort) {
		return utils.ErrInvalidSortKey(c.Table.DefaultSort, SortKeys)
	}
	if c.Table.SortOrder != "asc" && c.Table.SortOrder != "desc" {
		return utils.WrapWithSuggestion(
			fmt.Errorf("unknown sort order: %q", c.Table.SortOrder),
			"Use 'asc' or 'desc'.")
	}
	for _, col := range c.Table.Columns {
		if !contains(tableColumns, col) {
			return utils.WrapWithSuggestion(
				fmt.Errorf("unknown table column: %q", col),
				"Valid columns: "+strings.Join(tableColumns, ", "))
		}
	}
	for field := range c.Backend.FieldMapping {
		if !contains(backend.CanonicalFields(), strings.ToLower(field)) {
			return utils.WrapWithSuggestion(
				fmt.Errorf("unknown field_mapping key: %q", field),
				"Valid fields: "+strings.Join(backend.CanonicalFields(), ", "))
		}
	}
	if err := validateRules("status_map", c.Backend.StatusMap); err != nil {
		return err
	}
	if err := validateRules("priority_map", c.Backend.PriorityMap); err != nil {
		return err
	}
	if c.Analytics.RetentionDays < 1 {
		return utils.WrapWithSuggestion(
			fmt.Errorf("analytics.retention_days must be positive: %d", c.Analytics.RetentionDays),
			"Disable analytics instead of setting retention to zero.")
	}
	return nil
}

var tableColumns = []string{"id", "uuid", "description", "project", "tags", "status", "priority", "due", "entry", "modified", "urgency"}

func validateRules(name string, rules [][]string) error {
	for i, pair := range rules {
		if len(pair) != 2 {
			return utils.WrapWithSuggestion(
				fmt.Errorf("%s entry %d must be a [pattern, value] pair, got %d elements", name, i+1, len(pair)),
				"Write rules as status_map = [[\"Done\", \"completed\"]].")
		}
	}
	return nil
}

// ToBackend converts the TOML backend section into the runtime backend
// config. Field mappings are emitted in canonical field order so
// resolution is deterministic regardless of TOML table ordering.
func (c *Config) ToBackend() (backend.Config, error) {
	t, err := backend.ParseType(c.Backend.Type)
	if err != nil {
		return backend.Config{}, utils.ErrUnknownBackendType(c.Backend.Type)
	}
	cfg := backend.Config{
		Type:          t,
		Command:       c.Backend.Command,
		ExportFormat:  c.Backend.ExportFormat,
		DefaultQuery:  c.Backend.DefaultQuery,
		CredentialEnv: c.Backend.CredentialEnv,
		StatusMap:     toRules(c.Backend.StatusMap),
		PriorityMap:   toRules(c.Backend.PriorityMap),
	}
	if len(c.Backend.FieldMapping) > 0 {
		for _, field := range backend.CanonicalFields() {
			path, ok := c.Backend.FieldMapping[field]
			if !ok || path == "" {
				continue
			}
			cfg.FieldMapping = append(cfg.FieldMapping, backend.FieldPath{Field: field, Path: path})
		}
	}
	return cfg, nil
}

func toRules(pairs [][]string) []backend.Rule {
	if len(pairs) == 0 {
		return nil
	}
	rules := make([]backend.Rule, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		rules = append(rules, backend.Rule{Pattern: pair[0], Value: pair[1]})
	}
	return rules
}

// HistoryFile returns the expanded shell history path.
func (c *Config) HistoryFile() string {
	return ExpandPath(c.Shell.HistoryFile)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
