package backend

import (
	"fmt"
)

// Type identifies which kind of external tool a backend configuration
// drives. Each type carries its own default command, field mapping, and
// vocabulary tables; behavior is dispatched by explicit switch on the
// type, never by subtype.
type Type string

const (
	TypeTaskwarrior Type = "taskwarrior"
	TypeJira        Type = "jira"
	TypeCustom      Type = "custom"
)

// ParseType converts a config string into a backend Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeTaskwarrior, TypeJira, TypeCustom:
		return Type(s), nil
	case "":
		return TypeTaskwarrior, nil
	default:
		return "", fmt.Errorf("unknown backend type %q", s)
	}
}

// Rule is one entry of an ordered vocabulary table: a raw pattern and the
// canonical value it maps to. Tables are evaluated top to bottom and the
// first pattern equal to the raw value (case-insensitively) wins.
type Rule struct {
	Pattern string
	Value   string
}

// FieldPath binds a canonical field name to the dot-path expression that
// locates it inside a raw record.
type FieldPath struct {
	Field string
	Path  string
}

// Config describes one backend: the process to run and the tables that
// translate its output into canonical tasks.
type Config struct {
	Type         Type
	Command      string
	ExportFormat string // argument appended to force JSON output
	DefaultQuery string // query used when the caller provides none
	// CredentialEnv names an environment variable the caller populates
	// (typically from the OS keyring) for the child process.
	CredentialEnv string
	FieldMapping  []FieldPath
	StatusMap     []Rule
	PriorityMap   []Rule
}

// Canonical field names recognized in a field mapping, in resolution
// order.
const (
	FieldID          = "id"
	FieldUUID        = "uuid"
	FieldDescription = "description"
	FieldProject     = "project"
	FieldTags        = "tags"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDue         = "due"
	FieldEntry       = "entry"
	FieldModified    = "modified"
	FieldStart       = "start"
	FieldDepends     = "depends"
	FieldUrgency     = "urgency"
)

// CanonicalFields lists every canonical field name, in resolution order.
func CanonicalFields() []string {
	return []string{
		FieldID, FieldUUID, FieldDescription, FieldProject, FieldTags,
		FieldStatus, FieldPriority, FieldDue, FieldEntry, FieldModified,
		FieldStart, FieldDepends, FieldUrgency,
	}
}

// identityMapping maps every canonical field to the dot-path equal to its
// own name. Taskwarrior's export matches the canonical model one-to-one,
// and an arbitrary JSON-emitting tool can do the same.
func identityMapping() []FieldPath {
	fields := CanonicalFields()
	mapping := make([]FieldPath, 0, len(fields))
	for _, f := range fields {
		mapping = append(mapping, FieldPath{Field: f, Path: f})
	}
	return mapping
}

// jiraMapping resolves canonical fields from the issue shape printed by
// the jira CLI: top-level key plus a nested "fields" object.
func jiraMapping() []FieldPath {
	return []FieldPath{
		{Field: FieldID, Path: "key"},
		{Field: FieldUUID, Path: "id"},
		{Field: FieldDescription, Path: "fields.summary"},
		{Field: FieldProject, Path: "fields.project.key"},
		{Field: FieldTags, Path: "fields.labels"},
		{Field: FieldStatus, Path: "fields.status.name"},
		{Field: FieldPriority, Path: "fields.priority.name"},
		{Field: FieldDue, Path: "fields.duedate"},
		{Field: FieldEntry, Path: "fields.created"},
		{Field: FieldModified, Path: "fields.updated"},
	}
}

// DefaultConfig returns the complete configuration for a backend type.
func DefaultConfig(t Type) (Config, error) {
	switch t {
	case TypeTaskwarrior:
		return Config{
			Type:         TypeTaskwarrior,
			Command:      "task",
			ExportFormat: "export",
			DefaultQuery: "status:pending",
			FieldMapping: identityMapping(),
			StatusMap:    defaultStatusRules(),
			PriorityMap:  defaultPriorityRules(),
		}, nil
	case TypeJira:
		return Config{
			Type:         TypeJira,
			Command:      "jira",
			ExportFormat: "--json",
			DefaultQuery: "issue list --plain",
			FieldMapping: jiraMapping(),
			StatusMap:    defaultStatusRules(),
			PriorityMap:  defaultPriorityRules(),
		}, nil
	case TypeCustom:
		return Config{
			Type:         TypeCustom,
			FieldMapping: identityMapping(),
			StatusMap:    defaultStatusRules(),
			PriorityMap:  defaultPriorityRules(),
		}, nil
	default:
		return Config{}, fmt.Errorf("unknown backend type %q", t)
	}
}

// withDefaults fills every unset field of cfg from its type's defaults.
// A custom backend has no default command, so one must be configured.
func withDefaults(cfg Config) (Config, error) {
	base, err := DefaultConfig(cfg.Type)
	if err != nil {
		return Config{}, err
	}
	if cfg.Command == "" {
		cfg.Command = base.Command
	}
	if cfg.Command == "" {
		return Config{}, fmt.Errorf("backend type %q requires a command", cfg.Type)
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = base.ExportFormat
	}
	if cfg.DefaultQuery == "" {
		cfg.DefaultQuery = base.DefaultQuery
	}
	if len(cfg.FieldMapping) == 0 {
		cfg.FieldMapping = base.FieldMapping
	}
	if len(cfg.StatusMap) == 0 {
		cfg.StatusMap = base.StatusMap
	}
	if len(cfg.PriorityMap) == 0 {
		cfg.PriorityMap = base.PriorityMap
	}
	return cfg, nil
}
