package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
)

// View is a named table layout. Users drop YAML files into
// ~/.config/tw-cli/views/ to define their own; the built-in "default"
// and "detailed" views cover the common cases and can be overridden by
// a file of the same name.
type View struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Columns     []string `yaml:"columns"`
	Sort        string   `yaml:"sort,omitempty"`
	Order       string   `yaml:"order,omitempty"` // asc or desc
	Filters     []Filter `yaml:"filters,omitempty"`
}

// DefaultView returns the built-in everyday table layout.
func DefaultView() *View {
	return &View{
		Name:        "default",
		Description: "Standard task table for everyday use",
		Columns:     []string{"id", "description", "project", "tags", "due", "priority", "urgency"},
		Sort:        "urgency",
		Order:       "desc",
	}
}

// DetailedView returns the built-in layout showing every column.
func DetailedView() *View {
	return &View{
		Name:        "detailed",
		Description: "Every task column including timestamps",
		Columns:     []string{"id", "uuid", "description", "project", "tags", "status", "priority", "due", "entry", "modified", "urgency"},
		Sort:        "urgency",
		Order:       "desc",
	}
}

// Loader resolves view names against disk files and built-ins.
type Loader struct {
	viewsDir string
}

// NewLoader creates a loader reading from viewsDir. An empty dir means
// built-ins only.
func NewLoader(viewsDir string) *Loader {
	return &Loader{viewsDir: viewsDir}
}

// DefaultViewsDir is where user view files live.
func DefaultViewsDir() string {
	return filepath.Join(config.GetConfigDir(), "views")
}

// ValidateViewName rejects names that could escape the views directory
// when joined into a file path.
func ValidateViewName(name string) error {
	if name == "" {
		return fmt.Errorf("view name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid view name %q: contains path separator", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid view name %q: contains path traversal sequence", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid view name %q: cannot start with '.'", name)
	}
	return nil
}

// LoadView loads a view by name. Disk files win over built-ins so users
// can override "default" and "detailed" with their own layouts.
func (l *Loader) LoadView(name string) (*View, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = "default"
	}
	if normalized != "default" && normalized != "detailed" {
		if err := ValidateViewName(normalized); err != nil {
			return nil, err
		}
	}

	if l.viewsDir != "" {
		path := filepath.Join(l.viewsDir, normalized+".yaml")
		if _, err := os.Stat(path); err == nil {
			return l.loadFromDisk(normalized, path)
		}
	}

	switch normalized {
	case "default":
		return DefaultView(), nil
	case "detailed":
		return DetailedView(), nil
	}
	return nil, fmt.Errorf("view %q not found", name)
}

func (l *Loader) loadFromDisk(name, path string) (*View, error) {
	absDir, err := filepath.Abs(l.viewsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving views directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving view path: %w", err)
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid view name %q: path traversal detected", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading view %q: %w", name, err)
	}
	var view View
	if err := yaml.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("parsing view %q: %w", name, err)
	}
	if view.Name == "" {
		view.Name = name
	}
	if err := validateView(&view); err != nil {
		return nil, fmt.Errorf("invalid view %q: %w", name, err)
	}
	return &view, nil
}

// ViewInfo describes an available view for listings.
type ViewInfo struct {
	Name        string
	Description string
	BuiltIn     bool
}

// ListViews returns built-in and on-disk views, built-ins first, disk
// views alphabetical. A disk file shadowing a built-in name is reported
// once, as not built-in.
func (l *Loader) ListViews() ([]ViewInfo, error) {
	infos := []ViewInfo{
		{Name: "default", Description: DefaultView().Description, BuiltIn: true},
		{Name: "detailed", Description: DetailedView().Description, BuiltIn: true},
	}

	if l.viewsDir == "" {
		return infos, nil
	}
	entries, err := os.ReadDir(l.viewsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return infos, nil
		}
		return nil, fmt.Errorf("reading views directory: %w", err)
	}

	var custom []ViewInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		view, err := l.LoadView(name)
		info := ViewInfo{Name: name}
		if err == nil {
			info.Description = view.Description
		}
		if name == "default" || name == "detailed" {
			for i := range infos {
				if infos[i].Name == name {
					infos[i] = info
				}
			}
			continue
		}
		custom = append(custom, info)
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i].Name < custom[j].Name })
	return append(infos, custom...), nil
}

func validateView(v *View) error {
	if len(v.Columns) == 0 {
		return fmt.Errorf("view must name at least one column")
	}
	for _, col := range v.Columns {
		if _, ok := tableHeaders[col]; !ok {
			return fmt.Errorf("unknown column: %s", col)
		}
	}
	if v.Sort != "" && !contains(config.SortKeys, v.Sort) {
		return fmt.Errorf("unknown sort key: %s", v.Sort)
	}
	if v.Order != "" && v.Order != "asc" && v.Order != "desc" {
		return fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", v.Order)
	}
	for _, f := range v.Filters {
		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
