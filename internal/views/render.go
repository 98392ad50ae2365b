package views

import (
	"io"
	"time"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/config"
	"github.com/ivishalgandhi/tw-cli-utils/internal/utils"
)

// Renderer dispatches tasks to one of the output formats using the
// loaded configuration for layout defaults.
type Renderer struct {
	cfg   *config.Config
	theme Theme
	now   func() time.Time
	width int
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithTheme overrides the theme derived from the config colors.
func WithTheme(theme Theme) RendererOption {
	return func(r *Renderer) { r.theme = theme }
}

// WithNow fixes the clock, for tests and reproducible exports.
func WithNow(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// WithWidth sets the terminal width available to the kanban board.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) { r.width = width }
}

// NewRenderer builds a renderer from the loaded config.
func NewRenderer(cfg *config.Config, opts ...RendererOption) *Renderer {
	r := &Renderer{
		cfg:   cfg,
		theme: NewTheme(cfg.Colors),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes tasks in the named format. groupBy only affects the
// kanban format; empty means the configured default. The input slice is
// not reordered.
func (r *Renderer) Render(w io.Writer, view string, groupBy string, tasks []backend.Task) error {
	now := r.now()
	switch view {
	case "kanban":
		if groupBy == "" {
			groupBy = r.cfg.Kanban.GroupBy
		}
		columns := Group(r.clone(tasks), GroupOptions{
			Mode:          ParseMode(groupBy),
			Now:           now,
			ShowCompleted: r.cfg.Kanban.ShowCompleted,
			CompletedDays: r.cfg.Kanban.CompletedDays,
			MaxPerColumn:  r.cfg.Kanban.MaxTasksPerColumn,
		})
		return RenderKanban(w, columns, KanbanOptions{
			MinColumnWidth: r.cfg.Kanban.ColumnMinWidth,
			TotalWidth:     r.width,
			Theme:          r.theme,
			Now:            now,
		})
	case "table":
		sorted := r.clone(tasks)
		SortTasksBy(sorted, r.cfg.Table.DefaultSort, r.cfg.Table.SortOrder == "desc")
		return RenderTable(w, sorted, TableOptions{
			Columns: r.cfg.Table.Columns,
			Theme:   r.theme,
			Now:     now,
		})
	case "list":
		sorted := r.clone(tasks)
		SortTasks(sorted)
		return RenderList(w, sorted, ListOptions{
			ShowMetadata: r.cfg.List.ShowMetadata,
			MaxWidth:     r.cfg.List.MaxWidth,
			Theme:        r.theme,
			Now:          now,
		})
	case "markdown":
		sorted := r.clone(tasks)
		SortTasks(sorted)
		return RenderMarkdown(w, sorted, MarkdownOptions{
			GroupByProject:  r.cfg.Markdown.GroupByProject,
			IncludeMetadata: r.cfg.Markdown.IncludeMetadata,
			UseCheckboxes:   r.cfg.Markdown.UseCheckboxes,
			Now:             now,
		})
	default:
		return utils.ErrUnknownView(view)
	}
}

// RenderView writes tasks as a table laid out by a named view: its
// filters applied, its sort order, its columns.
func (r *Renderer) RenderView(w io.Writer, view *View, tasks []backend.Task) error {
	filtered := ApplyFilters(r.clone(tasks), view.Filters)
	key := view.Sort
	if key == "" {
		key = "urgency"
	}
	order := view.Order
	if order == "" {
		order = "desc"
	}
	SortTasksBy(filtered, key, order == "desc")
	return RenderTable(w, filtered, TableOptions{
		Columns: view.Columns,
		Theme:   r.theme,
		Now:     r.now(),
	})
}

// Columns exposes the grouping used by the kanban format so the board
// TUI can reuse it.
func (r *Renderer) Columns(tasks []backend.Task, groupBy string) []Column {
	if groupBy == "" {
		groupBy = r.cfg.Kanban.GroupBy
	}
	return Group(r.clone(tasks), GroupOptions{
		Mode:          ParseMode(groupBy),
		Now:           r.now(),
		ShowCompleted: r.cfg.Kanban.ShowCompleted,
		CompletedDays: r.cfg.Kanban.CompletedDays,
		MaxPerColumn:  r.cfg.Kanban.MaxTasksPerColumn,
	})
}

func (r *Renderer) clone(tasks []backend.Task) []backend.Task {
	out := make([]backend.Task, len(tasks))
	copy(out, tasks)
	return out
}
