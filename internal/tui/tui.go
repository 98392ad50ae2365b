// Package tui runs the kanban board as an interactive terminal program.
// It reuses the grouping behind the kanban view, so the board shows the
// same columns the static output would.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
	"github.com/ivishalgandhi/tw-cli-utils/internal/views"
)

// Querier runs one backend query and returns canonical tasks.
type Querier interface {
	Query(ctx context.Context, query string) ([]backend.Task, error)
}

// Mode indicates the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeDetail
	ModeHelp
)

// groupCycle is the order the g key walks through grouping modes.
var groupCycle = []string{"status", "priority", "project", "tag"}

// Model is the board state.
type Model struct {
	ctx      context.Context
	querier  Querier
	renderer *views.Renderer
	query    string
	groupBy  string

	// Data
	tasks   []backend.Task
	columns []views.Column
	filter  string

	// Selection
	colCursor  int
	taskCursor int

	// Mode and input
	mode      Mode
	textInput textinput.Model

	loading bool
	status  string

	// UI dimensions
	width  int
	height int

	// Styles
	columnStyle    lipgloss.Style
	focusedStyle   lipgloss.Style
	titleStyle     lipgloss.Style
	selectedStyle  lipgloss.Style
	completedStyle lipgloss.Style
	dimStyle       lipgloss.Style
	helpStyle      lipgloss.Style
	dialogStyle    lipgloss.Style
	statusBarStyle lipgloss.Style
	errorStyle     lipgloss.Style
}

// Message types
type tasksLoadedMsg struct {
	tasks []backend.Task
}

type errMsg struct {
	err error
}

// New creates a board model. groupBy may be empty to use the configured
// default; query is re-run on every refresh.
func New(ctx context.Context, querier Querier, renderer *views.Renderer, query, groupBy string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256

	if groupBy == "" {
		groupBy = string(views.ParseMode(""))
	}

	return &Model{
		ctx:       ctx,
		querier:   querier,
		renderer:  renderer,
		query:     query,
		groupBy:   string(views.ParseMode(groupBy)),
		textInput: ti,
		mode:      ModeNormal,
		loading:   true,
		columnStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		focusedStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().
			Bold(true),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
	}
}

// Init starts the first query.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.querier.Query(m.ctx, m.query)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.loading = false
		m.status = ""
		m.regroup()
		return m, nil

	case errMsg:
		m.loading = false
		m.status = "✗ " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeFilter:
			return m.handleFilterMode(msg)
		case ModeDetail, ModeHelp:
			return m.handleDialogMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h":
		if m.colCursor > 0 {
			m.colCursor--
			m.clampTaskCursor()
		}
		return m, nil

	case "right", "l":
		if m.colCursor < len(m.columns)-1 {
			m.colCursor++
			m.clampTaskCursor()
		}
		return m, nil

	case "up", "k":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
		return m, nil

	case "down", "j":
		if col := m.currentColumn(); col != nil && m.taskCursor < len(col.Tasks)-1 {
			m.taskCursor++
		}
		return m, nil

	case "g":
		m.groupBy = nextGroupMode(m.groupBy)
		m.colCursor = 0
		m.taskCursor = 0
		m.regroup()
		return m, nil

	case "r":
		m.loading = true
		m.status = ""
		return m, m.load()

	case "/":
		m.mode = ModeFilter
		m.textInput.Reset()
		m.textInput.SetValue(m.filter)
		m.textInput.Focus()
		return m, textinput.Blink

	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.regroup()
		}
		return m, nil

	case "enter":
		if m.selectedTask() != nil {
			m.mode = ModeDetail
		}
		return m, nil

	case "?":
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filter = m.textInput.Value()
		m.mode = ModeNormal
		m.colCursor = 0
		m.taskCursor = 0
		m.regroup()
		return m, nil

	case tea.KeyEsc:
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDialogMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = ModeNormal
		return m, nil
	}
	if msg.String() == "q" {
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

func nextGroupMode(current string) string {
	for i, mode := range groupCycle {
		if mode == current {
			return groupCycle[(i+1)%len(groupCycle)]
		}
	}
	return groupCycle[0]
}

// regroup rebuilds the columns from the last query result, applying the
// active filter first.
func (m *Model) regroup() {
	filtered := m.tasks
	if m.filter != "" {
		filtered = nil
		needle := strings.ToLower(m.filter)
		for _, task := range m.tasks {
			if taskMatches(task, needle) {
				filtered = append(filtered, task)
			}
		}
	}
	m.columns = m.renderer.Columns(filtered, m.groupBy)
	if m.colCursor >= len(m.columns) {
		m.colCursor = 0
	}
	m.clampTaskCursor()
}

func taskMatches(task backend.Task, needle string) bool {
	if strings.Contains(strings.ToLower(task.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(task.Project), needle) {
		return true
	}
	for _, tag := range task.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (m *Model) clampTaskCursor() {
	col := m.currentColumn()
	if col == nil || len(col.Tasks) == 0 {
		m.taskCursor = 0
		return
	}
	if m.taskCursor >= len(col.Tasks) {
		m.taskCursor = len(col.Tasks) - 1
	}
}

func (m *Model) currentColumn() *views.Column {
	if m.colCursor < 0 || m.colCursor >= len(m.columns) {
		return nil
	}
	return &m.columns[m.colCursor]
}

func (m *Model) selectedTask() *backend.Task {
	col := m.currentColumn()
	if col == nil || m.taskCursor < 0 || m.taskCursor >= len(col.Tasks) {
		return nil
	}
	return &col.Tasks[m.taskCursor]
}

// View renders the board.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	switch m.mode {
	case ModeDetail:
		return m.centerDialog(m.renderDetailDialog())
	case ModeHelp:
		return m.centerDialog(m.renderHelpDialog())
	}

	var b strings.Builder

	if m.loading {
		b.WriteString("Loading tasks...\n")
		b.WriteString(m.renderStatusBar())
		return b.String()
	}

	if len(m.columns) == 0 {
		b.WriteString("No tasks found. Try adjusting your query.\n")
		b.WriteString(m.renderStatusBar())
		return b.String()
	}

	b.WriteString(m.renderColumns())
	b.WriteString("\n")
	if m.mode == ModeFilter {
		b.WriteString("Filter: " + m.textInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderColumns lays the visible columns out side by side. When the
// terminal is too narrow for every column, a window around the cursor
// scrolls horizontally.
func (m *Model) renderColumns() string {
	const minColumnWidth = 24

	perColumn := minColumnWidth + 4 // border and padding
	visible := (m.width - 1) / perColumn
	if visible < 1 {
		visible = 1
	}
	if visible > len(m.columns) {
		visible = len(m.columns)
	}

	start := 0
	if m.colCursor >= visible {
		start = m.colCursor - visible + 1
	}
	if start+visible > len(m.columns) {
		start = len(m.columns) - visible
	}

	colWidth := (m.width-1)/visible - 4
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	bodyHeight := m.height - 6
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	rendered := make([]string, 0, visible)
	for i := start; i < start+visible; i++ {
		content := m.renderColumn(i, colWidth, bodyHeight)
		style := m.columnStyle
		if i == m.colCursor {
			style = m.focusedStyle
		}
		rendered = append(rendered, style.Width(colWidth+2).Height(bodyHeight+2).Render(content))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderColumn(idx, width, height int) string {
	col := m.columns[idx]

	var b strings.Builder
	b.WriteString(m.titleStyle.Render(fmt.Sprintf("%s (%d)", col.Label, col.Total())))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")

	// Keep the selected task visible in short terminals.
	maxRows := height - 2
	if maxRows < 1 {
		maxRows = 1
	}
	startRow := 0
	if idx == m.colCursor && m.taskCursor >= maxRows {
		startRow = m.taskCursor - maxRows + 1
	}

	shown := 0
	for rowIdx := startRow; rowIdx < len(col.Tasks) && shown < maxRows; rowIdx++ {
		b.WriteString(m.renderCell(col.Tasks[rowIdx], idx, rowIdx, width))
		b.WriteString("\n")
		shown++
	}

	hidden := col.Truncated + (len(col.Tasks) - startRow - shown)
	if hidden > 0 {
		b.WriteString(m.dimStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}

	return b.String()
}

func (m *Model) renderCell(task backend.Task, colIdx, rowIdx, width int) string {
	cursor := "  "
	if colIdx == m.colCursor && rowIdx == m.taskCursor {
		cursor = "> "
	}

	id := task.ID
	if id == "" {
		id = "--"
	}
	text := fmt.Sprintf("[%s] %s", id, task.Description)
	if runes, max := []rune(text), width-2; max > 3 && len(runes) > max {
		text = string(runes[:max-1]) + "…"
	}

	switch {
	case task.Status == backend.StatusCompleted:
		text = m.completedStyle.Render(text)
	case colIdx == m.colCursor && rowIdx == m.taskCursor:
		text = m.selectedStyle.Render(text)
	}

	return cursor + text
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("%d tasks • grouped by %s", len(m.tasks), m.groupBy)
	if m.filter != "" {
		left += fmt.Sprintf(" • filter: %s", m.filter)
	}
	if m.status != "" {
		left = m.status
	}

	right := "g:group  r:refresh  /:search  ?:help  q:quit"

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderDetailDialog() string {
	task := m.selectedTask()
	if task == nil {
		return m.dialogStyle.Render("No task selected")
	}

	var b strings.Builder
	b.WriteString(m.titleStyle.Render(task.Description))
	b.WriteString("\n\n")

	write := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-10s %s\n", label, value)
		}
	}

	write("ID", task.ID)
	write("UUID", task.UUID)
	write("Status", string(task.Status))
	if task.Priority != backend.PriorityNone {
		write("Priority", string(task.Priority))
	}
	write("Project", task.Project)
	if len(task.Tags) > 0 {
		write("Tags", strings.Join(task.Tags, ", "))
	}
	write("Due", formatTime(task.Due))
	write("Entry", formatTime(task.Entry))
	write("Modified", formatTime(task.Modified))
	if len(task.Depends) > 0 {
		write("Depends", strings.Join(task.Depends, ", "))
	}
	write("Urgency", fmt.Sprintf("%.1f", task.Urgency))

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("Esc: close"))

	return m.dialogStyle.Render(b.String())
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (m *Model) renderHelpDialog() string {
	help := `Help - Key Bindings

Navigation:
  h/←    Previous column
  l/→    Next column
  j/↓    Move down
  k/↑    Move up

Actions:
  Enter  Show task details
  g      Cycle grouping (status/priority/project/tag)
  r      Re-run the backend query
  /      Search tasks
  Esc    Clear search

General:
  ?      Show this help
  q      Quit

Press any key to close`

	return m.dialogStyle.Render(help)
}

func (m *Model) centerDialog(dialog string) string {
	lines := strings.Split(dialog, "\n")
	dialogHeight := len(lines)
	dialogWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > dialogWidth {
			dialogWidth = w
		}
	}

	topPad := (m.height - dialogHeight) / 2
	leftPad := (m.width - dialogWidth) / 2
	if topPad < 0 {
		topPad = 0
	}
	if leftPad < 0 {
		leftPad = 0
	}

	var b strings.Builder
	for i := 0; i < topPad; i++ {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPad))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
