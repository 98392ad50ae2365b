package config

// sampleConfig is written on first run. Its values match DefaultConfig
// so a fresh install behaves identically whether or not the file exists.
const sampleConfig = `# tw configuration.
#
# Values shown here are the defaults. Delete anything you do not want
# to override.

# View used when none is given on the command line:
# kanban, table, list or markdown.
default_view = "kanban"

[backend]
# Backend type: taskwarrior, jira or custom.
type = "taskwarrior"

# Executable to run. Defaults to "task" for taskwarrior and "jira" for
# jira. Required for custom backends.
# command = "task"

# Argument appended to force JSON output ("export" for taskwarrior,
# "--json" for jira). Leave empty if the command always emits JSON.
# export_format = "export"

# Query used when none is given ("status:pending" for taskwarrior).
# default_query = "status:pending"

# Environment variable injected into the backend process from the
# system keyring (see 'tw credentials').
# credential_env = "JIRA_API_TOKEN"

# Map canonical fields to dot paths into the backend's JSON. Unmapped
# fields use the backend's built-in mapping.
# [backend.field_mapping]
# id = "key"
# description = "fields.summary"

# Translate backend status/priority words to canonical values. Rules
# match case-insensitively, first match wins, and replace the built-in
# word table. Canonical tokens always map to themselves.
# status_map = [["Done", "completed"], ["Doing", "pending"]]
# priority_map = [["Blocker", "H"]]

[kanban]
# Grouping mode: status, priority, project or tag.
group_by = "status"
# Show the Completed column's tasks (the column stays either way).
show_completed = true
# Completed tasks older than this many days are dropped from the board.
completed_days = 7
# Minimum column width in cells.
column_min_width = 40
# Columns show at most this many tasks, then "... and N more tasks".
max_tasks_per_column = 20

[table]
columns = ["id", "description", "project", "tags", "due", "priority", "urgency"]
default_sort = "urgency"
sort_order = "desc"

[list]
show_metadata = true
max_width = 100

[markdown]
group_by_project = true
include_metadata = true
use_checkboxes = true

[shell]
enable_history = true
history_file = "~/.config/tw-cli/history"
show_welcome = true

[colors]
enabled = true
header = "cyan"
column_title = "cyan"
task_id = "blue"
project = "magenta"
tag = "yellow"
border = "8"
urgency_high = "red"
urgency_medium = "yellow"
overdue = "red"
due_soon = "yellow"
completed = "green"

[analytics]
# Local usage log (sqlite), off unless you opt in. Also controlled by
# TW_CLI_ANALYTICS_ENABLED=1/0.
enabled = false
retention_days = 90
`
