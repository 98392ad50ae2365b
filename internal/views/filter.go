package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

// Filter is one condition in a named view. All of a view's filters must
// match for a task to be shown.
//
// Operators: eq, ne, contains, in, not_in for text fields; eq, ne, gt,
// gte, lt, lte for urgency and due. String matching is
// case-insensitive. "in" takes a comma-separated value list. The due
// field compares against "2006-01-02" dates, or the word "none" to
// match tasks without one.
type Filter struct {
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`
}

var filterFields = []string{"id", "uuid", "description", "project", "status", "priority", "tags", "urgency", "due"}

func (f Filter) validate() error {
	if !contains(filterFields, f.Field) {
		return fmt.Errorf("unknown filter field: %s", f.Field)
	}
	switch f.Field {
	case "urgency":
		switch f.Operator {
		case "eq", "ne", "gt", "gte", "lt", "lte":
		default:
			return fmt.Errorf("invalid operator %q for urgency", f.Operator)
		}
		if _, err := strconv.ParseFloat(f.Value, 64); err != nil {
			return fmt.Errorf("urgency filter needs a numeric value, got %q", f.Value)
		}
	case "due":
		switch f.Operator {
		case "eq", "ne", "gt", "gte", "lt", "lte":
		default:
			return fmt.Errorf("invalid operator %q for due", f.Operator)
		}
	default:
		switch f.Operator {
		case "eq", "ne", "contains", "in", "not_in":
		default:
			return fmt.Errorf("invalid operator %q for %s", f.Operator, f.Field)
		}
	}
	return nil
}

// ApplyFilters returns the tasks matching every filter. An empty filter
// list returns the input unchanged.
func ApplyFilters(tasks []backend.Task, filters []Filter) []backend.Task {
	if len(filters) == 0 {
		return tasks
	}
	out := make([]backend.Task, 0, len(tasks))
	for _, t := range tasks {
		keep := true
		for _, f := range filters {
			if !matchFilter(t, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

func matchFilter(t backend.Task, f Filter) bool {
	switch f.Field {
	case "urgency":
		want, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			return false
		}
		return compareNumeric(t.Urgency, f.Operator, want)
	case "due":
		return matchDue(t, f)
	case "tags":
		return matchTags(t.Tags, f)
	default:
		return matchString(stringField(t, f.Field), f)
	}
}

func stringField(t backend.Task, field string) string {
	switch field {
	case "id":
		return t.ID
	case "uuid":
		return t.UUID
	case "description":
		return t.Description
	case "project":
		return t.Project
	case "status":
		return string(t.Status)
	case "priority":
		return string(t.Priority)
	}
	return ""
}

func matchString(value string, f Filter) bool {
	switch f.Operator {
	case "eq":
		return strings.EqualFold(value, f.Value)
	case "ne":
		return !strings.EqualFold(value, f.Value)
	case "contains":
		return strings.Contains(strings.ToLower(value), strings.ToLower(f.Value))
	case "in":
		return inList(value, f.Value)
	case "not_in":
		return !inList(value, f.Value)
	}
	return false
}

func matchTags(tags []string, f Filter) bool {
	anyEqual := func(v string) bool {
		for _, tag := range tags {
			if strings.EqualFold(tag, v) {
				return true
			}
		}
		return false
	}
	switch f.Operator {
	case "eq", "contains":
		return anyEqual(f.Value)
	case "ne":
		return !anyEqual(f.Value)
	case "in":
		for _, v := range strings.Split(f.Value, ",") {
			if anyEqual(strings.TrimSpace(v)) {
				return true
			}
		}
		return false
	case "not_in":
		for _, v := range strings.Split(f.Value, ",") {
			if anyEqual(strings.TrimSpace(v)) {
				return false
			}
		}
		return true
	}
	return false
}

func matchDue(t backend.Task, f Filter) bool {
	if strings.EqualFold(f.Value, "none") {
		switch f.Operator {
		case "eq":
			return t.Due == nil
		case "ne":
			return t.Due != nil
		}
		return false
	}
	if t.Due == nil {
		return false
	}
	day := t.Due.Format("2006-01-02")
	switch f.Operator {
	case "eq":
		return day == f.Value
	case "ne":
		return day != f.Value
	case "lt":
		return day < f.Value
	case "lte":
		return day <= f.Value
	case "gt":
		return day > f.Value
	case "gte":
		return day >= f.Value
	}
	return false
}

func compareNumeric(value float64, op string, want float64) bool {
	switch op {
	case "eq":
		return value == want
	case "ne":
		return value != want
	case "gt":
		return value > want
	case "gte":
		return value >= want
	case "lt":
		return value < want
	case "lte":
		return value <= want
	}
	return false
}

func inList(value, list string) bool {
	for _, v := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}
