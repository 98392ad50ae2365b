package backend

import (
	"fmt"
	"strings"
	"time"
)

// taskwarriorTime is the compact UTC layout task(1) uses in exports.
const taskwarriorTime = "20060102T150405Z"

// dateLayouts returns the date formats a backend type is documented to
// emit, most specific first.
func dateLayouts(t Type) []string {
	switch t {
	case TypeTaskwarrior:
		return []string{taskwarriorTime, time.RFC3339}
	default:
		// Jira prints millisecond offsets without a colon
		// ("2026-01-15T10:30:00.000+0000") and bare dates for duedate.
		return []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05.000-0700",
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
	}
}

// mapper builds canonical tasks from raw records using one backend
// config. It never fails: missing fields resolve to defaults and
// unparsable dates are dropped with a warning.
type mapper struct {
	cfg     Config
	layouts []string
	now     time.Time
	warn    func(field, value string, err error)
}

func newMapper(cfg Config, now time.Time, warn func(field, value string, err error)) *mapper {
	return &mapper{cfg: cfg, layouts: dateLayouts(cfg.Type), now: now, warn: warn}
}

// task maps one record to a canonical Task.
func (m *mapper) task(rec Record) Task {
	resolved := make(map[string]any, len(m.cfg.FieldMapping))
	for _, fp := range m.cfg.FieldMapping {
		if v, ok := Resolve(map[string]any(rec), fp.Path); ok {
			resolved[fp.Field] = v
		}
	}

	var t Task
	t.ID, _ = asString(resolved[FieldID])
	t.UUID, _ = asString(resolved[FieldUUID])
	t.Description, _ = asString(resolved[FieldDescription])
	t.Project, _ = asString(resolved[FieldProject])
	t.Tags = lowerTags(asStringSlice(resolved[FieldTags]))
	t.Depends = splitDepends(resolved[FieldDepends])

	rawStatus, _ := asString(resolved[FieldStatus])
	t.Status = normalizeStatus(rawStatus, m.cfg.StatusMap)
	rawPriority, _ := asString(resolved[FieldPriority])
	t.Priority = normalizePriority(rawPriority, m.cfg.PriorityMap)

	t.Due = m.parseTime(FieldDue, resolved[FieldDue])
	t.Entry = m.parseTime(FieldEntry, resolved[FieldEntry])
	t.Modified = m.parseTime(FieldModified, resolved[FieldModified])
	t.Start = m.parseTime(FieldStart, resolved[FieldStart])

	if u, ok := asFloat(resolved[FieldUrgency]); ok {
		t.Urgency = u
	} else if m.cfg.Type != TypeTaskwarrior {
		t.Urgency = computeUrgency(t, m.now)
	}
	return t
}

// parseTime turns a resolved timestamp value into a UTC instant. A value
// that exists but does not parse is dropped and reported through the warn
// hook; the pipeline continues without it.
func (m *mapper) parseTime(field string, v any) *time.Time {
	if v == nil {
		return nil
	}
	raw, ok := asString(v)
	if !ok || raw == "" {
		if m.warn != nil {
			m.warn(field, fmt.Sprintf("%v", v), fmt.Errorf("not a timestamp scalar"))
		}
		return nil
	}
	for _, layout := range m.layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	if m.warn != nil {
		m.warn(field, raw, fmt.Errorf("no known date layout matches"))
	}
	return nil
}

// lowerTags folds tags to lower case and drops duplicates, keeping the
// first occurrence's position.
func lowerTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// splitDepends flattens a depends value into id strings. Taskwarrior
// exports either a JSON array of uuids or one comma-joined string, so
// both shapes land here.
func splitDepends(v any) []string {
	var out []string
	for _, item := range asStringSlice(v) {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
