package backend

import (
	"strconv"
	"strings"
)

// Record is one raw backend record: a JSON object decoded by
// encoding/json, so values are map[string]any, []any, string, float64,
// bool, or nil.
type Record map[string]any

// Resolve walks a dot-path like "fields.project.key" through a decoded
// JSON value. The boolean is false when any segment is missing or the
// resolved value is null; that is a normal outcome for heterogeneous
// payloads, never an error.
//
// A segment landing on a sequence stops traversal and returns the
// sequence verbatim, unless the following segment is numeric, in which
// case it indexes into the sequence and traversal continues.
func Resolve(value any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return node, true
			}
			if index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			// Scalar or null mid-path: the remaining segments cannot
			// resolve.
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// asString coerces a resolved JSON scalar to a string. Numbers are
// rendered without a trailing ".0" so numeric ids stay usable as ids.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

// asFloat coerces a resolved JSON scalar to a float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asStringSlice coerces a resolved JSON value to a list of strings. A
// bare scalar becomes a one-element list; non-string elements inside a
// sequence are rendered through asString and dropped when that fails.
func asStringSlice(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := asString(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := asString(v); ok && s != "" {
			return []string{s}
		}
		return nil
	}
}
