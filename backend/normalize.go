package backend

import "strings"

// Vocabulary normalization. Every backend speaks its own status and
// priority dialect ("Resolved", "On Hold", "Blocker"); the rule tables
// below translate it into the canonical enums. Matching is exact and
// case-insensitive, first match wins, and a miss falls back to the
// defined default (pending / no priority) so normalization is total.

// defaultStatusRules is the table used when a backend config carries no
// status_map. Identity pairs come first so canonical tokens pass through
// unchanged; the word table behind them covers common tracker vocabulary.
func defaultStatusRules() []Rule {
	return []Rule{
		{"pending", "pending"},
		{"completed", "completed"},
		{"waiting", "waiting"},
		{"deleted", "deleted"},
		{"Done", "completed"},
		{"Closed", "completed"},
		{"Resolved", "completed"},
		{"Complete", "completed"},
		{"In Progress", "pending"},
		{"Doing", "pending"},
		{"Active", "pending"},
		{"Waiting", "waiting"},
		{"Blocked", "waiting"},
		{"On Hold", "waiting"},
	}
}

// defaultPriorityRules is the priority counterpart of
// defaultStatusRules.
func defaultPriorityRules() []Rule {
	return []Rule{
		{"H", "H"},
		{"M", "M"},
		{"L", "L"},
		{"Highest", "H"},
		{"Critical", "H"},
		{"Blocker", "H"},
		{"High", "H"},
		{"Medium", "M"},
		{"Normal", "M"},
		{"Low", "L"},
		{"Minor", "L"},
	}
}

// normalizeStatus maps a raw status through an ordered rule table. An
// absent or unmatched value is pending.
func normalizeStatus(raw string, rules []Rule) Status {
	for _, r := range rules {
		if strings.EqualFold(raw, r.Pattern) {
			return statusToken(r.Value)
		}
	}
	return StatusPending
}

// normalizePriority maps a raw priority through an ordered rule table. An
// absent or unmatched value means no priority.
func normalizePriority(raw string, rules []Rule) Priority {
	for _, r := range rules {
		if strings.EqualFold(raw, r.Pattern) {
			return priorityToken(r.Value)
		}
	}
	return PriorityNone
}

// statusToken parses a canonical status token from a rule table value.
func statusToken(v string) Status {
	switch strings.ToLower(v) {
	case "completed":
		return StatusCompleted
	case "waiting":
		return StatusWaiting
	case "deleted":
		return StatusDeleted
	default:
		return StatusPending
	}
}

// priorityToken parses a canonical priority token from a rule table
// value.
func priorityToken(v string) Priority {
	switch strings.ToUpper(v) {
	case "H":
		return PriorityHigh
	case "M":
		return PriorityMedium
	case "L":
		return PriorityLow
	default:
		return PriorityNone
	}
}
