package backend

import "time"

// computeUrgency approximates taskwarrior's urgency score for backends
// that do not rank tasks themselves, so urgency-ordered views stay
// meaningful across backends.
func computeUrgency(t Task, now time.Time) float64 {
	var urgency float64

	switch t.Priority {
	case PriorityHigh:
		urgency += 6.0
	case PriorityMedium:
		urgency += 3.9
	case PriorityLow:
		urgency += 1.8
	}

	if t.Due != nil {
		until := t.Due.Sub(now)
		switch {
		case until < 0:
			urgency += 12.0
		case until <= 7*24*time.Hour:
			urgency += 8.0
		case until <= 14*24*time.Hour:
			urgency += 4.0
		}
	}

	if t.Project != "" {
		urgency += 1.0
	}
	if len(t.Tags) > 0 {
		urgency += 1.0
	}
	return urgency
}
