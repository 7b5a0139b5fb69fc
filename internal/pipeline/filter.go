package pipeline

import "time"

// Actionable reports whether a record still needs attention as of today:
// not fully done (unchecked or not handed over) and due today or later.
// A record without a due date is never actionable.
func Actionable(r Record, today time.Time) bool {
	if r.Checked && r.HandOver {
		return false
	}
	if !r.HasDueDate() {
		return false
	}
	return !r.DueDate.Before(DateOf(today))
}

// Filter keeps actionable records, preserving order.
func Filter(records []Record, today time.Time) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Actionable(r, today) {
			out = append(out, r)
		}
	}
	return out
}
