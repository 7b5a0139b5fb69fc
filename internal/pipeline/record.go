package pipeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical field names produced by CanonicalKey for the known sheet headers.
const (
	FieldAssignment   = "assignment"
	FieldCustomerName = "customerName"
	FieldChecked      = "checked"
	FieldHandOver     = "handOver"
	FieldDueDate      = "dueDate"
	FieldHandleBy     = "handleBy"
)

// notYet is the only cell text that marks checked/handOver as false.
const notYet = "not yet"

// RawRecord is one sheet row with values still as text.
type RawRecord struct {
	// Fields lists canonical names in configured column order.
	Fields []string
	Values map[string]string
}

func (r RawRecord) Get(field string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[field]
}

// Record is a normalized assignment row.
type Record struct {
	Assignment   string
	CustomerName string
	HandleBy     string
	Checked      bool
	HandOver     bool
	// DueDate is a calendar date at UTC midnight; zero means absent.
	DueDate time.Time
	// Extra holds any other configured column, by canonical name.
	Extra map[string]string
}

func (r Record) HasDueDate() bool { return !r.DueDate.IsZero() }

var reSeparators = regexp.MustCompile(`[_-]+`)

// CanonicalKey converts a sheet header into a lower-camel field name:
// "Due Date", "due_date" and "due-date" all become "dueDate".
func CanonicalKey(header string) string {
	s := reSeparators.ReplaceAllString(header, " ")
	words := strings.Fields(strings.ToLower(s))
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Normalize applies the type coercions once so later stages never look at raw text.
// today supplies the year for due dates written without one.
func Normalize(raw []RawRecord, today time.Time) []Record {
	out := make([]Record, 0, len(raw))
	for _, rr := range raw {
		rec := Record{
			Assignment:   rr.Get(FieldAssignment),
			CustomerName: rr.Get(FieldCustomerName),
			HandleBy:     rr.Get(FieldHandleBy),
			Checked:      parseDone(rr.Get(FieldChecked)),
			HandOver:     parseDone(rr.Get(FieldHandOver)),
			DueDate:      parseDueDate(rr.Get(FieldDueDate), today),
		}
		for _, f := range rr.Fields {
			switch f {
			case "", FieldAssignment, FieldCustomerName, FieldHandleBy, FieldChecked, FieldHandOver, FieldDueDate:
				continue
			}
			if rec.Extra == nil {
				rec.Extra = map[string]string{}
			}
			rec.Extra[f] = rr.Get(f)
		}
		out = append(out, rec)
	}
	return out
}

// parseDone reports false only for "not yet" (any case, surrounding whitespace ignored).
func parseDone(raw string) bool {
	return !strings.EqualFold(strings.TrimSpace(raw), notYet)
}

// parseDueDate parses a free-form date; blank or unparseable text yields the zero time.
// Day-first dates ("18/10/2026", "18.10.2026") are accepted when the
// month-first reading is impossible. A date without a year takes today's year.
func parseDueDate(raw string, today time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil && strings.Contains(s, ".") {
		t, err = dateparse.ParseIn(strings.ReplaceAll(s, ".", "/"), time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	}
	if err != nil {
		return time.Time{}
	}
	if t.Year() == 0 {
		t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return DateOf(t)
}

// DateOf reduces t to its calendar date (in t's own location) at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole number of days from today to due.
func DaysUntil(today, due time.Time) int {
	return int(DateOf(due).Sub(DateOf(today)).Round(time.Hour).Hours()) / 24
}
