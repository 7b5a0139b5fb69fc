package pipeline

import (
	"context"
	"time"

	"duebot/internal/source"
	logx "duebot/pkg/logx"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// SystemClock reads the process-local clock.
func SystemClock() time.Time { return time.Now() }

// Result is the output of stages 1-4 plus counters for the run summary.
type Result struct {
	Today      time.Time
	Rows       int
	Actionable int
	Grouped    Grouped
	Messages   []Message
}

// Prepare runs ingestion through rendering.
func Prepare(ctx context.Context, src ColumnSource, locs []source.Locator, today time.Time, log logx.Logger) Result {
	if log.IsZero() {
		log = logx.Nop()
	}
	today = DateOf(today)

	raw := Ingest(ctx, src, locs, log)
	records := Normalize(raw, today)
	actionable := Filter(records, today)
	grouped := Group(actionable)
	msgs := Render(grouped, today)

	log.Info("pipeline prepared",
		logx.String("today", today.Format(headingDateLayout)),
		logx.Int("rows", len(records)),
		logx.Int("actionable", len(actionable)),
		logx.Int("recipients", grouped.Len()),
	)
	return Result{
		Today:      today,
		Rows:       len(records),
		Actionable: len(actionable),
		Grouped:    grouped,
		Messages:   msgs,
	}
}

// LogGrouped writes each handler's assignments to the log (dry runs).
func LogGrouped(log logx.Logger, g Grouped, today time.Time) {
	for _, key := range g.Keys {
		log.Info("handler", logx.String("handler", key), logx.Int("assignments", len(g.Records(key))))
		for _, r := range g.Records(key) {
			fields := []logx.Field{
				logx.String("handler", key),
				logx.String("assignment", orDefault(r.Assignment, defaultAssignment)),
				logx.String("customer", orDefault(r.CustomerName, defaultCustomer)),
				logx.String("status", StatusPhrase(r.Checked, r.HandOver)),
				logx.String("due", DuePhrase(r, today)),
			}
			if r.HasDueDate() {
				fields = append(fields, logx.String("due_date", r.DueDate.Format(headingDateLayout)))
			}
			for k, v := range r.Extra {
				fields = append(fields, logx.String(k, v))
			}
			log.Info("  assignment", fields...)
		}
	}
}
