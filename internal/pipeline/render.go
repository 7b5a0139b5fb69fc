package pipeline

import (
	"strconv"
	"strings"
	"time"

	"duebot/pkg/tgui"
)

const (
	defaultAssignment = "No Assignment"
	defaultCustomer   = "Unknown Customer"
	headingDateLayout = "2006-01-02"
)

// Message is the rendered output for one recipient.
// The current layout always produces exactly one body.
type Message struct {
	Recipient string
	Bodies    []string
}

// Render builds one MarkdownV2 message per recipient.
// Bodies are never split; oversized payloads surface as delivery failures.
func Render(g Grouped, today time.Time) []Message {
	heading := tgui.Raw("📋 ") + tgui.BoldMD(tgui.Raw("Your Assignments as of ")+tgui.Esc(DateOf(today).Format(headingDateLayout))+tgui.Raw(":"))

	out := make([]Message, 0, g.Len())
	for _, key := range g.Keys {
		blocks := []tgui.MD{heading}
		for _, r := range g.Records(key) {
			blocks = append(blocks, renderBlock(r, today))
		}
		out = append(out, Message{Recipient: key, Bodies: []string{tgui.JoinMD("\n\n", blocks...).String()}})
	}
	return out
}

func renderBlock(r Record, today time.Time) tgui.MD {
	var b strings.Builder
	b.WriteString("• *Assignment:* ")
	b.WriteString(tgui.Esc(orDefault(r.Assignment, defaultAssignment)).String())
	b.WriteString("\n  *Customer:* ")
	b.WriteString(tgui.Esc(orDefault(r.CustomerName, defaultCustomer)).String())
	b.WriteString("\n  *Status:* ")
	b.WriteString(tgui.Esc(StatusPhrase(r.Checked, r.HandOver)).String())
	b.WriteString("\n  ")
	b.WriteString(tgui.B(DuePhrase(r, today)).String())
	return tgui.Raw(b.String())
}

// StatusPhrase describes checked/handOver, e.g. "not checked and handed over".
func StatusPhrase(checked, handOver bool) string {
	c := "not checked"
	if checked {
		c = "checked"
	}
	h := "not handed over"
	if handOver {
		h = "handed over"
	}
	return c + " and " + h
}

// DuePhrase describes how far the due date is from today.
func DuePhrase(r Record, today time.Time) string {
	if !r.HasDueDate() {
		return "No due date"
	}
	days := DaysUntil(today, r.DueDate)
	switch {
	case days < 0:
		return "Past due!"
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due in 1 day"
	default:
		return "Due in " + strconv.Itoa(days) + " days"
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
