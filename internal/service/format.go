package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
)

// parseDateTime accepts both RFC 3339 and zone-less ISO 8601 datetimes,
// which is what Google and the model emit between them.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func formatEventLine(ev domain.Event) string {
	summary := ev.Summary
	if summary == "" {
		summary = "Untitled Event"
	}
	switch {
	case ev.Start.DateTime != "":
		if t, err := parseDateTime(ev.Start.DateTime); err == nil {
			return fmt.Sprintf("• %s (%s)", summary, t.Format("01/02/2006 at 3:04 PM"))
		}
		return fmt.Sprintf("• %s (%s)", summary, ev.Start.DateTime)
	case ev.Start.Date != "":
		if t, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
			return fmt.Sprintf("• %s (All day - %s)", summary, t.Format("01/02/2006"))
		}
		return fmt.Sprintf("• %s (All day - %s)", summary, ev.Start.Date)
	default:
		return fmt.Sprintf("• %s (No date specified)", summary)
	}
}

func formatEventList(events []domain.Event) string {
	if len(events) == 0 {
		return "📅 **Your Events:**\n\nNo events found for the specified time period."
	}
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = formatEventLine(ev)
	}
	return "📅 **Your Events:**\n\n" + strings.Join(lines, "\n")
}

func formatTaskLine(t domain.Task) string {
	title := t.Title
	if title == "" {
		title = "Untitled Task"
	}
	if t.Due == "" {
		return fmt.Sprintf("• %s (Due: No due date)", title)
	}
	if due, err := parseDateTime(t.Due); err == nil {
		return fmt.Sprintf("• %s (Due: %s)", title, due.Format("01/02/2006"))
	}
	if due, err := time.Parse("2006-01-02", t.Due); err == nil {
		return fmt.Sprintf("• %s (Due: %s)", title, due.Format("01/02/2006"))
	}
	return fmt.Sprintf("• %s (Due: %s)", title, t.Due)
}

func formatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "📋 **Your Tasks:**\n\nNo tasks found for the specified time period."
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = formatTaskLine(t)
	}
	return "📋 **Your Tasks:**\n\n" + strings.Join(lines, "\n")
}
