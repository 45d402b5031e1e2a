package chat

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
)

// Fixed messages the interpreter and controller can emit.
const (
	// ReauthPrompt is shown when the backend reports missing Google
	// credentials for the user.
	ReauthPrompt = "🔐 Please log out and sign in with Google again to grant calendar and task access."

	// CredentialPrompt is shown at startup when no credential is stored yet.
	CredentialPrompt = "👋 Welcome! To get started, please sign in with Google so I can access your calendar and tasks."

	// ServiceUnavailable is shown when a backend call fails outright.
	ServiceUnavailable = "⚠️ The assistant service is currently unavailable. Please try again later."

	// ProcessError is shown when a text submission fails in transit.
	ProcessError = "Sorry, I ran into an error processing your message. Please try again."

	// FileError is shown when a file submission fails in transit.
	FileError = "Sorry, I couldn't process that file. Please try again."
)

var userReplyPattern = regexp.MustCompile(`userReply:\s*"(.*)"`)

// ExtractReply pulls the user-facing sentence out of a raw model reply.
// When the quoted pattern is absent the whole reply is surfaced as-is.
func ExtractReply(raw string) string {
	if m := userReplyPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// Interpret maps one backend payload to exactly one display message.
// Structured success data wins over the free-text reply; clarification-only
// responses still surface the textual reply.
func Interpret(p *domain.ResponsePayload) string {
	if r := p.APIResult; r != nil {
		if !r.Success {
			if strings.Contains(r.Error, "No Google credentials found") {
				return ReauthPrompt
			}
			return "❌ Error: " + r.Error
		}
		switch {
		case r.FormattedResponse != "":
			return r.FormattedResponse
		case len(r.Tasks) > 0:
			return renderTasks(r.Tasks)
		case len(r.Events) > 0:
			return renderEvents(r.Events)
		case r.Message != "":
			return r.Message
		}
	}

	if p.UserReply != "" {
		return p.UserReply
	}
	return ExtractReply(p.Response)
}

func renderTasks(tasks []domain.Task) string {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = fmt.Sprintf("• %s (Due: %s)", t.Title, dueDate(t.Due))
	}
	return "📋 **Your Tasks:**\n\n" + strings.Join(lines, "\n")
}

func renderEvents(events []domain.Event) string {
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = fmt.Sprintf("• %s (%s)", ev.Summary, startLabel(ev.Start))
	}
	return "📅 **Your Events:**\n\n" + strings.Join(lines, "\n")
}

func dueDate(due string) string {
	if due == "" {
		return "No due date"
	}
	if t, err := time.Parse("2006-01-02", due); err == nil {
		return t.Format("1/2/2006")
	}
	if t, err := parseTimestamp(due); err == nil {
		return t.Format("1/2/2006")
	}
	return due
}

func startLabel(start domain.EventTime) string {
	switch {
	case start.DateTime != "":
		if t, err := parseTimestamp(start.DateTime); err == nil {
			return t.Format("1/2/2006, 3:04:05 PM")
		}
		return start.DateTime
	case start.Date != "":
		if t, err := time.Parse("2006-01-02", start.Date); err == nil {
			return t.Format("1/2/2006")
		}
		return start.Date
	default:
		return "No date"
	}
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
