package chat

import (
	"testing"

	"github.com/calendargpt/calendargpt/internal/domain"
)

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "quoted reply",
			raw:  `userReply: "Hello there"`,
			want: "Hello there",
		},
		{
			name: "quoted reply with surrounding text",
			raw:  "Sure.\nuserReply: \"Meeting scheduled.\"\ninstruction: {}",
			want: "Meeting scheduled.",
		},
		{
			name: "no pattern falls back to raw",
			raw:  "Just a plain model reply",
			want: "Just a plain model reply",
		},
		{
			name: "empty reply",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractReply(tt.raw); got != tt.want {
				t.Errorf("ExtractReply(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name    string
		payload *domain.ResponsePayload
		want    string
	}{
		{
			name: "missing credentials yields reauth prompt",
			payload: &domain.ResponsePayload{
				Response: "ignored",
				APIResult: &domain.APIResult{
					Success: false,
					Error:   "Calendar API error: No Google credentials found for user alice",
				},
			},
			want: ReauthPrompt,
		},
		{
			name: "other error is surfaced",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: false,
					Error:   "Tasks API returned 500",
				},
			},
			want: "❌ Error: Tasks API returned 500",
		},
		{
			name: "formatted response wins over lists",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success:           true,
					FormattedResponse: "✅ Deleted event: Dentist",
					Tasks:             []domain.Task{{Title: "ignored"}},
				},
			},
			want: "✅ Deleted event: Dentist",
		},
		{
			name: "task list rendering",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: true,
					Tasks: []domain.Task{
						{Title: "Pay rent", Due: "2024-01-05"},
					},
				},
			},
			want: "📋 **Your Tasks:**\n\n• Pay rent (Due: 1/5/2024)",
		},
		{
			name: "task without due date",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: true,
					Tasks: []domain.Task{
						{Title: "Buy milk"},
						{Title: "Call mom", Due: "2024-03-10T00:00:00.000Z"},
					},
				},
			},
			want: "📋 **Your Tasks:**\n\n• Buy milk (Due: No due date)\n• Call mom (Due: 3/10/2024)",
		},
		{
			name: "event list rendering with datetime",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: true,
					Events: []domain.Event{
						{
							Summary: "Standup",
							Start:   domain.EventTime{DateTime: "2024-02-01T09:30:00"},
						},
					},
				},
			},
			want: "📅 **Your Events:**\n\n• Standup (2/1/2024, 9:30:00 AM)",
		},
		{
			name: "all day event rendering",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: true,
					Events: []domain.Event{
						{Summary: "Holiday", Start: domain.EventTime{Date: "2024-07-04"}},
					},
				},
			},
			want: "📅 **Your Events:**\n\n• Holiday (7/4/2024)",
		},
		{
			name: "success message without lists",
			payload: &domain.ResponsePayload{
				APIResult: &domain.APIResult{
					Success: true,
					Message: "Event 'Lunch' created successfully!",
				},
			},
			want: "Event 'Lunch' created successfully!",
		},
		{
			name: "typed user reply when no api result",
			payload: &domain.ResponsePayload{
				Response:  `userReply: "raw version"`,
				UserReply: "typed version",
			},
			want: "typed version",
		},
		{
			name: "regex fallback on raw response",
			payload: &domain.ResponsePayload{
				Response: `userReply: "From the regex"`,
			},
			want: "From the regex",
		},
		{
			name: "raw response fallback",
			payload: &domain.ResponsePayload{
				Response: "Plain text reply",
			},
			want: "Plain text reply",
		},
		{
			name: "clarification still surfaces reply",
			payload: &domain.ResponsePayload{
				Response: "Which task did you mean?",
				APIResult: &domain.APIResult{
					Success:       true,
					Clarification: true,
				},
			},
			want: "Which task did you mean?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpret(tt.payload); got != tt.want {
				t.Errorf("Interpret() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDueDatePassthrough(t *testing.T) {
	// Unparseable values are shown as-is rather than hidden.
	if got := dueDate("next tuesday"); got != "next tuesday" {
		t.Errorf("dueDate(%q) = %q, want passthrough", "next tuesday", got)
	}
}
