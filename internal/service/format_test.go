package service

import (
	"testing"

	"github.com/calendargpt/calendargpt/internal/domain"
)

func TestFormatEventList(t *testing.T) {
	tests := []struct {
		name   string
		events []domain.Event
		want   string
	}{
		{
			name: "empty",
			want: "📅 **Your Events:**\n\nNo events found for the specified time period.",
		},
		{
			name: "timed event",
			events: []domain.Event{
				{Summary: "Standup", Start: domain.EventTime{DateTime: "2024-02-01T09:30:00"}},
			},
			want: "📅 **Your Events:**\n\n• Standup (02/01/2024 at 9:30 AM)",
		},
		{
			name: "all day event",
			events: []domain.Event{
				{Summary: "Holiday", Start: domain.EventTime{Date: "2024-07-04"}},
			},
			want: "📅 **Your Events:**\n\n• Holiday (All day - 07/04/2024)",
		},
		{
			name: "untitled and undated",
			events: []domain.Event{
				{},
			},
			want: "📅 **Your Events:**\n\n• Untitled Event (No date specified)",
		},
		{
			name: "mixed",
			events: []domain.Event{
				{Summary: "Dentist", Start: domain.EventTime{DateTime: "2024-03-15T14:00:00Z"}},
				{Summary: "Conference", Start: domain.EventTime{Date: "2024-03-20"}},
			},
			want: "📅 **Your Events:**\n\n• Dentist (03/15/2024 at 2:00 PM)\n• Conference (All day - 03/20/2024)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatEventList(tt.events); got != tt.want {
				t.Errorf("formatEventList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTaskList(t *testing.T) {
	tests := []struct {
		name  string
		tasks []domain.Task
		want  string
	}{
		{
			name: "empty",
			want: "📋 **Your Tasks:**\n\nNo tasks found for the specified time period.",
		},
		{
			name:  "task with RFC3339 due",
			tasks: []domain.Task{{Title: "Pay rent", Due: "2024-01-05T00:00:00.000Z"}},
			want:  "📋 **Your Tasks:**\n\n• Pay rent (Due: 01/05/2024)",
		},
		{
			name:  "task with plain date due",
			tasks: []domain.Task{{Title: "File taxes", Due: "2024-04-15"}},
			want:  "📋 **Your Tasks:**\n\n• File taxes (Due: 04/15/2024)",
		},
		{
			name:  "task without due date",
			tasks: []domain.Task{{Title: "Buy milk"}},
			want:  "📋 **Your Tasks:**\n\n• Buy milk (Due: No due date)",
		},
		{
			name:  "untitled task",
			tasks: []domain.Task{{Due: "2024-06-01"}},
			want:  "📋 **Your Tasks:**\n\n• Untitled Task (Due: 06/01/2024)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTaskList(tt.tasks); got != tt.want {
				t.Errorf("formatTaskList() = %q, want %q", got, tt.want)
			}
		})
	}
}
