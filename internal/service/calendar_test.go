package service

import (
	"errors"
	"testing"

	"github.com/calendargpt/calendargpt/internal/domain"
)

func TestBuildRRule(t *testing.T) {
	tests := []struct {
		name string
		rec  *domain.Recurrence
		want string
	}{
		{
			name: "weekly with weekdays",
			rec:  &domain.Recurrence{Freq: "weekly", ByWeekday: []string{"MO", "WE", "FR"}},
			want: "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		},
		{
			name: "interval and until",
			rec:  &domain.Recurrence{Freq: "daily", Interval: 2, Until: "2024-12-31T00:00:00Z"},
			want: "RRULE:FREQ=DAILY;INTERVAL=2;UNTIL=20241231",
		},
		{
			name: "invalid weekday codes dropped",
			rec:  &domain.Recurrence{Freq: "weekly", ByWeekday: []string{"MONDAY", "TU"}},
			want: "RRULE:FREQ=WEEKLY;BYDAY=TU",
		},
		{
			name: "empty recurrence falls back to daily",
			rec:  &domain.Recurrence{},
			want: "RRULE:FREQ=DAILY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildRRule(tt.rec)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("buildRRule() = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestMatchesInstructionTime(t *testing.T) {
	tests := []struct {
		name  string
		event domain.Event
		instr *domain.Instruction
		want  bool
	}{
		{
			name:  "date matches all day event",
			event: domain.Event{Start: domain.EventTime{Date: "2024-03-15"}},
			instr: &domain.Instruction{Date: "2024-03-15"},
			want:  true,
		},
		{
			name:  "date matches timed event on same day",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T10:00:00Z"}},
			instr: &domain.Instruction{Date: "2024-03-15"},
			want:  true,
		},
		{
			name:  "date mismatch",
			event: domain.Event{Start: domain.EventTime{Date: "2024-03-16"}},
			instr: &domain.Instruction{Date: "2024-03-15"},
			want:  false,
		},
		{
			name:  "datetime within an hour",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T10:45:00"}},
			instr: &domain.Instruction{DatetimeStart: "2024-03-15T10:00:00"},
			want:  true,
		},
		{
			name:  "datetime outside an hour",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T12:30:00"}},
			instr: &domain.Instruction{DatetimeStart: "2024-03-15T10:00:00"},
			want:  false,
		},
		{
			name:  "clock time match",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T14:30:00"}},
			instr: &domain.Instruction{Time: "14:30"},
			want:  true,
		},
		{
			name:  "clock time mismatch",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T09:00:00"}},
			instr: &domain.Instruction{Time: "14:30"},
			want:  false,
		},
		{
			name:  "no constraint matches everything",
			event: domain.Event{Start: domain.EventTime{DateTime: "2024-03-15T09:00:00"}},
			instr: &domain.Instruction{Title: "whatever"},
			want:  true,
		},
		{
			name:  "all day event passes datetime constraint",
			event: domain.Event{Start: domain.EventTime{Date: "2024-03-15"}},
			instr: &domain.Instruction{DatetimeStart: "2024-03-15T10:00:00"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesInstructionTime(tt.event, tt.instr); got != tt.want {
				t.Errorf("matchesInstructionTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildEventPayload(t *testing.T) {
	s := &CalendarService{timezone: "America/Chicago"}

	t.Run("timed event", func(t *testing.T) {
		p := s.buildEventPayload(&domain.Instruction{
			Title:         "Standup",
			DatetimeStart: "2024-03-15T09:30:00",
			DatetimeEnd:   "2024-03-15T09:45:00",
			Location:      "Room 4",
		})
		if p.Summary != "Standup" || p.Location != "Room 4" {
			t.Errorf("payload = %+v", p)
		}
		if p.Start == nil || p.Start.DateTime != "2024-03-15T09:30:00" || p.Start.TimeZone != "America/Chicago" {
			t.Errorf("Start = %+v", p.Start)
		}
		if p.End == nil || p.End.DateTime != "2024-03-15T09:45:00" {
			t.Errorf("End = %+v", p.End)
		}
	})

	t.Run("all day event ends next day", func(t *testing.T) {
		p := s.buildEventPayload(&domain.Instruction{Title: "Holiday", Date: "2024-07-04"})
		if p.Start == nil || p.Start.Date != "2024-07-04" {
			t.Errorf("Start = %+v", p.Start)
		}
		if p.End == nil || p.End.Date != "2024-07-05" {
			t.Errorf("End = %+v", p.End)
		}
	})

	t.Run("untitled default", func(t *testing.T) {
		p := s.buildEventPayload(&domain.Instruction{})
		if p.Summary != "Untitled Event" {
			t.Errorf("Summary = %q", p.Summary)
		}
	})

	t.Run("reminders parsed from duration strings", func(t *testing.T) {
		p := s.buildEventPayload(&domain.Instruction{
			Title:     "Dentist",
			Reminders: []string{"PT30M", "PT10M", "garbage"},
		})
		if p.Reminders == nil || len(p.Reminders.Overrides) != 2 {
			t.Fatalf("Reminders = %+v", p.Reminders)
		}
		if p.Reminders.Overrides[0].Minutes != 30 || p.Reminders.Overrides[1].Minutes != 10 {
			t.Errorf("Overrides = %+v", p.Reminders.Overrides)
		}
	})
}

func TestErrText(t *testing.T) {
	plain := errors.New("request failed: 500")
	if got := errText("Failed to create calendar event", plain); got != "Failed to create calendar event: request failed: 500" {
		t.Errorf("errText() = %q", got)
	}

	creds := errors.New("No Google credentials found for user alice")
	if got := errText("Failed to create calendar event", creds); got != creds.Error() {
		t.Errorf("errText() = %q, want credential error verbatim", got)
	}
}
