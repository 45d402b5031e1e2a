package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
)

// CalendarService wraps the Google Calendar v3 REST API for the primary
// calendar of each user.
type CalendarService struct {
	auth       *GoogleAuth
	httpClient *http.Client
	baseURL    string
	timezone   string
}

func NewCalendarService(auth *GoogleAuth, cfg *config.Config) *CalendarService {
	return &CalendarService{
		auth:       auth,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    config.CalendarBaseURL,
		timezone:   cfg.Timezone,
	}
}

type reminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type eventReminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []reminderOverride `json:"overrides"`
}

type eventPayload struct {
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	Start       *domain.EventTime `json:"start,omitempty"`
	End         *domain.EventTime `json:"end,omitempty"`
	Recurrence  []string          `json:"recurrence,omitempty"`
	Reminders   *eventReminders   `json:"reminders,omitempty"`
}

func (s *CalendarService) Insert(ctx context.Context, userID string, payload *eventPayload) (*domain.Event, error) {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev := &domain.Event{}
	u := s.baseURL + "/calendars/primary/events?sendUpdates=all"
	if err := doJSON(ctx, s.httpClient, token, "POST", u, payload, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *CalendarService) List(ctx context.Context, userID, timeMin, timeMax string) ([]domain.Event, error) {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	if timeMin != "" {
		q.Set("timeMin", timeMin)
	}
	if timeMax != "" {
		q.Set("timeMax", timeMax)
	}

	var result struct {
		Items []domain.Event `json:"items"`
	}
	u := s.baseURL + "/calendars/primary/events?" + q.Encode()
	if err := doJSON(ctx, s.httpClient, token, "GET", u, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *CalendarService) Delete(ctx context.Context, userID, eventID string) error {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return err
	}
	u := s.baseURL + "/calendars/primary/events/" + url.PathEscape(eventID) + "?sendUpdates=all"
	return doJSON(ctx, s.httpClient, token, "DELETE", u, nil, nil)
}

// CreateFromInstruction creates an event described by the model.
func (s *CalendarService) CreateFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	payload := s.buildEventPayload(instr)
	if _, err := s.Insert(ctx, userID, payload); err != nil {
		return &domain.APIResult{Error: errText("Failed to create calendar event", err)}
	}
	return &domain.APIResult{
		Success: true,
		Message: fmt.Sprintf("Event '%s' created successfully", payload.Summary),
	}
}

// QueryFromInstruction lists events for the range the model extracted and
// pre-renders them for display.
func (s *CalendarService) QueryFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	timeMin, timeMax := instr.DatetimeStart, instr.DatetimeEnd
	if instr.Date != "" {
		timeMin = instr.Date + "T00:00:00Z"
		timeMax = instr.Date + "T23:59:59Z"
	}

	events, err := s.List(ctx, userID, timeMin, timeMax)
	if err != nil {
		return &domain.APIResult{Error: errText("Failed to query calendar events", err)}
	}

	return &domain.APIResult{
		Success:           true,
		Message:           fmt.Sprintf("Found %d events", len(events)),
		Events:            events,
		Count:             len(events),
		FormattedResponse: formatEventList(events),
	}
}

func (s *CalendarService) DeleteFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	if instr.ID == "" {
		return &domain.APIResult{Error: "Event ID is required for deletion"}
	}
	if err := s.Delete(ctx, userID, instr.ID); err != nil {
		return &domain.APIResult{Error: errText("Failed to delete calendar event", err)}
	}
	return &domain.APIResult{Success: true, Message: "Event deleted successfully"}
}

// FindAndDelete searches upcoming events by title description, narrowed by
// any date or time the user gave, and deletes only an unambiguous match.
func (s *CalendarService) FindAndDelete(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	now := time.Now().UTC()
	timeMin := now.Format(time.RFC3339)
	timeMax := now.Add(config.EventLookahead).Format(time.RFC3339)

	events, err := s.List(ctx, userID, timeMin, timeMax)
	if err != nil {
		return &domain.APIResult{Error: errText("Failed to find and delete calendar event", err)}
	}

	if len(events) == 0 {
		return &domain.APIResult{
			Success:           true,
			Message:           "No events found to delete.",
			FormattedResponse: "📅 **No events found**\n\nThere are no events available to delete.",
		}
	}

	search := strings.ToLower(instr.Title)
	var matching []domain.Event
	for _, ev := range events {
		title := strings.ToLower(ev.Summary)
		if !strings.Contains(title, search) && !strings.Contains(search, title) {
			continue
		}
		if matchesInstructionTime(ev, instr) {
			matching = append(matching, ev)
		}
	}

	switch len(matching) {
	case 0:
		lines := make([]string, len(events))
		for i, ev := range events {
			lines[i] = formatEventLine(ev)
		}
		return &domain.APIResult{
			Success: true,
			Message: fmt.Sprintf("No events found matching '%s'. Here are all your events:", search),
			Events:  events,
			FormattedResponse: fmt.Sprintf(
				"❌ **No matching events found**\n\nI couldn't find any events matching '%s'. Here are your upcoming events:\n\n%s\n\nPlease specify which event you'd like to delete.",
				search, strings.Join(lines, "\n")),
		}

	case 1:
		target := matching[0]
		title := target.Summary
		if title == "" {
			title = "Untitled Event"
		}
		if err := s.Delete(ctx, userID, target.ID); err != nil {
			return &domain.APIResult{Error: errText("Failed to find and delete calendar event", err)}
		}
		return &domain.APIResult{
			Success:           true,
			Message:           fmt.Sprintf("Event '%s' deleted successfully.", title),
			FormattedResponse: fmt.Sprintf("✅ **Event Deleted**\n\nSuccessfully deleted: %s", title),
		}

	default:
		lines := make([]string, len(matching))
		for i, ev := range matching {
			lines[i] = formatEventLine(ev)
		}
		return &domain.APIResult{
			Success: true,
			Message: fmt.Sprintf("Found %d events matching '%s'. Please specify which one to delete:", len(matching), search),
			Events:  matching,
			FormattedResponse: fmt.Sprintf(
				"🔍 **Multiple matches found**\n\nFound %d events matching '%s':\n\n%s\n\nPlease specify which event you'd like to delete by providing more details.",
				len(matching), search, strings.Join(lines, "\n")),
		}
	}
}

// matchesInstructionTime applies the user's date/time constraint, if any.
// Datetime matches allow a one hour window for flexibility.
func matchesInstructionTime(ev domain.Event, instr *domain.Instruction) bool {
	switch {
	case instr.Date != "":
		if ev.Start.Date != "" {
			return ev.Start.Date == instr.Date
		}
		if ev.Start.DateTime != "" {
			datePart, _, _ := strings.Cut(ev.Start.DateTime, "T")
			return datePart == instr.Date
		}
		return true

	case instr.DatetimeStart != "":
		if ev.Start.DateTime == "" {
			return true
		}
		evTime, err1 := parseDateTime(ev.Start.DateTime)
		wantTime, err2 := parseDateTime(instr.DatetimeStart)
		if err1 != nil || err2 != nil {
			return true
		}
		diff := evTime.Sub(wantTime)
		if diff < 0 {
			diff = -diff
		}
		return diff <= time.Hour

	case instr.Time != "":
		if ev.Start.DateTime == "" {
			return true
		}
		evTime, err := parseDateTime(ev.Start.DateTime)
		if err != nil {
			return true
		}
		return evTime.Format("15:04") == instr.Time
	}
	return true
}

// buildEventPayload maps the model's instruction fields onto the Calendar
// API event shape.
func (s *CalendarService) buildEventPayload(instr *domain.Instruction) *eventPayload {
	summary := instr.Title
	if summary == "" {
		summary = "Untitled Event"
	}
	payload := &eventPayload{
		Summary:     summary,
		Description: instr.Description,
		Location:    instr.Location,
	}

	switch {
	case instr.DatetimeStart != "":
		payload.Start = &domain.EventTime{DateTime: instr.DatetimeStart, TimeZone: s.timezone}
	case instr.Date != "":
		payload.Start = &domain.EventTime{Date: instr.Date}
	}

	switch {
	case instr.DatetimeEnd != "":
		payload.End = &domain.EventTime{DateTime: instr.DatetimeEnd, TimeZone: s.timezone}
	case instr.Date != "" && instr.DatetimeStart == "":
		// All-day events end the day after they start.
		if start, err := time.Parse("2006-01-02", instr.Date); err == nil {
			payload.End = &domain.EventTime{Date: start.AddDate(0, 0, 1).Format("2006-01-02")}
		}
	}

	if instr.Recurrence != nil {
		payload.Recurrence = buildRRule(instr.Recurrence)
	}

	if len(instr.Reminders) > 0 {
		rem := &eventReminders{}
		for _, r := range instr.Reminders {
			minutes, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r, "PT"), "M"))
			if err != nil {
				continue
			}
			rem.Overrides = append(rem.Overrides, reminderOverride{Method: "popup", Minutes: minutes})
		}
		if len(rem.Overrides) > 0 {
			payload.Reminders = rem
		}
	}

	return payload
}

var weekdayCodes = map[string]bool{
	"MO": true, "TU": true, "WE": true, "TH": true, "FR": true, "SA": true, "SU": true,
}

// buildRRule compiles the model's recurrence shorthand to RFC 5545.
func buildRRule(rec *domain.Recurrence) []string {
	var parts []string
	if rec.Freq != "" {
		parts = append(parts, "FREQ="+strings.ToUpper(rec.Freq))
	}
	if rec.Interval > 0 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", rec.Interval))
	}
	if rec.Until != "" {
		until := rec.Until
		if i := strings.IndexByte(until, 'T'); i >= 0 {
			until = until[:i]
		}
		until = strings.ReplaceAll(until, "-", "")
		parts = append(parts, "UNTIL="+until)
	}
	if len(rec.ByWeekday) > 0 {
		var days []string
		for _, d := range rec.ByWeekday {
			if weekdayCodes[d] {
				days = append(days, d)
			}
		}
		if len(days) > 0 {
			parts = append(parts, "BYDAY="+strings.Join(days, ","))
		}
	}
	if len(parts) == 0 {
		return []string{"RRULE:FREQ=DAILY"}
	}
	return []string{"RRULE:" + strings.Join(parts, ";")}
}

// errText keeps credential-absence errors verbatim so clients can key on
// the "No Google credentials found" substring; everything else gets context.
func errText(prefix string, err error) string {
	if strings.Contains(err.Error(), "No Google credentials found") {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}
