package domain

// Task is a read-only view over a Google Tasks item.
type Task struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	Due   string `json:"due,omitempty"`
}

// EventTime mirrors the Google Calendar start/end shape: timed events carry
// DateTime, all-day events carry Date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a read-only view over a Google Calendar event.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       EventTime `json:"start,omitempty"`
	End         EventTime `json:"end,omitempty"`
}

// APIResult is the structured outcome of executing one AI instruction.
type APIResult struct {
	Success           bool    `json:"success"`
	Error             string  `json:"error,omitempty"`
	Message           string  `json:"message,omitempty"`
	FormattedResponse string  `json:"formatted_response,omitempty"`
	Tasks             []Task  `json:"tasks,omitempty"`
	Events            []Event `json:"events,omitempty"`
	Clarification     bool    `json:"clarification,omitempty"`
	Count             int     `json:"count,omitempty"`
}

// ResponsePayload is the wire shape of /api/ai/process and /api/file/extract.
// UserReply carries the conversational reply as a typed field; clients built
// against the old contract still extract it from Response with the
// userReply: "..." heuristic.
type ResponsePayload struct {
	Response  string     `json:"response"`
	UserReply string     `json:"user_reply,omitempty"`
	APIResult *APIResult `json:"api_result,omitempty"`
	Timestamp string     `json:"timestamp,omitempty"`
}
