package domain

// Actions the model may emit in its instruction block.
const (
	ActionGreeting      = "greeting"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionFindAndDelete = "find_and_delete"
	ActionQuery         = "query"
	ActionClarification = "clarification_needed"
)

const (
	ItemEvent = "event"
	ItemTask  = "task"
)

// Recurrence is the model's shorthand that gets compiled to an RFC 5545
// RRULE before reaching the Calendar API.
type Recurrence struct {
	Freq      string   `json:"freq"`
	Interval  int      `json:"interval,omitempty"`
	Until     string   `json:"until,omitempty"`
	ByWeekday []string `json:"byweekday,omitempty"`
}

// Instruction is the machine-actionable block extracted from an AI reply.
type Instruction struct {
	Action        string      `json:"action"`
	ItemType      string      `json:"item_type,omitempty"`
	ID            string      `json:"id,omitempty"`
	Title         string      `json:"title,omitempty"`
	DatetimeStart string      `json:"datetime_start,omitempty"`
	DatetimeEnd   string      `json:"datetime_end,omitempty"`
	Date          string      `json:"date,omitempty"`
	Time          string      `json:"time,omitempty"`
	Description   string      `json:"description,omitempty"`
	Location      string      `json:"location,omitempty"`
	Recurrence    *Recurrence `json:"recurrence,omitempty"`
	Reminders     []string    `json:"reminders,omitempty"`
	MissingFields []string    `json:"missing_fields,omitempty"`
}
