package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/calendargpt/calendargpt/internal/domain"
)

var (
	instructionRe = regexp.MustCompile(`(?s)instruction:\s*(\{.*\})`)
	userReplyRe   = regexp.MustCompile(`userReply:\s*"(.*)"`)
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractInstruction pulls the instruction JSON block out of a raw model
// reply. Model output is only semi-structured, so the JSON is cleaned up
// before parsing and a brace-balanced prefix is retried on failure.
func ExtractInstruction(reply string) (*domain.Instruction, error) {
	m := instructionRe.FindStringSubmatch(reply)
	if m == nil {
		return nil, domain.ErrNoInstruction
	}

	raw := cleanJSON(m[1])

	instr := &domain.Instruction{}
	if err := json.Unmarshal([]byte(raw), instr); err == nil {
		return instr, nil
	}

	// The block may run past the instruction object into trailing prose.
	// Retry with the first complete JSON object.
	if obj, ok := firstJSONObject(raw); ok {
		instr = &domain.Instruction{}
		if err := json.Unmarshal([]byte(obj), instr); err != nil {
			return nil, fmt.Errorf("parse instruction JSON: %w", err)
		}
		return instr, nil
	}
	return nil, fmt.Errorf("parse instruction JSON: incomplete object")
}

// ExtractUserReply pulls the quoted conversational reply out of a raw model
// reply. Returns "" when the pattern is absent.
func ExtractUserReply(reply string) string {
	m := userReplyRe.FindStringSubmatch(reply)
	if m == nil {
		return ""
	}
	return m[1]
}

// cleanJSON fixes the formatting slips models tend to make: trailing commas
// and typographic quotes.
func cleanJSON(s string) string {
	s = trailingComma.ReplaceAllString(s, "$1")
	s = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	).Replace(s)
	return strings.TrimSpace(s)
}

func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Executor turns parsed instructions into Google API calls.
type Executor struct {
	calendar *CalendarService
	tasks    *TasksService
}

func NewExecutor(calendar *CalendarService, tasks *TasksService) *Executor {
	return &Executor{calendar: calendar, tasks: tasks}
}

// Run parses the model reply and executes the embedded instruction for the
// user. Every failure comes back as an unsuccessful APIResult, never as an
// error: the caller always has something renderable.
func (e *Executor) Run(ctx context.Context, reply, userID string) *domain.APIResult {
	instr, err := ExtractInstruction(reply)
	if err != nil {
		return &domain.APIResult{Error: err.Error()}
	}

	slog.Info("executing instruction", "action", instr.Action, "item_type", instr.ItemType, "user_id", userID)

	switch instr.Action {
	case domain.ActionGreeting:
		return &domain.APIResult{Success: true, Message: "Greeting processed"}

	case domain.ActionCreate:
		switch instr.ItemType {
		case domain.ItemEvent:
			return e.calendar.CreateFromInstruction(ctx, instr, userID)
		case domain.ItemTask:
			return e.tasks.CreateFromInstruction(ctx, instr, userID)
		}

	case domain.ActionQuery:
		switch instr.ItemType {
		case domain.ItemEvent:
			return e.calendar.QueryFromInstruction(ctx, instr, userID)
		case domain.ItemTask:
			return e.tasks.QueryFromInstruction(ctx, instr, userID)
		}

	case domain.ActionDelete:
		switch instr.ItemType {
		case domain.ItemEvent:
			return e.calendar.DeleteFromInstruction(ctx, instr, userID)
		case domain.ItemTask:
			return e.tasks.DeleteFromInstruction(ctx, instr, userID)
		}

	case domain.ActionFindAndDelete:
		switch instr.ItemType {
		case domain.ItemEvent:
			return e.calendar.FindAndDelete(ctx, instr, userID)
		case domain.ItemTask:
			return e.tasks.FindAndDelete(ctx, instr, userID)
		}

	case domain.ActionUpdate:
		// The model never has real item IDs to update with.
		switch instr.ItemType {
		case domain.ItemEvent:
			return &domain.APIResult{Error: "Event update requires event ID - not implemented yet"}
		case domain.ItemTask:
			return &domain.APIResult{Error: "Task update requires task ID - not implemented yet"}
		}

	case domain.ActionClarification:
		return &domain.APIResult{Success: true, Message: "Clarification needed", Clarification: true}
	}

	return &domain.APIResult{Error: fmt.Sprintf("Unknown action: %s", instr.Action)}
}
