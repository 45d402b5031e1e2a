package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
)

// TasksService wraps the Google Tasks v1 REST API over the user's default
// task list.
type TasksService struct {
	auth       *GoogleAuth
	httpClient *http.Client
	baseURL    string
}

func NewTasksService(auth *GoogleAuth) *TasksService {
	return &TasksService{
		auth:       auth,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    config.TasksBaseURL,
	}
}

// defaultTaskList returns the ID of the user's first task list.
func (s *TasksService) defaultTaskList(ctx context.Context, token string) (string, error) {
	var result struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := doJSON(ctx, s.httpClient, token, "GET", s.baseURL+"/users/@me/lists", nil, &result); err != nil {
		return "", err
	}
	if len(result.Items) == 0 {
		return "@default", nil
	}
	return result.Items[0].ID, nil
}

type taskPayload struct {
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	Due   string `json:"due,omitempty"`
}

func (s *TasksService) Insert(ctx context.Context, userID string, payload *taskPayload) (*domain.Task, error) {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	listID, err := s.defaultTaskList(ctx, token)
	if err != nil {
		return nil, err
	}
	task := &domain.Task{}
	u := fmt.Sprintf("%s/lists/%s/tasks", s.baseURL, url.PathEscape(listID))
	if err := doJSON(ctx, s.httpClient, token, "POST", u, payload, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TasksService) List(ctx context.Context, userID, dueMin, dueMax string) ([]domain.Task, error) {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	listID, err := s.defaultTaskList(ctx, token)
	if err != nil {
		return nil, err
	}

	q := url.Values{"showCompleted": {"false"}}
	if dueMin != "" {
		q.Set("dueMin", dueMin)
	}
	if dueMax != "" {
		q.Set("dueMax", dueMax)
	}

	var result struct {
		Items []domain.Task `json:"items"`
	}
	u := fmt.Sprintf("%s/lists/%s/tasks?%s", s.baseURL, url.PathEscape(listID), q.Encode())
	if err := doJSON(ctx, s.httpClient, token, "GET", u, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *TasksService) Delete(ctx context.Context, userID, taskID string) error {
	token, err := s.auth.AccessToken(ctx, userID)
	if err != nil {
		return err
	}
	listID, err := s.defaultTaskList(ctx, token)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/lists/%s/tasks/%s", s.baseURL, url.PathEscape(listID), url.PathEscape(taskID))
	return doJSON(ctx, s.httpClient, token, "DELETE", u, nil, nil)
}

func (s *TasksService) CreateFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	title := instr.Title
	if title == "" {
		title = "Untitled Task"
	}
	payload := &taskPayload{Title: title, Notes: instr.Description}
	switch {
	case instr.DatetimeStart != "":
		payload.Due = instr.DatetimeStart
	case instr.Date != "":
		payload.Due = instr.Date
	}

	if _, err := s.Insert(ctx, userID, payload); err != nil {
		return &domain.APIResult{Error: errText("Failed to create task", err)}
	}
	return &domain.APIResult{
		Success: true,
		Message: fmt.Sprintf("Task '%s' created successfully", title),
	}
}

func (s *TasksService) QueryFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	dueMin, dueMax := instr.DatetimeStart, instr.DatetimeEnd
	if instr.Date != "" {
		dueMin = instr.Date + "T00:00:00Z"
		dueMax = instr.Date + "T23:59:59Z"
	}

	tasks, err := s.List(ctx, userID, dueMin, dueMax)
	if err != nil {
		return &domain.APIResult{Error: errText("Failed to query tasks", err)}
	}

	return &domain.APIResult{
		Success:           true,
		Message:           fmt.Sprintf("Found %d tasks", len(tasks)),
		Tasks:             tasks,
		Count:             len(tasks),
		FormattedResponse: formatTaskList(tasks),
	}
}

func (s *TasksService) DeleteFromInstruction(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	if instr.ID == "" {
		return &domain.APIResult{Error: "Task ID is required for deletion"}
	}
	if err := s.Delete(ctx, userID, instr.ID); err != nil {
		return &domain.APIResult{Error: errText("Failed to delete task", err)}
	}
	return &domain.APIResult{Success: true, Message: "Task deleted successfully"}
}

// FindAndDelete searches open tasks by title description and deletes only an
// unambiguous match.
func (s *TasksService) FindAndDelete(ctx context.Context, instr *domain.Instruction, userID string) *domain.APIResult {
	tasks, err := s.List(ctx, userID, "", "")
	if err != nil {
		return &domain.APIResult{Error: errText("Failed to find and delete task", err)}
	}

	if len(tasks) == 0 {
		return &domain.APIResult{
			Success:           true,
			Message:           "No tasks found to delete.",
			FormattedResponse: "📋 **No tasks found**\n\nThere are no tasks available to delete.",
		}
	}

	search := strings.ToLower(instr.Title)
	var matching []domain.Task
	for _, t := range tasks {
		title := strings.ToLower(t.Title)
		if strings.Contains(title, search) || strings.Contains(search, title) {
			matching = append(matching, t)
		}
	}

	switch len(matching) {
	case 0:
		lines := make([]string, len(tasks))
		for i, t := range tasks {
			lines[i] = formatTaskLine(t)
		}
		return &domain.APIResult{
			Success: true,
			Message: fmt.Sprintf("No tasks found matching '%s'. Here are all your tasks:", search),
			Tasks:   tasks,
			FormattedResponse: fmt.Sprintf(
				"❌ **No matching tasks found**\n\nI couldn't find any tasks matching '%s'. Here are all your tasks:\n\n%s\n\nPlease specify which task you'd like to delete.",
				search, strings.Join(lines, "\n")),
		}

	case 1:
		target := matching[0]
		title := target.Title
		if title == "" {
			title = "Untitled Task"
		}
		if err := s.Delete(ctx, userID, target.ID); err != nil {
			return &domain.APIResult{Error: errText("Failed to find and delete task", err)}
		}
		return &domain.APIResult{
			Success:           true,
			Message:           fmt.Sprintf("Task '%s' deleted successfully.", title),
			FormattedResponse: fmt.Sprintf("✅ **Task Deleted**\n\nSuccessfully deleted: %s", title),
		}

	default:
		lines := make([]string, len(matching))
		for i, t := range matching {
			lines[i] = formatTaskLine(t)
		}
		return &domain.APIResult{
			Success: true,
			Message: fmt.Sprintf("Found %d tasks matching '%s'. Please specify which one to delete:", len(matching), search),
			Tasks:   matching,
			FormattedResponse: fmt.Sprintf(
				"🔍 **Multiple matches found**\n\nFound %d tasks matching '%s':\n\n%s\n\nPlease specify which task you'd like to delete by providing more details.",
				len(matching), search, strings.Join(lines, "\n")),
		}
	}
}
