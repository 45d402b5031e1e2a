package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// AIService talks to an OpenAI-compatible chat completion endpoint
// (DeepSeek by default).
type AIService struct {
	client openaigo.Client
	model  string
	loc    *time.Location
}

func NewAIService(cfg *config.Config) (*AIService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(cfg.DeepSeekURL, "/")),
		option.WithAPIKey(cfg.DeepSeekKey),
		option.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
		option.WithRequestTimeout(config.RequestTimeout),
	)

	return &AIService{
		client: client,
		model:  cfg.DeepSeekModel,
		loc:    loc,
	}, nil
}

// Process sends the user text, prefixed by the system prompt and the recent
// conversation, and returns the raw model reply.
func (s *AIService) Process(ctx context.Context, text string, history []domain.ConversationMessage) (string, error) {
	userContent := text
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("Previous conversation:\n")
		for _, m := range history {
			role := "Assistant"
			if m.IsUser {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
		}
		b.WriteString("\nCurrent message: ")
		b.WriteString(text)
		userContent = b.String()
	}

	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(s.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(SystemPrompt(time.Now(), s.loc)),
			openaigo.UserMessage(userContent),
		},
		MaxTokens:   openaigo.Int(config.MaxCompletionTokens),
		Temperature: openaigo.Float(config.Temperature),
		TopP:        openaigo.Float(config.TopP),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "Received an unexpected response format from the AI model.", nil
	}
	reply := resp.Choices[0].Message.Content
	if reply == "" {
		return "I understand your message but don't have a specific response to provide.", nil
	}
	return reply, nil
}
