package config

import "time"

const (
	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Completion parameters
	MaxCompletionTokens = 256
	Temperature         = 0.7
	TopP                = 0.9

	// Conversation history kept per user and the slice sent as context
	HistoryKeep    = 20
	HistoryContext = 8

	// Upload limit for file extraction
	MaxUploadSize = 10 << 20 // 10 MB

	// Client-side timing
	SignOutTimeout  = 3 * time.Second
	InitSettleDelay = 1 * time.Second

	// find_and_delete searches events this far ahead
	EventLookahead = 30 * 24 * time.Hour

	// Google API endpoints
	CalendarBaseURL = "https://www.googleapis.com/calendar/v3"
	TasksBaseURL    = "https://tasks.googleapis.com/tasks/v1"
	TokenURL        = "https://oauth2.googleapis.com/token"
)
