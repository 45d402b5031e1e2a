package service

import (
	"strings"
	"testing"
	"time"
)

func TestSystemPrompt(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2024, 3, 15, 20, 30, 0, 0, time.UTC)

	prompt := SystemPrompt(now, loc)

	// 20:30 UTC is 15:30 in Chicago during DST.
	for _, want := range []string{
		"2024-03-15",
		"March 15, 2024",
		"2024-03-15T15:30:00",
		"3:30 PM",
		"America/Chicago",
		"userReply:",
		"instruction:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
