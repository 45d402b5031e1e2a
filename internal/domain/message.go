package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one entry in the client-side chat transcript. Messages are
// immutable once appended; ordering is append order.
type ChatMessage struct {
	ID         string
	Content    string
	IsFromUser bool
	Timestamp  time.Time
}

// NewChatMessage allocates a message with a random identifier. Random IDs
// stay unique even when several messages land in the same clock tick.
func NewChatMessage(content string, isFromUser bool) ChatMessage {
	return ChatMessage{
		ID:         uuid.NewString(),
		Content:    content,
		IsFromUser: isFromUser,
		Timestamp:  time.Now(),
	}
}

// ConversationMessage is one row of the server-side per-user history that is
// replayed to the model as context.
type ConversationMessage struct {
	ID        int64
	UserID    string
	Content   string
	IsUser    bool
	CreatedAt time.Time
}
