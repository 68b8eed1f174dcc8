package domain

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one message in a per-video research conversation.
// Messages are append-only and ordered by creation time.
type ChatMessage struct {
	ID        int64
	VideoID   VideoID
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}
