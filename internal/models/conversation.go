package models

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a chat session. Histories are
// append-only and owned exclusively by a single session.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
