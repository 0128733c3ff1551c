package model

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a project's conversation. Messages are
// immutable once appended; a project's message list is append-only.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	// Image is an optional base64-encoded reference image, with or without
	// a data-URL prefix.
	Image string `json:"image,omitempty"`
}

// NewUserMessage creates a user message, optionally carrying an image.
func NewUserMessage(content, image string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		Image:     image,
	}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}
