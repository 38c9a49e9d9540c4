package model

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a chat message.
type Sender string

// Senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry of the assistant conversation. It lives only in session memory.
type ChatMessage struct {
	Timestamp time.Time
	Sender    Sender
	Text      string
	ID        uuid.UUID
}

// NewChatMessage stamps a message with a fresh id and the given time.
func NewChatMessage(sender Sender, text string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.New(),
		Sender:    sender,
		Text:      text,
		Timestamp: at,
	}
}
