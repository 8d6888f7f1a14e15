package messaging

import (
	"errors"
	"strings"
	"time"
)

// User-visible error copy. These strings are part of the API contract and are
// asserted on by clients, so they are full sentences rather than Go-style
// lowercase error text.
var (
	ErrEmptyContent     = errors.New("Message can't be empty.")
	ErrEmptyEmail       = errors.New("Email can't be empty.")
	ErrSelfConversation = errors.New("You can't start a conversation with yourself.")
	ErrNoProfile        = errors.New("This user has not created a profile yet.")
	ErrUserNotFound     = errors.New("The user does not exist.")
)

// Message is a directed message between two marketplace users.
// Immutable after creation except for the IsRead flag, which is flipped by
// the read-state tracker when the recipient opens the conversation.
type Message struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender"`
	RecipientID string    `db:"recipient_id" json:"recipient"`
	Content     string    `db:"content" json:"content"`
	IsRead      bool      `db:"is_read" json:"isRead"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// NewMessage validates and shapes a message ready to persist.
// Sender and recipient must differ; content must be non-empty after trimming.
// The ID is left blank for the store to generate.
func NewMessage(senderID, recipientID, content string) (*Message, error) {
	if senderID == "" || recipientID == "" {
		return nil, errors.New("sender and recipient are required")
	}
	if senderID == recipientID {
		return nil, ErrSelfConversation
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Counterpart returns the other participant of the message relative to userID.
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// UnreadFor reports whether the message should count as unread for userID:
// it was sent by the counterpart and has not been read yet.
func (m Message) UnreadFor(userID string) bool {
	return !m.IsRead && m.SenderID != userID
}
