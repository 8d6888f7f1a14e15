// Package client is a Go client for the JobHive messaging API. It implements
// the conversation flow as an explicit state machine over the REST contract
// plus a websocket listener for pushed message events.
package client

import (
	"errors"
	"time"
)

// Message mirrors the JSON shape of a persisted message.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// LatestMessage is the rollup embedded in a conversation summary.
type LatestMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
	Sender    string    `json:"sender"`
}

// ConversationSummary is one sidebar row: the counterpart's identity and the
// latest state of the thread.
type ConversationSummary struct {
	RecipientID    string        `json:"recipientId"`
	Email          string        `json:"email"`
	FirstName      string        `json:"firstName,omitempty"`
	LastName       string        `json:"lastName,omitempty"`
	CompanyName    string        `json:"companyName,omitempty"`
	ProfilePicture string        `json:"profilePicture"`
	Unread         bool          `json:"unread"`
	LatestMessage  LatestMessage `json:"latestMessage"`
}

// DisplayName resolves the name to render for the counterpart: individual
// name, else company name, else the raw email.
func (s ConversationSummary) DisplayName() string {
	if s.FirstName != "" || s.LastName != "" {
		if s.FirstName == "" {
			return s.LastName
		}
		if s.LastName == "" {
			return s.FirstName
		}
		return s.FirstName + " " + s.LastName
	}
	if s.CompanyName != "" {
		return s.CompanyName
	}
	return s.Email
}

// StartResult identifies the counterpart resolved from a typed email.
type StartResult struct {
	RecipientID string `json:"recipientId"`
	Email       string `json:"email"`
}

// User-visible error copy, matching the server contract.
var (
	ErrEmptyMessage      = errors.New("Message can't be empty.")
	ErrEmptyEmail        = errors.New("Email can't be empty.")
	ErrSelfConversation  = errors.New("You can't start a conversation with yourself.")
	ErrNoConversation    = errors.New("No conversation is selected.")
	ErrLoadConversations = errors.New("Failed to load conversations.")
	ErrLoadMessages      = errors.New("Failed to load messages.")
)
