package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// State enumerates the conversation UI state machine.
type State int

const (
	StateNoConversation State = iota
	StateLoading
	StateReady
	StateSending
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	default:
		return "no-conversation"
	}
}

// Session holds the currently selected conversation: the counterpart and the
// full ascending message history. Ephemeral and client-local; replaced on
// every selection and never persisted.
type Session struct {
	RecipientID string
	Email       string
	DisplayName string
	Avatar      string
	Messages    []Message
}

// Manager drives the conversation flow for one signed-in user: select a
// thread, read its history, send a message, merge pushed events. All state
// changes go through it, so the optimistic-append, server-confirm and
// live-feed-merge paths stay consistent.
//
// Stale responses are handled last-write-wins: each selection bumps an epoch,
// and a history response that arrives after a newer selection is discarded.
type Manager struct {
	gw     Gateway
	userID string
	email  string
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	session   *Session
	summaries []ConversationSummary
	epoch     uint64
}

// NewManager constructs a manager for the given user identity.
func NewManager(gw Gateway, userID, email string, logger *slog.Logger) *Manager {
	return &Manager{
		gw:     gw,
		userID: userID,
		email:  strings.ToLower(strings.TrimSpace(email)),
		logger: logger,
		state:  StateNoConversation,
	}
}

// State returns the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a snapshot of the open conversation, or nil.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	snapshot := *m.session
	snapshot.Messages = append([]Message(nil), m.session.Messages...)
	return &snapshot
}

// Summaries returns the latest fetched sidebar rows.
func (m *Manager) Summaries() []ConversationSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ConversationSummary(nil), m.summaries...)
}

// RefreshSummaries re-derives the sidebar from the server.
func (m *Manager) RefreshSummaries(ctx context.Context) error {
	summaries, err := m.gw.Summaries(ctx, m.userID)
	if err != nil {
		m.logger.Warn("failed to load conversations", "error", err)
		return ErrLoadConversations
	}
	m.mu.Lock()
	m.summaries = summaries
	m.mu.Unlock()
	return nil
}

// SelectConversation opens the thread behind a sidebar row: loads history,
// then marks the counterpart's messages read as a non-fatal follow-up and
// refreshes the sidebar so the unread badge clears.
func (m *Manager) SelectConversation(ctx context.Context, summary ConversationSummary) error {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.state = StateLoading
	m.mu.Unlock()

	msgs, err := m.gw.ListBetween(ctx, m.userID, summary.RecipientID)

	m.mu.Lock()
	if m.epoch != epoch {
		// A newer selection won; drop this response.
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.state = StateNoConversation
		m.session = nil
		m.mu.Unlock()
		m.logger.Warn("failed to load messages", "error", err, "recipient_id", summary.RecipientID)
		return ErrLoadMessages
	}
	m.session = &Session{
		RecipientID: summary.RecipientID,
		Email:       summary.Email,
		DisplayName: summary.DisplayName(),
		Avatar:      summary.ProfilePicture,
		Messages:    msgs,
	}
	m.state = StateReady
	m.mu.Unlock()

	// Read-state tracker: failure is reported but never reverts Ready.
	if err := m.gw.MarkRead(ctx, m.userID, summary.RecipientID); err != nil {
		m.logger.Warn("failed to mark conversation read", "error", err, "recipient_id", summary.RecipientID)
	}
	_ = m.RefreshSummaries(ctx)

	return nil
}

// StartConversation opens (or reuses) a conversation with the user behind a
// typed email address.
func (m *Manager) StartConversation(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	if email == m.email {
		return ErrSelfConversation
	}

	// Reuse an existing thread instead of creating a duplicate entry.
	m.mu.Lock()
	var existing *ConversationSummary
	for i := range m.summaries {
		if strings.EqualFold(m.summaries[i].Email, email) {
			existing = &m.summaries[i]
			break
		}
	}
	m.mu.Unlock()
	if existing != nil {
		return m.SelectConversation(ctx, *existing)
	}

	out, err := m.gw.StartConversation(ctx, m.userID, email)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.epoch++
	m.session = &Session{
		RecipientID: out.RecipientID,
		Email:       out.Email,
		DisplayName: out.Email,
		Messages:    []Message{},
	}
	m.state = StateReady
	m.mu.Unlock()
	return nil
}

// Send validates and persists a message in the open conversation, appending
// it optimistically and refreshing the sidebar ordering.
func (m *Manager) Send(ctx context.Context, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return Message{}, ErrNoConversation
	}
	recipientID := m.session.RecipientID
	m.state = StateSending
	m.mu.Unlock()

	msg, err := m.gw.SendMessage(ctx, m.userID, recipientID, content)

	m.mu.Lock()
	if err != nil {
		m.state = StateReady
		m.mu.Unlock()
		return Message{}, err
	}
	if m.session != nil && m.session.RecipientID == recipientID {
		m.session.Messages = append(m.session.Messages, msg)
	}
	m.state = StateReady
	m.mu.Unlock()

	_ = m.RefreshSummaries(ctx)
	return msg, nil
}

// HandleIncoming merges one pushed message event: appended to the open
// session when it belongs to it, and the sidebar is refreshed either way. A
// message for a closed conversation stays unread until that thread is opened.
func (m *Manager) HandleIncoming(ctx context.Context, msg Message) {
	m.mu.Lock()
	if m.session != nil && m.concernsSessionLocked(msg) {
		m.session.Messages = append(m.session.Messages, msg)
	}
	m.mu.Unlock()

	_ = m.RefreshSummaries(ctx)
}

func (m *Manager) concernsSessionLocked(msg Message) bool {
	counterpart := m.session.RecipientID
	return (msg.Sender == counterpart && msg.Recipient == m.userID) ||
		(msg.Sender == m.userID && msg.Recipient == counterpart)
}
