package realtime

import (
	"sync"
)

// Session is the contract the hub needs from a connected client. Connection
// is the production implementation; tests supply fakes.
type Session interface {
	ID() string
	UserID() string
	Send(payload []byte) error
	Close(code int, reason string)
}

// Hub tracks every connected client on this node and fans message events out
// to all of them. The messaging feed is one shared channel: every client
// receives every event except its own, and filters for relevance locally.
// One active session is kept per user.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]Session // sessionID -> session
	userSessions map[string]string  // userID -> sessionID
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]Session),
		userSessions: make(map[string]string),
	}
}

// Attach registers a session for its user. If a previous session exists it is
// removed and closed after the swap to enforce one active socket per user.
func (h *Hub) Attach(s Session) {
	var previous Session

	h.mu.Lock()
	if existingID, ok := h.userSessions[s.UserID()]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}
	h.sessions[s.ID()] = s
	h.userSessions[s.UserID()] = s.ID()
	h.mu.Unlock()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a session if it is still tracked.
func (h *Hub) Detach(s Session) {
	h.mu.Lock()
	h.detachLocked(s.ID())
	h.mu.Unlock()
}

// Broadcast writes payload to every attached session except the one belonging
// to excludeUserID (the sender). Returns how many sessions accepted the write.
func (h *Hub) Broadcast(payload []byte, excludeUserID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.sessions {
		if excludeUserID != "" && s.UserID() == excludeUserID {
			continue
		}
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to the current session of the given user.
func (h *Hub) NotifyUser(userID string, payload []byte) bool {
	h.mu.RLock()
	sessionID, ok := h.userSessions[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	s := h.sessions[sessionID]
	h.mu.RUnlock()
	if s == nil {
		return false
	}
	return s.Send(payload) == nil
}

// Close terminates all tracked sessions and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]Session)
	h.userSessions = make(map[string]string)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)
	if current, ok := h.userSessions[s.UserID()]; ok && current == sessionID {
		delete(h.userSessions, s.UserID())
	}
}
