package repository

import (
	"context"

	messaging "jobhive/internal/pkg/messaging/application/domain"
)

// MessageRepository defines persistence operations for the messaging domain.
// The store is the single source of truth; the realtime feed is only a
// cache-invalidation signal on top of it.
type MessageRepository interface {
	// SaveMessage persists m and returns the generated id.
	SaveMessage(ctx context.Context, m messaging.Message) (string, error)

	// ListBetween returns every message exchanged between the two users, in
	// either direction, ascending by creation time. Symmetric in its
	// arguments; an empty slice is not an error.
	ListBetween(ctx context.Context, userA, userB string) ([]messaging.Message, error)

	// ListByUser returns every message the user sent or received, ascending
	// by creation time. Input for the conversation aggregator.
	ListByUser(ctx context.Context, userID string) ([]messaging.Message, error)

	// MarkAllRead flips is_read on every unread message from fromUser to
	// toUser and returns how many rows changed. Idempotent; zero rows is a
	// no-op, not an error.
	MarkAllRead(ctx context.Context, fromUser, toUser string) (int64, error)
}
