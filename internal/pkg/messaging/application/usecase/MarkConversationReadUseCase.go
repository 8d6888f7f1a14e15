package usecase

import (
	"context"
	"fmt"

	repository "jobhive/internal/pkg/messaging/persistence/repository/port"
)

// MarkConversationReadInput marks messages from FromUserID to ToUserID read.
// ToUserID is the viewer opening the conversation; FromUserID the counterpart.
type MarkConversationReadInput struct {
	FromUserID string
	ToUserID   string
}

// MarkConversationReadUseCase implements the read-state tracker. Idempotent:
// marking an already-read conversation changes nothing.
type MarkConversationReadUseCase struct {
	Repo repository.MessageRepository
}

func NewMarkConversationReadUseCase(repo repository.MessageRepository) *MarkConversationReadUseCase {
	return &MarkConversationReadUseCase{Repo: repo}
}

// Execute returns how many messages were newly marked read.
func (uc *MarkConversationReadUseCase) Execute(ctx context.Context, in MarkConversationReadInput) (int64, error) {
	if in.FromUserID == "" || in.ToUserID == "" {
		return 0, fmt.Errorf("userId and recipientId are required")
	}
	n, err := uc.Repo.MarkAllRead(ctx, in.FromUserID, in.ToUserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
