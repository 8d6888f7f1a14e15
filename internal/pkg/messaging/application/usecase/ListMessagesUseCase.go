package usecase

import (
	"context"
	"fmt"

	messaging "jobhive/internal/pkg/messaging/application/domain"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"
)

// ListMessagesInput identifies the pair whose history is requested.
type ListMessagesInput struct {
	UserID      string
	RecipientID string
}

// ListMessagesUseCase fetches the full history between two users, ascending
// by creation time. Symmetric: the order of UserID/RecipientID is irrelevant.
type ListMessagesUseCase struct {
	Repo repository.MessageRepository
}

func NewListMessagesUseCase(repo repository.MessageRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]messaging.Message, error) {
	if in.UserID == "" || in.RecipientID == "" {
		return nil, fmt.Errorf("userId and recipientId are required")
	}
	msgs, err := uc.Repo.ListBetween(ctx, in.UserID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
