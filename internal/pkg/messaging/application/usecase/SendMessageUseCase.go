package usecase

import (
	"context"
	"fmt"

	directory "jobhive/internal/pkg/directory/port"
	messaging "jobhive/internal/pkg/messaging/application/domain"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a new message.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Content     string
}

// SendMessageUseCase validates and persists a message. Validation rules live
// in the domain (messaging.NewMessage); recipient existence is checked against
// the directory so unknown ids fail before any write.
type SendMessageUseCase struct {
	Repo repository.MessageRepository
	Dir  directory.Directory
}

func NewSendMessageUseCase(repo repository.MessageRepository, dir directory.Directory) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Dir: dir}
}

// Execute persists a new message and returns it with its generated id.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	msg, err := messaging.NewMessage(in.SenderID, in.RecipientID, in.Content)
	if err != nil {
		return nil, err
	}

	recipient, err := uc.Dir.AccountByID(ctx, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if recipient == nil {
		return nil, messaging.ErrUserNotFound
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}
