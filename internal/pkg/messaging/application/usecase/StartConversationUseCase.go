package usecase

import (
	"context"
	"fmt"
	"strings"

	directory "jobhive/internal/pkg/directory/port"
	messaging "jobhive/internal/pkg/messaging/application/domain"
)

// StartConversationInput carries the typed email and the requesting user.
type StartConversationInput struct {
	UserID string
	Email  string
}

// StartConversationOutput identifies the resolved counterpart.
type StartConversationOutput struct {
	RecipientID string
	Email       string
}

// StartConversationUseCase resolves a typed email into a counterpart a
// conversation can be opened with. Self-messaging is rejected, unknown emails
// and profile-less accounts fail with the contract error copy.
type StartConversationUseCase struct {
	Dir directory.Directory
}

func NewStartConversationUseCase(dir directory.Directory) *StartConversationUseCase {
	return &StartConversationUseCase{Dir: dir}
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*StartConversationOutput, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, messaging.ErrEmptyEmail
	}

	requester, err := uc.Dir.AccountByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if requester != nil && strings.EqualFold(requester.Email, email) {
		return nil, messaging.ErrSelfConversation
	}

	recipient, err := uc.Dir.AccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if recipient == nil {
		return nil, messaging.ErrUserNotFound
	}
	if recipient.ID == in.UserID {
		return nil, messaging.ErrSelfConversation
	}

	resolved, err := resolveIdentity(ctx, uc.Dir, recipient.ID, recipient.Email)
	if err != nil {
		return nil, err
	}
	if resolved.Identity.Kind == messaging.IdentityUnknown {
		return nil, messaging.ErrNoProfile
	}

	return &StartConversationOutput{RecipientID: recipient.ID, Email: recipient.Email}, nil
}
