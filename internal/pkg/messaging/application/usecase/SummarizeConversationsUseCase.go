package usecase

import (
	"context"
	"fmt"
	"sort"

	directory "jobhive/internal/pkg/directory/port"
	messaging "jobhive/internal/pkg/messaging/application/domain"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"
)

// SummarizeConversationsInput identifies the requesting user.
type SummarizeConversationsInput struct {
	UserID string
}

// SummarizeConversationsUseCase answers "who has this user talked to, and
// what's the latest state of each thread?". Read-only: it performs no writes
// and is safe to run repeatedly and concurrently.
type SummarizeConversationsUseCase struct {
	Repo repository.MessageRepository
	Dir  directory.Directory
}

func NewSummarizeConversationsUseCase(repo repository.MessageRepository, dir directory.Directory) *SummarizeConversationsUseCase {
	return &SummarizeConversationsUseCase{Repo: repo, Dir: dir}
}

// Execute returns exactly one summary per distinct counterpart, ordered
// descending by the latest message's creation time. An empty slice is valid.
func (uc *SummarizeConversationsUseCase) Execute(ctx context.Context, in SummarizeConversationsInput) ([]messaging.ConversationSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	msgs, err := uc.Repo.ListByUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Messages arrive ascending, so the last message seen per counterpart is
	// the latest one.
	latest := make(map[string]messaging.Message)
	for _, m := range msgs {
		latest[m.Counterpart(in.UserID)] = m
	}

	summaries := make([]messaging.ConversationSummary, 0, len(latest))
	for counterpart, last := range latest {
		summary := messaging.ConversationSummary{
			RecipientID:   counterpart,
			LatestMessage: last,
			Unread:        last.UnreadFor(in.UserID),
		}

		account, err := uc.Dir.AccountByID(ctx, counterpart)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if account != nil {
			summary.Email = account.Email
		}

		resolved, err := resolveIdentity(ctx, uc.Dir, counterpart, summary.Email)
		if err != nil {
			return nil, err
		}
		summary.Identity = resolved.Identity
		summary.FirstName = resolved.FirstName
		summary.LastName = resolved.LastName
		summary.CompanyName = resolved.CompanyName

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		ti, tj := summaries[i].LatestMessage.CreatedAt, summaries[j].LatestMessage.CreatedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return summaries[i].RecipientID < summaries[j].RecipientID
	})

	return summaries, nil
}
