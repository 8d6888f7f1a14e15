package controller

import (
	"time"

	messaging "jobhive/internal/pkg/messaging/application/domain"
)

// conversationSummaryResponse is the wire shape of one sidebar row.
type conversationSummaryResponse struct {
	RecipientID    string                `json:"recipientId"`
	Email          string                `json:"email"`
	FirstName      string                `json:"firstName,omitempty"`
	LastName       string                `json:"lastName,omitempty"`
	CompanyName    string                `json:"companyName,omitempty"`
	ProfilePicture string                `json:"profilePicture"`
	Unread         bool                  `json:"unread"`
	LatestMessage  latestMessageResponse `json:"latestMessage"`
}

type latestMessageResponse struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
	Sender    string    `json:"sender"`
}

func toSummaryResponse(s messaging.ConversationSummary) conversationSummaryResponse {
	return conversationSummaryResponse{
		RecipientID:    s.RecipientID,
		Email:          s.Email,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		CompanyName:    s.CompanyName,
		ProfilePicture: s.Identity.Avatar,
		Unread:         s.Unread,
		LatestMessage: latestMessageResponse{
			Content:   s.LatestMessage.Content,
			CreatedAt: s.LatestMessage.CreatedAt,
			IsRead:    s.LatestMessage.IsRead,
			Sender:    s.LatestMessage.SenderID,
		},
	}
}

func toSummaryResponses(summaries []messaging.ConversationSummary) []conversationSummaryResponse {
	out := make([]conversationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toSummaryResponse(s))
	}
	return out
}
