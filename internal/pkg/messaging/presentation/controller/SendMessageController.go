package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	qport "jobhive/internal/infrastructure/queue/port"
	directory "jobhive/internal/pkg/directory/port"
	"jobhive/internal/pkg/messaging/application/task"
	"jobhive/internal/pkg/messaging/application/usecase"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// SendMessageController handles the send-message endpoint (one controller per
// endpoint). The message is persisted synchronously; realtime fan-out is
// enqueued as a background task afterwards.
type SendMessageController struct {
	uc     *usecase.SendMessageUseCase
	queue  qport.Client
	logger *slog.Logger
}

func NewSendMessageController(repo repository.MessageRepository, dir directory.Directory, queue qport.Client, logger *slog.Logger) *SendMessageController {
	return &SendMessageController{
		uc:     usecase.NewSendMessageUseCase(repo, dir),
		queue:  queue,
		logger: logger,
	}
}

// sendMessageRequest is the DTO for the HTTP request body. Content is not
// bound as required so empty bodies fail with the contract error copy instead
// of a generic binding error.
type sendMessageRequest struct {
	SenderID    string `json:"senderId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
	Content     string `json:"content"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.uc.Execute(ctx, usecase.SendMessageInput{
			SenderID:    req.SenderID,
			RecipientID: req.RecipientID,
			Content:     req.Content,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		// Best-effort: a failed enqueue only delays visibility until the next
		// summarize call; the message itself is already durable.
		if _, err := task.EnqueueDeliverMessage(ctx, h.queue, *msg); err != nil {
			h.logger.Warn("failed to enqueue message delivery", "error", err, "message_id", msg.ID)
		}

		c.JSON(http.StatusCreated, msg)
	}
}
