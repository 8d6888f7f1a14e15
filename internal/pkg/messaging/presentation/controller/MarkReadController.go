package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	cacheport "jobhive/internal/infrastructure/cache/port"
	"jobhive/internal/pkg/messaging/application/usecase"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// MarkReadController implements the read-state endpoint: opening a
// conversation marks everything the counterpart sent to the viewer as read.
// PATCH /messages/read/:userId/:recipientId — userId is the viewer,
// recipientId the counterpart whose messages get marked.
type MarkReadController struct {
	uc     *usecase.MarkConversationReadUseCase
	cache  cacheport.Cache
	logger *slog.Logger
}

func NewMarkReadController(repo repository.MessageRepository, cache cacheport.Cache, logger *slog.Logger) *MarkReadController {
	return &MarkReadController{
		uc:     usecase.NewMarkConversationReadUseCase(repo),
		cache:  cache,
		logger: logger,
	}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		recipientID := c.Param("recipientId")
		if userID == "" || recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId and recipientId are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		updated, err := h.uc.Execute(ctx, usecase.MarkConversationReadInput{
			FromUserID: recipientID,
			ToUserID:   userID,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		// Read flags appear in both users' summary payloads.
		if _, err := h.cache.Del(ctx,
			usecase.SummaryCacheKey(userID),
			usecase.SummaryCacheKey(recipientID),
		); err != nil {
			h.logger.Warn("summary cache invalidation failed", "error", err, "user_id", userID)
		}

		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}
