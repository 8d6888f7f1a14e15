package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	cacheport "jobhive/internal/infrastructure/cache/port"
	directory "jobhive/internal/pkg/directory/port"
	"jobhive/internal/pkg/messaging/application/usecase"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// GetConversationsController serves the per-user conversation summary list.
// Results are cached for a short TTL; append and mark-read invalidate the
// cache, so a hit is never stale beyond the TTL window.
type GetConversationsController struct {
	uc     *usecase.SummarizeConversationsUseCase
	cache  cacheport.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewGetConversationsController(repo repository.MessageRepository, dir directory.Directory, cache cacheport.Cache, ttl time.Duration, logger *slog.Logger) *GetConversationsController {
	return &GetConversationsController{
		uc:     usecase.NewSummarizeConversationsUseCase(repo, dir),
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

const jsonContentType = "application/json; charset=utf-8"

func (h *GetConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		key := usecase.SummaryCacheKey(userID)
		if cached, err := h.cache.Get(ctx, key); err == nil {
			c.Data(http.StatusOK, jsonContentType, []byte(cached))
			return
		} else if !errors.Is(err, cacheport.ErrMiss) {
			h.logger.Warn("summary cache read failed", "error", err, "user_id", userID)
		}

		summaries, err := h.uc.Execute(ctx, usecase.SummarizeConversationsInput{UserID: userID})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		body, err := json.Marshal(toSummaryResponses(summaries))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode conversations"})
			return
		}

		if err := h.cache.Set(ctx, key, string(body), h.ttl); err != nil {
			h.logger.Warn("summary cache write failed", "error", err, "user_id", userID)
		}

		c.Data(http.StatusOK, jsonContentType, body)
	}
}
