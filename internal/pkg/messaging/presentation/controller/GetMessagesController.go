package controller

import (
	"context"
	"net/http"
	"time"

	"jobhive/internal/pkg/messaging/application/usecase"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// GetMessagesController serves the full history between two users, ascending
// by creation time. An empty array is a valid response, not an error.
type GetMessagesController struct {
	uc *usecase.ListMessagesUseCase
}

func NewGetMessagesController(repo repository.MessageRepository) *GetMessagesController {
	return &GetMessagesController{uc: usecase.NewListMessagesUseCase(repo)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		recipientID := c.Param("recipientId")
		if userID == "" || recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId and recipientId are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.uc.Execute(ctx, usecase.ListMessagesInput{
			UserID:      userID,
			RecipientID: recipientID,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, msgs)
	}
}
