package controller

import (
	"context"
	"net/http"
	"time"

	directory "jobhive/internal/pkg/directory/port"
	"jobhive/internal/pkg/messaging/application/usecase"

	"github.com/gin-gonic/gin"
)

// StartConversationController resolves a typed email into a counterpart the
// client can open a fresh conversation with. No message is written here.
type StartConversationController struct {
	uc *usecase.StartConversationUseCase
}

func NewStartConversationController(dir directory.Directory) *StartConversationController {
	return &StartConversationController{uc: usecase.NewStartConversationUseCase(dir)}
}

type startConversationRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId" binding:"required"`
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.uc.Execute(ctx, usecase.StartConversationInput{
			UserID: req.UserID,
			Email:  req.Email,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"recipientId": out.RecipientID,
			"email":       out.Email,
		})
	}
}
