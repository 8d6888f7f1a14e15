package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	qport "jobhive/internal/infrastructure/queue/port"
	"jobhive/internal/infrastructure/realtime"
	directory "jobhive/internal/pkg/directory/port"
	"jobhive/internal/pkg/messaging/application/task"
	"jobhive/internal/pkg/messaging/application/usecase"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MessageSocketController handles the websocket endpoint. Sockets exist to
// receive pushed receiveMessage frames; inbound "message" frames are an
// alternative send path routed through the same append pipeline as the REST
// endpoint.
type MessageSocketController struct {
	hub             *realtime.Hub
	sendUC          *usecase.SendMessageUseCase
	queue           qport.Client
	logger          *slog.Logger
	inflightTimeout time.Duration
}

func NewMessageSocketController(repo repository.MessageRepository, dir directory.Directory, queue qport.Client, hub *realtime.Hub, logger *slog.Logger) *MessageSocketController {
	return &MessageSocketController{
		hub:             hub,
		sendUC:          usecase.NewSendMessageUseCase(repo, dir),
		queue:           queue,
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking belongs to the ambient session layer.
		return true
	},
}

type inboundFrame struct {
	Type        string `json:"type"`
	RecipientID string `json:"recipientId,omitempty"`
	Content     string `json:"content,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type sentFrame struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *MessageSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.hub.Attach(conn)
		defer func() {
			ctl.hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(gin.H{"type": "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "message":
				ctl.handleMessage(c, conn, userID, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *MessageSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:    userID,
		RecipientID: frame.RecipientID,
		Content:     frame.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	if _, err := task.EnqueueDeliverMessage(ctx, ctl.queue, *msg); err != nil {
		ctl.logger.Warn("failed to enqueue message delivery", "error", err, "message_id", msg.ID)
	}

	if payload, err := json.Marshal(sentFrame{Type: "sent", Message: msg}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *MessageSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	if errors.Is(err, usecase.ErrPersistence) {
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
		return
	}
	ctl.replyError(conn, "bad_request", err.Error())
}

func (ctl *MessageSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
