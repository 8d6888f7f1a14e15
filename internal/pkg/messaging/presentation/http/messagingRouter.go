package http

import (
	"log/slog"
	"time"

	cacheport "jobhive/internal/infrastructure/cache/port"
	qport "jobhive/internal/infrastructure/queue/port"
	"jobhive/internal/infrastructure/realtime"
	directory "jobhive/internal/pkg/directory/port"
	"jobhive/internal/pkg/messaging/presentation/controller"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// Deps bundles everything the messaging endpoints need. Ports only, so tests
// can register the full route table against fakes.
type Deps struct {
	Messages   repository.MessageRepository
	Directory  directory.Directory
	Queue      qport.Client
	Cache      cacheport.Cache
	Hub        *realtime.Hub
	SummaryTTL time.Duration
	Logger     *slog.Logger
}

// RegisterRoutes registers messaging HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	sendCtl := controller.NewSendMessageController(d.Messages, d.Directory, d.Queue, d.Logger)
	convsCtl := controller.NewGetConversationsController(d.Messages, d.Directory, d.Cache, d.SummaryTTL, d.Logger)
	startCtl := controller.NewStartConversationController(d.Directory)
	historyCtl := controller.NewGetMessagesController(d.Messages)
	readCtl := controller.NewMarkReadController(d.Messages, d.Cache, d.Logger)
	socketCtl := controller.NewMessageSocketController(d.Messages, d.Directory, d.Queue, d.Hub, d.Logger)

	// POST /messages/send -> append a message
	g.POST("/send", sendCtl.Handle())

	// GET /messages/conversations/:userId -> conversation summaries
	g.GET("/conversations/:userId", convsCtl.Handle())

	// POST /messages/start_conversation -> resolve an email into a counterpart
	g.POST("/start_conversation", startCtl.Handle())

	// PATCH /messages/read/:userId/:recipientId -> mark counterpart messages read
	g.PATCH("/read/:userId/:recipientId", readCtl.Handle())

	// GET /messages/ws -> websocket endpoint for realtime delivery
	g.GET("/ws", socketCtl.Handle())

	// GET /messages/:userId/:recipientId -> full history between the pair
	g.GET("/:userId/:recipientId", historyCtl.Handle())
}
