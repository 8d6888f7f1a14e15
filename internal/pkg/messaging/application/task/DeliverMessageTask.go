package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	cacheport "jobhive/internal/infrastructure/cache/port"
	pubsubport "jobhive/internal/infrastructure/pubsub/port"
	qport "jobhive/internal/infrastructure/queue/port"
	"jobhive/internal/infrastructure/realtime"
	messaging "jobhive/internal/pkg/messaging/application/domain"
	"jobhive/internal/pkg/messaging/application/usecase"
)

// DeliverMessageTaskType is the queue task name for fanning a persisted
// message out to connected clients. The message is already durable when this
// task runs; delivery is best-effort on top of it.
const DeliverMessageTaskType = "messaging:deliver"

// EnqueueDeliverMessage schedules fan-out for a freshly persisted message.
func EnqueueDeliverMessage(ctx context.Context, q qport.Client, m messaging.Message) (string, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return q.Enqueue(ctx, qport.Task{Type: DeliverMessageTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "messaging", MaxRetry: 10})
}

// RegisterDeliverMessageTask binds the fan-out handler to the worker server.
// The handler publishes the event frame to the shared bus (the relay on each
// node pushes it to local sockets) and invalidates both participants' summary
// caches so their next summarize call re-derives truth from the store.
func RegisterDeliverMessageTask(srv qport.Server, bus pubsubport.Bus, cache cacheport.Cache, channel string, logger *slog.Logger) {
	srv.Register(DeliverMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var m messaging.Message
		if err := json.Unmarshal(t.Payload, &m); err != nil {
			// malformed payload: retrying will never help
			logger.Error("discarding malformed deliver task payload", "error", err)
			return nil
		}

		ev := realtime.MessageEvent{
			Type: realtime.EventTypeReceiveMessage,
			Message: realtime.EventMessage{
				ID:        m.ID,
				Sender:    m.SenderID,
				Recipient: m.RecipientID,
				Content:   m.Content,
				IsRead:    m.IsRead,
				CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
			},
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}

		if err := bus.Publish(ctx, channel, payload); err != nil {
			// retry per queue policy; clients fall back to summarize polling
			return err
		}

		if _, err := cache.Del(ctx,
			usecase.SummaryCacheKey(m.SenderID),
			usecase.SummaryCacheKey(m.RecipientID),
		); err != nil {
			logger.Warn("summary cache invalidation failed", "error", err, "message_id", m.ID)
		}
		return nil
	})
}
