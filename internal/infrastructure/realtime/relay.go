package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"jobhive/internal/infrastructure/pubsub/port"
)

// EventTypeReceiveMessage is the frame type clients receive for new messages.
const EventTypeReceiveMessage = "receiveMessage"

// MessageEvent is the wire frame published to the bus and pushed to sockets.
type MessageEvent struct {
	Type    string       `json:"type"`
	Message EventMessage `json:"message"`
}

// EventMessage mirrors the persisted message's JSON shape.
type EventMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// Relay subscribes to the cross-node event channel and feeds well-formed
// frames to the local hub. Malformed payloads are discarded and logged; the
// receive path never fails the subscription over one bad frame.
type Relay struct {
	bus     port.Bus
	hub     *Hub
	channel string
	logger  *slog.Logger
	stop    func() error
}

// NewRelay wires a bus subscription to a hub.
func NewRelay(bus port.Bus, hub *Hub, channel string, logger *slog.Logger) *Relay {
	return &Relay{bus: bus, hub: hub, channel: channel, logger: logger}
}

// Start subscribes to the event channel. Call Stop to unsubscribe.
func (r *Relay) Start(ctx context.Context) error {
	if r.stop != nil {
		return errors.New("realtime: relay already started")
	}
	stop, err := r.bus.Subscribe(ctx, r.channel, r.handle)
	if err != nil {
		return err
	}
	r.stop = stop
	r.logger.Info("realtime relay subscribed", "channel", r.channel)
	return nil
}

// Stop cancels the subscription.
func (r *Relay) Stop() error {
	if r.stop == nil {
		return nil
	}
	stop := r.stop
	r.stop = nil
	return stop()
}

func (r *Relay) handle(payload []byte) {
	var ev MessageEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Warn("discarding malformed realtime payload", "error", err)
		return
	}
	if ev.Type != EventTypeReceiveMessage || ev.Message.ID == "" {
		r.logger.Warn("discarding unexpected realtime payload", "type", ev.Type)
		return
	}

	// The sender already holds the message locally; everyone else gets it and
	// filters for relevance client-side.
	delivered := r.hub.Broadcast(payload, ev.Message.Sender)
	r.logger.Debug("relayed message event", "message_id", ev.Message.ID, "delivered", delivered)
}
