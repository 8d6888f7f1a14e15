package realtime_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"jobhive/internal/infrastructure/pubsub/port"
	"jobhive/internal/infrastructure/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus delivers published payloads synchronously to in-process subscribers.
type fakeBus struct {
	mu       sync.Mutex
	handlers map[string][]port.Handler
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: map[string][]port.Handler{}}
}

func (b *fakeBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	handlers := append([]port.Handler(nil), b.handlers[channel]...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (b *fakeBus) Subscribe(_ context.Context, channel string, h port.Handler) (func() error, error) {
	b.mu.Lock()
	b.handlers[channel] = append(b.handlers[channel], h)
	b.mu.Unlock()
	return func() error { return nil }, nil
}

func (b *fakeBus) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayDeliversMessageEvents(t *testing.T) {
	hub := realtime.NewHub()
	sender := &fakeSession{id: "s1", userID: "alice"}
	receiver := &fakeSession{id: "s2", userID: "bob"}
	hub.Attach(sender)
	hub.Attach(receiver)

	bus := newFakeBus()
	relay := realtime.NewRelay(bus, hub, "messaging:events", discardLogger())
	require.NoError(t, relay.Start(context.Background()))
	defer relay.Stop()

	payload, err := json.Marshal(realtime.MessageEvent{
		Type: realtime.EventTypeReceiveMessage,
		Message: realtime.EventMessage{
			ID:        "msg-1",
			Sender:    "alice",
			Recipient: "bob",
			Content:   "hello",
		},
	})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "messaging:events", payload))

	require.Len(t, receiver.received(), 1)
	assert.JSONEq(t, string(payload), string(receiver.received()[0]))
	assert.Empty(t, sender.received(), "the sender already holds the message locally")
}

func TestRelayDiscardsMalformedPayloads(t *testing.T) {
	hub := realtime.NewHub()
	receiver := &fakeSession{id: "s1", userID: "bob"}
	hub.Attach(receiver)

	bus := newFakeBus()
	relay := realtime.NewRelay(bus, hub, "messaging:events", discardLogger())
	require.NoError(t, relay.Start(context.Background()))
	defer relay.Stop()

	require.NoError(t, bus.Publish(context.Background(), "messaging:events", []byte("not json")))
	assert.Empty(t, receiver.received())
}

func TestRelayDiscardsUnexpectedFrames(t *testing.T) {
	hub := realtime.NewHub()
	receiver := &fakeSession{id: "s1", userID: "bob"}
	hub.Attach(receiver)

	bus := newFakeBus()
	relay := realtime.NewRelay(bus, hub, "messaging:events", discardLogger())
	require.NoError(t, relay.Start(context.Background()))
	defer relay.Stop()

	require.NoError(t, bus.Publish(context.Background(), "messaging:events", []byte(`{"type":"somethingElse"}`)))
	require.NoError(t, bus.Publish(context.Background(), "messaging:events", []byte(`{"type":"receiveMessage","message":{"id":""}}`)))
	assert.Empty(t, receiver.received())
}

func TestRelayStartIsSingleUse(t *testing.T) {
	relay := realtime.NewRelay(newFakeBus(), realtime.NewHub(), "messaging:events", discardLogger())
	require.NoError(t, relay.Start(context.Background()))
	assert.Error(t, relay.Start(context.Background()))

	require.NoError(t, relay.Stop())
	assert.NoError(t, relay.Stop(), "stopping twice is a no-op")
}
