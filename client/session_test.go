package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway backs Manager tests with function fields; unset fields
// return zero values.
type scriptedGateway struct {
	mu sync.Mutex

	sendFn      func(ctx context.Context, senderID, recipientID, content string) (Message, error)
	listFn      func(ctx context.Context, userID, recipientID string) ([]Message, error)
	markReadFn  func(ctx context.Context, userID, recipientID string) error
	summariesFn func(ctx context.Context, userID string) ([]ConversationSummary, error)
	startFn     func(ctx context.Context, userID, email string) (StartResult, error)

	markReadCalls  [][2]string
	summariesCalls int
}

func (g *scriptedGateway) SendMessage(ctx context.Context, senderID, recipientID, content string) (Message, error) {
	if g.sendFn == nil {
		return Message{}, nil
	}
	return g.sendFn(ctx, senderID, recipientID, content)
}

func (g *scriptedGateway) ListBetween(ctx context.Context, userID, recipientID string) ([]Message, error) {
	if g.listFn == nil {
		return []Message{}, nil
	}
	return g.listFn(ctx, userID, recipientID)
}

func (g *scriptedGateway) MarkRead(ctx context.Context, userID, recipientID string) error {
	g.mu.Lock()
	g.markReadCalls = append(g.markReadCalls, [2]string{userID, recipientID})
	g.mu.Unlock()
	if g.markReadFn == nil {
		return nil
	}
	return g.markReadFn(ctx, userID, recipientID)
}

func (g *scriptedGateway) Summaries(ctx context.Context, userID string) ([]ConversationSummary, error) {
	g.mu.Lock()
	g.summariesCalls++
	g.mu.Unlock()
	if g.summariesFn == nil {
		return []ConversationSummary{}, nil
	}
	return g.summariesFn(ctx, userID)
}

func (g *scriptedGateway) StartConversation(ctx context.Context, userID, email string) (StartResult, error) {
	if g.startFn == nil {
		return StartResult{}, nil
	}
	return g.startFn(ctx, userID, email)
}

func (g *scriptedGateway) markReads() [][2]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][2]string(nil), g.markReadCalls...)
}

func (g *scriptedGateway) refreshCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summariesCalls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bobSummary() ConversationSummary {
	return ConversationSummary{
		RecipientID: "bob",
		Email:       "bob@example.com",
		FirstName:   "Bob",
		LastName:    "Stone",
	}
}

func TestManagerStartsWithoutConversation(t *testing.T) {
	m := NewManager(&scriptedGateway{}, "alice", "alice@example.com", testLogger())

	assert.Equal(t, StateNoConversation, m.State())
	assert.Nil(t, m.Session())

	_, err := m.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoConversation)
}

func TestManagerSelectConversation(t *testing.T) {
	ctx := context.Background()
	history := []Message{
		{ID: "m1", Sender: "bob", Recipient: "alice", Content: "hi"},
		{ID: "m2", Sender: "alice", Recipient: "bob", Content: "hello"},
	}
	gw := &scriptedGateway{
		listFn: func(_ context.Context, userID, recipientID string) ([]Message, error) {
			assert.Equal(t, "alice", userID)
			assert.Equal(t, "bob", recipientID)
			return history, nil
		},
	}
	m := NewManager(gw, "alice", "alice@example.com", testLogger())

	require.NoError(t, m.SelectConversation(ctx, bobSummary()))

	assert.Equal(t, StateReady, m.State())
	sess := m.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "bob", sess.RecipientID)
	assert.Equal(t, "Bob Stone", sess.DisplayName)
	assert.Len(t, sess.Messages, 2)

	assert.Equal(t, [][2]string{{"alice", "bob"}}, gw.markReads())
	assert.Equal(t, 1, gw.refreshCount(), "sidebar refreshes after opening")
}

func TestManagerSelectConversationLoadFailure(t *testing.T) {
	gw := &scriptedGateway{
		listFn: func(context.Context, string, string) ([]Message, error) {
			return nil, errors.New("boom")
		},
	}
	m := NewManager(gw, "alice", "alice@example.com", testLogger())

	err := m.SelectConversation(context.Background(), bobSummary())
	assert.ErrorIs(t, err, ErrLoadMessages)
	assert.Equal(t, StateNoConversation, m.State())
	assert.Nil(t, m.Session())
	assert.Empty(t, gw.markReads(), "a failed load is never marked read")
}

func TestManagerMarkReadFailureIsNonFatal(t *testing.T) {
	gw := &scriptedGateway{
		markReadFn: func(context.Context, string, string) error {
			return errors.New("mark read down")
		},
	}
	m := NewManager(gw, "alice", "alice@example.com", testLogger())

	require.NoError(t, m.SelectConversation(context.Background(), bobSummary()))
	assert.Equal(t, StateReady, m.State())
}

func TestManagerStaleHistoryResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	gw := &scriptedGateway{
		listFn: func(_ context.Context, _, recipientID string) ([]Message, error) {
			if recipientID == "bob" {
				close(entered)
				<-release
				return []Message{{ID: "stale", Sender: "bob", Recipient: "alice"}}, nil
			}
			return []Message{{ID: "fresh", Sender: "carol", Recipient: "alice"}}, nil
		},
	}
	m := NewManager(gw, "alice", "alice@example.com", testLogger())

	done := make(chan error, 1)
	go func() {
		done <- m.SelectConversation(ctx, bobSummary())
	}()
	<-entered

	carol := ConversationSummary{RecipientID: "carol", Email: "carol@example.com"}
	require.NoError(t, m.SelectConversation(ctx, carol))

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err, "a discarded response is not an error")
	case <-time.After(2 * time.Second):
		t.Fatal("stale selection never returned")
	}

	sess := m.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "carol", sess.RecipientID, "the newer selection wins")
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "fresh", sess.Messages[0].ID)
	assert.Equal(t, StateReady, m.State())

	// The losing selection never marks its thread read.
	assert.Equal(t, [][2]string{{"alice", "carol"}}, gw.markReads())
}

func TestManagerStartConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty email", func(t *testing.T) {
		m := NewManager(&scriptedGateway{}, "alice", "alice@example.com", testLogger())
		assert.ErrorIs(t, m.StartConversation(ctx, "   "), ErrEmptyEmail)
	})

	t.Run("rejects the user's own email", func(t *testing.T) {
		m := NewManager(&scriptedGateway{}, "alice", "alice@example.com", testLogger())
		assert.ErrorIs(t, m.StartConversation(ctx, "Alice@Example.com"), ErrSelfConversation)
	})

	t.Run("reuses an existing thread", func(t *testing.T) {
		started := false
		gw := &scriptedGateway{
			summariesFn: func(context.Context, string) ([]ConversationSummary, error) {
				return []ConversationSummary{bobSummary()}, nil
			},
			startFn: func(context.Context, string, string) (StartResult, error) {
				started = true
				return StartResult{}, nil
			},
		}
		m := NewManager(gw, "alice", "alice@example.com", testLogger())
		require.NoError(t, m.RefreshSummaries(ctx))

		require.NoError(t, m.StartConversation(ctx, "BOB@example.com"))
		assert.False(t, started, "an existing thread is selected, not restarted")
		sess := m.Session()
		require.NotNil(t, sess)
		assert.Equal(t, "bob", sess.RecipientID)
	})

	t.Run("opens a fresh empty session for a new counterpart", func(t *testing.T) {
		gw := &scriptedGateway{
			startFn: func(_ context.Context, userID, email string) (StartResult, error) {
				assert.Equal(t, "alice", userID)
				assert.Equal(t, "dana@example.com", email)
				return StartResult{RecipientID: "dana", Email: "dana@example.com"}, nil
			},
		}
		m := NewManager(gw, "alice", "alice@example.com", testLogger())

		require.NoError(t, m.StartConversation(ctx, "dana@example.com"))
		assert.Equal(t, StateReady, m.State())
		sess := m.Session()
		require.NotNil(t, sess)
		assert.Equal(t, "dana", sess.RecipientID)
		assert.Empty(t, sess.Messages)
	})

	t.Run("propagates server errors", func(t *testing.T) {
		gw := &scriptedGateway{
			startFn: func(context.Context, string, string) (StartResult, error) {
				return StartResult{}, &APIError{Status: 404, Message: "The user does not exist."}
			},
		}
		m := NewManager(gw, "alice", "alice@example.com", testLogger())

		err := m.StartConversation(ctx, "ghost@example.com")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "The user does not exist.", apiErr.Message)
		assert.Equal(t, StateNoConversation, m.State())
	})
}

func TestManagerSend(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, gw *scriptedGateway) *Manager {
		t.Helper()
		m := NewManager(gw, "alice", "alice@example.com", testLogger())
		require.NoError(t, m.SelectConversation(ctx, bobSummary()))
		return m
	}

	t.Run("appends the confirmed message", func(t *testing.T) {
		gw := &scriptedGateway{
			sendFn: func(_ context.Context, senderID, recipientID, content string) (Message, error) {
				return Message{ID: "m9", Sender: senderID, Recipient: recipientID, Content: content}, nil
			},
		}
		m := open(t, gw)

		msg, err := m.Send(ctx, "  hello bob  ")
		require.NoError(t, err)
		assert.Equal(t, "m9", msg.ID)

		sess := m.Session()
		require.NotNil(t, sess)
		require.Len(t, sess.Messages, 1)
		assert.Equal(t, "m9", sess.Messages[0].ID)
		assert.Equal(t, StateReady, m.State())
	})

	t.Run("rejects blank input locally", func(t *testing.T) {
		m := open(t, &scriptedGateway{})
		_, err := m.Send(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("a failed send leaves the history untouched", func(t *testing.T) {
		gw := &scriptedGateway{
			sendFn: func(context.Context, string, string, string) (Message, error) {
				return Message{}, &APIError{Status: 500, Message: "boom"}
			},
		}
		m := open(t, gw)

		_, err := m.Send(ctx, "hello")
		assert.Error(t, err)
		assert.Equal(t, StateReady, m.State(), "the conversation stays open for a retry")
		sess := m.Session()
		require.NotNil(t, sess)
		assert.Empty(t, sess.Messages)
	})
}

func TestManagerHandleIncoming(t *testing.T) {
	ctx := context.Background()

	gw := &scriptedGateway{}
	m := NewManager(gw, "alice", "alice@example.com", testLogger())
	require.NoError(t, m.SelectConversation(ctx, bobSummary()))
	refreshesBefore := gw.refreshCount()

	t.Run("relevant events extend the open session", func(t *testing.T) {
		m.HandleIncoming(ctx, Message{ID: "m1", Sender: "bob", Recipient: "alice", Content: "ping"})

		sess := m.Session()
		require.NotNil(t, sess)
		require.Len(t, sess.Messages, 1)
		assert.Equal(t, "m1", sess.Messages[0].ID)
		assert.Equal(t, refreshesBefore+1, gw.refreshCount())
	})

	t.Run("unrelated events only refresh the sidebar", func(t *testing.T) {
		before := gw.refreshCount()
		m.HandleIncoming(ctx, Message{ID: "m2", Sender: "carol", Recipient: "alice", Content: "other thread"})

		sess := m.Session()
		require.NotNil(t, sess)
		assert.Len(t, sess.Messages, 1, "the open session is untouched")
		assert.Equal(t, before+1, gw.refreshCount())
	})
}
