package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"
)

// Listener consumes pushed message events from the websocket endpoint. It is
// a cache-invalidation feed, not a source of record: a dropped connection
// only delays visibility until the next summaries fetch.
type Listener struct {
	conn   *websocket.Conn
	logger *slog.Logger
}

// Dial connects the realtime socket for the given user. baseURL uses the
// http/https scheme of the API and is rewritten to ws/wss.
func Dial(ctx context.Context, baseURL, userID string, logger *slog.Logger) (*Listener, error) {
	wsURL := strings.TrimRight(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL += "/messages/ws?user_id=" + userID

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	return &Listener{conn: conn, logger: logger}, nil
}

// Run reads frames until the connection drops or ctx is canceled, invoking
// onMessage for every well-formed receiveMessage event. Malformed or
// unexpected payloads are logged and discarded, never fatal.
func (l *Listener) Run(ctx context.Context, onMessage func(context.Context, Message)) error {
	go func() {
		<-ctx.Done()
		_ = l.conn.Close()
	}()

	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		msg, ok := l.decodeFrame(data)
		if !ok {
			continue
		}
		onMessage(ctx, msg)
	}
}

// Close tears the socket down.
func (l *Listener) Close() error {
	return l.conn.Close()
}

type eventFrame struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

func (l *Listener) decodeFrame(data []byte) (Message, bool) {
	var frame eventFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		l.logger.Warn("discarding malformed realtime payload", "error", err)
		return Message{}, false
	}
	if frame.Type != "receiveMessage" || frame.Message.ID == "" {
		// connected/sent/error acks and anything unknown are not events.
		return Message{}, false
	}
	return frame.Message, true
}
