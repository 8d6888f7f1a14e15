package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gateway is the server boundary the conversation manager talks to. Tests
// supply scripted fakes; production uses HTTPGateway.
type Gateway interface {
	SendMessage(ctx context.Context, senderID, recipientID, content string) (Message, error)
	ListBetween(ctx context.Context, userID, recipientID string) ([]Message, error)
	MarkRead(ctx context.Context, userID, recipientID string) error
	Summaries(ctx context.Context, userID string) ([]ConversationSummary, error)
	StartConversation(ctx context.Context, userID, email string) (StartResult, error)
}

// APIError carries the server's status code and user-visible error copy.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// HTTPGateway implements Gateway against the REST endpoints.
type HTTPGateway struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPGateway constructs a gateway for the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Gateway = (*HTTPGateway)(nil)

func (g *HTTPGateway) SendMessage(ctx context.Context, senderID, recipientID, content string) (Message, error) {
	var msg Message
	err := g.do(ctx, http.MethodPost, "/messages/send", map[string]string{
		"senderId":    senderID,
		"recipientId": recipientID,
		"content":     content,
	}, &msg)
	return msg, err
}

func (g *HTTPGateway) ListBetween(ctx context.Context, userID, recipientID string) ([]Message, error) {
	var msgs []Message
	err := g.do(ctx, http.MethodGet, "/messages/"+userID+"/"+recipientID, nil, &msgs)
	return msgs, err
}

func (g *HTTPGateway) MarkRead(ctx context.Context, userID, recipientID string) error {
	return g.do(ctx, http.MethodPatch, "/messages/read/"+userID+"/"+recipientID, nil, nil)
}

func (g *HTTPGateway) Summaries(ctx context.Context, userID string) ([]ConversationSummary, error) {
	var summaries []ConversationSummary
	err := g.do(ctx, http.MethodGet, "/messages/conversations/"+userID, nil, &summaries)
	return summaries, err
}

func (g *HTTPGateway) StartConversation(ctx context.Context, userID, email string) (StartResult, error) {
	var out StartResult
	err := g.do(ctx, http.MethodPost, "/messages/start_conversation", map[string]string{
		"email":  email,
		"userId": userID,
	}, &out)
	return out, err
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
