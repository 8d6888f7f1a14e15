package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	directory "jobhive/internal/pkg/directory/port"
	messaging "jobhive/internal/pkg/messaging/application/domain"
)

// fakeMessageRepo is an in-memory MessageRepository. Messages are kept in
// insertion order, which the tests keep ascending by creation time.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []messaging.Message
	nextID   int
	failWith error
}

func (r *fakeMessageRepo) SaveMessage(_ context.Context, m messaging.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return "", r.failWith
	}
	r.nextID++
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	r.messages = append(r.messages, m)
	return m.ID, nil
}

func (r *fakeMessageRepo) ListBetween(_ context.Context, userA, userB string) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []messaging.Message{}
	for _, m := range r.messages {
		if (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListByUser(_ context.Context, userID string) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []messaging.Message{}
	for _, m := range r.messages {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkAllRead(_ context.Context, fromUser, toUser string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.SenderID == fromUser && m.RecipientID == toUser && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) add(sender, recipient, content string, read bool, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.messages = append(r.messages, messaging.Message{
		ID:          fmt.Sprintf("msg-%d", r.nextID),
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
		IsRead:      read,
		CreatedAt:   at,
	})
}

// fakeDirectory serves accounts and profiles from maps. Absent entries return
// (nil, nil), matching the directory contract.
type fakeDirectory struct {
	accounts  map[string]directory.Account // by id
	profiles  map[string]directory.Profile
	companies map[string]directory.CompanyProfile
	failWith  error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts:  map[string]directory.Account{},
		profiles:  map[string]directory.Profile{},
		companies: map[string]directory.CompanyProfile{},
	}
}

func (d *fakeDirectory) AccountByEmail(_ context.Context, email string) (*directory.Account, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}
	for _, a := range d.accounts {
		if a.Email == email {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) AccountByID(_ context.Context, id string) (*directory.Account, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}
	if a, ok := d.accounts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (d *fakeDirectory) ProfileByUserID(_ context.Context, userID string) (*directory.Profile, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}
	if p, ok := d.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (d *fakeDirectory) CompanyByUserID(_ context.Context, userID string) (*directory.CompanyProfile, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}
	if c, ok := d.companies[userID]; ok {
		return &c, nil
	}
	return nil, nil
}
