package adapter

import (
	"context"
	"errors"

	messaging "jobhive/internal/pkg/messaging/application/domain"
	repository "jobhive/internal/pkg/messaging/persistence/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) SaveMessage(ctx context.Context, m messaging.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messaging.message (sender_id, recipient_id, content, is_read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		RETURNING id::text
	`, m.SenderID, m.RecipientID, m.Content, m.IsRead, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) ListBetween(ctx context.Context, userA, userB string) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, sender_id::text, recipient_id::text, content, is_read, created_at
		FROM messaging.message
		WHERE (sender_id = $1::uuid AND recipient_id = $2::uuid)
		   OR (sender_id = $2::uuid AND recipient_id = $1::uuid)
		ORDER BY created_at ASC, id ASC
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) ListByUser(ctx context.Context, userID string) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, sender_id::text, recipient_id::text, content, is_read, created_at
		FROM messaging.message
		WHERE sender_id = $1::uuid OR recipient_id = $1::uuid
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) MarkAllRead(ctx context.Context, fromUser, toUser string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messaging.message
		SET is_read = TRUE
		WHERE sender_id = $1::uuid AND recipient_id = $2::uuid AND is_read = FALSE
	`, fromUser, toUser)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMessages(rows pgRows) ([]messaging.Message, error) {
	msgs := make([]messaging.Message, 0)
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
