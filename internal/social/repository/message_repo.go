package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/moto-tune/suspension-backend/internal/social/domain"
)

// MessageRepository stores direct messages in Postgres.
type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(ctx context.Context, m *domain.DirectMessage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	const q = `
INSERT INTO direct_messages (id, from_uid, to_uid, body)
VALUES ($1, $2, $3, $4)
RETURNING created_at;
`
	if err := r.db.QueryRowContext(ctx, q, m.ID, m.FromUID, m.ToUID, m.Body).Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("insert direct message: %w", err)
	}
	return nil
}

// Thread returns the last limit messages between two riders, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, uid, other string, limit int) ([]domain.DirectMessage, error) {
	const q = `
SELECT id, from_uid, to_uid, body, read_at, created_at FROM (
  SELECT id, from_uid, to_uid, body, read_at, created_at
  FROM direct_messages
  WHERE (from_uid = $1 AND to_uid = $2) OR (from_uid = $2 AND to_uid = $1)
  ORDER BY created_at DESC
  LIMIT $3
) t
ORDER BY created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, uid, other, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DirectMessage, 0, limit)
	for rows.Next() {
		var m domain.DirectMessage
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.FromUID, &m.ToUID, &m.Body, &readAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags every unread message from other to uid as read.
func (r *MessageRepository) MarkRead(ctx context.Context, uid, other string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE direct_messages SET read_at = now()
WHERE to_uid = $1 AND from_uid = $2 AND read_at IS NULL
`, uid, other)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return res.RowsAffected()
}

// UnreadCount counts messages waiting for uid.
func (r *MessageRepository) UnreadCount(ctx context.Context, uid string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM direct_messages WHERE to_uid = $1 AND read_at IS NULL`, uid).Scan(&n)
	return n, err
}
