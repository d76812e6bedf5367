package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/moto-tune/suspension-backend/internal/conversation/domain"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// DB is the subset of pgxpool.Pool used here.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConversationRepository persists conversations and their messages.
type ConversationRepository struct {
	db DB
}

func NewConversationRepository(db DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = `id::text, owner_uid, kit_id::text, title, step, config_mode, created_at, updated_at`

func (r *ConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Step == "" {
		c.Step = domain.StepCollecte
	}
	const q = `
insert into conversations (id, owner_uid, kit_id, title, step, config_mode)
values ($1, $2, $3, $4, $5, $6)
returning created_at, updated_at;
`
	return r.db.QueryRow(ctx, q, c.ID, c.OwnerUID, c.KitID, c.Title, string(c.Step), modeArg(c.ConfigMode)).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanConversation(r.db.QueryRow(ctx, `select `+conversationColumns+` from conversations where id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// ListByOwner returns a rider's conversations, most recently active first.
func (r *ConversationRepository) ListByOwner(ctx context.Context, ownerUID string) ([]domain.Conversation, error) {
	rows, err := r.db.Query(ctx, `select `+conversationColumns+` from conversations where owner_uid = $1 order by updated_at desc`, ownerUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Conversation, 0, 8)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdatePhase writes the provided fields in one statement; nil fields keep
// their stored value.
func (r *ConversationRepository) UpdatePhase(ctx context.Context, id string, u domain.PhaseUpdate) error {
	var step *string
	if u.Step != nil {
		s := string(*u.Step)
		step = &s
	}
	tag, err := r.db.Exec(ctx, `
update conversations
set step = coalesce($2, step),
    config_mode = coalesce($3, config_mode),
    updated_at = now()
where id = $1
`, id, step, modeArg(u.ConfigMode))
	if err != nil {
		return fmt.Errorf("update phase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertTurn stores a user message and the assistant reply atomically.
func (r *ConversationRepository) InsertTurn(ctx context.Context, conversationID string, user, assistant *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, m := range []*domain.Message{user, assistant} {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.ConversationID = conversationID
		settingsJSON, err := encodeSettings(m.Settings)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
insert into conversation_messages (id, conversation_id, role, content, settings)
values ($1, $2, $3, $4, $5)
returning created_at
`, m.ID, conversationID, m.Role, m.Content, settingsJSON).Scan(&m.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert %s message: %w", m.Role, err)
		}
	}

	if _, err := tx.Exec(ctx, `update conversations set updated_at = now() where id = $1`, conversationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListMessages returns the last limit messages in chronological order.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
select id::text, conversation_id::text, role, content, settings, created_at
from (
  select * from conversation_messages
  where conversation_id = $1
  order by created_at desc, id desc
  limit $2
) recent
order by created_at asc, id asc
`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Message, 0, limit)
	for rows.Next() {
		var m domain.Message
		var settingsJSON []byte
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &settingsJSON, &m.CreatedAt); err != nil {
			return nil, err
		}
		if len(settingsJSON) > 0 {
			var ps susp.PartialSettings
			if err := json.Unmarshal(settingsJSON, &ps); err != nil {
				return nil, fmt.Errorf("decode message settings: %w", err)
			}
			m.Settings = &ps
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	var step string
	var mode *string
	if err := row.Scan(&c.ID, &c.OwnerUID, &c.KitID, &c.Title, &step, &mode, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Step = domain.Step(step)
	if mode != nil {
		m := domain.ConfigMode(*mode)
		c.ConfigMode = &m
	}
	return &c, nil
}

func modeArg(m *domain.ConfigMode) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

func encodeSettings(s *susp.PartialSettings) ([]byte, error) {
	if s == nil || s.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return b, nil
}
