package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
)

// ConfigRepository provides persistence operations for saved configs
type ConfigRepository struct {
	db *sql.DB
}

func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

const configColumns = `id, kit_id, owner_uid, name, terrain, notes, settings, is_public, created_at, updated_at`

// Create inserts a config.
func (r *ConfigRepository) Create(ctx context.Context, c *domain.Config) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	settingsJSON, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	const q = `
INSERT INTO configs (id, kit_id, owner_uid, name, terrain, notes, settings, is_public)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q, c.ID, c.KitID, c.OwnerUID, c.Name, c.Terrain, c.Notes, settingsJSON, c.Public).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Get returns a config by id.
func (r *ConfigRepository) Get(ctx context.Context, id string) (*domain.Config, error) {
	c, err := scanConfig(r.db.QueryRowContext(ctx, `SELECT `+configColumns+` FROM configs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// ListByKit returns every config saved for a kit, newest first.
func (r *ConfigRepository) ListByKit(ctx context.Context, kitID string) ([]domain.Config, error) {
	return r.list(ctx, `SELECT `+configColumns+` FROM configs WHERE kit_id = $1 ORDER BY created_at DESC`, kitID)
}

// ListPublic lists shared configs matching q.
func (r *ConfigRepository) ListPublic(ctx context.Context, q domain.PublicQuery) ([]domain.Config, error) {
	q = q.Normalize()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + configColumns + ` FROM configs WHERE is_public = TRUE`)
	args := make([]any, 0, 3)

	if q.OwnerUIDs != nil {
		args = append(args, pq.Array(q.OwnerUIDs))
		fmt.Fprintf(&sb, ` AND owner_uid = ANY($%d)`, len(args))
	}
	if q.Terrain != "" {
		args = append(args, q.Terrain)
		fmt.Fprintf(&sb, ` AND terrain = $%d`, len(args))
	}
	if q.Sort == domain.SortName {
		sb.WriteString(` ORDER BY name ASC, created_at DESC`)
	} else {
		sb.WriteString(` ORDER BY created_at DESC`)
	}
	args = append(args, q.Limit)
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))

	return r.list(ctx, sb.String(), args...)
}

// SetVisibility toggles public sharing.
func (r *ConfigRepository) SetVisibility(ctx context.Context, id string, public bool) error {
	return execAffectingOne(ctx, r.db, `UPDATE configs SET is_public = $2, updated_at = now() WHERE id = $1`, id, public)
}

// Delete removes a config.
func (r *ConfigRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM configs WHERE id = $1`, id)
}

func (r *ConfigRepository) list(ctx context.Context, q string, args ...any) ([]domain.Config, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Config, 0, 8)
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanConfig(s rowScanner) (*domain.Config, error) {
	var c domain.Config
	var terrain, notes sql.NullString
	var settingsJSON []byte
	if err := s.Scan(&c.ID, &c.KitID, &c.OwnerUID, &c.Name, &terrain, &notes, &settingsJSON, &c.Public, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Terrain = terrain.String
	c.Notes = notes.String
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &c.Settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	return &c, nil
}
