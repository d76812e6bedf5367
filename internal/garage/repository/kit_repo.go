package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// KitRepository provides persistence operations for suspension kits
type KitRepository struct {
	db *sql.DB
}

func NewKitRepository(db *sql.DB) *KitRepository {
	return &KitRepository{db: db}
}

const kitColumns = `id, moto_id, owner_uid, name, fork_model, shock_model, ranges, base_settings, created_at, updated_at`

// Create inserts a kit. Ranges are normalized before writing.
func (r *KitRepository) Create(ctx context.Context, k *domain.Kit) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	k.Ranges = k.Ranges.Normalize()

	rangesJSON, baseJSON, err := encodeKitJSON(k)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO kits (id, moto_id, owner_uid, name, fork_model, shock_model, ranges, base_settings)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q, k.ID, k.MotoID, k.OwnerUID, k.Name, k.ForkModel, k.ShockModel, rangesJSON, baseJSON).
		Scan(&k.CreatedAt, &k.UpdatedAt)
}

// Get returns a kit by id.
func (r *KitRepository) Get(ctx context.Context, id string) (*domain.Kit, error) {
	k, err := scanKit(r.db.QueryRowContext(ctx, `SELECT `+kitColumns+` FROM kits WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return k, err
}

// ListByMoto returns every kit mounted on a moto.
func (r *KitRepository) ListByMoto(ctx context.Context, motoID string) ([]domain.Kit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+kitColumns+` FROM kits WHERE moto_id = $1 ORDER BY created_at ASC`, motoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Kit, 0, 2)
	for rows.Next() {
		k, err := scanKit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *k)
	}
	return out, rows.Err()
}

// UpdateSettings replaces the name, models, ranges and base settings of a kit.
func (r *KitRepository) UpdateSettings(ctx context.Context, k *domain.Kit) error {
	k.Ranges = k.Ranges.Normalize()
	rangesJSON, baseJSON, err := encodeKitJSON(k)
	if err != nil {
		return err
	}

	const q = `
UPDATE kits
SET name = $2, fork_model = $3, shock_model = $4, ranges = $5, base_settings = $6, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err = r.db.QueryRowContext(ctx, q, k.ID, k.Name, k.ForkModel, k.ShockModel, rangesJSON, baseJSON).Scan(&k.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Delete removes a kit.
func (r *KitRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM kits WHERE id = $1`, id)
}

func encodeKitJSON(k *domain.Kit) ([]byte, []byte, error) {
	rangesJSON, err := json.Marshal(k.Ranges)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ranges: %w", err)
	}
	baseJSON, err := json.Marshal(k.BaseSettings)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal base settings: %w", err)
	}
	return rangesJSON, baseJSON, nil
}

func scanKit(s rowScanner) (*domain.Kit, error) {
	var k domain.Kit
	var forkModel, shockModel sql.NullString
	var rangesJSON, baseJSON []byte
	if err := s.Scan(&k.ID, &k.MotoID, &k.OwnerUID, &k.Name, &forkModel, &shockModel, &rangesJSON, &baseJSON, &k.CreatedAt, &k.UpdatedAt); err != nil {
		return nil, err
	}
	k.ForkModel = forkModel.String
	k.ShockModel = shockModel.String

	k.Ranges = susp.DefaultRanges
	if len(rangesJSON) > 0 {
		if err := json.Unmarshal(rangesJSON, &k.Ranges); err != nil {
			return nil, fmt.Errorf("decode ranges: %w", err)
		}
	}
	k.Ranges = k.Ranges.Normalize()

	if len(baseJSON) > 0 {
		if err := json.Unmarshal(baseJSON, &k.BaseSettings); err != nil {
			return nil, fmt.Errorf("decode base settings: %w", err)
		}
	}
	return &k, nil
}
