package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
)

// MotoRepository provides persistence operations for motos
type MotoRepository struct {
	db *sql.DB
}

func NewMotoRepository(db *sql.DB) *MotoRepository {
	return &MotoRepository{db: db}
}

const motoColumns = `id, owner_uid, brand, model, year, nickname, created_at, updated_at`

// Create inserts a new moto.
func (r *MotoRepository) Create(ctx context.Context, m *domain.Moto) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	const q = `
INSERT INTO motos (id, owner_uid, brand, model, year, nickname)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q, m.ID, m.OwnerUID, m.Brand, m.Model, m.Year, m.Nickname).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

// Get returns a moto by id regardless of owner.
func (r *MotoRepository) Get(ctx context.Context, id string) (*domain.Moto, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+motoColumns+` FROM motos WHERE id = $1`, id)
	m, err := scanMoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return m, err
}

// ListByOwner returns a rider's motos, newest first.
func (r *MotoRepository) ListByOwner(ctx context.Context, ownerUID string) ([]domain.Moto, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+motoColumns+` FROM motos WHERE owner_uid = $1 ORDER BY created_at DESC`, ownerUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Moto, 0, 4)
	for rows.Next() {
		m, err := scanMoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a moto.
func (r *MotoRepository) Update(ctx context.Context, m *domain.Moto) error {
	const q = `
UPDATE motos
SET brand = $2, model = $3, year = $4, nickname = $5, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRowContext(ctx, q, m.ID, m.Brand, m.Model, m.Year, m.Nickname).Scan(&m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Delete removes a moto; kits and configs cascade in the schema.
func (r *MotoRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM motos WHERE id = $1`, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMoto(s rowScanner) (*domain.Moto, error) {
	var m domain.Moto
	var year sql.NullInt64
	var nickname sql.NullString
	if err := s.Scan(&m.ID, &m.OwnerUID, &m.Brand, &m.Model, &year, &nickname, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Year = int(year.Int64)
	if nickname.Valid {
		m.Nickname = &nickname.String
	}
	return &m, nil
}

func execAffectingOne(ctx context.Context, db *sql.DB, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
