package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/moto-tune/suspension-backend/internal/auth/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `firebase_uid, email, display_name, photo_url, bio, level, rider_weight_kg,
       preferences, created_at, updated_at, last_login_at`

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE firebase_uid = $1`

	var user domain.User
	var preferencesJSON []byte
	var displayName, photoURL, bio sql.NullString
	var weight sql.NullInt64
	var lastLoginAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&user.FirebaseUID,
		&user.Email,
		&displayName,
		&photoURL,
		&bio,
		&user.Level,
		&weight,
		&preferencesJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if displayName.Valid {
		user.DisplayName = &displayName.String
	}
	if photoURL.Valid {
		user.PhotoURL = &photoURL.String
	}
	if bio.Valid {
		user.Bio = &bio.String
	}
	if weight.Valid {
		w := int(weight.Int64)
		user.RiderWeightKg = &w
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	user.Preferences = make(map[string]interface{})
	if len(preferencesJSON) > 0 {
		if err := json.Unmarshal(preferencesJSON, &user.Preferences); err != nil {
			user.Preferences = make(map[string]interface{})
		}
	}

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (firebase_uid, email, display_name, photo_url, level, preferences)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.FirebaseUID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.Level,
		marshalPreferences(user.Preferences),
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return mapUniqueViolation(err)
}

// Update updates user information
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET display_name = $2, photo_url = $3, bio = $4, level = $5, rider_weight_kg = $6,
		    preferences = $7, updated_at = NOW()
		WHERE firebase_uid = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.FirebaseUID,
		user.DisplayName,
		user.PhotoURL,
		user.Bio,
		user.Level,
		user.RiderWeightKg,
		marshalPreferences(user.Preferences),
	).Scan(&user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE firebase_uid = $1`, uid)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func marshalPreferences(p map[string]interface{}) []byte {
	if p == nil {
		return []byte("{}")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func mapUniqueViolation(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailTaken
	}
	return err
}
