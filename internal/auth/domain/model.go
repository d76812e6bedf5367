package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
	ErrInvalidLevel = errors.New("invalid rider level")
)

// Rider levels
const (
	LevelBeginner     = "debutant"
	LevelIntermediate = "intermediaire"
	LevelExpert       = "expert"
)

// ValidLevel reports whether level is one of the known rider levels.
func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}

// User is a rider account. Firebase UID is the primary identifier.
type User struct {
	FirebaseUID   string                 `json:"firebase_uid" db:"firebase_uid"`
	Email         string                 `json:"email" db:"email"`
	DisplayName   *string                `json:"display_name,omitempty" db:"display_name"`
	PhotoURL      *string                `json:"photo_url,omitempty" db:"photo_url"`
	Bio           *string                `json:"bio,omitempty" db:"bio"`
	Level         string                 `json:"level" db:"level"`
	RiderWeightKg *int                   `json:"rider_weight_kg,omitempty" db:"rider_weight_kg"`
	Preferences   map[string]interface{} `json:"preferences,omitempty" db:"preferences"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" db:"updated_at"`
	LastLoginAt   *time.Time             `json:"last_login_at,omitempty" db:"last_login_at"`
}

// PublicProfile is what other riders can see.
type PublicProfile struct {
	FirebaseUID string  `json:"firebase_uid"`
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Level       string  `json:"level"`
}

// Public strips private fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		FirebaseUID: u.FirebaseUID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Level:       u.Level,
	}
}

// SyncUserRequest carries identity-provider data plus optional profile fields.
type SyncUserRequest struct {
	FirebaseUID string
	Email       string
	DisplayName *string
	PhotoURL    *string
	Level       string
	Preferences map[string]interface{}
}

// UpdateUserRequest represents data for updating a user
type UpdateUserRequest struct {
	DisplayName   *string
	PhotoURL      *string
	Bio           *string
	Level         *string
	RiderWeightKg *int
	Preferences   map[string]interface{}
}
