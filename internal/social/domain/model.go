package domain

import (
	"errors"
	"time"

	garage "github.com/moto-tune/suspension-backend/internal/garage/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrSelfFollow   = errors.New("cannot follow yourself")
	ErrSelfMessage  = errors.New("cannot message yourself")
	ErrInvalidInput = errors.New("invalid input")
)

// MaxMessageRunes bounds a direct message body.
const MaxMessageRunes = 2000

// Trending decay applied by the hourly job.
const (
	TrendingDecayFactor = 0.9
	TrendingMinScore    = 0.1
)

// Counts are a rider's follow totals.
type Counts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// ConfigCard is a shared config annotated for one viewer.
type ConfigCard struct {
	garage.Config
	Likes int64    `json:"likes"`
	Liked bool     `json:"liked"`
	Saved bool     `json:"saved"`
	Score *float64 `json:"score,omitempty"`
}

// TrendingEntry is one member of the trending set.
type TrendingEntry struct {
	ConfigID string
	Score    float64
}

// DirectMessage is a private message between two riders.
type DirectMessage struct {
	ID        string     `json:"id"`
	FromUID   string     `json:"from_uid"`
	ToUID     string     `json:"to_uid"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notification is published to the recipient's channel on each send.
type Notification struct {
	Type      string    `json:"type"`
	MessageID string    `json:"message_id"`
	FromUID   string    `json:"from_uid"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}
