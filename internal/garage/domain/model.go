package domain

import (
	"errors"
	"time"

	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Moto is a motorcycle owned by one rider.
type Moto struct {
	ID        string    `json:"id"`
	OwnerUID  string    `json:"owner_uid"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year,omitempty"`
	Nickname  *string   `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Kit is a suspension hardware bundle mounted on a moto, with its adjuster
// ranges and base settings.
type Kit struct {
	ID           string               `json:"id"`
	MotoID       string               `json:"moto_id"`
	OwnerUID     string               `json:"owner_uid"`
	Name         string               `json:"name"`
	ForkModel    string               `json:"fork_model,omitempty"`
	ShockModel   string               `json:"shock_model,omitempty"`
	Ranges       susp.Ranges          `json:"ranges"`
	BaseSettings susp.PartialSettings `json:"base_settings"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// EffectiveBase resolves the kit's base settings against the defaults of its
// ranges.
func (k *Kit) EffectiveBase() susp.Settings {
	return k.Ranges.Resolve(susp.PartialSettings{}, k.BaseSettings)
}

// Config is a saved, named snapshot of settings for a kit.
type Config struct {
	ID        string               `json:"id"`
	KitID     string               `json:"kit_id"`
	OwnerUID  string               `json:"owner_uid"`
	Name      string               `json:"name"`
	Terrain   string               `json:"terrain,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	Settings  susp.PartialSettings `json:"settings"`
	Public    bool                 `json:"is_public"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Effective resolves the config's values: override -> kit base -> default,
// clamped to the kit's current ranges.
func (c *Config) Effective(kit *Kit) susp.Settings {
	return kit.Ranges.Resolve(c.Settings, kit.BaseSettings)
}

// Public config sort orders
const (
	SortRecent = "recent"
	SortName   = "name"
)

// MaxListLimit caps public listings.
const MaxListLimit = 100

// PublicQuery filters the public config listing.
type PublicQuery struct {
	OwnerUIDs []string
	Terrain   string
	Sort      string
	Limit     int
}

// Normalize applies defaults and caps.
func (q PublicQuery) Normalize() PublicQuery {
	if q.Sort != SortName {
		q.Sort = SortRecent
	}
	if q.Limit <= 0 || q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	return q
}
