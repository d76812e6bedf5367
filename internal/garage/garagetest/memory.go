// Package garagetest provides in-memory garage stores for tests.
package garagetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
	"github.com/moto-tune/suspension-backend/internal/garage/service"
)

// Store keeps motos, kits and configs in maps.
type Store struct {
	mu      sync.Mutex
	seq     int
	motos   map[string]domain.Moto
	kits    map[string]domain.Kit
	configs map[string]domain.Config
}

func NewStore() *Store {
	return &Store{
		motos:   make(map[string]domain.Moto),
		kits:    make(map[string]domain.Kit),
		configs: make(map[string]domain.Config),
	}
}

// Service wires a GarageService over a fresh Store.
func Service() (*service.GarageService, *Store) {
	s := NewStore()
	return service.NewGarageService(s.Motos(), s.Kits(), s.Configs()), s
}

func (s *Store) next(prefix string) (string, time.Time) {
	s.seq++
	// strictly increasing timestamps keep "newest first" deterministic
	return fmt.Sprintf("%s-%d", prefix, s.seq), time.Unix(int64(1700000000+s.seq), 0).UTC()
}

func (s *Store) Motos() service.MotoStore     { return motoStore{s} }
func (s *Store) Kits() service.KitStore       { return kitStore{s} }
func (s *Store) Configs() service.ConfigStore { return configStore{s} }

type motoStore struct{ s *Store }

func (m motoStore) Create(_ context.Context, moto *domain.Moto) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if moto.ID == "" {
		moto.ID, moto.CreatedAt = m.s.next("moto")
	}
	moto.UpdatedAt = moto.CreatedAt
	m.s.motos[moto.ID] = *moto
	return nil
}

func (m motoStore) Get(_ context.Context, id string) (*domain.Moto, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	moto, ok := m.s.motos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &moto, nil
}

func (m motoStore) ListByOwner(_ context.Context, ownerUID string) ([]domain.Moto, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]domain.Moto, 0)
	for _, moto := range m.s.motos {
		if moto.OwnerUID == ownerUID {
			out = append(out, moto)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m motoStore) Update(_ context.Context, moto *domain.Moto) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.motos[moto.ID]; !ok {
		return domain.ErrNotFound
	}
	m.s.motos[moto.ID] = *moto
	return nil
}

func (m motoStore) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.motos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.s.motos, id)
	return nil
}

type kitStore struct{ s *Store }

func (k kitStore) Create(_ context.Context, kit *domain.Kit) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	if kit.ID == "" {
		kit.ID, kit.CreatedAt = k.s.next("kit")
	}
	kit.Ranges = kit.Ranges.Normalize()
	kit.UpdatedAt = kit.CreatedAt
	k.s.kits[kit.ID] = *kit
	return nil
}

func (k kitStore) Get(_ context.Context, id string) (*domain.Kit, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	kit, ok := k.s.kits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &kit, nil
}

func (k kitStore) ListByMoto(_ context.Context, motoID string) ([]domain.Kit, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	out := make([]domain.Kit, 0)
	for _, kit := range k.s.kits {
		if kit.MotoID == motoID {
			out = append(out, kit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (k kitStore) UpdateSettings(_ context.Context, kit *domain.Kit) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	if _, ok := k.s.kits[kit.ID]; !ok {
		return domain.ErrNotFound
	}
	kit.Ranges = kit.Ranges.Normalize()
	k.s.kits[kit.ID] = *kit
	return nil
}

func (k kitStore) Delete(_ context.Context, id string) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	if _, ok := k.s.kits[id]; !ok {
		return domain.ErrNotFound
	}
	delete(k.s.kits, id)
	return nil
}

type configStore struct{ s *Store }

func (c configStore) Create(_ context.Context, cfg *domain.Config) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID, cfg.CreatedAt = c.s.next("cfg")
	}
	cfg.UpdatedAt = cfg.CreatedAt
	c.s.configs[cfg.ID] = *cfg
	return nil
}

func (c configStore) Get(_ context.Context, id string) (*domain.Config, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cfg, ok := c.s.configs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cfg, nil
}

func (c configStore) ListByKit(_ context.Context, kitID string) ([]domain.Config, error) {
	return c.filter(func(cfg domain.Config) bool { return cfg.KitID == kitID }, domain.SortRecent, 0), nil
}

func (c configStore) ListPublic(_ context.Context, q domain.PublicQuery) ([]domain.Config, error) {
	q = q.Normalize()
	owners := make(map[string]bool, len(q.OwnerUIDs))
	for _, o := range q.OwnerUIDs {
		owners[o] = true
	}
	return c.filter(func(cfg domain.Config) bool {
		if !cfg.Public {
			return false
		}
		if q.OwnerUIDs != nil && !owners[cfg.OwnerUID] {
			return false
		}
		return q.Terrain == "" || cfg.Terrain == q.Terrain
	}, q.Sort, q.Limit), nil
}

func (c configStore) SetVisibility(_ context.Context, id string, public bool) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cfg, ok := c.s.configs[id]
	if !ok {
		return domain.ErrNotFound
	}
	cfg.Public = public
	c.s.configs[id] = cfg
	return nil
}

func (c configStore) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.configs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.s.configs, id)
	return nil
}

func (c configStore) filter(keep func(domain.Config) bool, order string, limit int) []domain.Config {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := make([]domain.Config, 0)
	for _, cfg := range c.s.configs {
		if keep(cfg) {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == domain.SortName && out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
