package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
	"github.com/moto-tune/suspension-backend/internal/suspension/adjustment"
	"github.com/moto-tune/suspension-backend/internal/suspension/balance"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

type MotoStore interface {
	Create(ctx context.Context, m *domain.Moto) error
	Get(ctx context.Context, id string) (*domain.Moto, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]domain.Moto, error)
	Update(ctx context.Context, m *domain.Moto) error
	Delete(ctx context.Context, id string) error
}

type KitStore interface {
	Create(ctx context.Context, k *domain.Kit) error
	Get(ctx context.Context, id string) (*domain.Kit, error)
	ListByMoto(ctx context.Context, motoID string) ([]domain.Kit, error)
	UpdateSettings(ctx context.Context, k *domain.Kit) error
	Delete(ctx context.Context, id string) error
}

type ConfigStore interface {
	Create(ctx context.Context, c *domain.Config) error
	Get(ctx context.Context, id string) (*domain.Config, error)
	ListByKit(ctx context.Context, kitID string) ([]domain.Config, error)
	ListPublic(ctx context.Context, q domain.PublicQuery) ([]domain.Config, error)
	SetVisibility(ctx context.Context, id string, public bool) error
	Delete(ctx context.Context, id string) error
}

// GarageService owns motos, kits and configs for a rider.
type GarageService struct {
	motos   MotoStore
	kits    KitStore
	configs ConfigStore

	onConfigDeleted []func(ctx context.Context, id string)
}

func NewGarageService(motos MotoStore, kits KitStore, configs ConfigStore) *GarageService {
	return &GarageService{motos: motos, kits: kits, configs: configs}
}

// OnConfigDeleted registers fn to run after a config is deleted.
func (s *GarageService) OnConfigDeleted(fn func(ctx context.Context, id string)) {
	s.onConfigDeleted = append(s.onConfigDeleted, fn)
}

// MotoInput carries the editable moto fields.
type MotoInput struct {
	Brand    string
	Model    string
	Year     int
	Nickname *string
}

func (in MotoInput) validate() error {
	if strings.TrimSpace(in.Brand) == "" || strings.TrimSpace(in.Model) == "" {
		return fmt.Errorf("%w: brand and model are required", domain.ErrInvalidInput)
	}
	if in.Year != 0 && (in.Year < 1900 || in.Year > 2100) {
		return fmt.Errorf("%w: year out of range", domain.ErrInvalidInput)
	}
	return nil
}

func (s *GarageService) CreateMoto(ctx context.Context, ownerUID string, in MotoInput) (*domain.Moto, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &domain.Moto{
		OwnerUID: ownerUID,
		Brand:    strings.TrimSpace(in.Brand),
		Model:    strings.TrimSpace(in.Model),
		Year:     in.Year,
		Nickname: in.Nickname,
	}
	if err := s.motos.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create moto: %w", err)
	}
	return m, nil
}

func (s *GarageService) ListMotos(ctx context.Context, ownerUID string) ([]domain.Moto, error) {
	return s.motos.ListByOwner(ctx, ownerUID)
}

// GetMoto hides other riders' motos behind ErrNotFound.
func (s *GarageService) GetMoto(ctx context.Context, ownerUID, id string) (*domain.Moto, error) {
	m, err := s.motos.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.OwnerUID != ownerUID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *GarageService) UpdateMoto(ctx context.Context, ownerUID, id string, in MotoInput) (*domain.Moto, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.GetMoto(ctx, ownerUID, id)
	if err != nil {
		return nil, err
	}
	m.Brand = strings.TrimSpace(in.Brand)
	m.Model = strings.TrimSpace(in.Model)
	m.Year = in.Year
	m.Nickname = in.Nickname
	if err := s.motos.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update moto: %w", err)
	}
	return m, nil
}

func (s *GarageService) DeleteMoto(ctx context.Context, ownerUID, id string) error {
	if _, err := s.GetMoto(ctx, ownerUID, id); err != nil {
		return err
	}
	return s.motos.Delete(ctx, id)
}

// KitInput carries the editable kit fields. Nil Ranges keeps the current (or
// default) ranges.
type KitInput struct {
	Name         string
	ForkModel    string
	ShockModel   string
	Ranges       *susp.Ranges
	BaseSettings susp.PartialSettings
}

func (s *GarageService) CreateKit(ctx context.Context, ownerUID, motoID string, in KitInput) (*domain.Kit, error) {
	if _, err := s.GetMoto(ctx, ownerUID, motoID); err != nil {
		return nil, err
	}
	k := &domain.Kit{
		MotoID:   motoID,
		OwnerUID: ownerUID,
		Ranges:   susp.DefaultRanges,
	}
	if err := applyKitInput(k, in); err != nil {
		return nil, err
	}
	if err := s.kits.Create(ctx, k); err != nil {
		return nil, fmt.Errorf("create kit: %w", err)
	}
	return k, nil
}

func (s *GarageService) ListKits(ctx context.Context, ownerUID, motoID string) ([]domain.Kit, error) {
	if _, err := s.GetMoto(ctx, ownerUID, motoID); err != nil {
		return nil, err
	}
	return s.kits.ListByMoto(ctx, motoID)
}

func (s *GarageService) GetKit(ctx context.Context, ownerUID, id string) (*domain.Kit, error) {
	k, err := s.kits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if k.OwnerUID != ownerUID {
		return nil, domain.ErrNotFound
	}
	return k, nil
}

func (s *GarageService) UpdateKitSettings(ctx context.Context, ownerUID, id string, in KitInput) (*domain.Kit, error) {
	k, err := s.GetKit(ctx, ownerUID, id)
	if err != nil {
		return nil, err
	}
	if err := applyKitInput(k, in); err != nil {
		return nil, err
	}
	if in.Ranges != nil {
		if err := s.checkConfigsFit(ctx, k); err != nil {
			return nil, err
		}
	}
	if err := s.kits.UpdateSettings(ctx, k); err != nil {
		return nil, fmt.Errorf("update kit: %w", err)
	}
	return k, nil
}

// checkConfigsFit rejects ranges that would leave a saved config past a
// kit's last click.
func (s *GarageService) checkConfigsFit(ctx context.Context, k *domain.Kit) error {
	configs, err := s.configs.ListByKit(ctx, k.ID)
	if err != nil {
		return fmt.Errorf("list configs: %w", err)
	}
	for _, c := range configs {
		if !c.Settings.Within(k.Ranges) {
			return fmt.Errorf("%w: config %q outside new kit ranges", domain.ErrInvalidInput, c.Name)
		}
	}
	return nil
}

func (s *GarageService) DeleteKit(ctx context.Context, ownerUID, id string) error {
	if _, err := s.GetKit(ctx, ownerUID, id); err != nil {
		return err
	}
	return s.kits.Delete(ctx, id)
}

func applyKitInput(k *domain.Kit, in KitInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: kit name is required", domain.ErrInvalidInput)
	}
	k.Name = strings.TrimSpace(in.Name)
	k.ForkModel = strings.TrimSpace(in.ForkModel)
	k.ShockModel = strings.TrimSpace(in.ShockModel)
	if in.Ranges != nil {
		k.Ranges = in.Ranges.Normalize()
	}
	if !in.BaseSettings.Within(k.Ranges) {
		return fmt.Errorf("%w: base settings outside kit ranges", domain.ErrInvalidInput)
	}
	if !k.Ranges.Contains(susp.ResolveSettings(in.BaseSettings, susp.PartialSettings{}, k.Ranges.Defaults())) {
		return fmt.Errorf("%w: resolved base settings outside kit ranges", domain.ErrInvalidInput)
	}
	k.BaseSettings = in.BaseSettings
	return nil
}

// ConfigInput carries the fields of a new config.
type ConfigInput struct {
	Name     string
	Terrain  string
	Notes    string
	Settings susp.PartialSettings
	Public   bool
}

func (s *GarageService) CreateConfig(ctx context.Context, ownerUID, kitID string, in ConfigInput) (*domain.Config, error) {
	k, err := s.GetKit(ctx, ownerUID, kitID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: config name is required", domain.ErrInvalidInput)
	}
	if !in.Settings.Within(k.Ranges) {
		return nil, fmt.Errorf("%w: settings outside kit ranges", domain.ErrInvalidInput)
	}
	c := &domain.Config{
		KitID:    kitID,
		OwnerUID: ownerUID,
		Name:     strings.TrimSpace(in.Name),
		Terrain:  strings.ToLower(strings.TrimSpace(in.Terrain)),
		Notes:    in.Notes,
		Settings: in.Settings,
		Public:   in.Public,
	}
	if err := s.configs.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create config: %w", err)
	}
	return c, nil
}

func (s *GarageService) ListConfigs(ctx context.Context, ownerUID, kitID string) ([]domain.Config, error) {
	if _, err := s.GetKit(ctx, ownerUID, kitID); err != nil {
		return nil, err
	}
	return s.configs.ListByKit(ctx, kitID)
}

// GetConfig returns own configs and anyone's public configs.
func (s *GarageService) GetConfig(ctx context.Context, viewerUID, id string) (*domain.Config, error) {
	c, err := s.configs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerUID != viewerUID && !c.Public {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *GarageService) SetConfigVisibility(ctx context.Context, ownerUID, id string, public bool) (*domain.Config, error) {
	c, err := s.ownConfig(ctx, ownerUID, id)
	if err != nil {
		return nil, err
	}
	if err := s.configs.SetVisibility(ctx, id, public); err != nil {
		return nil, err
	}
	c.Public = public
	return c, nil
}

func (s *GarageService) DeleteConfig(ctx context.Context, ownerUID, id string) error {
	if _, err := s.ownConfig(ctx, ownerUID, id); err != nil {
		return err
	}
	if err := s.configs.Delete(ctx, id); err != nil {
		return err
	}
	for _, fn := range s.onConfigDeleted {
		fn(ctx, id)
	}
	return nil
}

func (s *GarageService) ownConfig(ctx context.Context, ownerUID, id string) (*domain.Config, error) {
	c, err := s.configs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerUID != ownerUID {
		if c.Public {
			return nil, domain.ErrForbidden
		}
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *GarageService) ListPublicConfigs(ctx context.Context, q domain.PublicQuery) ([]domain.Config, error) {
	q.Terrain = strings.ToLower(strings.TrimSpace(q.Terrain))
	return s.configs.ListPublic(ctx, q)
}

// KitBalanceView is the balance of a kit, optionally under one of its configs.
type KitBalanceView struct {
	Settings susp.Settings   `json:"settings"`
	Ranges   susp.Ranges     `json:"ranges"`
	Balance  balance.Balance `json:"balance"`
}

// KitBalance computes the balance of the kit's base settings, or of a config
// when configID is non-empty.
func (s *GarageService) KitBalance(ctx context.Context, ownerUID, kitID, configID string) (*KitBalanceView, error) {
	k, err := s.GetKit(ctx, ownerUID, kitID)
	if err != nil {
		return nil, err
	}
	settings := k.EffectiveBase()
	if configID != "" {
		c, err := s.GetConfig(ctx, ownerUID, configID)
		if err != nil {
			return nil, err
		}
		if c.KitID != k.ID {
			return nil, domain.ErrNotFound
		}
		settings = c.Effective(k)
	}
	return &KitBalanceView{
		Settings: settings,
		Ranges:   k.Ranges,
		Balance:  balance.FromSettings(settings, k.Ranges),
	}, nil
}

// AdjustmentPlan lists the moves from a kit's base settings to a target.
type AdjustmentPlan struct {
	Current susp.Settings     `json:"current"`
	Target  susp.Settings     `json:"target"`
	Steps   []adjustment.Step `json:"steps"`
	Before  balance.Balance   `json:"before"`
	After   balance.Balance   `json:"after"`
}

// PlanAdjustment resolves target against the kit base, so absent fields mean
// "leave as is".
func (s *GarageService) PlanAdjustment(ctx context.Context, ownerUID, kitID string, target susp.PartialSettings) (*AdjustmentPlan, error) {
	k, err := s.GetKit(ctx, ownerUID, kitID)
	if err != nil {
		return nil, err
	}
	if !target.Within(k.Ranges) {
		return nil, fmt.Errorf("%w: target outside kit ranges", domain.ErrInvalidInput)
	}
	current := k.EffectiveBase()
	resolved := k.Ranges.Resolve(target, k.BaseSettings)
	return &AdjustmentPlan{
		Current: current,
		Target:  resolved,
		Steps:   adjustment.Plan(current, resolved, k.Ranges),
		Before:  balance.FromSettings(current, k.Ranges),
		After:   balance.FromSettings(resolved, k.Ranges),
	}, nil
}

// DescribeKit renders a kit for free-text prompts.
func (s *GarageService) DescribeKit(ctx context.Context, ownerUID, kitID string) (string, error) {
	k, err := s.GetKit(ctx, ownerUID, kitID)
	if err != nil {
		return "", err
	}
	m, err := s.GetMoto(ctx, ownerUID, k.MotoID)
	if err != nil {
		return "", err
	}
	base := k.EffectiveBase()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Moto: %s %s", m.Brand, m.Model)
	if m.Year != 0 {
		fmt.Fprintf(&sb, " (%d)", m.Year)
	}
	fmt.Fprintf(&sb, "\nKit: %s", k.Name)
	if k.ForkModel != "" || k.ShockModel != "" {
		fmt.Fprintf(&sb, " [fourche: %s, amortisseur: %s]", k.ForkModel, k.ShockModel)
	}
	for _, f := range susp.Fields {
		fmt.Fprintf(&sb, "\n%s: %d/%d", f, base.Get(f), k.Ranges.Max(f))
	}
	return sb.String(), nil
}
