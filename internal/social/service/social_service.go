package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	authdomain "github.com/moto-tune/suspension-backend/internal/auth/domain"
	garage "github.com/moto-tune/suspension-backend/internal/garage/domain"
	"github.com/moto-tune/suspension-backend/internal/logging"
	"github.com/moto-tune/suspension-backend/internal/social/domain"
)

const (
	defaultFeedLimit = 30
	previewRunes     = 80
)

type Graph interface {
	Follow(ctx context.Context, uid, target string) error
	Unfollow(ctx context.Context, uid, target string) error
	Following(ctx context.Context, uid string) ([]string, error)
	Followers(ctx context.Context, uid string) ([]string, error)
	Counts(ctx context.Context, uid string) (domain.Counts, error)
	Like(ctx context.Context, uid, configID string) (bool, error)
	Unlike(ctx context.Context, uid, configID string) (bool, error)
	LikeStats(ctx context.Context, uid string, configIDs []string) (map[string]int64, map[string]bool, error)
	Save(ctx context.Context, uid, configID string) error
	Unsave(ctx context.Context, uid, configID string) error
	Saved(ctx context.Context, uid string) ([]string, error)
	SavedFlags(ctx context.Context, uid string, configIDs []string) (map[string]bool, error)
	Trending(ctx context.Context, limit int) ([]domain.TrendingEntry, error)
	DecayTrending(ctx context.Context, factor, minScore float64) (int64, error)
	PublishDM(ctx context.Context, toUID string, n domain.Notification) error
}

type Messages interface {
	Insert(ctx context.Context, m *domain.DirectMessage) error
	Thread(ctx context.Context, uid, other string, limit int) ([]domain.DirectMessage, error)
	MarkRead(ctx context.Context, uid, other string) (int64, error)
	UnreadCount(ctx context.Context, uid string) (int64, error)
}

// Configs is the garage view the social layer reads shared configs through.
type Configs interface {
	GetConfig(ctx context.Context, viewerUID, id string) (*garage.Config, error)
	ListPublicConfigs(ctx context.Context, q garage.PublicQuery) ([]garage.Config, error)
}

type Users interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*authdomain.User, error)
}

// SocialService wires follows, likes, saves, feeds and direct messages.
type SocialService struct {
	graph    Graph
	messages Messages
	configs  Configs
	users    Users
}

func NewSocialService(graph Graph, messages Messages, configs Configs, users Users) *SocialService {
	return &SocialService{graph: graph, messages: messages, configs: configs, users: users}
}

func (s *SocialService) requireUser(ctx context.Context, uid string) error {
	if strings.TrimSpace(uid) == "" {
		return domain.ErrNotFound
	}
	if _, err := s.users.GetByFirebaseUID(ctx, uid); err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *SocialService) Follow(ctx context.Context, uid, target string) error {
	if uid == target {
		return domain.ErrSelfFollow
	}
	if err := s.requireUser(ctx, target); err != nil {
		return err
	}
	return s.graph.Follow(ctx, uid, target)
}

func (s *SocialService) Unfollow(ctx context.Context, uid, target string) error {
	if uid == target {
		return domain.ErrSelfFollow
	}
	return s.graph.Unfollow(ctx, uid, target)
}

func (s *SocialService) Followers(ctx context.Context, uid string) ([]string, error) {
	return s.graph.Followers(ctx, uid)
}

func (s *SocialService) Following(ctx context.Context, uid string) ([]string, error) {
	return s.graph.Following(ctx, uid)
}

func (s *SocialService) Counts(ctx context.Context, uid string) (domain.Counts, error) {
	return s.graph.Counts(ctx, uid)
}

// visibleConfig maps garage visibility onto social errors.
func (s *SocialService) visibleConfig(ctx context.Context, uid, configID string) (*garage.Config, error) {
	c, err := s.configs.GetConfig(ctx, uid, configID)
	if errors.Is(err, garage.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (s *SocialService) Like(ctx context.Context, uid, configID string) (*domain.ConfigCard, error) {
	c, err := s.visibleConfig(ctx, uid, configID)
	if err != nil {
		return nil, err
	}
	if _, err := s.graph.Like(ctx, uid, configID); err != nil {
		return nil, err
	}
	return s.card(ctx, uid, c)
}

func (s *SocialService) Unlike(ctx context.Context, uid, configID string) (*domain.ConfigCard, error) {
	c, err := s.visibleConfig(ctx, uid, configID)
	if err != nil {
		return nil, err
	}
	if _, err := s.graph.Unlike(ctx, uid, configID); err != nil {
		return nil, err
	}
	return s.card(ctx, uid, c)
}

func (s *SocialService) Save(ctx context.Context, uid, configID string) error {
	if _, err := s.visibleConfig(ctx, uid, configID); err != nil {
		return err
	}
	return s.graph.Save(ctx, uid, configID)
}

func (s *SocialService) Unsave(ctx context.Context, uid, configID string) error {
	return s.graph.Unsave(ctx, uid, configID)
}

// ListSaved resolves bookmarks, skipping configs no longer visible.
func (s *SocialService) ListSaved(ctx context.Context, uid string) ([]domain.ConfigCard, error) {
	ids, err := s.graph.Saved(ctx, uid)
	if err != nil {
		return nil, err
	}
	configs := make([]garage.Config, 0, len(ids))
	for _, id := range ids {
		c, err := s.visibleConfig(ctx, uid, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return s.cards(ctx, uid, configs)
}

// Feed lists public configs of followed riders, newest first.
func (s *SocialService) Feed(ctx context.Context, uid string, limit int) ([]domain.ConfigCard, error) {
	following, err := s.graph.Following(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []domain.ConfigCard{}, nil
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	configs, err := s.configs.ListPublicConfigs(ctx, garage.PublicQuery{
		OwnerUIDs: following,
		Sort:      garage.SortRecent,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list feed configs: %w", err)
	}
	return s.cards(ctx, uid, configs)
}

// Trending lists the highest scored configs visible to uid.
func (s *SocialService) Trending(ctx context.Context, uid string, limit int) ([]domain.ConfigCard, error) {
	entries, err := s.graph.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	configs := make([]garage.Config, 0, len(entries))
	scores := make(map[string]float64, len(entries))
	for _, e := range entries {
		c, err := s.visibleConfig(ctx, uid, e.ConfigID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
		scores[c.ID] = e.Score
	}
	cards, err := s.cards(ctx, uid, configs)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		score := scores[cards[i].ID]
		cards[i].Score = &score
	}
	return cards, nil
}

// DecayTrending runs one decay pass over the trending set.
func (s *SocialService) DecayTrending(ctx context.Context) (int64, error) {
	return s.graph.DecayTrending(ctx, domain.TrendingDecayFactor, domain.TrendingMinScore)
}

func (s *SocialService) card(ctx context.Context, uid string, c *garage.Config) (*domain.ConfigCard, error) {
	cards, err := s.cards(ctx, uid, []garage.Config{*c})
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (s *SocialService) cards(ctx context.Context, uid string, configs []garage.Config) ([]domain.ConfigCard, error) {
	ids := make([]string, len(configs))
	for i, c := range configs {
		ids[i] = c.ID
	}
	counts, liked, err := s.graph.LikeStats(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	saved, err := s.graph.SavedFlags(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ConfigCard, len(configs))
	for i, c := range configs {
		out[i] = domain.ConfigCard{
			Config: c,
			Likes:  counts[c.ID],
			Liked:  liked[c.ID],
			Saved:  saved[c.ID],
		}
	}
	return out, nil
}

// SendMessage stores a direct message and notifies the recipient. A failed
// notification does not fail the send.
func (s *SocialService) SendMessage(ctx context.Context, from, to, body string) (*domain.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageRunes {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidInput, domain.MaxMessageRunes)
	}
	if from == to {
		return nil, domain.ErrSelfMessage
	}
	if err := s.requireUser(ctx, to); err != nil {
		return nil, err
	}

	m := &domain.DirectMessage{FromUID: from, ToUID: to, Body: body}
	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, err
	}

	n := domain.Notification{
		Type:      "dm",
		MessageID: m.ID,
		FromUID:   from,
		Preview:   preview(body),
		CreatedAt: m.CreatedAt,
	}
	if err := s.graph.PublishDM(ctx, to, n); err != nil {
		logging.New(ctx).With("to", to).Warn("publish dm", err)
	}
	return m, nil
}

func (s *SocialService) Thread(ctx context.Context, uid, other string, limit int) ([]domain.DirectMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messages.Thread(ctx, uid, other, limit)
}

func (s *SocialService) MarkRead(ctx context.Context, uid, other string) (int64, error) {
	return s.messages.MarkRead(ctx, uid, other)
}

func (s *SocialService) UnreadCount(ctx context.Context, uid string) (int64, error) {
	return s.messages.UnreadCount(ctx, uid)
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewRunes {
		return body
	}
	r := []rune(body)
	return string(r[:previewRunes]) + "…"
}
