package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/moto-tune/suspension-backend/internal/social/domain"
)

const (
	followingPrefix = "social:following:" // riders followed by uid: social:following:{uid}
	followersPrefix = "social:followers:" // riders following uid: social:followers:{uid}
	likesPrefix     = "social:likes:"     // uids liking a config: social:likes:{config_id}
	likedPrefix     = "social:liked:"     // configs liked by uid: social:liked:{uid}
	savedPrefix     = "social:saved:"     // configs bookmarked by uid: social:saved:{uid}
	trendingKey     = "social:trending"   // sorted set config_id -> score
	dmChannelPrefix = "social:dm:"        // pub/sub channel per recipient: social:dm:{uid}
)

// GraphRepository keeps the follow graph, likes, saves and trending scores in
// Redis.
type GraphRepository struct {
	client *redis.Client
}

func NewGraphRepository(client *redis.Client) *GraphRepository {
	return &GraphRepository{client: client}
}

// DMChannel is the channel notifications for uid are published on.
func DMChannel(uid string) string { return dmChannelPrefix + uid }

func (r *GraphRepository) Follow(ctx context.Context, uid, target string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, followingPrefix+uid, target)
		pipe.SAdd(ctx, followersPrefix+target, uid)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

func (r *GraphRepository) Unfollow(ctx context.Context, uid, target string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, followingPrefix+uid, target)
		pipe.SRem(ctx, followersPrefix+target, uid)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *GraphRepository) Following(ctx context.Context, uid string) ([]string, error) {
	return r.members(ctx, followingPrefix+uid)
}

func (r *GraphRepository) Followers(ctx context.Context, uid string) ([]string, error) {
	return r.members(ctx, followersPrefix+uid)
}

func (r *GraphRepository) IsFollowing(ctx context.Context, uid, target string) (bool, error) {
	return r.client.SIsMember(ctx, followingPrefix+uid, target).Result()
}

func (r *GraphRepository) Counts(ctx context.Context, uid string) (domain.Counts, error) {
	pipe := r.client.Pipeline()
	followers := pipe.SCard(ctx, followersPrefix+uid)
	following := pipe.SCard(ctx, followingPrefix+uid)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Counts{}, fmt.Errorf("failed to count follows: %w", err)
	}
	return domain.Counts{Followers: followers.Val(), Following: following.Val()}, nil
}

// likeScript adds ARGV[1] to the like set KEYS[1] and the config ARGV[2] to
// the rider index KEYS[2]. Only a new like moves the score in KEYS[3]. The
// index write is unconditional so a retry heals a missing entry.
var likeScript = redis.NewScript(`
local added = redis.call('SADD', KEYS[1], ARGV[1])
redis.call('SADD', KEYS[2], ARGV[2])
if added == 1 then
	redis.call('ZINCRBY', KEYS[3], 1, ARGV[2])
end
return added
`)

var unlikeScript = redis.NewScript(`
local removed = redis.call('SREM', KEYS[1], ARGV[1])
redis.call('SREM', KEYS[2], ARGV[2])
if removed == 1 then
	redis.call('ZINCRBY', KEYS[3], -1, ARGV[2])
end
return removed
`)

// Like records uid's like. Only a first like moves the trending score.
func (r *GraphRepository) Like(ctx context.Context, uid, configID string) (bool, error) {
	keys := []string{likesPrefix + configID, likedPrefix + uid, trendingKey}
	added, err := likeScript.Run(ctx, r.client, keys, uid, configID).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to like: %w", err)
	}
	return added == 1, nil
}

// Unlike removes uid's like and takes one point off the trending score.
func (r *GraphRepository) Unlike(ctx context.Context, uid, configID string) (bool, error) {
	keys := []string{likesPrefix + configID, likedPrefix + uid, trendingKey}
	removed, err := unlikeScript.Run(ctx, r.client, keys, uid, configID).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to unlike: %w", err)
	}
	return removed == 1, nil
}

// LikeStats returns like counts and uid's liked flags for each config.
func (r *GraphRepository) LikeStats(ctx context.Context, uid string, configIDs []string) (map[string]int64, map[string]bool, error) {
	counts := make(map[string]int64, len(configIDs))
	liked := make(map[string]bool, len(configIDs))
	if len(configIDs) == 0 {
		return counts, liked, nil
	}

	pipe := r.client.Pipeline()
	cards := make([]*redis.IntCmd, len(configIDs))
	members := make([]*redis.BoolCmd, len(configIDs))
	for i, id := range configIDs {
		cards[i] = pipe.SCard(ctx, likesPrefix+id)
		members[i] = pipe.SIsMember(ctx, likesPrefix+id, uid)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to load likes: %w", err)
	}
	for i, id := range configIDs {
		counts[id] = cards[i].Val()
		liked[id] = members[i].Val()
	}
	return counts, liked, nil
}

func (r *GraphRepository) Save(ctx context.Context, uid, configID string) error {
	return r.client.SAdd(ctx, savedPrefix+uid, configID).Err()
}

func (r *GraphRepository) Unsave(ctx context.Context, uid, configID string) error {
	return r.client.SRem(ctx, savedPrefix+uid, configID).Err()
}

func (r *GraphRepository) Saved(ctx context.Context, uid string) ([]string, error) {
	return r.members(ctx, savedPrefix+uid)
}

// SavedFlags reports which of configIDs uid has saved.
func (r *GraphRepository) SavedFlags(ctx context.Context, uid string, configIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(configIDs))
	if len(configIDs) == 0 {
		return out, nil
	}
	pipe := r.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(configIDs))
	for i, id := range configIDs {
		cmds[i] = pipe.SIsMember(ctx, savedPrefix+uid, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load saves: %w", err)
	}
	for i, id := range configIDs {
		out[id] = cmds[i].Val()
	}
	return out, nil
}

// Trending returns the top entries by score, highest first.
func (r *GraphRepository) Trending(ctx context.Context, limit int) ([]domain.TrendingEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	zs, err := r.client.ZRevRangeWithScores(ctx, trendingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trending: %w", err)
	}
	out := make([]domain.TrendingEntry, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, domain.TrendingEntry{ConfigID: id, Score: z.Score})
	}
	return out, nil
}

// DecayTrending multiplies every score by factor and drops those under minScore.
// It returns how many entries were removed.
func (r *GraphRepository) DecayTrending(ctx context.Context, factor, minScore float64) (int64, error) {
	zs, err := r.client.ZRangeWithScores(ctx, trendingKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read trending: %w", err)
	}
	if len(zs) == 0 {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	for _, z := range zs {
		pipe.ZAdd(ctx, trendingKey, redis.Z{Score: z.Score * factor, Member: z.Member})
	}
	removed := pipe.ZRemRangeByScore(ctx, trendingKey, "-inf", "("+strconv.FormatFloat(minScore, 'f', -1, 64))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to decay trending: %w", err)
	}
	return removed.Val(), nil
}

// Forget removes every trace of a deleted config.
func (r *GraphRepository) Forget(ctx context.Context, configID string) error {
	likers, err := r.members(ctx, likesPrefix+configID)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	for _, uid := range likers {
		pipe.SRem(ctx, likedPrefix+uid, configID)
	}
	pipe.Del(ctx, likesPrefix+configID)
	pipe.ZRem(ctx, trendingKey, configID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to forget config: %w", err)
	}
	return nil
}

// PublishDM notifies the recipient's channel.
func (r *GraphRepository) PublishDM(ctx context.Context, toUID string, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	return r.client.Publish(ctx, DMChannel(toUID), payload).Err()
}

// SubscribeDM opens a subscription to uid's notification channel.
func (r *GraphRepository) SubscribeDM(ctx context.Context, uid string) *redis.PubSub {
	return r.client.Subscribe(ctx, DMChannel(uid))
}

func (r *GraphRepository) members(ctx context.Context, key string) ([]string, error) {
	out, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return out, nil
}
