package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/internal/social/domain"
)

func newGraph(t *testing.T) (*GraphRepository, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewGraphRepository(client), mr, client
}

func TestFollowGraph(t *testing.T) {
	repo, _, _ := newGraph(t)
	ctx := context.Background()

	require.NoError(t, repo.Follow(ctx, "alice", "bob"))
	require.NoError(t, repo.Follow(ctx, "carol", "bob"))
	require.NoError(t, repo.Follow(ctx, "alice", "bob"))

	followers, err := repo.Followers(ctx, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, followers)

	counts, err := repo.Counts(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Followers: 0, Following: 1}, counts)

	require.NoError(t, repo.Unfollow(ctx, "alice", "bob"))
	ok, err := repo.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	counts, err = repo.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Followers)
}

func TestLikesMoveTrendingOnce(t *testing.T) {
	repo, mr, _ := newGraph(t)
	ctx := context.Background()

	added, err := repo.Like(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.Like(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.False(t, added)
	_, err = repo.Like(ctx, "bob", "cfg-1")
	require.NoError(t, err)
	_, err = repo.Like(ctx, "bob", "cfg-2")
	require.NoError(t, err)

	score, err := mr.ZScore(trendingKey, "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)

	counts, liked, err := repo.LikeStats(ctx, "alice", []string{"cfg-1", "cfg-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["cfg-1"])
	assert.True(t, liked["cfg-1"])
	assert.False(t, liked["cfg-2"])

	removed, err := repo.Unlike(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Unlike(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.False(t, removed)

	top, err := repo.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 1.0, top[0].Score)
}

func TestLike_HealsMissingIndex(t *testing.T) {
	repo, mr, _ := newGraph(t)
	ctx := context.Background()

	// like set written, rider index and score not
	_, err := mr.SAdd(likesPrefix+"cfg-1", "alice")
	require.NoError(t, err)

	added, err := repo.Like(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.False(t, added)
	ok, err := mr.SIsMember(likedPrefix+"alice", "cfg-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists(trendingKey), "a repeated like never scores")

	removed, err := repo.Unlike(ctx, "alice", "cfg-1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, mr.Exists(likedPrefix+"alice"))
	assert.False(t, mr.Exists(likesPrefix+"cfg-1"))
}

func TestDecayTrending(t *testing.T) {
	repo, mr, _ := newGraph(t)
	ctx := context.Background()

	_, err := mr.ZAdd(trendingKey, 10, "hot")
	require.NoError(t, err)
	_, err = mr.ZAdd(trendingKey, 0.105, "fading")
	require.NoError(t, err)

	removed, err := repo.DecayTrending(ctx, domain.TrendingDecayFactor, domain.TrendingMinScore)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	score, err := mr.ZScore(trendingKey, "hot")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, score, 1e-9)

	members, err := mr.ZMembers(trendingKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"hot"}, members)

	removed, err = repo.DecayTrending(ctx, domain.TrendingDecayFactor, domain.TrendingMinScore)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSavesAndForget(t *testing.T) {
	repo, mr, _ := newGraph(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "alice", "cfg-1"))
	flags, err := repo.SavedFlags(ctx, "alice", []string{"cfg-1", "cfg-2"})
	require.NoError(t, err)
	assert.True(t, flags["cfg-1"])
	assert.False(t, flags["cfg-2"])

	_, err = repo.Like(ctx, "bob", "cfg-1")
	require.NoError(t, err)
	require.NoError(t, repo.Forget(ctx, "cfg-1"))
	assert.False(t, mr.Exists(likesPrefix+"cfg-1"))
	ok, err := mr.SIsMember(likedPrefix+"bob", "cfg-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Unsave(ctx, "alice", "cfg-1"))
	saved, err := repo.Saved(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestPublishDM(t *testing.T) {
	repo, _, _ := newGraph(t)
	ctx := context.Background()

	sub := repo.SubscribeDM(ctx, "bob")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.PublishDM(ctx, "bob", domain.Notification{Type: "dm", MessageID: "m-1", FromUID: "alice"}))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "social:dm:bob", msg.Channel)
		assert.Contains(t, msg.Payload, `"message_id":"m-1"`)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestMessageRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMessageRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO direct_messages`).
		WithArgs(sqlmock.AnyArg(), "alice", "bob", "salut").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	m := &domain.DirectMessage{FromUID: "alice", ToUID: "bob", Body: "salut"}
	require.NoError(t, repo.Insert(ctx, m))
	assert.NotEmpty(t, m.ID)

	mock.ExpectQuery(`SELECT (.+) FROM direct_messages WHERE`).
		WithArgs("alice", "bob", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_uid", "to_uid", "body", "read_at", "created_at"}).
			AddRow("m-1", "alice", "bob", "salut", nil, now).
			AddRow("m-2", "bob", "alice", "yo", now, now))
	thread, err := repo.Thread(ctx, "alice", "bob", 50)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Nil(t, thread[0].ReadAt)
	assert.NotNil(t, thread[1].ReadAt)

	mock.ExpectExec(`UPDATE direct_messages SET read_at = now\(\)`).
		WithArgs("bob", "alice").
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.MarkRead(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, mock.ExpectationsWereMet())
}
