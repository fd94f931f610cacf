package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/domain"
)

func testCacheConfig() config.FeedCacheConfig {
	return config.FeedCacheConfig{MaxFeedSize: 200, DefaultPageSize: 20}
}

func TestAssemble_NoFollowingsReturnsEmptyPage(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	scorer := NewScorer(repo, cache, defaultWeights(), time.Minute)
	asm := NewAssembler(repo, cache, scorer, testCacheConfig(), 5*time.Minute)

	page, err := asm.Assemble(context.Background(), "u1", "", 20)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}

func TestAssemble_RanksByScoreDescending(t *testing.T) {
	repo := newFakeRepo()
	repo.followings["u1"] = []string{"author1"}

	now := time.Now()
	repo.posts["low"] = domain.PostMetadata{PostID: "low", UserID: "author1", LikesCount: 1, CreatedAt: now}
	repo.posts["high"] = domain.PostMetadata{PostID: "high", UserID: "author1", LikesCount: 100, CreatedAt: now}

	cache := newFakeCache()
	scorer := NewScorer(repo, cache, defaultWeights(), time.Minute)
	asm := NewAssembler(repo, cache, scorer, testCacheConfig(), 5*time.Minute)

	page, err := asm.Assemble(context.Background(), "u1", "", 20)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "high", page.Posts[0].PostID)
	assert.Equal(t, "low", page.Posts[1].PostID)
}

func TestAssemble_FirstPageServesFromCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	cached := []domain.FeedPost{
		{PostID: "cached1", Score: 9},
		{PostID: "cached2", Score: 8},
	}
	cache.feeds[domain.FeedKey("u1")] = cached

	scorer := NewScorer(repo, cache, defaultWeights(), time.Minute)
	asm := NewAssembler(repo, cache, scorer, testCacheConfig(), 5*time.Minute)

	page, err := asm.Assemble(context.Background(), "u1", "", 20)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "cached1", page.Posts[0].PostID)
}

func TestAssemble_HasMoreAndCursorWhenOverLimit(t *testing.T) {
	repo := newFakeRepo()
	repo.followings["u1"] = []string{"author1"}

	now := time.Now()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		repo.posts[id] = domain.PostMetadata{
			PostID:     id,
			UserID:     "author1",
			LikesCount: 5 - i,
			CreatedAt:  now.Add(-time.Duration(i) * time.Minute),
		}
	}

	cache := newFakeCache()
	scorer := NewScorer(repo, cache, defaultWeights(), time.Minute)
	asm := NewAssembler(repo, cache, scorer, testCacheConfig(), 5*time.Minute)

	page, err := asm.Assemble(context.Background(), "u1", "", 3)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)
}

func TestInvalidator_InvalidateInteractionClearsScoreAndTrending(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	cache.scores["p1"] = 5.0
	cache.feeds[domain.TrendingKey] = []domain.FeedPost{{PostID: "p1"}}

	inv := NewInvalidator(repo, cache)
	require.NoError(t, inv.InvalidateInteraction(context.Background(), "p1"))

	_, ok := cache.GetScore(context.Background(), "p1")
	assert.False(t, ok)
	_, ok = cache.GetFeed(context.Background(), domain.TrendingKey)
	assert.False(t, ok)
}

func TestInvalidator_InvalidateFollowersEvictsEachFollower(t *testing.T) {
	repo := newFakeRepo()
	repo.followers["author1"] = []string{"f1", "f2"}

	cache := newFakeCache()
	cache.feeds[domain.FeedKey("f1")] = []domain.FeedPost{{PostID: "x"}}
	cache.feeds[domain.FeedKey("f2")] = []domain.FeedPost{{PostID: "y"}}

	inv := NewInvalidator(repo, cache)
	count, err := inv.InvalidateFollowers(context.Background(), "author1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, ok := cache.GetFeed(context.Background(), domain.FeedKey("f1"))
	assert.False(t, ok)
}
