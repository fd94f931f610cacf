package feed

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/domain"
)

func defaultWeights() config.ScoringConfig {
	return config.ScoringConfig{LikeWeight: 1, CommentWeight: 2, ShareWeight: 3, DecayHours: 24}
}

func TestScore_MatchesFormula(t *testing.T) {
	meta := domain.PostMetadata{
		PostID:        "p1",
		LikesCount:    10,
		CommentsCount: 5,
		SharesCount:   2,
		CreatedAt:     time.Now().Add(-2 * time.Hour),
	}

	scorer := NewScorer(newFakeRepo(), newFakeCache(), defaultWeights(), time.Minute)
	got := scorer.Score(meta)

	raw := 10*1.0 + 5*2.0 + 2*3.0
	want := raw * math.Exp(-2.0/24.0)
	assert.InDelta(t, want, got, 0.0001)
}

func TestScore_DecaysWithAge(t *testing.T) {
	scorer := NewScorer(newFakeRepo(), newFakeCache(), defaultWeights(), time.Minute)

	fresh := domain.PostMetadata{LikesCount: 10, CreatedAt: time.Now()}
	old := domain.PostMetadata{LikesCount: 10, CreatedAt: time.Now().Add(-48 * time.Hour)}

	assert.Greater(t, scorer.Score(fresh), scorer.Score(old))
}

func TestScoreCached_MissFallsBackAndWritesBack(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = domain.PostMetadata{PostID: "p1", LikesCount: 4, CreatedAt: time.Now()}
	cache := newFakeCache()

	scorer := NewScorer(repo, cache, defaultWeights(), time.Minute)

	score, err := scorer.ScoreCached(context.Background(), "p1")
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)

	cached, ok := cache.GetScore(context.Background(), "p1")
	assert.True(t, ok)
	assert.Equal(t, score, cached)
}

func TestScoreCached_HitsCacheWithoutTouchingRepo(t *testing.T) {
	cache := newFakeCache()
	cache.scores["p1"] = 42.0

	scorer := NewScorer(newFakeRepo(), cache, defaultWeights(), time.Minute)

	score, err := scorer.ScoreCached(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, score)
}

func TestScoreCached_PostNotFound(t *testing.T) {
	scorer := NewScorer(newFakeRepo(), newFakeCache(), defaultWeights(), time.Minute)

	_, err := scorer.ScoreCached(context.Background(), "missing")
	assert.Error(t, err)
}
