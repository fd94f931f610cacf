package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Trending serves the global `feed:trending` feed (§4.3 "trending"),
// pre-ranking candidates by raw engagement before re-scoring and
// re-sorting by the full relevance formula.
type Trending struct {
	repo       domain.FeedMetadataRepository
	cache      domain.FeedCache
	scorer     *Scorer
	windowHrs  int
	cacheTTL   time.Duration
}

// NewTrending creates a Trending assembler.
func NewTrending(repo domain.FeedMetadataRepository, cache domain.FeedCache, scorer *Scorer, windowHrs int, cacheTTL time.Duration) *Trending {
	return &Trending{repo: repo, cache: cache, scorer: scorer, windowHrs: windowHrs, cacheTTL: cacheTTL}
}

// Get returns up to limit trending posts, serving from the
// `feed:trending` cache when present.
func (t *Trending) Get(ctx context.Context, limit int) ([]domain.FeedPost, error) {
	if cached, ok := t.cache.GetFeed(ctx, domain.TrendingKey); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	since := time.Now().Add(-time.Duration(t.windowHrs) * time.Hour)
	rows, err := t.repo.TrendingSince(ctx, since, limit*2)
	if err != nil {
		return nil, fmt.Errorf("trending since: %w", err)
	}

	scored := scoreRows(t.scorer, rows)
	sortByScoreThenCreatedAt(scored)

	if err := t.cache.SetFeed(ctx, domain.TrendingKey, scored, t.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache trending: %w", err)
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
