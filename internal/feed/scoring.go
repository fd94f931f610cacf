// Package feed implements the Feed/Recommendation Engine: relevance
// scoring, ranked feed assembly with cursor pagination, trending, and
// cache invalidation, grounded on the original recommendation
// service's exact scoring algorithm.
package feed

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/domain"
)

// Scorer computes and caches relevance scores (§4.3):
//
//	score = (likes*Wl + comments*Wc + shares*Ws) * exp(-age_hours/T)
type Scorer struct {
	repo   domain.FeedMetadataRepository
	cache  domain.FeedCache
	weight config.ScoringConfig
	ttl    time.Duration
}

// NewScorer creates a Scorer.
func NewScorer(repo domain.FeedMetadataRepository, cache domain.FeedCache, weight config.ScoringConfig, scoreTTL time.Duration) *Scorer {
	return &Scorer{repo: repo, cache: cache, weight: weight, ttl: scoreTTL}
}

// Score computes the relevance formula directly from metadata, without
// touching the cache. Used when the caller already has the row (e.g.
// while assembling a feed page).
func (s *Scorer) Score(meta domain.PostMetadata) float64 {
	ageHours := math.Max(0, time.Since(meta.CreatedAt).Hours())
	raw := float64(meta.LikesCount)*s.weight.LikeWeight +
		float64(meta.CommentsCount)*s.weight.CommentWeight +
		float64(meta.SharesCount)*s.weight.ShareWeight
	return raw * math.Exp(-ageHours/s.weight.DecayHours)
}

// ScoreCached returns a post's relevance score, checking the
// `score:{post_id}` cache first and falling through to a live
// recompute on a miss or a corrupt cache value (§4.3 "Score cache
// corruption"), writing the freshly computed value back.
func (s *Scorer) ScoreCached(ctx context.Context, postID string) (float64, error) {
	if cached, ok := s.cache.GetScore(ctx, postID); ok {
		return cached, nil
	}

	meta, err := s.repo.Post(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("load post metadata: %w", err)
	}
	if meta == nil {
		return 0, fmt.Errorf("post not found: %s", postID)
	}

	score := s.Score(*meta)
	if err := s.cache.SetScore(ctx, postID, score, s.ttl); err != nil {
		return score, fmt.Errorf("cache score: %w", err)
	}
	return score, nil
}
