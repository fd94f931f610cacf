package feed

import (
	"context"
	"fmt"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Invalidator applies the write-path cache invalidation rules (§4.5).
// Cache invalidation is driven exclusively by bus events, never by a
// direct cross-service call.
type Invalidator struct {
	repo  domain.FeedMetadataRepository
	cache domain.FeedCache
}

// NewInvalidator creates an Invalidator.
func NewInvalidator(repo domain.FeedMetadataRepository, cache domain.FeedCache) *Invalidator {
	return &Invalidator{repo: repo, cache: cache}
}

// InvalidateUser evicts a single user's cached feed. No bus handler
// calls it: follow events do not invalidate any feed cache.
func (inv *Invalidator) InvalidateUser(ctx context.Context, userID string) error {
	return inv.cache.DeleteFeed(ctx, domain.FeedKey(userID))
}

// InvalidateFollowers evicts every follower's cached feed when
// authorID publishes a new post, returning the count invalidated.
func (inv *Invalidator) InvalidateFollowers(ctx context.Context, authorID string) (int, error) {
	followers, err := inv.repo.Followers(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("followers: %w", err)
	}
	for _, followerID := range followers {
		if err := inv.cache.DeleteFeed(ctx, domain.FeedKey(followerID)); err != nil {
			return 0, fmt.Errorf("delete feed for %s: %w", followerID, err)
		}
	}
	return len(followers), nil
}

// InvalidateInteraction evicts the affected post's cached score and the
// global trending feed, used on like/comment/share events (§4.5).
func (inv *Invalidator) InvalidateInteraction(ctx context.Context, postID string) error {
	if err := inv.cache.DeleteScore(ctx, postID); err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if err := inv.cache.DeleteFeed(ctx, domain.TrendingKey); err != nil {
		return fmt.Errorf("delete trending: %w", err)
	}
	return nil
}
