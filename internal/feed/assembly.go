package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arda-labs/social-derivation/internal/config"
	"github.com/arda-labs/social-derivation/internal/domain"
)

// Assembler builds a user's ranked, paginated feed (§4.4), grounded on
// the original recommendation service's generate_feed algorithm.
type Assembler struct {
	repo    domain.FeedMetadataRepository
	cache   domain.FeedCache
	scorer  *Scorer
	cfg     config.FeedCacheConfig
	feedTTL time.Duration
}

// NewAssembler creates an Assembler.
func NewAssembler(repo domain.FeedMetadataRepository, cache domain.FeedCache, scorer *Scorer, cfg config.FeedCacheConfig, feedTTL time.Duration) *Assembler {
	return &Assembler{repo: repo, cache: cache, scorer: scorer, cfg: cfg, feedTTL: feedTTL}
}

// Assemble returns a ranked feed page for userID. On the first page
// (cursor == "") a cache hit under `feed:{user_id}` is served directly,
// sliced to limit. Subsequent pages apply the documented `post_id >
// cursor` predicate even though the result is ordered by created_at —
// this mismatch is intentional, preserved from the source system (§5
// "cursor semantics"). Post content is never populated — see §5 "Post
// content in feed rows".
func (a *Assembler) Assemble(ctx context.Context, userID, cursor string, limit int) (*domain.FeedPage, error) {
	if limit <= 0 {
		limit = a.cfg.DefaultPageSize
	}

	if cursor == "" {
		if cached, ok := a.cache.GetFeed(ctx, domain.FeedKey(userID)); ok {
			return paginate(cached, limit), nil
		}
	}

	followings, err := a.repo.Followings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("followings: %w", err)
	}
	if len(followings) == 0 {
		return &domain.FeedPage{Posts: []domain.FeedPost{}}, nil
	}

	fetchLimit := limit + 1
	if cursor == "" {
		fetchLimit = a.cfg.MaxFeedSize
	}

	rows, err := a.repo.PostsByAuthors(ctx, followings, cursor, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("posts by authors: %w", err)
	}

	scored := scoreRows(a.scorer, rows)
	sortByScoreThenCreatedAt(scored)

	if cursor == "" {
		if err := a.cache.SetFeed(ctx, domain.FeedKey(userID), scored, a.feedTTL); err != nil {
			return nil, fmt.Errorf("cache feed: %w", err)
		}
	}

	return paginate(scored, limit), nil
}

func scoreRows(scorer *Scorer, rows []domain.PostMetadata) []domain.FeedPost {
	posts := make([]domain.FeedPost, len(rows))
	for i, meta := range rows {
		posts[i] = domain.FeedPost{
			PostID:        meta.PostID,
			UserID:        meta.UserID,
			LikesCount:    meta.LikesCount,
			CommentsCount: meta.CommentsCount,
			SharesCount:   meta.SharesCount,
			CreatedAt:     meta.CreatedAt,
			Score:         scorer.Score(meta),
		}
	}
	return posts
}

func sortByScoreThenCreatedAt(posts []domain.FeedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func paginate(posts []domain.FeedPost, limit int) *domain.FeedPage {
	hasMore := len(posts) > limit
	page := posts
	if len(page) > limit {
		page = page[:limit]
	}

	next := ""
	if hasMore && len(page) > 0 {
		next = page[len(page)-1].PostID
	}

	return &domain.FeedPage{
		Posts:      page,
		NextCursor: next,
		HasMore:    hasMore,
	}
}
