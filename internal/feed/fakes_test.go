package feed

import (
	"context"
	"sort"
	"time"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// fakeRepo is an in-memory domain.FeedMetadataRepository for tests.
type fakeRepo struct {
	followings map[string][]string
	followers  map[string][]string
	posts      map[string]domain.PostMetadata
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		followings: map[string][]string{},
		followers:  map[string][]string{},
		posts:      map[string]domain.PostMetadata{},
	}
}

func (r *fakeRepo) Followings(ctx context.Context, userID string) ([]string, error) {
	return r.followings[userID], nil
}

func (r *fakeRepo) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.followers[userID], nil
}

func (r *fakeRepo) PostsByAuthors(ctx context.Context, authorIDs []string, afterPostID string, limit int) ([]domain.PostMetadata, error) {
	authorSet := make(map[string]struct{}, len(authorIDs))
	for _, a := range authorIDs {
		authorSet[a] = struct{}{}
	}

	var rows []domain.PostMetadata
	for _, p := range r.posts {
		if _, ok := authorSet[p.UserID]; !ok {
			continue
		}
		if afterPostID != "" && p.PostID <= afterPostID {
			continue
		}
		rows = append(rows, p)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeRepo) Post(ctx context.Context, postID string) (*domain.PostMetadata, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeRepo) TrendingSince(ctx context.Context, since time.Time, limit int) ([]domain.PostMetadata, error) {
	var rows []domain.PostMetadata
	for _, p := range r.posts {
		if p.CreatedAt.Before(since) {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		engagementI := rows[i].LikesCount + rows[i].CommentsCount*2 + rows[i].SharesCount*3
		engagementJ := rows[j].LikesCount + rows[j].CommentsCount*2 + rows[j].SharesCount*3
		return engagementI > engagementJ
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// fakeCache is an in-memory domain.FeedCache for tests.
type fakeCache struct {
	feeds  map[string][]domain.FeedPost
	scores map[string]float64
}

func newFakeCache() *fakeCache {
	return &fakeCache{feeds: map[string][]domain.FeedPost{}, scores: map[string]float64{}}
}

func (c *fakeCache) GetFeed(ctx context.Context, key string) ([]domain.FeedPost, bool) {
	posts, ok := c.feeds[key]
	return posts, ok
}

func (c *fakeCache) SetFeed(ctx context.Context, key string, posts []domain.FeedPost, ttl time.Duration) error {
	c.feeds[key] = posts
	return nil
}

func (c *fakeCache) DeleteFeed(ctx context.Context, key string) error {
	delete(c.feeds, key)
	return nil
}

func (c *fakeCache) GetScore(ctx context.Context, postID string) (float64, bool) {
	s, ok := c.scores[postID]
	return s, ok
}

func (c *fakeCache) SetScore(ctx context.Context, postID string, score float64, ttl time.Duration) error {
	c.scores[postID] = score
	return nil
}

func (c *fakeCache) DeleteScore(ctx context.Context, postID string) error {
	delete(c.scores, postID)
	return nil
}

var _ domain.FeedMetadataRepository = (*fakeRepo)(nil)
var _ domain.FeedCache = (*fakeCache)(nil)
