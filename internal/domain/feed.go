package domain

import (
	"context"
	"time"
)

// PostMetadata is the slice of post data the Feed Engine reads to score
// and rank posts (§3). Content body is intentionally absent — see
// SPEC_FULL.md §5 "Post content in feed rows".
type PostMetadata struct {
	PostID        string    `json:"post_id"`
	UserID        string    `json:"user_id"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// FeedPost is a single ranked item returned to feed consumers.
type FeedPost struct {
	PostID        string    `json:"id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	CreatedAt     time.Time `json:"created_at"`
	Score         float64   `json:"relevance_score"`
}

// FeedPage is the response shape for a ranked feed request (§4.4).
type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	NextCursor string     `json:"cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// FeedMetadataRepository reads the relational data the Feed Engine scores over.
type FeedMetadataRepository interface {
	Followings(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	PostsByAuthors(ctx context.Context, authorIDs []string, afterPostID string, limit int) ([]PostMetadata, error)
	Post(ctx context.Context, postID string) (*PostMetadata, error)
	TrendingSince(ctx context.Context, since time.Time, limit int) ([]PostMetadata, error)
}

// FeedCache is the port over the `feed:{user_id}` / `feed:trending` /
// `score:{post_id}` cache keys (§3, §4.3, §4.4).
type FeedCache interface {
	GetFeed(ctx context.Context, key string) ([]FeedPost, bool)
	SetFeed(ctx context.Context, key string, posts []FeedPost, ttl time.Duration) error
	DeleteFeed(ctx context.Context, key string) error

	GetScore(ctx context.Context, postID string) (float64, bool)
	SetScore(ctx context.Context, postID string, score float64, ttl time.Duration) error
	DeleteScore(ctx context.Context, postID string) error
}

// FeedKey returns the cache key for a user's feed.
func FeedKey(userID string) string { return "feed:" + userID }

// TrendingKey is the cache key for the global trending feed.
const TrendingKey = "feed:trending"

// ScoreKey returns the cache key for a post's relevance score.
func ScoreKey(postID string) string { return "score:" + postID }
