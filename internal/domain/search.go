package domain

import (
	"context"
	"time"
)

// Search index names (§6 "Index names").
const (
	IndexPosts    = "posts"
	IndexUsers    = "users"
	IndexHashtags = "hashtags"
)

// PostDocument is the posts-index document shape (§3).
type PostDocument struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content"`
	Hashtags      []string  `json:"hashtags"`
	MediaURLs     []string  `json:"media_urls"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserDocument is the users-index document shape (§3).
type UserDocument struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// HashtagDocument is the hashtags-index document shape (§3).
type HashtagDocument struct {
	Tag        string    `json:"tag"`
	PostsCount int       `json:"posts_count"`
	Trending   bool      `json:"trending"`
	LastUsed   time.Time `json:"last_used"`
}

// SearchType enumerates the per-type query filter (§4.7).
type SearchType string

const (
	SearchPosts    SearchType = "posts"
	SearchUsers    SearchType = "users"
	SearchHashtags SearchType = "hashtags"
)

// SearchResult is the generic response envelope (§4.7 "Response shape").
type SearchResult struct {
	Type     string `json:"type"`
	Results  any    `json:"results"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasMore  bool   `json:"has_more"`
}

// CompositeSearchResult is returned when no `type` filter is given (§4.7 "All-types").
type CompositeSearchResult struct {
	Type    string         `json:"type"`
	Results CompositeHits  `json:"results"`
	Total   CompositeTotal `json:"total"`
	Page    int            `json:"page"`
	Size    int            `json:"page_size"`
}

// CompositeHits holds the per-type result slices of a composite search.
type CompositeHits struct {
	Posts    []PostDocument    `json:"posts"`
	Users    []UserDocument    `json:"users"`
	Hashtags []HashtagDocument `json:"hashtags"`
}

// CompositeTotal holds the per-type totals of a composite search.
type CompositeTotal struct {
	Posts    int `json:"posts"`
	Users    int `json:"users"`
	Hashtags int `json:"hashtags"`
}

// SearchIndex is the port over the inverted-index engine (§4.6, §4.7).
// Implementations must honor the 500ms query timeout baked into ctx by
// the caller.
type SearchIndex interface {
	IndexPost(ctx context.Context, doc PostDocument) error
	IndexUser(ctx context.Context, doc UserDocument) error
	GetHashtag(ctx context.Context, tag string) (*HashtagDocument, bool, error)
	UpsertHashtag(ctx context.Context, doc HashtagDocument) error

	QueryPosts(ctx context.Context, q string, offset, size int) ([]PostDocument, int, error)
	QueryUsers(ctx context.Context, q string, offset, size int) ([]UserDocument, int, error)
	QueryHashtags(ctx context.Context, q string, offset, size int) ([]HashtagDocument, int, error)
}
