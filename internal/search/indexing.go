package search

import (
	"context"
	"fmt"
	"time"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Indexer writes posts/users/hashtags into the search index (§4.6).
type Indexer struct {
	index domain.SearchIndex
}

// NewIndexer creates an Indexer.
func NewIndexer(index domain.SearchIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexPost extracts hashtags from content, indexes the post document,
// and upserts each hashtag's document (§4.1, §4.6). id must be
// non-empty. created/updated default to now when zero, matching the
// original service's defaulting.
func (ix *Indexer) IndexPost(ctx context.Context, id, userID, content string, mediaURLs []string, likes, comments, shares int, createdAt time.Time) error {
	if id == "" {
		return fmt.Errorf("index post: missing id")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tags := ExtractHashtags(content)
	doc := domain.PostDocument{
		ID:            id,
		UserID:        userID,
		Content:       content,
		Hashtags:      tags,
		MediaURLs:     mediaURLs,
		LikesCount:    likes,
		CommentsCount: comments,
		SharesCount:   shares,
		CreatedAt:     createdAt,
		UpdatedAt:     time.Now().UTC(),
	}
	if doc.MediaURLs == nil {
		doc.MediaURLs = []string{}
	}

	if err := ix.index.IndexPost(ctx, doc); err != nil {
		return fmt.Errorf("index post: %w", err)
	}

	for _, tag := range tags {
		if err := ix.upsertHashtag(ctx, tag); err != nil {
			return fmt.Errorf("upsert hashtag %q: %w", tag, err)
		}
	}
	return nil
}

// IndexUser indexes a user document (§4.6).
func (ix *Indexer) IndexUser(ctx context.Context, id, email, name, bio string, followers, following int, createdAt time.Time) error {
	if id == "" {
		return fmt.Errorf("index user: missing id")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := domain.UserDocument{
		ID:             id,
		Email:          email,
		Name:           name,
		Bio:            bio,
		FollowersCount: followers,
		FollowingCount: following,
		CreatedAt:      createdAt,
	}
	if err := ix.index.IndexUser(ctx, doc); err != nil {
		return fmt.Errorf("index user: %w", err)
	}
	return nil
}

// upsertHashtag implements the get-or-create pattern as an explicit
// presence check (§4.1.2 "Design Notes" — the original used
// exception-based control flow here; this is the redesigned
// equivalent): existing tags get their posts_count bumped and
// last_used refreshed, new tags start at posts_count=1, trending=false.
func (ix *Indexer) upsertHashtag(ctx context.Context, tag string) error {
	existing, found, err := ix.index.GetHashtag(ctx, tag)
	if err != nil {
		return fmt.Errorf("get hashtag: %w", err)
	}

	now := time.Now().UTC()
	var doc domain.HashtagDocument
	if found {
		doc = *existing
		doc.PostsCount++
		doc.LastUsed = now
	} else {
		doc = domain.HashtagDocument{
			Tag:        tag,
			PostsCount: 1,
			Trending:   false,
			LastUsed:   now,
		}
	}

	return ix.index.UpsertHashtag(ctx, doc)
}
