// Package handlers registers the Search Engine's bus handlers.
// Indexing handlers are wrapped in bus.WithRetry to match the original
// indexer's bounded exponential backoff (§4.6).
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/search"
)

const (
	topicContentEvents = "content.events"
	topicUserEvents    = "user.events"
)

// Register wires the Search Engine's event handlers against ix into
// the shared bus registry, wrapped with maxRetries exponential
// backoff. Call once from cmd/search-engine's main before starting the
// consumer.
func Register(ix *search.Indexer, maxRetries int) {
	bus.Register(topicContentEvents, "post.created", bus.WithRetry(maxRetries, postHandler(ix)))
	bus.Register(topicContentEvents, "post.updated", bus.WithRetry(maxRetries, postHandler(ix)))
	bus.Register(topicUserEvents, "user.created", bus.WithRetry(maxRetries, userHandler(ix)))
	bus.Register(topicUserEvents, "user.updated", bus.WithRetry(maxRetries, userHandler(ix)))
}

// postHandler reads content.events fields straight off the envelope —
// content.events carries its fields at the top level (§6).
func postHandler(ix *search.Indexer) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		id := evt.String("id", "post_id", "postId")
		userID := evt.String("user_id", "userId")
		content := evt.String("content")
		likes := evt.Int("likes_count", "likesCount")
		comments := evt.Int("comments_count", "commentsCount")
		shares := evt.Int("shares_count", "sharesCount")

		var createdAt time.Time
		if ts := evt.String("created_at", "createdAt"); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				createdAt = parsed
			}
		}

		return ix.IndexPost(ctx, id, userID, content, nil, likes, comments, shares, createdAt)
	}
}

// userHandler unwraps user.events' nested "data"/"payload" object — the
// one topic on this bus that doesn't carry its fields at the top level
// (§6).
func userHandler(ix *search.Indexer) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		data, ok := evt.Raw("data", "payload")
		if !ok {
			return fmt.Errorf("user event: missing data/payload")
		}
		payload, err := domain.ParseRawEvent(data)
		if err != nil {
			return fmt.Errorf("user event: %w", err)
		}

		id := payload.String("id", "user_id", "userId")
		email := payload.String("email")
		name := payload.String("name")
		bio := payload.String("bio")
		followers := payload.Int("followers_count", "followersCount")
		following := payload.Int("following_count", "followingCount")

		var createdAt time.Time
		if ts := payload.String("created_at", "createdAt"); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				createdAt = parsed
			}
		}

		return ix.IndexUser(ctx, id, email, name, bio, followers, following, createdAt)
	}
}
