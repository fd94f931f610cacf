// Package handlers registers the Feed Engine's bus handlers: new posts
// invalidate followers' cached feeds, and engagement events invalidate
// the affected post's score plus the trending feed (§4.5). Interactions
// never invalidate a user's own feed cache, and follows never
// invalidate any feed cache at all — §4.5 enumerates post.created and
// like/comment/share.created as the only triggers.
package handlers

import (
	"context"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/feed"
)

const topicContentEvents = "content.events"

// Register wires the Feed Engine's event handlers into the shared bus
// registry. Call once from cmd/feed-engine's main before starting the
// consumer.
func Register(inv *feed.Invalidator) {
	bus.Register(topicContentEvents, "post.created", postCreatedHandler(inv))
	bus.Register(topicContentEvents, "like.created", interactionHandler(inv))
	bus.Register(topicContentEvents, "comment.created", interactionHandler(inv))
	bus.Register(topicContentEvents, "share.created", interactionHandler(inv))
}

// content.events fields are carried at the top level of the event
// envelope (§6) — no data/payload unwrap needed here.

func postCreatedHandler(inv *feed.Invalidator) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		authorID := evt.String("user_id", "userId", "author_id", "authorId")
		if authorID == "" {
			return nil
		}
		_, err := inv.InvalidateFollowers(ctx, authorID)
		return err
	}
}

func interactionHandler(inv *feed.Invalidator) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		postID := evt.String("post_id", "postId")
		if postID == "" {
			return nil
		}
		return inv.InvalidateInteraction(ctx, postID)
	}
}
