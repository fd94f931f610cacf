// Package handlers registers the Notification Engine's bus handlers on
// the shared bus registry through an explicit Register function whose
// handlers close over a constructed notification.Service.
package handlers

import (
	"context"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/notification"
)

const (
	topicContentEvents = "content.events"
	topicSocialEvents  = "social.events"
)

// Register wires the Notification Engine's event handlers against svc
// into the shared bus registry. Call once from cmd/notification-engine's
// main before starting the consumer.
func Register(svc *notification.Service) {
	bus.Register(topicContentEvents, "like.created", likeHandler(svc))
	bus.Register(topicContentEvents, "comment.created", commentHandler(svc))
	bus.Register(topicSocialEvents, "follow.created", followHandler(svc))
}

// content.events and social.events carry their fields at the top level
// of the event envelope (§6) — only user.events nests fields under
// "data"/"payload".

func likeHandler(svc *notification.Service) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		recipient := evt.String("post_author_id", "postAuthorId")
		actor := evt.String("user_id", "userId", "actor_id", "actorId")
		postID := evt.String("post_id", "postId")
		if recipient == "" || recipient == actor {
			// No self-notifications (§4.1 edge case).
			return nil
		}

		return svc.NotifyLike(ctx, recipient, actor, postID)
	}
}

func commentHandler(svc *notification.Service) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		recipient := evt.String("post_author_id", "postAuthorId")
		actor := evt.String("user_id", "userId", "actor_id", "actorId")
		postID := evt.String("post_id", "postId")
		content := evt.String("content")
		if recipient == "" || recipient == actor {
			return nil
		}

		return svc.NotifyComment(ctx, recipient, actor, postID, content)
	}
}

func followHandler(svc *notification.Service) bus.Handler {
	return func(ctx context.Context, evt domain.RawEvent) error {
		recipient := evt.String("following_id", "followingId", "followed_user_id")
		actor := evt.String("follower_id", "followerId", "user_id", "userId")
		if recipient == "" || recipient == actor {
			return nil
		}

		return svc.NotifyFollow(ctx, recipient, actor)
	}
}
