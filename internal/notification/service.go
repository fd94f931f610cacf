// Package notification holds the Notification Engine's use cases:
// preference-gated creation, comment aggregation, push fan-out, and
// retention, generalized from the teacher's application.Service.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/messages"
)

// Pusher sends a push notification through whichever vendor channel
// applies to pref, or mock-accepts when neither vendor is configured
// (§4.2.2).
type Pusher interface {
	Push(ctx context.Context, pref domain.NotificationPreference, n *domain.Notification) error
}

// Service holds all notification use-cases.
type Service struct {
	repo              domain.NotificationRepository
	prefs             domain.PreferenceRepository
	pusher            Pusher
	aggregationWindow time.Duration
}

// NewService creates a Service. aggregationWindow is the rolling
// comment-aggregation window (§4.1, default 5 minutes).
func NewService(repo domain.NotificationRepository, prefs domain.PreferenceRepository, pusher Pusher, aggregationWindow time.Duration) *Service {
	return &Service{repo: repo, prefs: prefs, pusher: pusher, aggregationWindow: aggregationWindow}
}

func (s *Service) preferenceFor(ctx context.Context, userID string) (domain.NotificationPreference, error) {
	pref, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return domain.NotificationPreference{}, fmt.Errorf("get preference: %w", err)
	}
	if pref == nil {
		d := domain.DefaultPreference(userID)
		return d, nil
	}
	return *pref, nil
}

// createGated runs the preference gate (§4.2.1), persists the
// notification if allowed, and fires the push fan-out. Vendor push
// failures are logged, never rolled back into the notification write
// (§4.2.2).
func (s *Service) createGated(ctx context.Context, userID string, kind domain.NotificationKind, build func() (*domain.Notification, error)) error {
	pref, err := s.preferenceFor(ctx, userID)
	if err != nil {
		return err
	}
	if !pref.Allows(kind) {
		log.Debug().Str("user_id", userID).Str("kind", string(kind)).Msg("notification suppressed by preference")
		return nil
	}

	n, err := build()
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}

	if pref.PushEnabled && s.pusher != nil {
		if err := s.pusher.Push(ctx, pref, n); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("notification_id", n.ID.String()).
				Msg("push fan-out failed, notification already persisted")
		}
	}

	return nil
}

// NotifyLike handles a like.created event.
func (s *Service) NotifyLike(ctx context.Context, recipientUserID, actorID, postID string) error {
	return s.createGated(ctx, recipientUserID, domain.KindLike, func() (*domain.Notification, error) {
		title, body := messages.Like()
		return s.repo.Create(ctx, domain.CreateNotificationInput{
			UserID:          recipientUserID,
			Kind:            domain.KindLike,
			Title:           title,
			Body:            body,
			ActorID:         actorID,
			TargetID:        postID,
			AggregatedCount: 1,
		})
	})
}

// NotifyFollow handles a follow.created event.
func (s *Service) NotifyFollow(ctx context.Context, recipientUserID, actorID string) error {
	return s.createGated(ctx, recipientUserID, domain.KindFollow, func() (*domain.Notification, error) {
		title, body := messages.Follow()
		return s.repo.Create(ctx, domain.CreateNotificationInput{
			UserID:          recipientUserID,
			Kind:            domain.KindFollow,
			Title:           title,
			Body:            body,
			ActorID:         actorID,
			AggregatedCount: 1,
		})
	})
}

// NotifyComment handles a comment.created event, routing through the
// comment aggregation state machine (§4.1).
func (s *Service) NotifyComment(ctx context.Context, recipientUserID, actorID, postID, content string) error {
	return s.createGated(ctx, recipientUserID, domain.KindComment, func() (*domain.Notification, error) {
		return s.applyCommentAggregation(ctx, recipientUserID, actorID, postID, content)
	})
}

// List returns paginated notifications for a user.
func (s *Service) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, idStr, userID string) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	return s.repo.MarkRead(ctx, id, userID)
}

// Delete removes a notification (must belong to the requesting user).
func (s *Service) Delete(ctx context.Context, idStr, userID string) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	return s.repo.Delete(ctx, id, userID)
}

// GetPreference returns a user's stored preference, falling back to
// the all-enabled default (§4.2.1).
func (s *Service) GetPreference(ctx context.Context, userID string) (domain.NotificationPreference, error) {
	return s.preferenceFor(ctx, userID)
}

// UpdatePreference replaces a user's preference row.
func (s *Service) UpdatePreference(ctx context.Context, pref domain.NotificationPreference) error {
	return s.prefs.Upsert(ctx, pref)
}

// SetPushToken registers or replaces a vendor push token.
func (s *Service) SetPushToken(ctx context.Context, userID, platform, token string) error {
	return s.prefs.SetPushToken(ctx, userID, platform, token)
}

// PurgeTTL deletes notifications older than retentionDays. Called by a
// background scheduler (§4.1.4).
func (s *Service) PurgeTTL(ctx context.Context, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	count, err := s.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("notification TTL purge failed")
		return
	}
	log.Info().Int64("deleted", count).Int("retention_days", retentionDays).Msg("notification TTL purge completed")
}
