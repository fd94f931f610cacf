package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/messages"
)

// applyCommentAggregation implements the comment aggregation state
// machine (§4.1): within s.aggregationWindow of the most recent comment
// notification for (userID, postID), a second comment rolls the
// existing row up into a comment_aggregated notification instead of
// inserting a new one. Absent any candidate, a fresh "comment" row is
// created.
//
// FindAggregationCandidate already selects the greatest created_at on
// ties, so repeated calls against the same window keep incrementing
// the same row (monotonic aggregated_count — see SPEC_FULL.md §5
// "duplicate aggregation").
func (s *Service) applyCommentAggregation(ctx context.Context, userID, actorID, postID, content string) (*domain.Notification, error) {
	since := time.Now().Add(-s.aggregationWindow)

	candidate, err := s.repo.FindAggregationCandidate(ctx, userID, postID, since)
	if err != nil {
		return nil, fmt.Errorf("find aggregation candidate: %w", err)
	}

	if candidate == nil {
		title, body := messages.Comment(content)
		return s.repo.Create(ctx, domain.CreateNotificationInput{
			UserID:          userID,
			Kind:            domain.KindComment,
			Title:           title,
			Body:            body,
			ActorID:         actorID,
			TargetID:        postID,
			AggregatedCount: 1,
		})
	}

	nextCount := candidate.AggregatedCount + 1
	title, body := messages.CommentAggregated(nextCount)
	if err := s.repo.Aggregate(ctx, candidate.ID, domain.KindCommentAggregated, title, body); err != nil {
		return nil, fmt.Errorf("aggregate comment notification: %w", err)
	}

	return s.repo.GetByID(ctx, candidate.ID)
}
