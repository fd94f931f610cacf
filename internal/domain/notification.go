package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the notification taxonomy from spec.md §3.
type NotificationKind string

const (
	KindLike              NotificationKind = "like"
	KindComment           NotificationKind = "comment"
	KindCommentAggregated NotificationKind = "comment_aggregated"
	KindFollow            NotificationKind = "follow"
)

// Notification is the core entity stored by the Notification Engine.
type Notification struct {
	ID              uuid.UUID        `json:"id"`
	UserID          string           `json:"user_id"`
	Kind            NotificationKind `json:"kind"`
	Title           string           `json:"title"`
	Body            string           `json:"body"`
	ActorID         string           `json:"actor_id"`
	TargetID        string           `json:"target_id,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	IsRead          bool             `json:"is_read"`
	ReadAt          *time.Time       `json:"read_at,omitempty"`
	AggregatedCount int              `json:"aggregated_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NotificationFilter holds the query parameters for listing notifications.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	Limit      int
}

// CreateNotificationInput is the DTO used to insert a single notification row.
type CreateNotificationInput struct {
	UserID          string
	Kind            NotificationKind
	Title           string
	Body            string
	ActorID         string
	TargetID        string
	Metadata        map[string]any
	AggregatedCount int
}

// NotificationPreference is keyed uniquely by UserID (§3).
type NotificationPreference struct {
	UserID          string    `json:"user_id"`
	LikesEnabled    bool      `json:"likes_enabled"`
	CommentsEnabled bool      `json:"comments_enabled"`
	FollowsEnabled  bool      `json:"follows_enabled"`
	PushEnabled     bool      `json:"push_enabled"`
	FCMToken        string    `json:"fcm_token,omitempty"`
	APNSToken       string    `json:"apns_token,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultPreference returns the all-enabled default used when a user has
// no stored preference document (§4.2.1).
func DefaultPreference(userID string) NotificationPreference {
	return NotificationPreference{
		UserID:          userID,
		LikesEnabled:    true,
		CommentsEnabled: true,
		FollowsEnabled:  true,
		PushEnabled:     true,
		UpdatedAt:       time.Now(),
	}
}

// Allows reports whether the given notification kind is enabled under
// this preference set (§4.2.1's kind→flag mapping).
func (p NotificationPreference) Allows(kind NotificationKind) bool {
	switch kind {
	case KindLike:
		return p.LikesEnabled
	case KindComment, KindCommentAggregated:
		return p.CommentsEnabled
	case KindFollow:
		return p.FollowsEnabled
	default:
		return true
	}
}

// NotificationRepository is the persistence port for the Notification Engine.
type NotificationRepository interface {
	Create(ctx context.Context, input CreateNotificationInput) (*Notification, error)
	FindAggregationCandidate(ctx context.Context, userID, targetID string, since time.Time) (*Notification, error)
	Aggregate(ctx context.Context, id uuid.UUID, kind NotificationKind, title, body string) error
	List(ctx context.Context, filter NotificationFilter) ([]*Notification, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PreferenceRepository is the persistence port for notification preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*NotificationPreference, error)
	Upsert(ctx context.Context, pref NotificationPreference) error
	SetPushToken(ctx context.Context, userID, platform, token string) error
}
