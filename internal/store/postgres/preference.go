package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// PreferenceRepository is the PostgreSQL implementation of
// domain.PreferenceRepository.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a PreferenceRepository.
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Get returns the stored preference row, or nil if the user has never
// set one — callers fall back to domain.DefaultPreference (§4.2.1).
func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, likes_enabled, comments_enabled, follows_enabled, push_enabled,
		       COALESCE(fcm_token, ''), COALESCE(apns_token, ''), updated_at
		FROM notification_preferences WHERE user_id = $1
	`, userID)

	var p domain.NotificationPreference
	err := row.Scan(&p.UserID, &p.LikesEnabled, &p.CommentsEnabled, &p.FollowsEnabled,
		&p.PushEnabled, &p.FCMToken, &p.APNSToken, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return &p, nil
}

// Upsert inserts or replaces a user's preference row.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref domain.NotificationPreference) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, likes_enabled, comments_enabled, follows_enabled, push_enabled, fcm_token, apns_token, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), now())
		ON CONFLICT (user_id) DO UPDATE SET
			likes_enabled = EXCLUDED.likes_enabled,
			comments_enabled = EXCLUDED.comments_enabled,
			follows_enabled = EXCLUDED.follows_enabled,
			push_enabled = EXCLUDED.push_enabled,
			fcm_token = EXCLUDED.fcm_token,
			apns_token = EXCLUDED.apns_token,
			updated_at = now()
	`, pref.UserID, pref.LikesEnabled, pref.CommentsEnabled, pref.FollowsEnabled,
		pref.PushEnabled, pref.FCMToken, pref.APNSToken)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// SetPushToken updates a single vendor token without disturbing the
// rest of the preference row, creating a default-enabled row first if
// none exists.
func (r *PreferenceRepository) SetPushToken(ctx context.Context, userID, platform, token string) error {
	column := "fcm_token"
	if platform == "ios" {
		column = "apns_token"
	}

	query := fmt.Sprintf(`
		INSERT INTO notification_preferences (user_id, likes_enabled, comments_enabled, follows_enabled, push_enabled, %s, updated_at)
		VALUES ($1, TRUE, TRUE, TRUE, TRUE, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET %s = EXCLUDED.%s, updated_at = now()
	`, column, column, column)

	if _, err := r.pool.Exec(ctx, query, userID, token); err != nil {
		return fmt.Errorf("set push token: %w", err)
	}
	return nil
}
