// Package postgres holds the pgx-backed implementations of the domain
// repository ports, adapted from the teacher's single notifications
// repository into one file per aggregate.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// NotificationRepository is the PostgreSQL implementation of
// domain.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a new notification row.
func (r *NotificationRepository) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	metaJSON, _ := json.Marshal(input.Metadata)

	var n domain.Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, kind, title, body, actor_id, target_id, metadata, aggregated_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, kind, title, body, actor_id, target_id, metadata, is_read, read_at, aggregated_count, created_at
	`, input.UserID, string(input.Kind), input.Title, input.Body, input.ActorID, input.TargetID, metaJSON, input.AggregatedCount).
		Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ActorID, &n.TargetID,
			&metaJSON, &n.IsRead, &n.ReadAt, &n.AggregatedCount, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &n.Metadata)
	}
	return &n, nil
}

// FindAggregationCandidate returns the most recent comment or
// comment_aggregated notification for (userID, targetID) created at or
// after since, selecting the greatest
// created_at on ties, or nil if none exists (§4.1 "select greatest
// created_at" tie-break).
func (r *NotificationRepository) FindAggregationCandidate(ctx context.Context, userID, targetID string, since time.Time) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, kind, title, body, actor_id, target_id, metadata, is_read, read_at, aggregated_count, created_at
		FROM notifications
		WHERE user_id = $1 AND target_id = $2 AND kind IN ('comment', 'comment_aggregated') AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, targetID, since)

	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// Aggregate rewrites an existing notification in place as the
// comment_aggregated variant, incrementing its aggregated_count.
func (r *NotificationRepository) Aggregate(ctx context.Context, id uuid.UUID, kind domain.NotificationKind, title, body string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET kind = $1, title = $2, body = $3, aggregated_count = aggregated_count + 1
		WHERE id = $4
	`, string(kind), title, body, id)
	if err != nil {
		return fmt.Errorf("aggregate notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

// List fetches paginated notifications for a user.
func (r *NotificationRepository) List(ctx context.Context, f domain.NotificationFilter) ([]*domain.Notification, int, error) {
	query := `
		SELECT id, user_id, kind, title, body, actor_id, target_id, metadata, is_read, read_at, aggregated_count, created_at
		FROM notifications
		WHERE user_id = $1
	`
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	args := []any{f.UserID}

	if f.UnreadOnly {
		query += " AND is_read = FALSE"
		countQuery += " AND is_read = FALSE"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var results []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, n)
	}
	return results, total, nil
}

// GetByID fetches a single notification.
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, kind, title, body, actor_id, target_id, metadata, is_read, read_at, aggregated_count, created_at
		FROM notifications WHERE id = $1
	`, id)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// MarkRead marks a single notification as read, scoped to its owner.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	now := time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND user_id = $3 AND is_read = FALSE
	`, now, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification not found or already read")
	}
	return nil
}

// Delete removes a notification belonging to the user.
func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// PurgeOlderThan deletes notifications created before cutoff.
func (r *NotificationRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanNotification(row scannable) (*domain.Notification, error) {
	var n domain.Notification
	var metaJSON []byte

	err := row.Scan(
		&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ActorID, &n.TargetID,
		&metaJSON, &n.IsRead, &n.ReadAt, &n.AggregatedCount, &n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &n.Metadata)
	}
	return &n, nil
}
