package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// FeedMetadataRepository is the PostgreSQL implementation of
// domain.FeedMetadataRepository, reading the social-graph and
// post-metrics tables the Feed Engine scores over.
type FeedMetadataRepository struct {
	pool *pgxpool.Pool
}

// NewFeedMetadataRepository creates a FeedMetadataRepository.
func NewFeedMetadataRepository(pool *pgxpool.Pool) *FeedMetadataRepository {
	return &FeedMetadataRepository{pool: pool}
}

// Followings returns the set of user IDs that userID follows.
func (r *FeedMetadataRepository) Followings(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT following_id FROM followers WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("followings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Followers returns the set of user IDs that follow userID.
func (r *FeedMetadataRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT follower_id FROM followers WHERE following_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("followers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PostsByAuthors returns posts authored by any of authorIDs. When
// afterPostID is empty this is a first-page query ordered by
// created_at DESC; otherwise it applies the post_id > cursor predicate
// the original service used (§5 "cursor semantics — preserve source
// behavior": the predicate compares IDs even though ordering is by
// created_at, a known quirk carried over intentionally).
func (r *FeedMetadataRepository) PostsByAuthors(ctx context.Context, authorIDs []string, afterPostID string, limit int) ([]domain.PostMetadata, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var rows pgxIter
	var err error
	if afterPostID == "" {
		rows, err = r.pool.Query(ctx, `
			SELECT post_id, user_id, likes_count, comments_count, shares_count, created_at
			FROM post_metadata
			WHERE user_id = ANY($1)
			ORDER BY created_at DESC
			LIMIT $2
		`, authorIDs, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT post_id, user_id, likes_count, comments_count, shares_count, created_at
			FROM post_metadata
			WHERE user_id = ANY($1) AND post_id > $2
			ORDER BY created_at DESC
			LIMIT $3
		`, authorIDs, afterPostID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("posts by authors: %w", err)
	}
	defer rows.Close()

	return scanPostMetadata(rows)
}

// Post fetches a single post's metrics, or nil if it doesn't exist.
func (r *FeedMetadataRepository) Post(ctx context.Context, postID string) (*domain.PostMetadata, error) {
	var p domain.PostMetadata
	err := r.pool.QueryRow(ctx, `
		SELECT post_id, user_id, likes_count, comments_count, shares_count, created_at
		FROM post_metadata WHERE post_id = $1
	`, postID).Scan(&p.PostID, &p.UserID, &p.LikesCount, &p.CommentsCount, &p.SharesCount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return &p, nil
}

// TrendingSince returns posts created since the given time, pre-ranked
// by raw engagement (likes + comments*2 + shares*3) so the caller can
// cheaply take the top candidates before the full relevance re-score
// (§4.3 "trending").
func (r *FeedMetadataRepository) TrendingSince(ctx context.Context, since time.Time, limit int) ([]domain.PostMetadata, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT post_id, user_id, likes_count, comments_count, shares_count, created_at
		FROM post_metadata
		WHERE created_at >= $1
		ORDER BY (likes_count + comments_count * 2 + shares_count * 3) DESC, created_at DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("trending since: %w", err)
	}
	defer rows.Close()

	return scanPostMetadata(rows)
}

type pgxIter interface {
	Next() bool
	Scan(dest ...any) error
	Close()
}

func scanPostMetadata(rows pgxIter) ([]domain.PostMetadata, error) {
	var results []domain.PostMetadata
	for rows.Next() {
		var p domain.PostMetadata
		if err := rows.Scan(&p.PostID, &p.UserID, &p.LikesCount, &p.CommentsCount, &p.SharesCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post metadata: %w", err)
		}
		results = append(results, p)
	}
	return results, nil
}
