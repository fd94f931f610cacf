package notification

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// fakeRepo is an in-memory domain.NotificationRepository for tests.
type fakeRepo struct {
	rows map[uuid.UUID]*domain.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*domain.Notification{}}
}

func (r *fakeRepo) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Kind:            input.Kind,
		Title:           input.Title,
		Body:            input.Body,
		ActorID:         input.ActorID,
		TargetID:        input.TargetID,
		Metadata:        input.Metadata,
		AggregatedCount: input.AggregatedCount,
		CreatedAt:       time.Now(),
	}
	r.rows[n.ID] = n
	return n, nil
}

func (r *fakeRepo) FindAggregationCandidate(ctx context.Context, userID, targetID string, since time.Time) (*domain.Notification, error) {
	var best *domain.Notification
	for _, n := range r.rows {
		if n.UserID != userID || n.TargetID != targetID {
			continue
		}
		if n.Kind != domain.KindComment && n.Kind != domain.KindCommentAggregated {
			continue
		}
		if n.CreatedAt.Before(since) {
			continue
		}
		if best == nil || n.CreatedAt.After(best.CreatedAt) {
			best = n
		}
	}
	return best, nil
}

func (r *fakeRepo) Aggregate(ctx context.Context, id uuid.UUID, kind domain.NotificationKind, title, body string) error {
	n, ok := r.rows[id]
	if !ok {
		return nil
	}
	n.Kind = kind
	n.Title = title
	n.Body = body
	n.AggregatedCount++
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	var rows []*domain.Notification
	for _, n := range r.rows {
		if n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		rows = append(rows, n)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, len(rows), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return r.rows[id], nil
}

func (r *fakeRepo) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	n, ok := r.rows[id]
	if !ok || n.UserID != userID {
		return nil
	}
	n.IsRead = true
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if n, ok := r.rows[id]; ok && n.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, row := range r.rows {
		if row.CreatedAt.Before(cutoff) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// fakePrefs is an in-memory domain.PreferenceRepository for tests.
type fakePrefs struct {
	rows map[string]domain.NotificationPreference
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{rows: map[string]domain.NotificationPreference{}}
}

func (p *fakePrefs) Get(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	pref, ok := p.rows[userID]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (p *fakePrefs) Upsert(ctx context.Context, pref domain.NotificationPreference) error {
	p.rows[pref.UserID] = pref
	return nil
}

func (p *fakePrefs) SetPushToken(ctx context.Context, userID, platform, token string) error {
	pref := p.rows[userID]
	pref.UserID = userID
	if platform == "ios" {
		pref.APNSToken = token
	} else {
		pref.FCMToken = token
	}
	p.rows[userID] = pref
	return nil
}

// fakePusher records every push attempt made against it.
type fakePusher struct {
	calls int
	err   error
}

func (p *fakePusher) Push(ctx context.Context, pref domain.NotificationPreference, n *domain.Notification) error {
	p.calls++
	return p.err
}

var _ domain.NotificationRepository = (*fakeRepo)(nil)
var _ domain.PreferenceRepository = (*fakePrefs)(nil)
var _ Pusher = (*fakePusher)(nil)
