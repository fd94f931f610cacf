package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/search"
)

type fakeIndex struct {
	posts    map[string]domain.PostDocument
	users    map[string]domain.UserDocument
	hashtags map[string]domain.HashtagDocument
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		posts:    map[string]domain.PostDocument{},
		users:    map[string]domain.UserDocument{},
		hashtags: map[string]domain.HashtagDocument{},
	}
}

func (ix *fakeIndex) IndexPost(ctx context.Context, doc domain.PostDocument) error {
	ix.posts[doc.ID] = doc
	return nil
}

func (ix *fakeIndex) IndexUser(ctx context.Context, doc domain.UserDocument) error {
	ix.users[doc.ID] = doc
	return nil
}

func (ix *fakeIndex) GetHashtag(ctx context.Context, tag string) (*domain.HashtagDocument, bool, error) {
	doc, ok := ix.hashtags[tag]
	if !ok {
		return nil, false, nil
	}
	return &doc, true, nil
}

func (ix *fakeIndex) UpsertHashtag(ctx context.Context, doc domain.HashtagDocument) error {
	ix.hashtags[doc.Tag] = doc
	return nil
}

func (ix *fakeIndex) QueryPosts(ctx context.Context, q string, offset, size int) ([]domain.PostDocument, int, error) {
	return nil, 0, nil
}

func (ix *fakeIndex) QueryUsers(ctx context.Context, q string, offset, size int) ([]domain.UserDocument, int, error) {
	return nil, 0, nil
}

func (ix *fakeIndex) QueryHashtags(ctx context.Context, q string, offset, size int) ([]domain.HashtagDocument, int, error) {
	return nil, 0, nil
}

var _ domain.SearchIndex = (*fakeIndex)(nil)

func encode(fields map[string]any) []byte {
	b, _ := json.Marshal(fields)
	return b
}

// TestPostHandler_TopLevelFields exercises content.events' post.created
// leg: fields are read straight off the envelope, matching the
// original indexer's flat event shape (§6).
func TestPostHandler_TopLevelFields(t *testing.T) {
	index := newFakeIndex()
	ix := search.NewIndexer(index)
	bus.Register("post-created-test-topic", "post.created", bus.WithRetry(1, postHandler(ix)))

	err := bus.Dispatch(context.Background(), "post-created-test-topic", encode(map[string]any{
		"eventType":     "post.created",
		"id":            "p1",
		"userId":        "u1",
		"content":       "hello #golang world",
		"likesCount":    2,
		"commentsCount": 1,
		"sharesCount":   0,
		"createdAt":     "2026-01-01T00:00:00Z",
	}))
	require.NoError(t, err)

	doc, ok := index.posts["p1"]
	require.True(t, ok)
	assert.Equal(t, "u1", doc.UserID)
	assert.Contains(t, doc.Hashtags, "golang")
}

// TestUserHandler_NestedDataUnwrap exercises user.events, which nests
// its payload under "data"/"payload" (§6) unlike content.events and
// social.events.
func TestUserHandler_NestedDataUnwrap(t *testing.T) {
	index := newFakeIndex()
	ix := search.NewIndexer(index)
	bus.Register("user-created-test-topic", "user.created", bus.WithRetry(1, userHandler(ix)))

	err := bus.Dispatch(context.Background(), "user-created-test-topic", encode(map[string]any{
		"eventType": "user.created",
		"data": map[string]any{
			"id":             "u1",
			"email":          "ana@example.com",
			"name":           "Ana",
			"bio":            "builder",
			"followersCount": 10,
			"followingCount": 5,
			"createdAt":      "2026-01-01T00:00:00Z",
		},
	}))
	require.NoError(t, err)

	doc, ok := index.users["u1"]
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", doc.Email)
	assert.Equal(t, 10, doc.FollowersCount)
}

func TestUserHandler_MissingData(t *testing.T) {
	index := newFakeIndex()
	ix := search.NewIndexer(index)
	bus.Register("user-missing-data-test-topic", "user.created", userHandler(ix))

	err := bus.Dispatch(context.Background(), "user-missing-data-test-topic", encode(map[string]any{
		"eventType": "user.created",
		"id":        "u1",
	}))
	assert.Error(t, err)
}

// TestRegister_WiresAllFourEventTypes confirms Register subscribes the
// two content.events legs and the two user.events legs named in §6.
func TestRegister_WiresAllFourEventTypes(t *testing.T) {
	index := newFakeIndex()
	ix := search.NewIndexer(index)

	Register(ix, 2)

	err := bus.Dispatch(context.Background(), topicContentEvents, encode(map[string]any{
		"eventType": "post.updated",
		"id":        "p2",
		"userId":    "u2",
		"content":   "edited",
	}))
	require.NoError(t, err)
	_, ok := index.posts["p2"]
	assert.True(t, ok)

	err = bus.Dispatch(context.Background(), topicUserEvents, encode(map[string]any{
		"eventType": "user.updated",
		"data": map[string]any{
			"id":    "u2",
			"email": "bea@example.com",
		},
	}))
	require.NoError(t, err)
	_, ok = index.users["u2"]
	assert.True(t, ok)
}
