package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// fakeIndex is an in-memory domain.SearchIndex for tests.
type fakeIndex struct {
	hashtags map[string]domain.HashtagDocument
	posts    []domain.PostDocument
	users    []domain.UserDocument
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{hashtags: map[string]domain.HashtagDocument{}}
}

func (f *fakeIndex) IndexPost(ctx context.Context, doc domain.PostDocument) error {
	f.posts = append(f.posts, doc)
	return nil
}

func (f *fakeIndex) IndexUser(ctx context.Context, doc domain.UserDocument) error {
	f.users = append(f.users, doc)
	return nil
}

func (f *fakeIndex) GetHashtag(ctx context.Context, tag string) (*domain.HashtagDocument, bool, error) {
	doc, ok := f.hashtags[tag]
	if !ok {
		return nil, false, nil
	}
	return &doc, true, nil
}

func (f *fakeIndex) UpsertHashtag(ctx context.Context, doc domain.HashtagDocument) error {
	f.hashtags[doc.Tag] = doc
	return nil
}

func (f *fakeIndex) QueryPosts(ctx context.Context, q string, offset, size int) ([]domain.PostDocument, int, error) {
	return paginateDocs(f.posts, offset, size)
}

func (f *fakeIndex) QueryUsers(ctx context.Context, q string, offset, size int) ([]domain.UserDocument, int, error) {
	return paginateDocs(f.users, offset, size)
}

func (f *fakeIndex) QueryHashtags(ctx context.Context, q string, offset, size int) ([]domain.HashtagDocument, int, error) {
	var all []domain.HashtagDocument
	for _, h := range f.hashtags {
		all = append(all, h)
	}
	return paginateDocs(all, offset, size)
}

func paginateDocs[T any](all []T, offset, size int) ([]T, int, error) {
	total := len(all)
	if offset >= total {
		return []T{}, total, nil
	}
	end := offset + size
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

var _ domain.SearchIndex = (*fakeIndex)(nil)

func TestSearch_QueryTooShort(t *testing.T) {
	q := NewQuery(newFakeIndex())
	_, err := q.Search(context.Background(), "a", domain.SearchPosts, 1, 20)
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestSearch_InvalidType(t *testing.T) {
	q := NewQuery(newFakeIndex())
	_, err := q.Search(context.Background(), "golang", domain.SearchType("bogus"), 1, 20)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestSearch_PerTypeReturnsHasMore(t *testing.T) {
	idx := newFakeIndex()
	for i := 0; i < 5; i++ {
		idx.posts = append(idx.posts, domain.PostDocument{ID: string(rune('a' + i))})
	}
	q := NewQuery(idx)

	result, err := q.Search(context.Background(), "golang", domain.SearchPosts, 1, 2)
	require.NoError(t, err)

	sr, ok := result.(*domain.SearchResult)
	require.True(t, ok)
	assert.Equal(t, 5, sr.Total)
	assert.True(t, sr.HasMore)
}

func TestSearch_CompositeAlwaysPageOne(t *testing.T) {
	idx := newFakeIndex()
	idx.posts = append(idx.posts, domain.PostDocument{ID: "p1"})
	idx.users = append(idx.users, domain.UserDocument{ID: "u1"})
	idx.hashtags["golang"] = domain.HashtagDocument{Tag: "golang"}

	q := NewQuery(idx)
	result, err := q.Search(context.Background(), "golang", "", 3, 30)
	require.NoError(t, err)

	cr, ok := result.(*domain.CompositeSearchResult)
	require.True(t, ok)
	assert.Equal(t, 1, cr.Page)
	assert.Equal(t, 11, cr.Size)
}
