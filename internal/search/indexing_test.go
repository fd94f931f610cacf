package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPost_CreatesHashtagsOnFirstSeen(t *testing.T) {
	idx := newFakeIndex()
	ix := NewIndexer(idx)

	err := ix.IndexPost(context.Background(), "post1", "user1", "loving #golang today", nil, 1, 0, 0, time.Now())
	require.NoError(t, err)

	tag, ok := idx.hashtags["golang"]
	require.True(t, ok)
	assert.Equal(t, 1, tag.PostsCount)
}

func TestIndexPost_BumpsExistingHashtagCount(t *testing.T) {
	idx := newFakeIndex()
	ix := NewIndexer(idx)

	require.NoError(t, ix.IndexPost(context.Background(), "post1", "user1", "#golang rocks", nil, 0, 0, 0, time.Now()))
	require.NoError(t, ix.IndexPost(context.Background(), "post2", "user2", "#golang again", nil, 0, 0, 0, time.Now()))

	tag, ok := idx.hashtags["golang"]
	require.True(t, ok)
	assert.Equal(t, 2, tag.PostsCount)
}

func TestIndexPost_MissingIDErrors(t *testing.T) {
	idx := newFakeIndex()
	ix := NewIndexer(idx)

	err := ix.IndexPost(context.Background(), "", "user1", "no id", nil, 0, 0, 0, time.Now())
	assert.Error(t, err)
}
