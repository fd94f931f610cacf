package search

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Error sentinels surfaced to the HTTP layer (§6 error mapping).
var (
	ErrQueryTooShort = errors.New("query must be at least 2 characters")
	ErrInvalidType   = errors.New("invalid search type")
)

const minQueryLength = 2

// Query runs fuzzy search against the index, grounded on the original
// search_service.py's per-type query composition (§4.7).
type Query struct {
	index domain.SearchIndex
}

// NewQuery creates a Query engine.
func NewQuery(index domain.SearchIndex) *Query {
	return &Query{index: index}
}

// Search dispatches to the per-type query when typ is non-empty, or
// runs the composite all-types query otherwise.
func (q *Query) Search(ctx context.Context, text string, typ domain.SearchType, page, pageSize int) (any, error) {
	if utf8.RuneCountInString(text) < minQueryLength {
		return nil, ErrQueryTooShort
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	switch typ {
	case "":
		return q.searchAll(ctx, text, pageSize)
	case domain.SearchPosts:
		return q.searchPosts(ctx, text, offset, pageSize, page)
	case domain.SearchUsers:
		return q.searchUsers(ctx, text, offset, pageSize, page)
	case domain.SearchHashtags:
		return q.searchHashtags(ctx, text, offset, pageSize, page)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
}

func (q *Query) searchPosts(ctx context.Context, text string, offset, size, page int) (*domain.SearchResult, error) {
	hits, total, err := q.index.QueryPosts(ctx, text, offset, size)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return &domain.SearchResult{
		Type:     string(domain.SearchPosts),
		Results:  hits,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasMore:  offset+len(hits) < total,
	}, nil
}

func (q *Query) searchUsers(ctx context.Context, text string, offset, size, page int) (*domain.SearchResult, error) {
	hits, total, err := q.index.QueryUsers(ctx, text, offset, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return &domain.SearchResult{
		Type:     string(domain.SearchUsers),
		Results:  hits,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasMore:  offset+len(hits) < total,
	}, nil
}

func (q *Query) searchHashtags(ctx context.Context, text string, offset, size, page int) (*domain.SearchResult, error) {
	hits, total, err := q.index.QueryHashtags(ctx, text, offset, size)
	if err != nil {
		return nil, fmt.Errorf("search hashtags: %w", err)
	}
	return &domain.SearchResult{
		Type:     string(domain.SearchHashtags),
		Results:  hits,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasMore:  offset+len(hits) < total,
	}, nil
}

// searchAll runs the composite query: size//3+1 per type, always from
// page 1 regardless of the caller's pagination (§4.7 "pagination for
// this composite is fixed to page 1").
func (q *Query) searchAll(ctx context.Context, text string, size int) (*domain.CompositeSearchResult, error) {
	typeSize := size/3 + 1

	posts, postsTotal, err := q.index.QueryPosts(ctx, text, 0, typeSize)
	if err != nil {
		return nil, fmt.Errorf("search all: posts: %w", err)
	}
	users, usersTotal, err := q.index.QueryUsers(ctx, text, 0, typeSize)
	if err != nil {
		return nil, fmt.Errorf("search all: users: %w", err)
	}
	hashtags, hashtagsTotal, err := q.index.QueryHashtags(ctx, text, 0, typeSize)
	if err != nil {
		return nil, fmt.Errorf("search all: hashtags: %w", err)
	}

	return &domain.CompositeSearchResult{
		Type: "all",
		Results: domain.CompositeHits{
			Posts:    posts,
			Users:    users,
			Hashtags: hashtags,
		},
		Total: domain.CompositeTotal{
			Posts:    postsTotal,
			Users:    usersTotal,
			Hashtags: hashtagsTotal,
		},
		Page: 1,
		Size: typeSize,
	}, nil
}
