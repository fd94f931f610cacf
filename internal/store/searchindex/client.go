// Package searchindex implements domain.SearchIndex on top of
// Elasticsearch, following the pack's index-client idiom (explicit
// mappings, WithDocumentID upserts, bool/should query composition).
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Client wraps the Elasticsearch client with the posts/users/hashtags
// index set used by the search engine.
type Client struct {
	es *elasticsearch.Client
}

// New creates a Client against the given addresses.
func New(addresses []string, username, password string) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	if _, err := es.Info(); err != nil {
		return nil, fmt.Errorf("connect to elasticsearch: %w", err)
	}
	return &Client{es: es}, nil
}

// InitializeIndices creates the posts/users/hashtags indices with
// explicit mappings if they don't already exist.
func (c *Client) InitializeIndices(ctx context.Context) error {
	if err := c.createIndex(ctx, domain.IndexPosts, postsMapping); err != nil {
		return fmt.Errorf("create posts index: %w", err)
	}
	if err := c.createIndex(ctx, domain.IndexUsers, usersMapping); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	if err := c.createIndex(ctx, domain.IndexHashtags, hashtagsMapping); err != nil {
		return fmt.Errorf("create hashtags index: %w", err)
	}
	return nil
}

func (c *Client) createIndex(ctx context.Context, name string, mapping map[string]any) error {
	exists, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", name, res.Status())
	}
	return nil
}

var postsMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":             map[string]any{"type": "keyword"},
			"user_id":        map[string]any{"type": "keyword"},
			"content":        map[string]any{"type": "text"},
			"hashtags":       map[string]any{"type": "keyword"},
			"media_urls":     map[string]any{"type": "keyword"},
			"likes_count":    map[string]any{"type": "integer"},
			"comments_count": map[string]any{"type": "integer"},
			"shares_count":   map[string]any{"type": "integer"},
			"created_at":     map[string]any{"type": "date"},
			"updated_at":     map[string]any{"type": "date"},
		},
	},
}

var usersMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":              map[string]any{"type": "keyword"},
			"email":           map[string]any{"type": "keyword"},
			"name":            map[string]any{"type": "text"},
			"bio":             map[string]any{"type": "text"},
			"followers_count": map[string]any{"type": "integer"},
			"following_count": map[string]any{"type": "integer"},
			"created_at":      map[string]any{"type": "date"},
		},
	},
}

var hashtagsMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"tag":         map[string]any{"type": "keyword"},
			"posts_count": map[string]any{"type": "integer"},
			"trending":    map[string]any{"type": "boolean"},
			"last_used":   map[string]any{"type": "date"},
		},
	},
}

// IndexPost upserts a post document, refreshing immediately so it is
// visible to the very next query (§4.6 "immediate refresh").
func (c *Client) IndexPost(ctx context.Context, doc domain.PostDocument) error {
	return c.index(ctx, domain.IndexPosts, doc.ID, doc)
}

// IndexUser upserts a user document with immediate refresh.
func (c *Client) IndexUser(ctx context.Context, doc domain.UserDocument) error {
	return c.index(ctx, domain.IndexUsers, doc.ID, doc)
}

func (c *Client) index(ctx context.Context, indexName, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", indexName, err)
	}
	res, err := c.es.Index(indexName, bytes.NewReader(body),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithRefresh("true"),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", indexName, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s: %s", indexName, res.Status())
	}
	return nil
}

// GetHashtag returns the current hashtag document, or found=false if
// it hasn't been created yet (§4.1.2's get-or-create, expressed as an
// explicit presence check rather than exception-based control flow).
func (c *Client) GetHashtag(ctx context.Context, tag string) (*domain.HashtagDocument, bool, error) {
	res, err := c.es.Get(domain.IndexHashtags, tag, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, false, fmt.Errorf("get hashtag: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, false, nil
	}
	if res.IsError() {
		return nil, false, fmt.Errorf("get hashtag %s: %s", tag, res.Status())
	}

	var wrapper struct {
		Source domain.HashtagDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&wrapper); err != nil {
		return nil, false, fmt.Errorf("decode hashtag: %w", err)
	}
	return &wrapper.Source, true, nil
}

// UpsertHashtag writes a hashtag document keyed by its tag value, with
// immediate refresh.
func (c *Client) UpsertHashtag(ctx context.Context, doc domain.HashtagDocument) error {
	return c.index(ctx, domain.IndexHashtags, doc.Tag, doc)
}

const queryTimeout = 500 * time.Millisecond

// QueryPosts runs the posts fuzzy-boosted query (§4.7): exact content
// match boosted highest, fuzzy content match, and a hashtag term match
// against the lowercased, '#'-stripped query.
func (c *Client) QueryPosts(ctx context.Context, q string, offset, size int) ([]domain.PostDocument, int, error) {
	clean := stripHash(q)
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"match": map[string]any{"content": map[string]any{"query": q, "boost": 3.0}}},
					{"match": map[string]any{"content": map[string]any{"query": q, "fuzziness": "AUTO", "boost": 1.0}}},
					{"term": map[string]any{"hashtags": map[string]any{"value": clean, "boost": 2.0}}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
			{"created_at": map[string]any{"order": "desc"}},
		},
		"from": offset,
		"size": size,
	}

	var hits []domain.PostDocument
	total, err := c.search(ctx, domain.IndexPosts, query, &hits)
	return hits, total, err
}

// QueryUsers runs the users fuzzy-boosted query (§4.7): exact name
// match boosted highest, fuzzy name match, fuzzy bio match.
func (c *Client) QueryUsers(ctx context.Context, q string, offset, size int) ([]domain.UserDocument, int, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"match": map[string]any{"name": map[string]any{"query": q, "boost": 3.0}}},
					{"match": map[string]any{"name": map[string]any{"query": q, "fuzziness": "AUTO", "boost": 2.0}}},
					{"match": map[string]any{"bio": map[string]any{"query": q, "fuzziness": "AUTO", "boost": 1.0}}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
			{"followers_count": map[string]any{"order": "desc"}},
		},
		"from": offset,
		"size": size,
	}

	var hits []domain.UserDocument
	total, err := c.search(ctx, domain.IndexUsers, query, &hits)
	return hits, total, err
}

// QueryHashtags runs the hashtags prefix+fuzzy query (§4.7), matching
// against the lowercased, '#'-stripped query.
func (c *Client) QueryHashtags(ctx context.Context, q string, offset, size int) ([]domain.HashtagDocument, int, error) {
	clean := stripHash(q)
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"prefix": map[string]any{"tag": map[string]any{"value": clean, "boost": 3.0}}},
					{"fuzzy": map[string]any{"tag": map[string]any{"value": clean, "fuzziness": "AUTO", "boost": 1.0}}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
			{"posts_count": map[string]any{"order": "desc"}},
			{"last_used": map[string]any{"order": "desc"}},
		},
		"from": offset,
		"size": size,
	}

	var hits []domain.HashtagDocument
	total, err := c.search(ctx, domain.IndexHashtags, query, &hits)
	return hits, total, err
}

func (c *Client) search(ctx context.Context, index string, query map[string]any, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	body, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("search %s: %s", index, res.Status())
	}

	var resp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("decode search response: %w", err)
	}

	sources := make([]json.RawMessage, len(resp.Hits.Hits))
	for i, h := range resp.Hits.Hits {
		sources[i] = h.Source
	}
	merged, _ := json.Marshal(sources)
	if err := json.Unmarshal(merged, out); err != nil {
		return 0, fmt.Errorf("decode hits: %w", err)
	}

	return resp.Hits.Total.Value, nil
}

func stripHash(q string) string {
	return strings.TrimPrefix(strings.ToLower(q), "#")
}

var _ domain.SearchIndex = (*Client)(nil)
