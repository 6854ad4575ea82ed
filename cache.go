package cleanblog

import (
	"context"
	"sync"
	"time"
)

// Pagination describes where a listing page sits in the full post list.
type Pagination struct {
	Page     int
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
	Total    int64
}

// pageCount is the number of non-empty pages for total posts.
func pageCount(size int, total int64) int64 {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// pastEnd reports whether page lies beyond the last non-empty page.
func pastEnd(page, size int, total int64) bool {
	return int64(page-1) >= pageCount(size, total)
}

func newPagination(page, size int, total int64) Pagination {
	p := Pagination{Page: page, Total: total}
	pages := pageCount(size, total)
	if page > 1 {
		p.HasPrev = true
		p.PrevPage = page - 1
		if int64(p.PrevPage) > pages {
			p.PrevPage = int(max(pages, 1))
		}
	}
	if int64(page) < pages {
		p.HasNext = true
		p.NextPage = page + 1
	}
	return p
}

// PostCache is an in-memory cache of the post listing with TTL. A negative
// TTL disables caching and every read goes to the store.
type PostCache struct {
	mu      sync.RWMutex
	posts   []PostView
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) enabled() bool {
	return c.ttl > 0
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Post creates, edits and deletes call it. Comments are not part of the listing.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached listing after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]PostView, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []PostView{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPosts returns every post, newest first.
func (c *PostCache) ListPosts(ctx context.Context) ([]PostView, error) {
	if !c.enabled() {
		return c.store.ListPosts(ctx)
	}
	return c.ensureLoaded(ctx)
}

// Page returns one page of the listing. Pages past the end are empty.
func (c *PostCache) Page(ctx context.Context, page, size int) ([]PostView, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if !c.enabled() {
		posts, total, err := c.store.ListPostsPage(ctx, page, size)
		if err != nil {
			return nil, Pagination{}, err
		}
		return posts, newPagination(page, size, total), nil
	}

	all, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	total := int64(len(all))
	if pastEnd(page, size, total) {
		return nil, newPagination(page, size, total), nil
	}
	start := (page - 1) * size
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], newPagination(page, size, total), nil
}
