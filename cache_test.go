package cleanblog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCacheServesStaleUntilInvalidated(t *testing.T) {
	s, _ := setupTestStore(t)
	u := createTestUser(t, s)
	createTestPost(t, s, u.ID, "one")
	c := NewPostCache(s, time.Hour)
	ctx := context.Background()

	posts, err := c.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	createTestPost(t, s, u.ID, "two")
	posts, err = c.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1, "cached listing")

	c.Invalidate()
	posts, err = c.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestPostCacheDisabled(t *testing.T) {
	s, _ := setupTestStore(t)
	u := createTestUser(t, s)
	c := NewPostCache(s, -1)
	ctx := context.Background()

	createTestPost(t, s, u.ID, "one")
	_, pg, err := c.Page(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pg.Total)

	createTestPost(t, s, u.ID, "two")
	posts, pg, err := c.Page(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int64(2), pg.Total)
}

func TestPostCachePage(t *testing.T) {
	s, _ := setupTestStore(t)
	u := createTestUser(t, s)
	for i := 1; i <= 5; i++ {
		createTestPost(t, s, u.ID, fmt.Sprintf("post %d", i))
	}
	c := NewPostCache(s, time.Hour)
	ctx := context.Background()

	posts, pg, err := c.Page(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "post 5", posts[0].Title)
	assert.Equal(t, Pagination{Page: 1, NextPage: 2, HasNext: true, Total: 5}, pg)

	posts, pg, err = c.Page(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post 1", posts[0].Title)
	assert.Equal(t, Pagination{Page: 3, PrevPage: 2, HasPrev: true, Total: 5}, pg)

	posts, pg, err = c.Page(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.True(t, pg.HasPrev)
	assert.False(t, pg.HasNext)

	posts, pg, err = c.Page(ctx, -4, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 1, pg.Page)
}

func TestPostCacheEmptyStore(t *testing.T) {
	s, _ := setupTestStore(t)
	c := NewPostCache(s, time.Hour)

	posts, pg, err := c.Page(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.False(t, pg.HasNext)
	assert.False(t, pg.HasPrev)
}

func TestPageNumberOverflowIsPastTheEnd(t *testing.T) {
	s, _ := setupTestStore(t)
	u := createTestUser(t, s)
	createTestPost(t, s, u.ID, "only")
	ctx := context.Background()
	huge := int(^uint(0) >> 1)

	for _, ttl := range []time.Duration{time.Hour, -1} {
		c := NewPostCache(s, ttl)
		posts, pg, err := c.Page(ctx, huge, 10)
		require.NoError(t, err, "ttl %v", ttl)
		assert.Empty(t, posts, "ttl %v", ttl)
		assert.False(t, pg.HasNext)
		assert.True(t, pg.HasPrev)
		assert.Equal(t, 1, pg.PrevPage)
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, NextPage: 2, HasNext: true, Total: 11}, newPagination(1, 10, 11))
	assert.Equal(t, Pagination{Page: 2, PrevPage: 1, HasPrev: true, Total: 11}, newPagination(2, 10, 11))
	assert.Equal(t, Pagination{Page: 9, PrevPage: 2, HasPrev: true, Total: 11}, newPagination(9, 10, 11))
	assert.Equal(t, Pagination{Page: 3, PrevPage: 1, HasPrev: true}, newPagination(3, 10, 0))
}
