package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/config"
	"github.com/visual-feedback/backend/internal/models"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: "redis://" + mr.Addr()}

	c, err := NewRedisCache(cfg, zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func testComments() []models.Comment {
	now := time.Now().UTC().Truncate(time.Second)
	return []models.Comment{
		{ID: "c-1", X: 10.5, Y: 20.5, Text: "first", Timestamp: now},
		{ID: "c-2", X: 50.0, Y: 50.0, Text: "second", Timestamp: now},
	}
}

func TestNew_EmptyURLDisablesCache(t *testing.T) {
	cfg := &config.Config{RedisURL: ""}

	c, err := New(cfg, zap.NewNop())
	assert.NoError(t, err)
	assert.IsType(t, &NoopCache{}, c)
}

func TestRedisCache_ImagesRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Empty cache misses
	_, found, err := c.GetImages(ctx)
	assert.NoError(t, err)
	assert.False(t, found)

	images := []models.ImageSummary{
		{ID: "img-1", OriginalName: "cat.png", FilePath: "/uploads/img-1.png"},
	}
	err = c.SetImages(ctx, images)
	assert.NoError(t, err)

	cached, found, err := c.GetImages(ctx)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, images, cached)
}

func TestRedisCache_CommentsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, found, err := c.GetComments(ctx, "img-1")
	assert.NoError(t, err)
	assert.False(t, found)

	comments := testComments()
	err = c.SetComments(ctx, "img-1", comments)
	assert.NoError(t, err)

	cached, found, err := c.GetComments(ctx, "img-1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, comments, cached)

	// Other images are unaffected
	_, found, err = c.GetComments(ctx, "img-2")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_EmptyCommentListIsCacheable(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.SetComments(ctx, "img-1", []models.Comment{})
	assert.NoError(t, err)

	cached, found, err := c.GetComments(ctx, "img-1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, cached)
}

func TestRedisCache_InvalidateImages(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.SetImages(ctx, []models.ImageSummary{{ID: "img-1"}})
	assert.NoError(t, err)

	err = c.InvalidateImages(ctx)
	assert.NoError(t, err)

	_, found, err := c.GetImages(ctx)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_InvalidateComments(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.SetComments(ctx, "img-1", testComments())
	assert.NoError(t, err)
	err = c.SetComments(ctx, "img-2", testComments())
	assert.NoError(t, err)

	err = c.InvalidateComments(ctx, "img-1")
	assert.NoError(t, err)

	_, found, err := c.GetComments(ctx, "img-1")
	assert.NoError(t, err)
	assert.False(t, found)

	// Only the invalidated image's key is removed
	_, found, err = c.GetComments(ctx, "img-2")
	assert.NoError(t, err)
	assert.True(t, found)
}

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	err := c.SetImages(ctx, []models.ImageSummary{{ID: "img-1"}})
	assert.NoError(t, err)

	_, found, err := c.GetImages(ctx)
	assert.NoError(t, err)
	assert.False(t, found)

	err = c.SetComments(ctx, "img-1", testComments())
	assert.NoError(t, err)

	_, found, err = c.GetComments(ctx, "img-1")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.InvalidateImages(ctx))
	assert.NoError(t, c.InvalidateComments(ctx, "img-1"))
	assert.NoError(t, c.Close())
}
