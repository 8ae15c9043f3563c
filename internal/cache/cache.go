// Package cache provides Redis caching for image listings and comment lists.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/config"
	"github.com/visual-feedback/backend/internal/models"
)

const (
	// Cache key layout
	commentsKeyPrefix = "comments:"
	allImagesKey      = "images:all"

	// Default TTL for cached items
	defaultTTL = 5 * time.Minute
)

// Cache defines the interface for caching operations. The store remains the
// single source of truth: every mutation invalidates the affected keys.
type Cache interface {
	// GetImages retrieves the cached image listing.
	GetImages(ctx context.Context) ([]models.ImageSummary, bool, error)

	// SetImages stores the image listing in cache.
	SetImages(ctx context.Context, images []models.ImageSummary) error

	// GetComments retrieves the cached comment list of an image.
	GetComments(ctx context.Context, imageID string) ([]models.Comment, bool, error)

	// SetComments stores the comment list of an image in cache.
	SetComments(ctx context.Context, imageID string, comments []models.Comment) error

	// InvalidateImages removes the cached image listing.
	InvalidateImages(ctx context.Context) error

	// InvalidateComments removes the cached comment list of an image.
	InvalidateComments(ctx context.Context, imageID string) error

	// Close closes the cache connection.
	Close() error
}

// New creates a cache from the configuration. An empty Redis URL disables
// caching and yields a no-op implementation.
func New(cfg *config.Config, logger *zap.Logger) (Cache, error) {
	if cfg.RedisURL == "" {
		logger.Info("Cache disabled, reads go straight to the store")
		return NewNoop(), nil
	}
	return NewRedisCache(cfg, logger)
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(cfg *config.Config, logger *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis cache")

	return &RedisCache{
		client: client,
		logger: logger,
		ttl:    defaultTTL,
	}, nil
}

// GetImages retrieves the cached image listing.
func (c *RedisCache) GetImages(ctx context.Context) ([]models.ImageSummary, bool, error) {
	data, err := c.client.Get(ctx, allImagesKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil // Cache miss
	}
	if err != nil {
		c.logger.Warn("Failed to get image listing from cache", zap.Error(err))
		return nil, false, nil // Treat errors as cache miss
	}

	var images []models.ImageSummary
	if err := json.Unmarshal(data, &images); err != nil {
		c.logger.Warn("Failed to unmarshal cached image listing", zap.Error(err))
		return nil, false, nil
	}

	c.logger.Debug("Cache hit for image listing")
	return images, true, nil
}

// SetImages stores the image listing in cache.
func (c *RedisCache) SetImages(ctx context.Context, images []models.ImageSummary) error {
	data, err := json.Marshal(images)
	if err != nil {
		c.logger.Warn("Failed to marshal image listing for cache", zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, allImagesKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache image listing", zap.Error(err))
		return err
	}

	c.logger.Debug("Cached image listing", zap.Int("count", len(images)))
	return nil
}

// GetComments retrieves the cached comment list of an image.
func (c *RedisCache) GetComments(ctx context.Context, imageID string) ([]models.Comment, bool, error) {
	key := commentsKeyPrefix + imageID

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil // Cache miss
	}
	if err != nil {
		c.logger.Warn("Failed to get comments from cache", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}

	var comments []models.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		c.logger.Warn("Failed to unmarshal cached comments", zap.Error(err))
		return nil, false, nil
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return comments, true, nil
}

// SetComments stores the comment list of an image in cache.
func (c *RedisCache) SetComments(ctx context.Context, imageID string, comments []models.Comment) error {
	key := commentsKeyPrefix + imageID

	data, err := json.Marshal(comments)
	if err != nil {
		c.logger.Warn("Failed to marshal comments for cache", zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache comments", zap.String("key", key), zap.Error(err))
		return err
	}

	c.logger.Debug("Cached comments", zap.String("key", key), zap.Int("count", len(comments)))
	return nil
}

// InvalidateImages removes the cached image listing.
func (c *RedisCache) InvalidateImages(ctx context.Context) error {
	if err := c.client.Del(ctx, allImagesKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate image listing cache", zap.Error(err))
		return err
	}
	return nil
}

// InvalidateComments removes the cached comment list of an image.
func (c *RedisCache) InvalidateComments(ctx context.Context, imageID string) error {
	key := commentsKeyPrefix + imageID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to invalidate comments cache", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}

// NoopCache implements Cache without storing anything. Used when caching
// is disabled.
type NoopCache struct{}

// NewNoop creates a no-op cache.
func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) GetImages(ctx context.Context) ([]models.ImageSummary, bool, error) {
	return nil, false, nil
}

func (c *NoopCache) SetImages(ctx context.Context, images []models.ImageSummary) error {
	return nil
}

func (c *NoopCache) GetComments(ctx context.Context, imageID string) ([]models.Comment, bool, error) {
	return nil, false, nil
}

func (c *NoopCache) SetComments(ctx context.Context, imageID string, comments []models.Comment) error {
	return nil
}

func (c *NoopCache) InvalidateImages(ctx context.Context) error { return nil }

func (c *NoopCache) InvalidateComments(ctx context.Context, imageID string) error { return nil }

func (c *NoopCache) Close() error { return nil }
