package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "support:retrieval:"

var errCacheMiss = errors.New("cache miss")

// ContextRetriever is the contract CachedRetriever decorates.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, query string) (string, error)
}

type resultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func (r redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return val, err
}

func (r redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// CachedRetriever memoizes formatted context per normalized query in Redis.
// Cache failures degrade to a direct lookup.
type CachedRetriever struct {
	inner  ContextRetriever
	cache  resultCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRetriever wraps inner with a Redis-backed cache.
func NewCachedRetriever(inner ContextRetriever, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRetriever {
	return newCachedRetriever(inner, redisCache{client: client}, ttl, logger)
}

func newCachedRetriever(inner ContextRetriever, cache resultCache, ttl time.Duration, logger *zap.Logger) *CachedRetriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CachedRetriever{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// RetrieveContext serves from cache or falls through to the wrapped retriever.
func (c *CachedRetriever) RetrieveContext(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, errCacheMiss) {
		c.logger.Warn("retrieval cache read failed", zap.Error(err))
	}

	out, err := c.inner.RetrieveContext(ctx, query)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		c.logger.Warn("retrieval cache write failed", zap.Error(err))
	}
	return out, nil
}

func cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
