// internal/repository/cached.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"stream-advisor/internal/common/database"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/models"
)

const (
	responsesKeyPrefix    = "responses:"
	responsesGenKeyPrefix = "responses-gen:"
	assessmentKeyPrefix   = "assessment:"
)

func ResponsesKey(token string) string  { return responsesKeyPrefix + token }
func AssessmentKey(token string) string { return assessmentKeyPrefix + token }

// ResponsesGenerationKey counts invalidations of a token's response list. A
// cache fill is only written if the counter did not move during the read.
func ResponsesGenerationKey(token string) string { return responsesGenKeyPrefix + token }

var errStaleFill = errors.New("responses invalidated during read")

// CachedStore fronts the response and assessment reads with Redis. Redis is
// never authoritative: any cache error is logged and the query falls through
// to PostgreSQL.
type CachedStore struct {
	*Store
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCached returns a CachedStore. A nil rdb disables caching.
func NewCached(db DBTX, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedStore{Store: New(db), rdb: rdb, ttl: ttl, logger: log}
}

// Responses returns every stored section for token, from cache when present.
func (c *CachedStore) Responses(ctx context.Context, token string) ([]models.Response, error) {
	key := ResponsesKey(token)
	gen, fill := "", false
	if c.rdb != nil {
		var cached []models.Response
		hit, err := database.GetJSON(ctx, c.rdb, key, &cached)
		if err != nil {
			c.cacheWarn("cache read failed", key, err)
		} else if hit {
			return cached, nil
		}
		gen, fill = c.responsesGeneration(ctx, token)
	}

	responses, err := c.ListResponses(ctx, token)
	if err != nil {
		return nil, err
	}
	if fill && len(responses) > 0 {
		c.fillResponses(ctx, token, gen, responses)
	}
	return responses, nil
}

func (c *CachedStore) responsesGeneration(ctx context.Context, token string) (string, bool) {
	key := ResponsesGenerationKey(token)
	gen, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		c.cacheWarn("cache read failed", key, err)
		return "", false
	}
	return gen, true
}

// fillResponses caches responses unless an invalidation ran after gen was
// read. WATCH on the generation key makes the check and the write atomic.
func (c *CachedStore) fillResponses(ctx context.Context, token, gen string, responses []models.Response) {
	key := ResponsesKey(token)
	genKey := ResponsesGenerationKey(token)
	data, err := json.Marshal(responses)
	if err != nil {
		c.cacheWarn("cache write failed", key, err)
		return
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("skipping stale cache fill", map[string]interface{}{"key": key})
	default:
		c.cacheWarn("cache write failed", key, err)
	}
}

// Assessment returns the latest snapshot for token, from cache when present.
func (c *CachedStore) Assessment(ctx context.Context, token string) (*models.StreamAssessment, error) {
	key := AssessmentKey(token)
	if c.rdb != nil {
		var cached models.StreamAssessment
		hit, err := database.GetJSON(ctx, c.rdb, key, &cached)
		if err != nil {
			c.cacheWarn("cache read failed", key, err)
		} else if hit && cached.Result != nil {
			return &cached, nil
		}
	}

	a, err := c.GetAssessment(ctx, token)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, a)
	return a, nil
}

// PutAssessment refreshes the cached snapshot after an upsert.
func (c *CachedStore) PutAssessment(ctx context.Context, a *models.StreamAssessment) {
	c.put(ctx, AssessmentKey(a.AccessToken), a)
}

// InvalidateResponses drops the cached section list for token and bumps its
// generation so in-flight reads do not refill it with pre-write rows. Call it
// after the write has committed.
func (c *CachedStore) InvalidateResponses(ctx context.Context, token string) {
	if c.rdb == nil {
		return
	}
	key := ResponsesKey(token)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, ResponsesGenerationKey(token))
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		c.cacheWarn("cache invalidation failed", key, err)
	}
}

func (c *CachedStore) put(ctx context.Context, key string, v interface{}) {
	if c.rdb == nil {
		return
	}
	if err := database.SetJSON(ctx, c.rdb, key, v, c.ttl); err != nil {
		c.cacheWarn("cache write failed", key, err)
	}
}

func (c *CachedStore) cacheWarn(msg, key string, err error) {
	c.logger.Warn(msg, map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}
