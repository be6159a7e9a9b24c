// internal/notify/cache.go
package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"escalation-notifier/internal/common/database"
	"escalation-notifier/internal/common/logger"
)

const recipientKeyPrefix = "notifier:recipient:"

// CachedSink memoizes recipient lookups in Redis in front of another sink.
// Cache failures degrade to a direct lookup; they never fail a send.
type CachedSink struct {
	next   Sink
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSink(next Sink, redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedSink {
	return &CachedSink{
		next:   next,
		redis:  redisClient,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "recipient-cache"}),
	}
}

func (c *CachedSink) ResolveRecipient(ctx context.Context, email string) (string, error) {
	key := recipientKeyPrefix + email

	handle, err := c.redis.Get(ctx, key)
	if err == nil && handle != "" {
		return handle, nil
	}
	if err != nil && err != redis.Nil {
		c.logger.WithError(err).Warn("recipient cache read failed, falling back to lookup", map[string]interface{}{
			"email": email,
		})
	}

	handle, err = c.next.ResolveRecipient(ctx, email)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, handle, c.ttl); err != nil {
		c.logger.WithError(err).Warn("recipient cache write failed", map[string]interface{}{
			"email": email,
		})
	}
	return handle, nil
}

func (c *CachedSink) Deliver(ctx context.Context, handle, message, link string) error {
	return c.next.Deliver(ctx, handle, message, link)
}
