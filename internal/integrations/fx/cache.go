package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cacheClient is the subset of the redis client used by the cache
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedProvider serves quotes from redis and falls through to the wrapped provider.
// Redis failures never fail a lookup.
type CachedProvider struct {
	next   Provider
	client cacheClient
	ttl    time.Duration
	log    *logrus.Logger
}

// NewCachedProvider wraps next with a redis cache of the given TTL
func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, log *logrus.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(base, quote string) string {
	return fmt.Sprintf("fx:%s:%s", base, quote)
}

// Rate returns a cached quote when present
func (p *CachedProvider) Rate(ctx context.Context, base, quote string) (*Quote, error) {
	key := cacheKey(base, quote)

	raw, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q Quote
		if jsonErr := json.Unmarshal(raw, &q); jsonErr == nil {
			return &q, nil
		}
		p.log.Warnf("Discarding malformed cached quote %s", key)
	case !errors.Is(err, redis.Nil):
		p.log.Warnf("FX cache read failed for %s: %v", key, err)
	}

	q, err := p.next.Rate(ctx, base, quote)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(q)
	if err == nil {
		if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			p.log.Warnf("FX cache write failed for %s: %v", key, err)
		}
	}
	return q, nil
}
