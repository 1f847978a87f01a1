package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cachedGeocoder struct {
	inner  Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGeocoder wraps inner with a Redis read-through cache. Only
// successful lookups are cached. Without a client or ttl, inner is returned as is.
func NewCachedGeocoder(inner Geocoder, client *redis.Client, ttl time.Duration, logger *zap.Logger) Geocoder {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedGeocoder{inner: inner, client: client, ttl: ttl, logger: logger}
}

// cacheKey rounds to five decimals, roughly one metre.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("geocode:%.5f:%.5f", lat, lng)
}

func (g *cachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Location, error) {
	key := cacheKey(lat, lng)

	raw, err := g.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc Location
		if jsonErr := json.Unmarshal(raw, &loc); jsonErr == nil {
			return &loc, nil
		}
		g.logger.Warn("discarding corrupt geocode cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		g.logger.Warn("geocode cache read failed", zap.Error(err))
	}

	loc, err := g.inner.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(loc); err == nil {
		if err := g.client.Set(ctx, key, payload, g.ttl).Err(); err != nil {
			g.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}
