package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/domain"
)

const reportTypesCacheKey = "report_types:all"

type cachedReportTypeRepository struct {
	inner  ReportTypeRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedReportTypeRepository wraps inner with a Redis read-through cache.
// Cache failures are logged and fall through to inner.
func NewCachedReportTypeRepository(inner ReportTypeRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ReportTypeRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedReportTypeRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedReportTypeRepository) List(ctx context.Context) ([]domain.ReportType, error) {
	raw, err := r.client.Get(ctx, reportTypesCacheKey).Bytes()
	switch {
	case err == nil:
		var cached []domain.ReportType
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		r.logger.Warn("discarding corrupt report type cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("report type cache read failed", zap.Error(err))
	}

	types, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(types)
	if err != nil {
		return types, nil
	}
	if err := r.client.Set(ctx, reportTypesCacheKey, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("report type cache write failed", zap.Error(err))
	}
	return types, nil
}
