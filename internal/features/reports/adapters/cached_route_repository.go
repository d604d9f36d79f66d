package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"patrol-verifier/internal/core/cache"
	"patrol-verifier/internal/features/reports/domain"
	"patrol-verifier/internal/features/reports/ports"

	"go.uber.org/zap"
)

// CachedRouteRepository serves planned checkpoints from the cache and falls
// back to the wrapped repository on a miss. Cache failures never fail a lookup.
type CachedRouteRepository struct {
	next   ports.RouteRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRouteRepository creates a new CachedRouteRepository.
func NewCachedRouteRepository(next ports.RouteRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedRouteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRouteRepository{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func routeCacheKey(routeID int64) string {
	return fmt.Sprintf("route:%d:checkpoints", routeID)
}

// PlannedCheckpoints returns the route's checkpoints ordered by sequence.
func (r *CachedRouteRepository) PlannedCheckpoints(ctx context.Context, routeID int64) ([]domain.PlannedCheckpoint, error) {
	key := routeCacheKey(routeID)

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var planned []domain.PlannedCheckpoint
		if err := json.Unmarshal(data, &planned); err == nil {
			return planned, nil
		}
		r.logger.Warn("Discarding unreadable cached checkpoints", zap.String("key", key))
	case !errors.Is(err, cache.ErrCacheMiss):
		r.logger.Warn("Checkpoint cache unavailable", zap.String("key", key), zap.Error(err))
	}

	planned, err := r.next.PlannedCheckpoints(ctx, routeID)
	if err != nil {
		return nil, err
	}

	// An empty route is not cached so newly configured checkpoints show up immediately.
	if len(planned) == 0 {
		return planned, nil
	}

	data, err = json.Marshal(planned)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal planned checkpoints: %w", err)
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache planned checkpoints", zap.String("key", key), zap.Error(err))
	}

	return planned, nil
}

