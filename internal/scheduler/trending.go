package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/media"
)

const trendingWarmSize = 10

// NewTrendingWarmTask builds the periodic task that refreshes the trending
// cache for every media type. Per-type failures are logged and skipped so
// one cold upstream does not block the rest.
func NewTrendingWarmTask(catalogs *catalog.Registry, cache *catalog.TrendingCache, interval time.Duration, logger zerolog.Logger) TaskConfig {
	log := logger.With().Str("component", "trending-warmer").Logger()

	return TaskConfig{
		ID:         "trending-warm",
		Name:       "Trending cache warmer",
		Interval:   interval,
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			for _, t := range media.AllTypes() {
				adapter, err := catalogs.Get(t)
				if err != nil {
					continue
				}
				if !adapter.IsConfigured() {
					continue
				}

				items, err := adapter.GetTrending(ctx, trendingWarmSize)
				if err != nil {
					log.Warn().Err(err).Str("media_type", string(t)).Msg("Trending refresh failed")
					continue
				}
				if len(items) == 0 {
					continue
				}
				cache.Set(t, items)
				log.Debug().Str("media_type", string(t)).Int("count", len(items)).Msg("Trending cache refreshed")
			}
			return nil
		},
	}
}
