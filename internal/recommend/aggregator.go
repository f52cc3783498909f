package recommend

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/recshelf/recshelf/internal/media"
)

// bookFallback is the last-resort book list used when both the trending
// cache and the live trending lookup are unavailable.
var bookFallback = []media.Item{
	{ID: "OL82563W", Title: "Harry Potter and the Philosopher's Stone", MediaType: media.TypeBook, Author: "J. K. Rowling", Genres: []string{}},
	{ID: "OL27448W", Title: "The Lord of the Rings", MediaType: media.TypeBook, Author: "J. R. R. Tolkien", Genres: []string{}},
	{ID: "OL3140822W", Title: "To Kill a Mockingbird", MediaType: media.TypeBook, Author: "Harper Lee", Genres: []string{}},
}

// RecommendAll builds the multi-media view: up to MultiTypeCap items per
// media type, computed concurrently with a per-type timeout. Types without
// any liked signal fall back to trending; a failed strategy yields an empty
// list for that type. Every media type is always present in the result.
func (e *Engine) RecommendAll(ctx context.Context, userID string) (map[media.Type][]media.Item, error) {
	record, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make(map[media.Type][]media.Item, len(media.AllTypes()))
	var mu sync.Mutex

	g := &errgroup.Group{}
	for _, t := range media.AllTypes() {
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, e.typeTimeout)
			defer cancel()

			items := e.recommendOrFallback(tctx, t, record.LikedFor(t))

			mu.Lock()
			results[t] = items
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results, nil
}

// recommendOrFallback runs one type's strategy, degrading to trending when
// the user has no signal and to an empty list when the strategy fails.
func (e *Engine) recommendOrFallback(ctx context.Context, t media.Type, liked []string) []media.Item {
	if len(liked) == 0 {
		return e.trendingFallback(ctx, t)
	}

	items, err := e.strategies[t](ctx, liked, MultiTypeCap)
	if err != nil {
		e.logger.Warn().Err(err).Str("media_type", string(t)).Msg("Recommendation strategy failed, returning empty list")
		return []media.Item{}
	}
	return items
}

// trendingFallback serves trending items for a type with no liked signal:
// cache first, then a live lookup that also warms the cache. Books get a
// static last resort so the shelf is never empty there.
func (e *Engine) trendingFallback(ctx context.Context, t media.Type) []media.Item {
	if items, ok := e.trending.Get(t); ok {
		return capItems(items, MultiTypeCap)
	}

	adapter, err := e.catalogs.Get(t)
	if err == nil {
		items, err := adapter.GetTrending(ctx, MultiTypeCap)
		if err == nil && len(items) > 0 {
			e.trending.Set(t, items)
			return capItems(items, MultiTypeCap)
		}
		if err != nil {
			e.logger.Warn().Err(err).Str("media_type", string(t)).Msg("Trending lookup failed")
		}
	}

	if t == media.TypeBook {
		return capItems(bookFallback, MultiTypeCap)
	}
	return []media.Item{}
}

// capItems returns at most limit items, copying so callers never alias
// cached or static slices.
func capItems(items []media.Item, limit int) []media.Item {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]media.Item, len(items))
	copy(out, items)
	return out
}
