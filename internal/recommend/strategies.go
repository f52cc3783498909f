package recommend

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/media"
	"github.com/recshelf/recshelf/internal/oracle"
)

// gameStrategy builds game recommendations from the catalog's native
// similar-games feature, fanning out over each liked id. When the native
// results come up short, the oracle supplements the remainder.
func (e *Engine) gameStrategy(ctx context.Context, liked []string, limit int) ([]media.Item, error) {
	adapter, err := e.catalogs.Get(media.TypeGame)
	if err != nil {
		return nil, err
	}

	perID := make([][]media.Item, len(liked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, id := range liked {
		g.Go(func() error {
			items, err := adapter.GetSimilar(gctx, id, similarPageSize)
			if err != nil {
				e.logger.Warn().Err(err).Str("game_id", id).Msg("Similar-games lookup failed, skipping")
				return nil
			}
			perID[i] = items
			return nil
		})
	}
	g.Wait()

	// Merge in liked-id order so results are stable across runs.
	set := newItemSet(limit)
	for _, items := range perID {
		for _, item := range items {
			set.add(item)
		}
	}

	return e.oracleSupplement(ctx, media.TypeGame, adapter, liked, set), nil
}

// bookStrategy builds book recommendations from the authors and subjects of
// the liked works: the first authorQueryLimit distinct authors and
// subjectQueryLimit distinct subjects each contribute up to perQueryResults
// items. The oracle fills any remaining slots.
func (e *Engine) bookStrategy(ctx context.Context, liked []string, limit int) ([]media.Item, error) {
	books, err := e.catalogs.Book()
	if err != nil {
		return nil, err
	}

	works := make([]*catalog.Work, len(liked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, id := range liked {
		g.Go(func() error {
			work, err := books.GetWork(gctx, id)
			if err != nil {
				e.logger.Warn().Err(err).Str("work_id", id).Msg("Work lookup failed, skipping")
				return nil
			}
			works[i] = work
			return nil
		})
	}
	g.Wait()

	authors := collectDistinct(works, authorQueryLimit, func(w *catalog.Work) []string { return w.Authors })
	subjects := collectDistinct(works, subjectQueryLimit, func(w *catalog.Work) []string { return w.Subjects })

	set := newItemSet(limit)
	for _, author := range authors {
		items, err := books.SearchByAuthor(ctx, author, perQueryResults)
		if err != nil {
			e.logger.Warn().Err(err).Str("author", author).Msg("Author search failed, skipping")
			continue
		}
		for _, item := range items {
			set.add(item)
		}
	}
	for _, subject := range subjects {
		items, err := books.SearchBySubject(ctx, subject, perQueryResults)
		if err != nil {
			e.logger.Warn().Err(err).Str("subject", subject).Msg("Subject search failed, skipping")
			continue
		}
		for _, item := range items {
			set.add(item)
		}
	}

	return e.oracleSupplement(ctx, media.TypeBook, books, liked, set), nil
}

// collectDistinct gathers up to limit distinct values from the works in
// work order, skipping works that failed to load.
func collectDistinct(works []*catalog.Work, limit int, pick func(*catalog.Work) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range works {
		if w == nil {
			continue
		}
		for _, v := range pick(w) {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// genericStrategy is the oracle-only pipeline used for media types whose
// catalogs lack a native similar-items feature: describe the liked items,
// ask the oracle, then resolve each suggested title back through search.
func (e *Engine) genericStrategy(t media.Type) strategyFunc {
	return func(ctx context.Context, liked []string, limit int) ([]media.Item, error) {
		adapter, err := e.catalogs.Get(t)
		if err != nil {
			return nil, err
		}

		descriptions := e.describeLiked(ctx, t, adapter, liked)
		if len(descriptions) == 0 {
			return nil, ErrUpstream
		}

		titles, err := e.askOracle(ctx, t, descriptions, limit)
		if err != nil {
			return nil, err
		}

		set := newItemSet(limit)
		e.resolveTitles(ctx, t, adapter, titles, set)
		return set.result(), nil
	}
}

// describeLiked resolves liked ids to "Title (Genre, Genre)" descriptions.
// Ids that fail to resolve are skipped.
func (e *Engine) describeLiked(ctx context.Context, t media.Type, adapter catalog.Adapter, liked []string) []string {
	items := make([]*media.Item, len(liked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, id := range liked {
		g.Go(func() error {
			item, err := adapter.GetByID(gctx, id)
			if err != nil {
				e.logger.Warn().Err(err).Str("media_type", string(t)).Str("id", id).Msg("Item lookup failed, skipping")
				return nil
			}
			items[i] = item
			return nil
		})
	}
	g.Wait()

	var descriptions []string
	for _, item := range items {
		if item == nil {
			continue
		}
		descriptions = append(descriptions, describeItem(item.Title, item.Genres))
	}
	return descriptions
}

// askOracle runs one completion round trip and parses the suggested titles.
func (e *Engine) askOracle(ctx context.Context, t media.Type, descriptions []string, limit int) ([]string, error) {
	prompt := buildPrompt(t, descriptions, limit)

	text, err := e.oracle.Complete(ctx, prompt)
	if err != nil {
		e.logger.Error().Err(err).Str("media_type", string(t)).Msg("Completion request failed")
		return nil, ErrUpstream
	}

	titles, err := oracle.ParseTitles(text)
	if err != nil {
		e.logger.Error().Err(err).Str("media_type", string(t)).Msg("Completion response unparseable")
		return nil, ErrParse
	}
	return titles, nil
}

// resolveTitles searches each suggested title and adds hits to the set in
// suggestion order. Titles with no hit, and search failures, are skipped.
func (e *Engine) resolveTitles(ctx context.Context, t media.Type, adapter catalog.Adapter, titles []string, set *itemSet) {
	for _, title := range titles {
		if set.full() {
			return
		}
		item, err := adapter.SearchByTitle(ctx, title)
		if err != nil {
			e.logger.Warn().Err(err).Str("media_type", string(t)).Str("title", title).Msg("Title resolution failed, skipping")
			continue
		}
		if item == nil {
			continue
		}
		set.add(*item)
	}
}

// oracleSupplement tops up a partially filled set with oracle suggestions.
// Oracle failures degrade to whatever the native path already produced.
func (e *Engine) oracleSupplement(ctx context.Context, t media.Type, adapter catalog.Adapter, liked []string, set *itemSet) []media.Item {
	if set.full() {
		return set.result()
	}

	descriptions := e.describeLiked(ctx, t, adapter, liked)
	if len(descriptions) == 0 {
		return set.result()
	}

	remaining := set.limit - len(set.items)
	titles, err := e.askOracle(ctx, t, descriptions, remaining)
	if err != nil {
		return set.result()
	}

	e.resolveTitles(ctx, t, adapter, titles, set)
	return set.result()
}
