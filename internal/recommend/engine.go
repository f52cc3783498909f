package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/media"
	"github.com/recshelf/recshelf/internal/preferences"
)

const (
	// SingleTypeCap is the result cap for single-type recommendations.
	SingleTypeCap = 10

	// MultiTypeCap is the per-type result cap in the multi-media view.
	MultiTypeCap = 3

	// similarPageSize is how many similar items are requested per liked id.
	similarPageSize = 10

	// fanOutLimit bounds concurrent per-liked-id catalog lookups.
	fanOutLimit = 4

	// authorQueryLimit / subjectQueryLimit bound the book fan-out width;
	// perQueryResults is how many results each author/subject query takes.
	authorQueryLimit  = 2
	subjectQueryLimit = 2
	perQueryResults   = 5

	// defaultTypeTimeout bounds each per-type pipeline in the multi-media view.
	defaultTypeTimeout = 15 * time.Second
)

// Completer is the language-model completion oracle the engine consumes.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PreferenceReader supplies stored like/dislike records.
type PreferenceReader interface {
	Get(ctx context.Context, userID string) (*preferences.Record, error)
}

// strategyFunc produces up to limit recommendations from a non-empty
// liked-id list for one media type.
type strategyFunc func(ctx context.Context, liked []string, limit int) ([]media.Item, error)

// Engine orchestrates per-type recommendation strategies over the catalog
// backends, the completion oracle, and the preference store.
type Engine struct {
	catalogs    *catalog.Registry
	oracle      Completer
	prefs       PreferenceReader
	trending    *catalog.TrendingCache
	logger      zerolog.Logger
	typeTimeout time.Duration

	strategies map[media.Type]strategyFunc
}

// NewEngine creates a recommendation engine. The strategy per media type
// is fixed here; dispatch later is a single table lookup.
func NewEngine(catalogs *catalog.Registry, oracle Completer, prefs PreferenceReader, trending *catalog.TrendingCache, logger zerolog.Logger) *Engine {
	e := &Engine{
		catalogs:    catalogs,
		oracle:      oracle,
		prefs:       prefs,
		trending:    trending,
		logger:      logger.With().Str("component", "recommend").Logger(),
		typeTimeout: defaultTypeTimeout,
	}

	e.strategies = map[media.Type]strategyFunc{
		media.TypeMovie: e.genericStrategy(media.TypeMovie),
		media.TypeTV:    e.genericStrategy(media.TypeTV),
		media.TypeGame:  e.gameStrategy,
		media.TypeBook:  e.bookStrategy,
	}

	return e
}

// Recommend produces up to SingleTypeCap recommendations for one user and
// one media type. Returns ErrNoSignal when the user has no liked ids for
// that type.
func (e *Engine) Recommend(ctx context.Context, userID string, t media.Type) ([]media.Item, error) {
	record, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked := record.LikedFor(t)
	if len(liked) == 0 {
		return nil, ErrNoSignal
	}

	return e.strategies[t](ctx, liked, SingleTypeCap)
}

// itemSet collects items in discovery order, deduplicating on the
// composite (id, mediaType) key.
type itemSet struct {
	seen  map[string]bool
	items []media.Item
	limit int
}

func newItemSet(limit int) *itemSet {
	return &itemSet{
		seen:  make(map[string]bool),
		limit: limit,
	}
}

// add appends the item unless it is a duplicate or the set is full.
func (s *itemSet) add(item media.Item) {
	if s.full() || s.seen[item.Key()] {
		return
	}
	s.seen[item.Key()] = true
	s.items = append(s.items, item)
}

func (s *itemSet) full() bool {
	return len(s.items) >= s.limit
}

func (s *itemSet) result() []media.Item {
	if s.items == nil {
		return []media.Item{}
	}
	return s.items
}
