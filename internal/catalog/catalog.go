package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/recshelf/recshelf/internal/media"
)

var (
	// ErrNotFound indicates the requested item does not exist upstream.
	ErrNotFound = errors.New("catalog item not found")

	// ErrUnsupported indicates the backend has no native implementation of
	// the requested operation (e.g. similar-items outside the game catalog).
	ErrUnsupported = errors.New("operation not supported by this catalog")
)

// Adapter defines the interface for catalog backends.
type Adapter interface {
	// Name returns the backend name.
	Name() string

	// IsConfigured returns true if the backend has required configuration.
	IsConfigured() bool

	// SearchByTitle returns the first relevant item for a title query,
	// or nil when the search has no hits.
	SearchByTitle(ctx context.Context, title string) (*media.Item, error)

	// GetByID gets full item details by source-native ID.
	GetByID(ctx context.Context, id string) (*media.Item, error)

	// GetSimilar returns items similar to the given one. Backends without
	// a native similar-items feature return ErrUnsupported.
	GetSimilar(ctx context.Context, id string, limit int) ([]media.Item, error)

	// GetTrending returns currently popular items.
	GetTrending(ctx context.Context, limit int) ([]media.Item, error)
}

// Work holds the author and subject signals extracted from one book.
type Work struct {
	Title    string
	Authors  []string
	Subjects []string
}

// BookAdapter extends Adapter with the author/subject fan-out the book
// recommendation strategy relies on.
type BookAdapter interface {
	Adapter

	// GetWork fetches author names and subject tags for a work.
	GetWork(ctx context.Context, id string) (*Work, error)

	// SearchByAuthor returns up to limit items by the given author.
	SearchByAuthor(ctx context.Context, author string, limit int) ([]media.Item, error)

	// SearchBySubject returns up to limit items tagged with the subject.
	SearchBySubject(ctx context.Context, subject string, limit int) ([]media.Item, error)
}

// Registry maps media types to their catalog backends. It is built once at
// startup; lookups after that are read-only.
type Registry struct {
	adapters map[media.Type]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[media.Type]Adapter)}
}

// Register binds an adapter to a media type.
func (r *Registry) Register(t media.Type, a Adapter) {
	r.adapters[t] = a
}

// Get returns the adapter for a media type.
func (r *Registry) Get(t media.Type) (Adapter, error) {
	a, ok := r.adapters[t]
	if !ok {
		return nil, fmt.Errorf("no catalog registered for media type %q", t)
	}
	return a, nil
}

// Book returns the book adapter with its fan-out extensions.
func (r *Registry) Book() (BookAdapter, error) {
	a, ok := r.adapters[media.TypeBook]
	if !ok {
		return nil, fmt.Errorf("no catalog registered for media type %q", media.TypeBook)
	}
	b, ok := a.(BookAdapter)
	if !ok {
		return nil, fmt.Errorf("book catalog %s does not support author/subject search", a.Name())
	}
	return b, nil
}
