package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/media"
)

var (
	ErrAPIError    = errors.New("Open Library API error")
	ErrRateLimited = errors.New("Open Library API rate limited")
)

// trendingQuery is the generic filler search used when no better trending
// signal exists for books; Open Library has no native trending endpoint.
const trendingQuery = "bestseller fiction"

// Client is an Open Library API client for the book catalog.
type Client struct {
	httpClient *http.Client
	config     config.OpenLibraryConfig
	logger     zerolog.Logger
}

// NewClient creates a new Open Library client.
func NewClient(cfg config.OpenLibraryConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "openlibrary").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "openlibrary"
}

// IsConfigured returns true; Open Library requires no API key.
func (c *Client) IsConfigured() bool {
	return true
}

// SearchByTitle searches for a book and returns the first hit, or nil when
// the search has no results.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*media.Item, error) {
	docs, err := c.search(ctx, url.Values{"q": {title}, "limit": {"1"}})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		c.logger.Debug().Str("query", title).Msg("search returned no results")
		return nil, nil
	}

	item := c.docToItem(docs[0])
	return &item, nil
}

// GetByID gets book details by OLID (work identifier).
func (c *Client) GetByID(ctx context.Context, id string) (*media.Item, error) {
	var work WorkResponse
	endpoint := fmt.Sprintf("%s/works/%s.json", c.config.BaseURL, url.PathEscape(id))
	if err := c.doRequest(ctx, endpoint, nil, &work); err != nil {
		return nil, err
	}

	item := media.Item{
		ID:        olid(work.Key),
		Title:     work.Title,
		MediaType: media.TypeBook,
		Genres:    work.Subjects,
	}
	if item.ID == "" {
		item.ID = id
	}
	if item.Genres == nil {
		item.Genres = []string{}
	}
	if len(work.Covers) > 0 {
		item.Cover = c.coverURL(work.Covers[0])
	}

	// Resolve the first author name so the unified record has one; failures
	// here only cost the author field.
	if len(work.Authors) > 0 {
		if name, err := c.authorName(ctx, work.Authors[0].Author.Key); err == nil {
			item.Author = name
		}
	}

	c.logger.Debug().
		Str("id", id).
		Str("title", item.Title).
		Msg("got work details")

	return &item, nil
}

// GetSimilar is not natively supported; book recommendations use the
// author/subject fan-out instead.
func (c *Client) GetSimilar(ctx context.Context, id string, limit int) ([]media.Item, error) {
	return nil, catalog.ErrUnsupported
}

// GetTrending returns popular books via a generic filler-term search.
func (c *Client) GetTrending(ctx context.Context, limit int) ([]media.Item, error) {
	docs, err := c.search(ctx, url.Values{"q": {trendingQuery}, "limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, c.docToItem(d))
	}

	c.logger.Debug().Int("results", len(items)).Msg("got trending books")

	return items, nil
}

// GetWork fetches the author names and subject tags for a work, the
// signals the book recommendation strategy fans out on.
func (c *Client) GetWork(ctx context.Context, id string) (*catalog.Work, error) {
	var work WorkResponse
	endpoint := fmt.Sprintf("%s/works/%s.json", c.config.BaseURL, url.PathEscape(id))
	if err := c.doRequest(ctx, endpoint, nil, &work); err != nil {
		return nil, err
	}

	result := &catalog.Work{
		Title:    work.Title,
		Subjects: work.Subjects,
	}

	// Author records only carry references; resolve names individually and
	// skip any that fail.
	for _, entry := range work.Authors {
		name, err := c.authorName(ctx, entry.Author.Key)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("author", entry.Author.Key).
				Msg("failed to resolve author name, skipping")
			continue
		}
		result.Authors = append(result.Authors, name)
	}

	return result, nil
}

// SearchByAuthor returns up to limit books by the given author.
func (c *Client) SearchByAuthor(ctx context.Context, author string, limit int) ([]media.Item, error) {
	docs, err := c.search(ctx, url.Values{"author": {author}, "limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, c.docToItem(d))
	}
	return items, nil
}

// SearchBySubject returns up to limit books tagged with the subject.
func (c *Client) SearchBySubject(ctx context.Context, subject string, limit int) ([]media.Item, error) {
	docs, err := c.search(ctx, url.Values{"subject": {subject}, "limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, c.docToItem(d))
	}
	return items, nil
}

// search runs a search.json query and returns the raw docs.
func (c *Client) search(ctx context.Context, params url.Values) ([]Doc, error) {
	endpoint := fmt.Sprintf("%s/search.json", c.config.BaseURL)

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}
	return response.Docs, nil
}

// authorName resolves an author reference key to a display name.
func (c *Client) authorName(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/authors/")
	if key == "" {
		return "", fmt.Errorf("empty author key")
	}

	var author AuthorResponse
	endpoint := fmt.Sprintf("%s/authors/%s.json", c.config.BaseURL, url.PathEscape(key))
	if err := c.doRequest(ctx, endpoint, nil, &author); err != nil {
		return "", err
	}
	return author.Name, nil
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", endpoint).
			Msg("Open Library API error")

		switch resp.StatusCode {
		case http.StatusNotFound:
			return catalog.ErrNotFound
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// docToItem converts a search doc to a media.Item.
func (c *Client) docToItem(d Doc) media.Item {
	item := media.Item{
		ID:        olid(d.Key),
		Title:     d.Title,
		MediaType: media.TypeBook,
		Genres:    d.Subject,
	}
	if item.Genres == nil {
		item.Genres = []string{}
	}
	if len(d.AuthorName) > 0 {
		item.Author = d.AuthorName[0]
	}
	if d.CoverID > 0 {
		item.Cover = c.coverURL(d.CoverID)
	}
	if d.FirstPublishYear > 0 {
		item.ReleaseDate = strconv.Itoa(d.FirstPublishYear)
	}
	return item
}

// coverURL returns a full cover image URL for a cover ID.
func (c *Client) coverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.config.CoversBaseURL, coverID)
}

// olid strips the "/works/" prefix from a work key.
func olid(key string) string {
	return strings.TrimPrefix(key, "/works/")
}
