package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/media"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client serving one media type. The same upstream
// backs both movies and TV; two Client instances are registered, one per
// mode, so dispatch stays a plain registry lookup.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	mode       media.Type // media.TypeMovie or media.TypeTV
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client for the given mode.
func NewClient(cfg config.TMDBConfig, mode media.Type, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		mode:   mode,
		logger: logger.With().Str("component", "tmdb").Str("mode", string(mode)).Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// pathSegment returns the TMDB URL segment for this client's mode.
func (c *Client) pathSegment() string {
	if c.mode == media.TypeTV {
		return "tv"
	}
	return "movie"
}

// SearchByTitle searches for a movie or series and returns the first hit,
// or nil when the search has no results.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/%s", c.config.BaseURL, c.pathSegment())
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("query", title)
	params.Set("include_adult", "false")

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		c.logger.Debug().Str("query", title).Msg("search returned no results")
		return nil, nil
	}

	item := c.resultToItem(response.Results[0])
	return &item, nil
}

// GetByID gets full details by TMDB ID.
func (c *Client) GetByID(ctx context.Context, id string) (*media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.config.BaseURL, c.pathSegment(), url.PathEscape(id))
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var details Details
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	item := c.detailsToItem(details)

	c.logger.Debug().
		Str("id", id).
		Str("title", item.Title).
		Msg("got details")

	return &item, nil
}

// GetSimilar is not natively supported for movies/TV; recommendation for
// these types goes through the oracle path instead.
func (c *Client) GetSimilar(ctx context.Context, id string, limit int) ([]media.Item, error) {
	return nil, catalog.ErrUnsupported
}

// GetTrending returns today's trending movies or series.
func (c *Client) GetTrending(ctx context.Context, limit int) ([]media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/trending/%s/day", c.config.BaseURL, c.pathSegment())
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, limit)
	for _, r := range response.Results {
		if len(items) >= limit {
			break
		}
		items = append(items, c.resultToItem(r))
	}

	c.logger.Debug().Int("results", len(items)).Msg("got trending")

	return items, nil
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
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return catalog.ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
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

// resultToItem converts a TMDB list entry to a media.Item. List entries
// only carry genre IDs, so genres stay empty on this path.
func (c *Client) resultToItem(r Result) media.Item {
	item := media.Item{
		ID:          strconv.Itoa(r.ID),
		Title:       r.Title,
		MediaType:   c.mode,
		ReleaseDate: r.ReleaseDate,
		Overview:    r.Overview,
		Genres:      []string{},
	}
	if item.Title == "" {
		item.Title = r.Name
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = r.FirstAirDate
	}
	if r.PosterPath != nil {
		item.Cover = c.imageURL(*r.PosterPath)
	}
	return item
}

// detailsToItem converts TMDB full details to a media.Item.
func (c *Client) detailsToItem(d Details) media.Item {
	genres := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		genres[i] = g.Name
	}

	item := media.Item{
		ID:          strconv.Itoa(d.ID),
		Title:       d.Title,
		MediaType:   c.mode,
		ReleaseDate: d.ReleaseDate,
		Overview:    d.Overview,
		Genres:      genres,
	}
	if item.Title == "" {
		item.Title = d.Name
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = d.FirstAirDate
	}
	if d.PosterPath != nil {
		item.Cover = c.imageURL(*d.PosterPath)
	}
	return item
}

// imageURL returns a full poster URL for a given path.
func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/w500%s", c.config.ImageBaseURL, path)
}
