package rawg

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
	ErrAPIKeyMissing = errors.New("RAWG API key is not configured")
	ErrAPIError      = errors.New("RAWG API error")
	ErrRateLimited   = errors.New("RAWG API rate limited")
)

// Client is a RAWG API client for the game catalog.
type Client struct {
	httpClient *http.Client
	config     config.RAWGConfig
	logger     zerolog.Logger
}

// NewClient creates a new RAWG client.
func NewClient(cfg config.RAWGConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "rawg").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "rawg"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// SearchByTitle searches for a game and returns the first hit, or nil when
// the search has no results.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/games", c.config.BaseURL)
	params := url.Values{}
	params.Set("key", c.config.APIKey)
	params.Set("search", title)

	var response ListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		c.logger.Debug().Str("query", title).Msg("search returned no results")
		return nil, nil
	}

	item := c.toItem(response.Results[0])
	return &item, nil
}

// GetByID gets full game details by RAWG ID.
func (c *Client) GetByID(ctx context.Context, id string) (*media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/games/%s", c.config.BaseURL, url.PathEscape(id))
	params := url.Values{}
	params.Set("key", c.config.APIKey)

	var details Result
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	item := c.toItem(details)

	c.logger.Debug().
		Str("id", id).
		Str("title", item.Title).
		Msg("got game details")

	return &item, nil
}

// GetSimilar returns games similar to the given one via RAWG's suggested
// endpoint.
func (c *Client) GetSimilar(ctx context.Context, id string, limit int) ([]media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/games/%s/suggested", c.config.BaseURL, url.PathEscape(id))
	params := url.Values{}
	params.Set("key", c.config.APIKey)
	params.Set("page_size", strconv.Itoa(limit))

	var response ListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(response.Results))
	for _, r := range response.Results {
		items = append(items, c.toItem(r))
	}

	c.logger.Debug().
		Str("id", id).
		Int("results", len(items)).
		Msg("got suggested games")

	return items, nil
}

// GetTrending returns this year's most added games.
func (c *Client) GetTrending(ctx context.Context, limit int) ([]media.Item, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	year := time.Now().Year()

	endpoint := fmt.Sprintf("%s/games", c.config.BaseURL)
	params := url.Values{}
	params.Set("key", c.config.APIKey)
	params.Set("dates", fmt.Sprintf("%d-01-01,%d-12-31", year, year))
	params.Set("ordering", "-added")
	params.Set("page_size", strconv.Itoa(limit))

	var response ListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(response.Results))
	for _, r := range response.Results {
		items = append(items, c.toItem(r))
	}

	c.logger.Debug().Int("results", len(items)).Msg("got top games")

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
				Str("detail", errResp.Detail).
				Msg("RAWG API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return catalog.ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
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

// toItem converts a RAWG result to a media.Item.
func (c *Client) toItem(r Result) media.Item {
	genres := make([]string, len(r.Genres))
	for i, g := range r.Genres {
		genres[i] = g.Name
	}

	platforms := make([]string, len(r.Platforms))
	for i, p := range r.Platforms {
		platforms[i] = p.Platform.Name
	}

	return media.Item{
		ID:          strconv.Itoa(r.ID),
		Title:       r.Name,
		Cover:       r.BackgroundImage,
		MediaType:   media.TypeGame,
		ReleaseDate: r.Released,
		Genres:      genres,
		Platforms:   platforms,
		Rating:      r.Rating,
	}
}
