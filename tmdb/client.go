package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	redisCacheKey   = "movieapp:tmdb:"

	maxBodySize = 1 << 20
)

// ErrUpstream marks any failure of the external API (non-2xx status or
// transport error). Handlers map it to a generic 500 without leaking the
// upstream status.
var ErrUpstream = errors.New("tmdb upstream error")

// Client talks to the TMDB HTTP API. Responses may optionally be cached in
// Redis for a configurable TTL.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	redis    *redis.Client
	cacheTTL time.Duration
}

type Config struct {
	APIKey   string
	BaseURL  string
	Client   *http.Client
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		redis:    cfg.Redis,
		cacheTTL: cacheTTL,
	}
}

// Search queries the movie search endpoint. The query must be non-empty;
// validating that is the caller's job.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{
		"query":         {strings.TrimSpace(query)},
		"include_adult": {"false"},
		"language":      {defaultLanguage},
		"page":          {strconv.Itoa(normalizePage(page))},
	}
	return c.fetch(ctx, "/search/movie", params)
}

// Discover lists popular movies, sorted by popularity descending.
func (c *Client) Discover(ctx context.Context, page int) (*Page, error) {
	params := url.Values{
		"include_adult": {"false"},
		"include_video": {"false"},
		"language":      {defaultLanguage},
		"page":          {strconv.Itoa(normalizePage(page))},
		"sort_by":       {"popularity.desc"},
	}
	return c.fetch(ctx, "/discover/movie", params)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	cacheKey := redisCacheKey + endpoint + "?" + params.Encode()

	if c.redis != nil {
		if data, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var page Page
			if json.Unmarshal(data, &page) == nil {
				return &page, nil
			}
		}
	}

	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, body, c.cacheTTL).Err()
	}

	return &page, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
