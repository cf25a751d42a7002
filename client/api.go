// Package client implements the movie discovery front end: a thin HTTP
// client for the backend API and the state machine a renderer observes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movieapp-backend/tmdb"
)

const maxBodySize = 1 << 20

// TrendingMovie is one entry of the trending list as served by the backend.
type TrendingMovie struct {
	ID         string  `json:"$id"`
	SearchTerm string  `json:"searchTerm"`
	Count      int     `json:"count"`
	PosterURL  *string `json:"poster_url"`
	MovieID    *int    `json:"movie_id"`
}

// API calls the backend endpoints. The base URL points at the server's
// /api prefix, e.g. "http://localhost:3001/api".
type API struct {
	baseURL string
	http    *http.Client
}

func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// FetchMovies searches when query is non-empty and falls back to the
// popularity listing otherwise.
func (a *API) FetchMovies(ctx context.Context, query string) (*tmdb.Page, error) {
	endpoint := "/movies/discover"
	if query != "" {
		endpoint = "/movies/search?q=" + url.QueryEscape(query)
	}

	var page tmdb.Page
	if err := a.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTrending returns the most-searched terms, best first.
func (a *API) GetTrending(ctx context.Context) ([]TrendingMovie, error) {
	var envelope struct {
		Documents []TrendingMovie `json:"documents"`
	}
	if err := a.getJSON(ctx, "/metrics/trending", &envelope); err != nil {
		return nil, err
	}
	return envelope.Documents, nil
}

// RecordSearch reports one search event, tagged with its top result.
// Best-effort: callers are expected to ignore the error.
func (a *API) RecordSearch(ctx context.Context, searchTerm string, movie *tmdb.Movie) error {
	payload, err := json.Marshal(map[string]any{
		"searchTerm": searchTerm,
		"movie":      movie,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/metrics/search", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("record search: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (a *API) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return fmt.Errorf("%s: HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
