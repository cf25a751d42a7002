package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieapp-backend/controllers"
	"movieapp-backend/middlewares"
	"movieapp-backend/models"
	"movieapp-backend/routes"
	"movieapp-backend/tmdb"
)

type fakeFetcher struct {
	mu            sync.Mutex
	page          *tmdb.Page
	err           error
	searchCalls   int
	discoverCalls int
}

func (f *fakeFetcher) Search(_ context.Context, _ string, _ int) (*tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.page, f.err
}

func (f *fakeFetcher) Discover(_ context.Context, _ int) (*tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discoverCalls++
	return f.page, f.err
}

type fakeCacher struct {
	mu     sync.Mutex
	movies []tmdb.Movie
}

func (f *fakeCacher) Upsert(movie tmdb.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies = append(f.movies, movie)
	return nil
}

func (f *fakeCacher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.movies)
}

type fakeStore struct {
	rows       []models.SearchMetric
	err        error
	created    bool
	lastTerm   string
	lastPoster *string
	lastMovie  *int
}

func (f *fakeStore) TopN(_ int) ([]models.SearchMetric, error) {
	return f.rows, f.err
}

func (f *fakeStore) IncrementOrCreate(term string, posterURL *string, movieID *int) (bool, error) {
	f.lastTerm = term
	f.lastPoster = posterURL
	f.lastMovie = movieID
	return f.created, f.err
}

func newTestApp(fetcher *fakeFetcher, cacher *fakeCacher, store *fakeStore) *fiber.App {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(false, log)})
	routes.Register(app, routes.Deps{
		Movies:  controllers.NewMovieController(fetcher, cacher, log),
		Metrics: controllers.NewMetricsController(store, log),
	})
	return app
}

func moviePage(n int) *tmdb.Page {
	page := &tmdb.Page{Page: 1, TotalPages: 1, TotalResults: n}
	for i := 0; i < n; i++ {
		page.Results = append(page.Results, tmdb.Movie{ID: i + 1, Title: "Movie"})
	}
	return page
}

func decodeError(t *testing.T, resp *http.Response) middlewares.ErrorBody {
	t.Helper()
	var body middlewares.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSearchRequiresQuery(t *testing.T) {
	fetcher := &fakeFetcher{page: moviePage(1)}
	app := newTestApp(fetcher, &fakeCacher{}, &fakeStore{})

	for _, target := range []string{"/api/movies/search", "/api/movies/search?q=", "/api/movies/search?q=%20%20"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Search query is required", decodeError(t, resp).Error.Message)
	}
	assert.Zero(t, fetcher.searchCalls, "validation failures must never reach the upstream")
}

func TestSearchPassesThroughEnvelopeAndCachesFirstFive(t *testing.T) {
	fetcher := &fakeFetcher{page: moviePage(8)}
	cacher := &fakeCacher{}
	app := newTestApp(fetcher, cacher, &fakeStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/movies/search?q=avengers", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page tmdb.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Results, 8, "response carries the full upstream result set")
	assert.Equal(t, 8, page.TotalResults)

	require.Eventually(t, func() bool { return cacher.count() == 5 },
		time.Second, 5*time.Millisecond, "only the first 5 results are cached")
}

func TestDiscoverCachesFirstTen(t *testing.T) {
	fetcher := &fakeFetcher{page: moviePage(20)}
	cacher := &fakeCacher{}
	app := newTestApp(fetcher, cacher, &fakeStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/movies/discover", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, fetcher.discoverCalls)

	require.Eventually(t, func() bool { return cacher.count() == 10 },
		time.Second, 5*time.Millisecond)
}

func TestSearchUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("HTTP 502")}
	app := newTestApp(fetcher, &fakeCacher{}, &fakeStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/movies/search?q=avengers", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "Failed to search movies", body.Error.Message)
	assert.NotContains(t, body.Error.Message, "502", "upstream status must not leak")
}

func TestDiscoverUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	app := newTestApp(fetcher, &fakeCacher{}, &fakeStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/movies/discover", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to discover movies", decodeError(t, resp).Error.Message)
}

func TestTrending(t *testing.T) {
	poster := "https://img/p.jpg"
	movieID := 7
	store := &fakeStore{rows: []models.SearchMetric{
		{ID: 1, SearchTerm: "a", Count: 10, PosterURL: &poster, MovieID: &movieID},
		{ID: 2, SearchTerm: "b", Count: 8},
	}}
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/metrics/trending", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Documents []controllers.TrendingEntry `json:"documents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Documents, 2)
	assert.Equal(t, "a", body.Documents[0].SearchTerm)
	assert.Equal(t, 10, body.Documents[0].Count)
	assert.Equal(t, "1", body.Documents[0].ID)
	assert.Equal(t, &poster, body.Documents[0].PosterURL)
	assert.Equal(t, "b", body.Documents[1].SearchTerm)
	assert.Nil(t, body.Documents[1].PosterURL)
}

func TestTrendingStoreFailure(t *testing.T) {
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, &fakeStore{err: errors.New("disk I/O error")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/metrics/trending", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to get trending searches", decodeError(t, resp).Error.Message)
}

func postJSON(app *fiber.App, target, body string) (*http.Response, error) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req)
}

func TestRecordSearchRequiresTerm(t *testing.T) {
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, &fakeStore{})

	for _, body := range []string{`{}`, `{"searchTerm":""}`, `{"searchTerm":"   "}`} {
		resp, err := postJSON(app, "/api/metrics/search", body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Search term is required", decodeError(t, resp).Error.Message)
	}
}

func TestRecordSearchCreated(t *testing.T) {
	store := &fakeStore{created: true}
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, store)

	resp, err := postJSON(app, "/api/metrics/search",
		`{"searchTerm":"  avengers  ","movie":{"id":24428,"title":"The Avengers","poster_path":"/a.jpg"}}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Search count updated", body["message"])
	assert.NotContains(t, body, "updated")

	assert.Equal(t, "avengers", store.lastTerm, "term is trimmed before storage")
	require.NotNil(t, store.lastPoster)
	assert.Equal(t, tmdb.PosterBaseURL+"/a.jpg", *store.lastPoster)
	require.NotNil(t, store.lastMovie)
	assert.Equal(t, 24428, *store.lastMovie)
}

func TestRecordSearchIncremented(t *testing.T) {
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, &fakeStore{created: false})

	resp, err := postJSON(app, "/api/metrics/search", `{"searchTerm":"avengers"}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["updated"])
}

func TestRecordSearchNilPosterPath(t *testing.T) {
	store := &fakeStore{created: true}
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, store)

	resp, err := postJSON(app, "/api/metrics/search",
		`{"searchTerm":"avengers","movie":{"id":1,"title":"No Poster","poster_path":null}}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Nil(t, store.lastPoster)
}

func TestRecordSearchStoreFailure(t *testing.T) {
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, &fakeStore{err: errors.New("database is locked")})

	resp, err := postJSON(app, "/api/metrics/search", `{"searchTerm":"avengers"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to update search count", decodeError(t, resp).Error.Message)
}

func TestHealth(t *testing.T) {
	// Health must not depend on the store or the upstream: both fakes fail.
	app := newTestApp(&fakeFetcher{err: errors.New("down")}, &fakeCacher{}, &fakeStore{err: errors.New("down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "movie-app-backend", body["service"])
	assert.Equal(t, "1.0.0", body["version"])
	_, err = time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

func TestUnmatchedRouteIs404(t *testing.T) {
	app := newTestApp(&fakeFetcher{}, &fakeCacher{}, &fakeStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", decodeError(t, resp).Error.Message)
}
