package client

import (
	"context"
	"sync"
	"time"

	"movieapp-backend/tmdb"
)

// DefaultDebounce is how long the raw search text must be quiet before a
// fetch cycle starts.
const DefaultDebounce = 500 * time.Millisecond

// FallbackPoster is rendered whenever a movie carries no poster URL.
const FallbackPoster = "/no-movie.png"

const fetchErrorMessage = "Error fetching movies. Please try again later!"

// Surface says which of the three mutually exclusive search surfaces a
// renderer should show.
type Surface int

const (
	SurfaceResults Surface = iota
	SurfaceLoading
	SurfaceError
)

// State is a snapshot of everything a renderer needs.
type State struct {
	SearchTerm   string
	Loading      bool
	ErrorMessage string
	Movies       []tmdb.Movie
	Trending     []TrendingMovie
}

// Surface applies the render priority: loading wins, then error, then the
// result list (possibly empty).
func (s State) Surface() Surface {
	switch {
	case s.Loading:
		return SurfaceLoading
	case s.ErrorMessage != "":
		return SurfaceError
	default:
		return SurfaceResults
	}
}

// PosterFor returns the display poster for a movie, substituting the
// fallback image when the provider supplied none.
func PosterFor(m tmdb.Movie) string {
	if p := m.PosterURL(); p != nil {
		return *p
	}
	return FallbackPoster
}

// App drives the search surface: it debounces raw input, runs one fetch
// cycle per settled term, and guards displayed state against out-of-order
// responses by sequencing requests (last write wins).
type App struct {
	api      *API
	debounce time.Duration
	onChange func(State)

	mu         sync.Mutex
	ctx        context.Context
	rawTerm    string
	settled    string
	timer      *time.Timer
	timerEpoch uint64
	seq        uint64
	state      State
	started    bool
}

type Option func(*App)

// WithDebounce overrides the input settle interval.
func WithDebounce(d time.Duration) Option {
	return func(a *App) { a.debounce = d }
}

// WithOnChange registers a callback invoked with a state snapshot after
// every transition. Callbacks run outside the internal lock; keep them
// cheap and non-reentrant.
func WithOnChange(fn func(State)) Option {
	return func(a *App) { a.onChange = fn }
}

func NewApp(api *API, opts ...Option) *App {
	a := &App{
		api:      api,
		debounce: DefaultDebounce,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start loads the trending list once and runs the initial fetch cycle for
// the empty term (the popularity listing). Calling it twice is a no-op.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.ctx = ctx
	a.mu.Unlock()

	go a.loadTrending()
	a.startFetchCycle("")
}

// Stop cancels any pending debounce timer.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// SetSearchTerm records a keystroke. The fetch cycle fires only after the
// input has been stable for the debounce interval.
func (a *App) SetSearchTerm(term string) {
	a.mu.Lock()
	a.rawTerm = term
	a.state.SearchTerm = term
	if a.timer != nil {
		a.timer.Stop()
	}
	// Stop cannot cancel a timer whose callback is already running; the
	// epoch lets such a callback recognize it has been superseded.
	a.timerEpoch++
	epoch := a.timerEpoch
	a.timer = time.AfterFunc(a.debounce, func() { a.debounceFired(epoch) })
	a.mu.Unlock()
	a.notify()
}

// Snapshot returns the current state.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) debounceFired(epoch uint64) {
	a.mu.Lock()
	if epoch != a.timerEpoch {
		// A newer keystroke owns the settle interval.
		a.mu.Unlock()
		return
	}
	term := a.rawTerm
	if term == a.settled {
		a.mu.Unlock()
		return
	}
	a.settled = term
	a.mu.Unlock()

	a.startFetchCycle(term)
}

// startFetchCycle begins exactly one fetch for the given settled term.
// The sequence number taken here decides, on completion, whether the
// response is still the freshest one; superseded responses are discarded.
func (a *App) startFetchCycle(term string) {
	a.mu.Lock()
	a.seq++
	mySeq := a.seq
	a.state.Loading = true
	a.state.ErrorMessage = ""
	ctx := a.ctx
	a.mu.Unlock()
	a.notify()

	go func() {
		page, err := a.api.FetchMovies(ctx, term)

		a.mu.Lock()
		if mySeq != a.seq {
			// A newer cycle owns the display now.
			a.mu.Unlock()
			return
		}
		a.state.Loading = false
		if err != nil {
			a.state.ErrorMessage = fetchErrorMessage
			a.state.Movies = nil
			a.mu.Unlock()
			a.notify()
			return
		}
		a.state.Movies = page.Results
		a.mu.Unlock()
		a.notify()

		if term != "" && len(page.Results) > 0 {
			first := page.Results[0]
			// Fire and forget: recording failures never reach the user.
			go func() { _ = a.api.RecordSearch(ctx, term, &first) }()
		}
	}()
}

// loadTrending populates the trending list once. Failures are silent: the
// section simply does not appear.
func (a *App) loadTrending() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	trending, err := a.api.GetTrending(ctx)
	if err != nil {
		return
	}

	a.mu.Lock()
	a.state.Trending = trending
	a.mu.Unlock()
	a.notify()
}

func (a *App) notify() {
	if a.onChange == nil {
		return
	}
	a.onChange(a.Snapshot())
}
