package tmdb

// PosterBaseURL is the CDN prefix joined with a result's relative poster
// path to obtain a displayable image URL.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is a single result as returned by the TMDB API.
// Zero values stay in the serialized form: the envelope is passed through
// to API callers, and an unrated movie legitimately carries vote_average 0.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// PosterURL derives the display poster URL, or nil when the provider
// supplied no poster path.
func (m Movie) PosterURL() *string {
	if m.PosterPath == nil || *m.PosterPath == "" {
		return nil
	}
	url := PosterBaseURL + *m.PosterPath
	return &url
}

// Page is the paginated result envelope returned by the search and
// discover endpoints. It is passed through to API callers unmodified.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
