package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"movieapp-backend/models"
	"movieapp-backend/tmdb"
)

func TestMovieCacheUpsertInsert(t *testing.T) {
	db := newTestDB(t)
	cache := NewMovieCache(db)

	poster := "/poster.jpg"
	err := cache.Upsert(tmdb.Movie{
		ID:               603,
		Title:            "The Matrix",
		Overview:         "A hacker discovers reality is a simulation.",
		PosterPath:       &poster,
		ReleaseDate:      "1999-03-30",
		VoteAverage:      8.2,
		OriginalLanguage: "en",
	})
	require.NoError(t, err)

	var row models.CachedMovie
	require.NoError(t, db.First(&row, 603).Error)
	require.Equal(t, "The Matrix", row.Title)
	require.NotNil(t, row.PosterURL)
	require.Equal(t, tmdb.PosterBaseURL+"/poster.jpg", *row.PosterURL)
	require.Equal(t, "en", row.Language)
	require.False(t, row.CachedAt.IsZero())
}

func TestMovieCacheUpsertReplacesWholeRow(t *testing.T) {
	db := newTestDB(t)
	cache := NewMovieCache(db)

	poster := "/old.jpg"
	require.NoError(t, cache.Upsert(tmdb.Movie{ID: 1, Title: "Old Title", PosterPath: &poster, VoteAverage: 5.0}))
	require.NoError(t, cache.Upsert(tmdb.Movie{ID: 1, Title: "New Title", VoteAverage: 7.5}))

	var rows []models.CachedMovie
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1, "writes are keyed by external id")
	require.Equal(t, "New Title", rows[0].Title)
	require.Nil(t, rows[0].PosterURL, "replace-whole-row clears the stale poster")
	require.Equal(t, 7.5, rows[0].VoteAverage)
}

func TestMovieCacheUpsertNilPoster(t *testing.T) {
	db := newTestDB(t)
	cache := NewMovieCache(db)

	require.NoError(t, cache.Upsert(tmdb.Movie{ID: 42, Title: "No Poster"}))

	var row models.CachedMovie
	require.NoError(t, db.First(&row, 42).Error)
	require.Nil(t, row.PosterURL)
}
