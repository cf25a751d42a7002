package database

import (
	"time"

	"gorm.io/gorm/clause"

	"movieapp-backend/models"
	"movieapp-backend/tmdb"
)

// MovieCache mirrors upstream movie records keyed by their external id.
// It is a write-only cache: nothing in the serving path reads it back.
type MovieCache struct {
	db *DB
}

func NewMovieCache(db *DB) *MovieCache {
	return &MovieCache{db: db}
}

// Upsert replaces the cached row for the movie's external id, refreshing
// cached_at. Writes are idempotent whole-row replacements.
func (c *MovieCache) Upsert(movie tmdb.Movie) error {
	row := models.CachedMovie{
		ID:          movie.ID,
		Title:       movie.Title,
		Overview:    movie.Overview,
		PosterURL:   movie.PosterURL(),
		ReleaseDate: movie.ReleaseDate,
		VoteAverage: movie.VoteAverage,
		Language:    movie.OriginalLanguage,
		CachedAt:    time.Now(),
	}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}
