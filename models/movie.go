package models

import "time"

// CachedMovie mirrors a subset of an externally fetched movie record,
// keyed by the provider's movie id. Writes replace the whole row.
type CachedMovie struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title       string    `json:"title" gorm:"not null"`
	Overview    string    `json:"overview"`
	PosterURL   *string   `json:"poster_url" gorm:"column:poster_url"`
	ReleaseDate string    `json:"release_date"`
	VoteAverage float64   `json:"vote_average"`
	Language    string    `json:"language"`
	CachedAt    time.Time `json:"cached_at" gorm:"column:cached_at"`
}

func (CachedMovie) TableName() string {
	return "movies"
}
