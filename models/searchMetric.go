package models

import "time"

// SearchMetric counts how often a normalized search term has been searched.
// At most one row exists per distinct term.
type SearchMetric struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SearchTerm string    `json:"searchTerm" gorm:"column:search_term;uniqueIndex;not null"`
	Count      int       `json:"count" gorm:"not null;default:1"`
	PosterURL  *string   `json:"poster_url" gorm:"column:poster_url"`
	MovieID    *int      `json:"movie_id" gorm:"column:movie_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SearchMetric) TableName() string {
	return "search_metrics"
}
