package database

import (
	"time"

	"gorm.io/gorm"

	"movieapp-backend/models"
)

// MetricsStore persists per-term search frequencies.
type MetricsStore struct {
	db *DB
}

func NewMetricsStore(db *DB) *MetricsStore {
	return &MetricsStore{db: db}
}

// TopN returns up to n metrics ordered by count descending. Equal counts
// are broken by most recent update first.
func (s *MetricsStore) TopN(n int) ([]models.SearchMetric, error) {
	var metrics []models.SearchMetric
	err := s.db.
		Order("count DESC").
		Order("updated_at DESC").
		Limit(n).
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// IncrementOrCreate bumps the counter for searchTerm, overwriting the
// associated poster/movie reference, or inserts a fresh row with count 1.
// The whole operation runs in one transaction so a concurrent-free single
// writer can never lose an update. It reports whether a new row was created.
func (s *MetricsStore) IncrementOrCreate(searchTerm string, posterURL *string, movieID *int) (created bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SearchMetric{}).
			Where("search_term = ?", searchTerm).
			Updates(map[string]any{
				"count":      gorm.Expr("count + 1"),
				"poster_url": posterURL,
				"movie_id":   movieID,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		created = true
		return tx.Create(&models.SearchMetric{
			SearchTerm: searchTerm,
			Count:      1,
			PosterURL:  posterURL,
			MovieID:    movieID,
		}).Error
	})
	return created, err
}
