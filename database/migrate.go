package database

import "movieapp-backend/models"

// AutoMigrate creates or updates the two application tables.
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.SearchMetric{},
		&models.CachedMovie{},
	)
}
