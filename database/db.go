package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"movieapp-backend/config"
)

// DB wraps the gorm handle so stores can hang off a single injected value
// with an explicit lifecycle (open at startup, Close at shutdown).
type DB struct {
	*gorm.DB
}

// Connect opens (and creates, on first run) the SQLite database file at the
// configured path.
func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if !cfg.Production() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
