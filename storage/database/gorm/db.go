// Package gormrepos stores entries and study tips in embedded SQLite databases through gorm.
package gormrepos

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// pragmas are applied by the driver to every connection it opens.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
}

func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	q := make(url.Values)
	q["_pragma"] = pragmas
	return path + "?" + q.Encode()
}

// Open opens (creating it and its directory if needed) the SQLite database at path.
func Open(path string, debug bool) (*gorm.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
	}

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Warn
	}
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "getting sql.DB")
	}
	if path == MemoryPath {
		// every new connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
