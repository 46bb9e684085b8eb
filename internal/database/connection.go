package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open opens the sqlite database at path and migrates the message table.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&Message{}); err != nil {
		return nil, fmt.Errorf("migrate messages: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory database, used by tests. The
// pool is pinned to a single connection before migrating, since every
// sqlite in-memory connection is its own database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite in-memory: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Message{}); err != nil {
		return nil, fmt.Errorf("migrate messages: %w", err)
	}
	return db, nil
}
