package database

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memDBCounter uint64

func Connect(databaseURL string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	if databaseURL == "" || databaseURL == ":memory:" {
		// A plain ":memory:" DSN gives every pooled connection its own empty
		// database; a named shared-cache DSN keeps the pool on one database
		// while each Connect call still gets a fresh one.
		name := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", atomic.AddUint64(&memDBCounter, 1))
		db, err = gorm.Open(sqlite.Open(name), config)
	} else if len(databaseURL) > 10 && databaseURL[:6] == "sqlite" {
		// Strip "sqlite:" prefix for SQLite driver
		dbPath := databaseURL[7:]
		// Add query parameters to ensure write access
		dbPath = dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
		db, err = gorm.Open(sqlite.Open(dbPath), config)
	} else {
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.CropRate{},
		&models.Vehicle{},
		&models.Booking{},
		&models.Assignment{},
		&models.InventoryEntry{},
		&models.Payout{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
