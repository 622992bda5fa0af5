package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/birrama/careers/internal/models"
)

type Options struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

// Connect opens the record store and waits for it to answer a ping.
func Connect(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres", "":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dsn := opts.DSN
		if dsn == "" {
			dsn = "careers.sqlite"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := retry(5, 500*time.Millisecond, sqlDB.Ping); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Println("Database connection established")

	if opts.AutoMigrate {
		log.Println("Running Migrations...")
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates the three submission tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.FellowshipApplicant{}, &models.FulltimeApplicant{}, &models.Recommendation{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// retry runs f until it succeeds, doubling the pause between attempts.
func retry(attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		log.Printf("⚠️  Database not ready: %v. Retrying in %v...", err, sleep)
		time.Sleep(sleep)
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
