package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema. On PostgreSQL it additionally installs the
// exclusion constraint that rejects overlapping pending/accepted
// appointments for the same doctor; the per-doctor lock in the booking
// service is the primary guard, the constraint catches anything that slips
// past it (e.g. writes from another process).
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		stmts := []string{
			`CREATE EXTENSION IF NOT EXISTS btree_gist`,
			`ALTER TABLE appointments ADD CONSTRAINT idx_no_double_booking
				EXCLUDE USING gist (
					doctor_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				) WHERE (status IN ('pending', 'accepted'))`,
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				if strings.Contains(err.Error(), "already exists") {
					continue
				}
				return err
			}
		}
	}

	return nil
}
