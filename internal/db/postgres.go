package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/platform/envutil"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "attendance")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

// AutoMigrate creates the schema plus the uniqueness indexes the Check-In
// Authorizer relies on. Two concurrent inserts for the same key must
// collapse to one row, so the constraint lives here, not in process memory.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.Event{},
		&domain.AttendanceRecord{},
		&domain.ActivityLog{},
	); err != nil {
		return err
	}
	// One record per (user, date) for the recurring gathering and one per
	// (user, event) for a specific event. Partial indexes keep the two
	// keys independent.
	if err := gdb.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_attendance_user_date
		ON attendance_records (user_id, date)
		WHERE event_id IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create uniq_attendance_user_date: %w", err)
	}
	if err := gdb.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_attendance_user_event
		ON attendance_records (user_id, event_id)
		WHERE event_id IS NOT NULL
	`).Error; err != nil {
		return fmt.Errorf("create uniq_attendance_user_event: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
