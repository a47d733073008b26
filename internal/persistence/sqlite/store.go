package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is the canonical text encoding for timestamps. Everything is
// stored in UTC so lexicographic comparison matches chronological order.
const timeLayout = time.RFC3339

// Store bundles the repositories backed by one SQLite database.
type Store struct {
	pool          *ConnectionPool
	BusinessHours *BusinessHoursRepository
	Holidays      *HolidayRepository
	Services      *ServiceRepository
	Appointments  *AppointmentRepository
}

// Open opens the database at dsn and wires the repositories.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{
		pool:          pool,
		BusinessHours: NewBusinessHoursRepository(pool),
		Holidays:      NewHolidayRepository(pool),
		Services:      NewServiceRepository(pool),
		Appointments:  NewAppointmentRepository(pool),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// migrations is the ordered schema history. Entries are applied exactly once
// and recorded in schema_migrations; never edit an applied entry, append a
// new one instead.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS business_hours (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (org_id, weekday)
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		holiday_date TEXT NOT NULL,
		name TEXT NOT NULL,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_holidays_org_date ON holidays (org_id, holiday_date)`,
	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		name TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		slot_interval_minutes INTEGER NOT NULL CHECK (slot_interval_minutes > 0),
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		staff_id TEXT,
		client_name TEXT NOT NULL,
		client_phone TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED', 'COMPLETED', 'CANCELLED')),
		notes TEXT,
		cancel_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_org_start ON appointments (org_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_staff_start ON appointments (staff_id, start_time)`,
}

// Migrate applies the pending schema migrations in order.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.DB().ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var current int
		if err := tx.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		for version := current + 1; version <= len(migrations); version++ {
			if _, err := tx.Exec(migrations[version-1]); err != nil {
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
			if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				version, time.Now().UTC().Format(timeLayout)); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", version, err)
			}
		}
		return nil
	})
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func encodeBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func fromNullString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
