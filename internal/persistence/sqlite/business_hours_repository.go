package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/appointment-scheduler/internal/persistence"
)

// BusinessHoursRepository implements persistence.BusinessHoursRepository.
type BusinessHoursRepository struct {
	pool *ConnectionPool
}

// NewBusinessHoursRepository creates a SQLite backed business hours repository.
func NewBusinessHoursRepository(pool *ConnectionPool) *BusinessHoursRepository {
	return &BusinessHoursRepository{pool: pool}
}

// UpsertBusinessHours inserts or replaces the window for (org, weekday).
func (r *BusinessHoursRepository) UpsertBusinessHours(ctx context.Context, hours persistence.BusinessHours) error {
	if hours.ID == "" || hours.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if hours.CreatedAt.IsZero() {
		hours.CreatedAt = now
	}
	hours.UpdatedAt = now

	query := `
		INSERT INTO business_hours (id, org_id, weekday, start_time, end_time, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (org_id, weekday) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`

	_, err := r.pool.DB().ExecContext(ctx, query,
		hours.ID,
		hours.OrgID,
		int(hours.Weekday),
		hours.StartTime,
		hours.EndTime,
		encodeBool(hours.IsActive),
		encodeTime(hours.CreatedAt),
		encodeTime(hours.UpdatedAt),
	)
	return mapError(err)
}

// GetBusinessHours returns the window for a weekday, or ErrNotFound.
func (r *BusinessHoursRepository) GetBusinessHours(ctx context.Context, orgID string, weekday time.Weekday) (persistence.BusinessHours, error) {
	query := `
		SELECT id, org_id, weekday, start_time, end_time, is_active, created_at, updated_at
		FROM business_hours
		WHERE org_id = ? AND weekday = ?
	`
	row := r.pool.DB().QueryRowContext(ctx, query, orgID, int(weekday))
	return scanBusinessHours(row.Scan)
}

// ListBusinessHours returns every configured weekday window for an organization.
func (r *BusinessHoursRepository) ListBusinessHours(ctx context.Context, orgID string) ([]persistence.BusinessHours, error) {
	query := `
		SELECT id, org_id, weekday, start_time, end_time, is_active, created_at, updated_at
		FROM business_hours
		WHERE org_id = ?
		ORDER BY weekday ASC
	`
	rows, err := r.pool.DB().QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []persistence.BusinessHours
	for rows.Next() {
		hours, err := scanBusinessHours(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, hours)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// DeleteBusinessHours removes the window for (org, weekday).
func (r *BusinessHoursRepository) DeleteBusinessHours(ctx context.Context, orgID string, weekday time.Weekday) error {
	result, err := r.pool.DB().ExecContext(ctx,
		`DELETE FROM business_hours WHERE org_id = ? AND weekday = ?`, orgID, int(weekday))
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanBusinessHours(scan func(dest ...any) error) (persistence.BusinessHours, error) {
	var hours persistence.BusinessHours
	var weekday, isActive int
	var createdAt, updatedAt string

	err := scan(
		&hours.ID,
		&hours.OrgID,
		&weekday,
		&hours.StartTime,
		&hours.EndTime,
		&isActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.BusinessHours{}, persistence.ErrNotFound
		}
		return persistence.BusinessHours{}, mapError(err)
	}

	hours.Weekday = time.Weekday(weekday)
	hours.IsActive = isActive != 0
	if hours.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.BusinessHours{}, err
	}
	if hours.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.BusinessHours{}, err
	}
	return hours, nil
}
