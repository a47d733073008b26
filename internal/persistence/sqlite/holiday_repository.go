package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/appointment-scheduler/internal/persistence"
)

// dateLayout is the text encoding for calendar dates without a time of day.
const dateLayout = "2006-01-02"

// HolidayRepository implements persistence.HolidayRepository.
type HolidayRepository struct {
	pool *ConnectionPool
}

// NewHolidayRepository creates a SQLite backed holiday repository.
func NewHolidayRepository(pool *ConnectionPool) *HolidayRepository {
	return &HolidayRepository{pool: pool}
}

// CreateHoliday stores a closure date.
func (r *HolidayRepository) CreateHoliday(ctx context.Context, holiday persistence.Holiday) error {
	if holiday.ID == "" || holiday.OrgID == "" {
		return persistence.ErrConstraintViolation
	}
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO holidays (id, org_id, holiday_date, name, is_recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		holiday.ID,
		holiday.OrgID,
		holiday.Date.Format(dateLayout),
		holiday.Name,
		encodeBool(holiday.IsRecurring),
		encodeTime(holiday.CreatedAt),
	)
	return mapError(err)
}

// ListHolidaysForDate returns holidays matching the given date: exact-date
// matches plus recurring holidays sharing the month and day.
func (r *HolidayRepository) ListHolidaysForDate(ctx context.Context, orgID string, date time.Time) ([]persistence.Holiday, error) {
	monthDay := date.Format("01-02")
	query := `
		SELECT id, org_id, holiday_date, name, is_recurring, created_at
		FROM holidays
		WHERE org_id = ?
		  AND (holiday_date = ? OR (is_recurring = 1 AND substr(holiday_date, 6) = ?))
		ORDER BY holiday_date ASC
	`
	return r.queryHolidays(ctx, query, orgID, date.Format(dateLayout), monthDay)
}

// ListHolidays returns every holiday for an organization.
func (r *HolidayRepository) ListHolidays(ctx context.Context, orgID string) ([]persistence.Holiday, error) {
	query := `
		SELECT id, org_id, holiday_date, name, is_recurring, created_at
		FROM holidays
		WHERE org_id = ?
		ORDER BY holiday_date ASC
	`
	return r.queryHolidays(ctx, query, orgID)
}

// DeleteHoliday removes a holiday by ID.
func (r *HolidayRepository) DeleteHoliday(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
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

func (r *HolidayRepository) queryHolidays(ctx context.Context, query string, args ...any) ([]persistence.Holiday, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []persistence.Holiday
	for rows.Next() {
		var holiday persistence.Holiday
		var dateStr, createdAt string
		var isRecurring int

		if err := rows.Scan(&holiday.ID, &holiday.OrgID, &dateStr, &holiday.Name, &isRecurring, &createdAt); err != nil {
			return nil, mapError(err)
		}

		if holiday.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse holiday_date: %w", err)
		}
		holiday.IsRecurring = isRecurring != 0
		if holiday.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		result = append(result, holiday)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}
