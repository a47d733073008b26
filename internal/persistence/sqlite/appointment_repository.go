package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/appointment-scheduler/internal/persistence"
)

// AppointmentRepository implements persistence.AppointmentRepository.
type AppointmentRepository struct {
	pool *ConnectionPool
}

// NewAppointmentRepository creates a SQLite backed appointment repository.
func NewAppointmentRepository(pool *ConnectionPool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// CreateAppointment inserts a booking after re-checking for overlaps inside
// the same write transaction. Two callers racing for one slot therefore
// cannot both succeed: SQLite serializes writers, so the loser observes the
// winner's row and receives ErrOverlap.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	if appointment.ID == "" || appointment.OrgID == "" || appointment.ServiceID == "" {
		return persistence.ErrConstraintViolation
	}
	if !appointment.End.After(appointment.Start) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = now
	}
	appointment.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		conflicts, err := countOverlapsTx(tx, appointment)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return persistence.ErrOverlap
		}

		_, err = tx.Exec(`
			INSERT INTO appointments (id, org_id, service_id, staff_id, client_name, client_phone,
				start_time, end_time, status, notes, cancel_reason, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			appointment.ID,
			appointment.OrgID,
			appointment.ServiceID,
			nullString(appointment.StaffID),
			appointment.ClientName,
			appointment.ClientPhone,
			encodeTime(appointment.Start),
			encodeTime(appointment.End),
			string(appointment.Status),
			nullString(appointment.Notes),
			nullString(appointment.CancelReason),
			encodeTime(appointment.CreatedAt),
			encodeTime(appointment.UpdatedAt),
		)
		return mapError(err)
	})
}

// countOverlapsTx counts active appointments conflicting with the candidate
// under the boundary-inclusive policy. The conflict scope is the staff
// member when one is assigned, otherwise the service itself.
func countOverlapsTx(tx *sql.Tx, candidate persistence.Appointment) (int, error) {
	query := `
		SELECT COUNT(1)
		FROM appointments
		WHERE org_id = ?
		  AND status != 'CANCELLED'
		  AND start_time <= ?
		  AND end_time >= ?
	`
	args := []any{
		candidate.OrgID,
		encodeTime(candidate.End),
		encodeTime(candidate.Start),
	}

	if candidate.StaffID != nil {
		query += ` AND staff_id = ?`
		args = append(args, *candidate.StaffID)
	} else {
		query += ` AND service_id = ? AND staff_id IS NULL`
		args = append(args, candidate.ServiceID)
	}

	var count int
	if err := tx.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// GetAppointment retrieves an appointment by ID.
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	row := r.pool.DB().QueryRowContext(ctx, selectAppointment+` WHERE id = ?`, id)
	return scanAppointment(row.Scan)
}

// UpdateAppointmentStatus transitions the stored status and optionally
// records a cancellation reason. Transition legality is the application
// layer's concern; this method guards against the prior status having moved
// since the caller read it, so two racing transitions out of the same state
// cannot both land.
func (r *AppointmentRepository) UpdateAppointmentStatus(ctx context.Context, id string, from, to persistence.AppointmentStatus, reason *string, updatedAt time.Time) (persistence.Appointment, error) {
	var updated persistence.Appointment

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE appointments
			SET status = ?, cancel_reason = COALESCE(?, cancel_reason), updated_at = ?
			WHERE id = ? AND status = ?`,
			string(to),
			nullString(reason),
			encodeTime(updatedAt),
			id,
			string(from),
		)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists int
			if err := tx.QueryRow(`SELECT COUNT(1) FROM appointments WHERE id = ?`, id).Scan(&exists); err != nil {
				return mapError(err)
			}
			if exists == 0 {
				return persistence.ErrNotFound
			}
			return persistence.ErrStaleStatus
		}

		row := tx.QueryRow(selectAppointment+` WHERE id = ?`, id)
		updated, err = scanAppointment(row.Scan)
		return err
	})
	if err != nil {
		return persistence.Appointment{}, err
	}
	return updated, nil
}

// ListAppointments returns appointments matching the filter, ordered by
// start time.
func (r *AppointmentRepository) ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error) {
	query := selectAppointment
	var conditions []string
	var args []any

	if filter.OrgID != "" {
		conditions = append(conditions, "org_id = ?")
		args = append(args, filter.OrgID)
	}
	if filter.ServiceID != "" {
		conditions = append(conditions, "service_id = ?")
		args = append(args, filter.ServiceID)
	}
	if filter.StaffID != nil {
		conditions = append(conditions, "staff_id = ?")
		args = append(args, *filter.StaffID)
	}
	if filter.From != nil {
		conditions = append(conditions, "end_time >= ?")
		args = append(args, encodeTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, encodeTime(*filter.To))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []persistence.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// CompleteElapsed marks confirmed appointments whose end time has passed as
// completed and reports how many rows changed.
func (r *AppointmentRepository) CompleteElapsed(ctx context.Context, before time.Time) (int, error) {
	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE appointments
		SET status = 'COMPLETED', updated_at = ?
		WHERE status = 'CONFIRMED' AND end_time < ?`,
		encodeTime(before),
		encodeTime(before),
	)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

const selectAppointment = `
	SELECT id, org_id, service_id, staff_id, client_name, client_phone,
		start_time, end_time, status, notes, cancel_reason, created_at, updated_at
	FROM appointments`

func scanAppointment(scan func(dest ...any) error) (persistence.Appointment, error) {
	var appointment persistence.Appointment
	var staffID, notes, cancelReason sql.NullString
	var status, startStr, endStr, createdAt, updatedAt string

	err := scan(
		&appointment.ID,
		&appointment.OrgID,
		&appointment.ServiceID,
		&staffID,
		&appointment.ClientName,
		&appointment.ClientPhone,
		&startStr,
		&endStr,
		&status,
		&notes,
		&cancelReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Appointment{}, persistence.ErrNotFound
		}
		return persistence.Appointment{}, mapError(err)
	}

	appointment.StaffID = fromNullString(staffID)
	appointment.Notes = fromNullString(notes)
	appointment.CancelReason = fromNullString(cancelReason)
	appointment.Status = persistence.AppointmentStatus(status)
	if appointment.Start, err = decodeTime(startStr); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.End, err = decodeTime(endStr); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.Appointment{}, err
	}
	return appointment, nil
}
