package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/appointment-scheduler/internal/persistence"
)

// ServiceRepository implements persistence.ServiceRepository.
type ServiceRepository struct {
	pool *ConnectionPool
}

// NewServiceRepository creates a SQLite backed service repository.
func NewServiceRepository(pool *ConnectionPool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

// CreateService stores a new service.
func (r *ServiceRepository) CreateService(ctx context.Context, service persistence.Service) error {
	if service.ID == "" || service.OrgID == "" {
		return persistence.ErrConstraintViolation
	}
	if service.DurationMinutes <= 0 || service.SlotIntervalMinutes <= 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if service.CreatedAt.IsZero() {
		service.CreatedAt = now
	}
	service.UpdatedAt = now

	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO services (id, org_id, name, duration_minutes, slot_interval_minutes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		service.ID,
		service.OrgID,
		service.Name,
		service.DurationMinutes,
		service.SlotIntervalMinutes,
		encodeBool(service.IsActive),
		encodeTime(service.CreatedAt),
		encodeTime(service.UpdatedAt),
	)
	return mapError(err)
}

// UpdateService updates an existing service.
func (r *ServiceRepository) UpdateService(ctx context.Context, service persistence.Service) error {
	if service.DurationMinutes <= 0 || service.SlotIntervalMinutes <= 0 {
		return persistence.ErrConstraintViolation
	}
	service.UpdatedAt = time.Now().UTC()

	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE services
		SET name = ?, duration_minutes = ?, slot_interval_minutes = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		service.Name,
		service.DurationMinutes,
		service.SlotIntervalMinutes,
		encodeBool(service.IsActive),
		encodeTime(service.UpdatedAt),
		service.ID,
	)
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

// GetService retrieves a service by ID.
func (r *ServiceRepository) GetService(ctx context.Context, id string) (persistence.Service, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, org_id, name, duration_minutes, slot_interval_minutes, is_active, created_at, updated_at
		FROM services
		WHERE id = ?`, id)
	return scanService(row.Scan)
}

// ListServices returns the services of an organization.
func (r *ServiceRepository) ListServices(ctx context.Context, orgID string) ([]persistence.Service, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, org_id, name, duration_minutes, slot_interval_minutes, is_active, created_at, updated_at
		FROM services
		WHERE org_id = ?
		ORDER BY name ASC`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []persistence.Service
	for rows.Next() {
		service, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, service)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// DeleteService removes a service by ID.
func (r *ServiceRepository) DeleteService(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
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

func scanService(scan func(dest ...any) error) (persistence.Service, error) {
	var service persistence.Service
	var isActive int
	var createdAt, updatedAt string

	err := scan(
		&service.ID,
		&service.OrgID,
		&service.Name,
		&service.DurationMinutes,
		&service.SlotIntervalMinutes,
		&isActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Service{}, persistence.ErrNotFound
		}
		return persistence.Service{}, mapError(err)
	}

	service.IsActive = isActive != 0
	if service.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.Service{}, err
	}
	if service.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.Service{}, err
	}
	return service, nil
}
