package persistence

import (
	"context"
	"time"
)

// BusinessHoursRepository stores the weekly bookable windows per organization.
type BusinessHoursRepository interface {
	UpsertBusinessHours(ctx context.Context, hours BusinessHours) error
	GetBusinessHours(ctx context.Context, orgID string, weekday time.Weekday) (BusinessHours, error)
	ListBusinessHours(ctx context.Context, orgID string) ([]BusinessHours, error)
	DeleteBusinessHours(ctx context.Context, orgID string, weekday time.Weekday) error
}

// HolidayRepository stores organization specific closure dates.
type HolidayRepository interface {
	CreateHoliday(ctx context.Context, holiday Holiday) error
	ListHolidaysForDate(ctx context.Context, orgID string, date time.Time) ([]Holiday, error)
	ListHolidays(ctx context.Context, orgID string) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// ServiceRepository stores the bookable service catalog.
type ServiceRepository interface {
	CreateService(ctx context.Context, service Service) error
	UpdateService(ctx context.Context, service Service) error
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context, orgID string) ([]Service, error)
	DeleteService(ctx context.Context, id string) error
}

// AppointmentFilter narrows appointment queries. Statuses empty means all
// statuses; StaffID nil means any staff. From and To select appointments
// whose interval touches [From, To]; boundaries count, matching the overlap
// policy of CreateAppointment, so the availability read sees exactly the
// bookings the insert re-check would reject.
type AppointmentFilter struct {
	OrgID     string
	ServiceID string
	StaffID   *string
	From      *time.Time
	To        *time.Time
	Statuses  []AppointmentStatus
}

// AppointmentRepository stores bookings.
//
// CreateAppointment must re-check for overlapping active appointments in the
// same staff scope inside its own write transaction and fail with ErrOverlap
// when the slot has been taken since the caller's availability check; this
// is what closes the check-then-book race.
//
// UpdateAppointmentStatus only applies when the stored status still equals
// from, so two racing transitions out of the same state cannot both land;
// the loser receives ErrStaleStatus.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment Appointment) error
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, from, to AppointmentStatus, reason *string, updatedAt time.Time) (Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	CompleteElapsed(ctx context.Context, before time.Time) (int, error)
}
