package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/appointment-scheduler/internal/persistence"
)

var (
	hoursCounter       uint64
	holidayCounter     uint64
	serviceCounter     uint64
	appointmentCounter uint64
)

var referenceTime = time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ------------------------- Business hours fixtures -------------------------

// BusinessHoursOption configures a generated business hours fixture.
type BusinessHoursOption func(*persistence.BusinessHours)

// NewBusinessHoursFixture returns a deterministic weekday window with
// optional overrides. The default window is an active 09:00-17:00 Wednesday.
func NewBusinessHoursFixture(opts ...BusinessHoursOption) persistence.BusinessHours {
	idx := atomic.AddUint64(&hoursCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.BusinessHours{
		ID:        fmt.Sprintf("bh-%03d", idx),
		OrgID:     "org-001",
		Weekday:   time.Wednesday,
		StartTime: "09:00",
		EndTime:   "17:00",
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHoursOrg overrides the organization of the window.
func WithHoursOrg(orgID string) BusinessHoursOption {
	return func(f *persistence.BusinessHours) {
		f.OrgID = orgID
	}
}

// WithHoursWeekday overrides the weekday of the window.
func WithHoursWeekday(weekday time.Weekday) BusinessHoursOption {
	return func(f *persistence.BusinessHours) {
		f.Weekday = weekday
	}
}

// WithHoursWindow overrides the opening and closing wall-clock labels.
func WithHoursWindow(start, end string) BusinessHoursOption {
	return func(f *persistence.BusinessHours) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithHoursInactive marks the window inactive.
func WithHoursInactive() BusinessHoursOption {
	return func(f *persistence.BusinessHours) {
		f.IsActive = false
	}
}

// ----------------------------- Holiday fixtures -----------------------------

// HolidayOption configures a generated holiday fixture.
type HolidayOption func(*persistence.Holiday)

// NewHolidayFixture returns a deterministic closure date with optional
// overrides.
func NewHolidayFixture(opts ...HolidayOption) persistence.Holiday {
	idx := atomic.AddUint64(&holidayCounter, 1)
	fixture := persistence.Holiday{
		ID:        fmt.Sprintf("hol-%03d", idx),
		OrgID:     "org-001",
		Date:      time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		Name:      fmt.Sprintf("Closure %03d", idx),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHolidayDate overrides the closure date.
func WithHolidayDate(date time.Time) HolidayOption {
	return func(f *persistence.Holiday) {
		f.Date = date
	}
}

// WithHolidayRecurring marks the holiday as repeating every year.
func WithHolidayRecurring() HolidayOption {
	return func(f *persistence.Holiday) {
		f.IsRecurring = true
	}
}

// WithHolidayOrg overrides the organization of the holiday.
func WithHolidayOrg(orgID string) HolidayOption {
	return func(f *persistence.Holiday) {
		f.OrgID = orgID
	}
}

// ----------------------------- Service fixtures -----------------------------

// ServiceOption configures a generated service fixture.
type ServiceOption func(*persistence.Service)

// NewServiceFixture returns a deterministic bookable service with optional
// overrides. The default is an active 60 minute session on a 30 minute grid.
func NewServiceFixture(opts ...ServiceOption) persistence.Service {
	idx := atomic.AddUint64(&serviceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Service{
		ID:                  fmt.Sprintf("svc-%03d", idx),
		OrgID:               "org-001",
		Name:                fmt.Sprintf("Service %03d", idx),
		DurationMinutes:     60,
		SlotIntervalMinutes: 30,
		IsActive:            true,
		CreatedAt:           created,
		UpdatedAt:           created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithServiceOrg overrides the organization of the service.
func WithServiceOrg(orgID string) ServiceOption {
	return func(f *persistence.Service) {
		f.OrgID = orgID
	}
}

// WithServiceGeometry overrides duration and slot interval minutes.
func WithServiceGeometry(durationMinutes, intervalMinutes int) ServiceOption {
	return func(f *persistence.Service) {
		f.DurationMinutes = durationMinutes
		f.SlotIntervalMinutes = intervalMinutes
	}
}

// WithServiceInactive marks the service as not bookable.
func WithServiceInactive() ServiceOption {
	return func(f *persistence.Service) {
		f.IsActive = false
	}
}

// --------------------------- Appointment fixtures ---------------------------

// AppointmentOption configures a generated appointment fixture.
type AppointmentOption func(*persistence.Appointment)

// NewAppointmentFixture returns a deterministic pending booking with optional
// overrides. Consecutive fixtures occupy consecutive non-overlapping hours.
func NewAppointmentFixture(opts ...AppointmentOption) persistence.Appointment {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 2 * time.Hour)
	fixture := persistence.Appointment{
		ID:          fmt.Sprintf("apt-%03d", idx),
		OrgID:       "org-001",
		ServiceID:   "svc-001",
		ClientName:  fmt.Sprintf("Client %03d", idx),
		ClientPhone: fmt.Sprintf("+98912%07d", idx),
		Start:       start,
		End:         start.Add(time.Hour),
		Status:      persistence.StatusPending,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAppointmentWindow overrides the booking interval.
func WithAppointmentWindow(start, end time.Time) AppointmentOption {
	return func(f *persistence.Appointment) {
		f.Start = start
		f.End = end
	}
}

// WithAppointmentStatus overrides the lifecycle status.
func WithAppointmentStatus(status persistence.AppointmentStatus) AppointmentOption {
	return func(f *persistence.Appointment) {
		f.Status = status
	}
}

// WithAppointmentService overrides the booked service.
func WithAppointmentService(serviceID string) AppointmentOption {
	return func(f *persistence.Appointment) {
		f.ServiceID = serviceID
	}
}

// WithAppointmentStaff assigns the booking to a staff member.
func WithAppointmentStaff(staffID string) AppointmentOption {
	return func(f *persistence.Appointment) {
		f.StaffID = &staffID
	}
}

// WithAppointmentOrg overrides the organization of the booking.
func WithAppointmentOrg(orgID string) AppointmentOption {
	return func(f *persistence.Appointment) {
		f.OrgID = orgID
	}
}
