package persistence

import "time"

// AppointmentStatus is the persisted lifecycle state of an appointment.
type AppointmentStatus string

const (
	// StatusPending marks a freshly created, unconfirmed appointment.
	StatusPending AppointmentStatus = "PENDING"
	// StatusConfirmed marks an appointment the business has accepted.
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	// StatusCompleted marks a confirmed appointment whose session happened.
	StatusCompleted AppointmentStatus = "COMPLETED"
	// StatusCancelled marks an appointment withdrawn by either side.
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// BusinessHours is the bookable window for one weekday of an organization.
// StartTime and EndTime are wall-clock "HH:MM" labels; an inactive weekday
// produces no slots regardless of the window.
type BusinessHours struct {
	ID        string
	OrgID     string
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday is an organization specific closure date. A recurring holiday
// matches the same month and day every year; a non-recurring one matches the
// exact date only.
type Holiday struct {
	ID          string
	OrgID       string
	Date        time.Time
	Name        string
	IsRecurring bool
	CreatedAt   time.Time
}

// Service is a bookable offering with its slot geometry. DurationMinutes is
// the session length; SlotIntervalMinutes is the step between candidate
// start times.
type Service struct {
	ID                  string
	OrgID               string
	Name                string
	DurationMinutes     int
	SlotIntervalMinutes int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Appointment is a persisted booking. End is always Start plus the service
// duration at creation time. Cancelled appointments never participate in
// conflict checks.
type Appointment struct {
	ID           string
	OrgID        string
	ServiceID    string
	StaffID      *string
	ClientName   string
	ClientPhone  string
	Start        time.Time
	End          time.Time
	Status       AppointmentStatus
	Notes        *string
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
