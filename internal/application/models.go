package application

import (
	"time"

	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
)

// TimeSlot is one candidate window of a day. Every candidate of an open day
// is listed; Available reports whether it is still free to book. Labels are
// rendered in the requested locale; for Persian they carry Persian digits.
type TimeSlot struct {
	Start      time.Time
	End        time.Time
	StartLabel string
	EndLabel   string
	Available  bool
}

// DayAvailability is the availability picture of a single civil day.
type DayAvailability struct {
	Date        time.Time
	DateLabel   string
	JalaliDate  jalali.Date
	DayName     string
	IsWeekend   bool
	IsHoliday   bool
	HolidayName string
	Open        bool
	Slots       []TimeSlot
}

// Appointment is the application facing view of a booking, enriched with
// localized date labels.
type Appointment struct {
	ID           string
	OrgID        string
	ServiceID    string
	StaffID      *string
	ClientName   string
	ClientPhone  string
	Start        time.Time
	End          time.Time
	StartLabel   string
	Status       persistence.AppointmentStatus
	Notes        *string
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingInput carries a booking request from the transport layer.
type BookingInput struct {
	OrgID       string
	ServiceID   string
	StaffID     *string
	ClientName  string
	ClientPhone string
	Start       time.Time
	Notes       *string
}

// SkippedOccurrence explains why one occurrence of a recurring booking was
// not created.
type SkippedOccurrence struct {
	Start  time.Time
	Reason string
}

// RecurringResult reports the outcome of a recurring booking: the created
// appointments plus the occurrences that had to be skipped.
type RecurringResult struct {
	Created []Appointment
	Skipped []SkippedOccurrence
}

// ListAppointmentsParams narrows appointment listings.
type ListAppointmentsParams struct {
	OrgID     string
	ServiceID string
	StaffID   *string
	From      *time.Time
	To        *time.Time
	Statuses  []persistence.AppointmentStatus
}

func toAppointment(record persistence.Appointment, locale jalali.Locale) Appointment {
	return Appointment{
		ID:           record.ID,
		OrgID:        record.OrgID,
		ServiceID:    record.ServiceID,
		StaffID:      record.StaffID,
		ClientName:   record.ClientName,
		ClientPhone:  record.ClientPhone,
		Start:        record.Start,
		End:          record.End,
		StartLabel:   jalali.FormatDate(record.Start, locale) + " " + jalali.FormatClock(record.Start.Hour(), record.Start.Minute(), locale),
		Status:       record.Status,
		Notes:        record.Notes,
		CancelReason: record.CancelReason,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
