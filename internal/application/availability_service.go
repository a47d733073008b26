package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
	"github.com/example/appointment-scheduler/internal/scheduler"
)

// maxRangeDays bounds range queries so one request cannot fan out into an
// unbounded number of per-day computations.
const maxRangeDays = 31

// BusinessHoursReader exposes the weekday window lookups needed by
// availability computation.
type BusinessHoursReader interface {
	GetBusinessHours(ctx context.Context, orgID string, weekday time.Weekday) (persistence.BusinessHours, error)
}

// HolidayReader exposes closure date lookups.
type HolidayReader interface {
	ListHolidaysForDate(ctx context.Context, orgID string, date time.Time) ([]persistence.Holiday, error)
}

// ServiceCatalog exposes service lookups.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (persistence.Service, error)
}

// AppointmentReader exposes booking queries.
type AppointmentReader interface {
	ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error)
}

// AvailabilityParams identifies one availability query. StaffID nil means the
// query targets the service itself rather than a specific staff member.
type AvailabilityParams struct {
	OrgID     string
	ServiceID string
	StaffID   *string
	Day       time.Time
	Locale    jalali.Locale
}

// RangeParams identifies an availability query spanning several days.
type RangeParams struct {
	OrgID     string
	ServiceID string
	StaffID   *string
	From      time.Time
	To        time.Time
	Locale    jalali.Locale
}

// AvailabilityService computes bookable slots from business hours, holidays
// and existing appointments.
type AvailabilityService struct {
	hours        BusinessHoursReader
	holidays     HolidayReader
	services     ServiceCatalog
	appointments AppointmentReader
	national     *jalali.HolidayCalendar
	cache        *availabilityCache
	now          func() time.Time
}

// NewAvailabilityService wires dependencies for availability queries. A nil
// national calendar disables national holiday suppression.
func NewAvailabilityService(hours BusinessHoursReader, holidays HolidayReader, services ServiceCatalog, appointments AppointmentReader, national *jalali.HolidayCalendar, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{
		hours:        hours,
		holidays:     holidays,
		services:     services,
		appointments: appointments,
		national:     national,
		cache:        newAvailabilityCache(30*time.Second, 256, now),
		now:          now,
	}
}

// SlotsForDay returns the availability picture of one civil day.
func (s *AvailabilityService) SlotsForDay(ctx context.Context, params AvailabilityParams) (DayAvailability, error) {
	if s == nil {
		return DayAvailability{}, fmt.Errorf("AvailabilityService is nil")
	}

	vErr := &ValidationError{}
	if params.OrgID == "" {
		vErr.add("org_id", "organization is required")
	}
	if params.ServiceID == "" {
		vErr.add("service_id", "service is required")
	}
	if vErr.HasErrors() {
		return DayAvailability{}, vErr
	}

	service, err := s.services.GetService(ctx, params.ServiceID)
	if err != nil {
		return DayAvailability{}, mapRepositoryError(err)
	}
	if !service.IsActive {
		return DayAvailability{}, &BusinessError{Code: "SERVICE_INACTIVE", Message: "service is not bookable"}
	}

	key := availabilityKey(params)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	day, err := s.buildDay(ctx, service, params)
	if err != nil {
		return DayAvailability{}, err
	}
	s.cache.Store(key, day)
	return day, nil
}

// SlotsForRange returns availability for every day in [From, To], inclusive.
func (s *AvailabilityService) SlotsForRange(ctx context.Context, params RangeParams) ([]DayAvailability, error) {
	if s == nil {
		return nil, fmt.Errorf("AvailabilityService is nil")
	}

	from := startOfDay(params.From)
	to := startOfDay(params.To)

	vErr := &ValidationError{}
	if to.Before(from) {
		vErr.add("to", "range end must not precede range start")
	} else if int(to.Sub(from).Hours()/24) >= maxRangeDays {
		vErr.add("to", fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	var result []DayAvailability
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		availability, err := s.SlotsForDay(ctx, AvailabilityParams{
			OrgID:     params.OrgID,
			ServiceID: params.ServiceID,
			StaffID:   params.StaffID,
			Day:       day,
			Locale:    params.Locale,
		})
		if err != nil {
			return nil, err
		}
		result = append(result, availability)
	}
	return result, nil
}

// InvalidateCache drops every cached day. Booking writes call this so stale
// slot lists never outlive a change to the appointment table.
func (s *AvailabilityService) InvalidateCache() {
	if s == nil {
		return
	}
	s.cache.Invalidate()
}

func (s *AvailabilityService) buildDay(ctx context.Context, service persistence.Service, params AvailabilityParams) (DayAvailability, error) {
	day := startOfDay(params.Day)
	result := DayAvailability{
		Date:       day,
		DateLabel:  jalali.FormatDate(day, params.Locale),
		JalaliDate: jalali.ToJalali(day),
		DayName:    jalali.DayName(day, params.Locale),
		IsWeekend:  jalali.Weekend(day, params.Locale),
	}

	if s.national != nil {
		if entry, ok := s.national.Classify(day); ok {
			result.IsHoliday = true
			result.HolidayName = entry.Name
		}
	}
	closures, err := s.holidays.ListHolidaysForDate(ctx, params.OrgID, day)
	if err != nil {
		return DayAvailability{}, mapRepositoryError(err)
	}
	if len(closures) > 0 {
		result.IsHoliday = true
		if result.HolidayName == "" {
			result.HolidayName = closures[0].Name
		}
	}
	if result.IsHoliday {
		return result, nil
	}

	hours, err := s.hours.GetBusinessHours(ctx, params.OrgID, day.Weekday())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return result, nil
		}
		return DayAvailability{}, mapRepositoryError(err)
	}
	if !hours.IsActive {
		return result, nil
	}

	opensAt, err := clockOnDay(day, hours.StartTime)
	if err != nil {
		return DayAvailability{}, err
	}
	closesAt, err := clockOnDay(day, hours.EndTime)
	if err != nil {
		return DayAvailability{}, err
	}
	if !closesAt.After(opensAt) {
		return result, nil
	}

	intervals, err := s.bookedIntervals(ctx, params, opensAt, closesAt)
	if err != nil {
		return DayAvailability{}, err
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	step := time.Duration(service.SlotIntervalMinutes) * time.Minute

	// Every candidate is listed; booked ones stay visible as unavailable.
	result.Open = true
	for start := opensAt; !start.Add(duration).After(closesAt); start = start.Add(step) {
		end := start.Add(duration)
		result.Slots = append(result.Slots, TimeSlot{
			Start:      start,
			End:        end,
			StartLabel: jalali.FormatClock(start.Hour(), start.Minute(), params.Locale),
			EndLabel:   jalali.FormatClock(end.Hour(), end.Minute(), params.Locale),
			Available:  scheduler.IsAvailable(start, end, intervals),
		})
	}
	return result, nil
}

// bookedIntervals loads the non-cancelled appointments competing for the same
// resource: the staff member when one is requested, otherwise the service's
// unassigned bookings.
func (s *AvailabilityService) bookedIntervals(ctx context.Context, params AvailabilityParams, windowStart, windowEnd time.Time) ([]scheduler.Interval, error) {
	filter := persistence.AppointmentFilter{
		OrgID: params.OrgID,
		From:  &windowStart,
		To:    &windowEnd,
		Statuses: []persistence.AppointmentStatus{
			persistence.StatusPending,
			persistence.StatusConfirmed,
			persistence.StatusCompleted,
		},
	}
	if params.StaffID != nil {
		filter.StaffID = params.StaffID
	} else {
		filter.ServiceID = params.ServiceID
	}

	records, err := s.appointments.ListAppointments(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	var intervals []scheduler.Interval
	for _, record := range records {
		if params.StaffID == nil && record.StaffID != nil {
			continue
		}
		intervals = append(intervals, scheduler.Interval{Start: record.Start, End: record.End})
	}
	return intervals, nil
}

func availabilityKey(params AvailabilityParams) string {
	staff := "-"
	if params.StaffID != nil {
		staff = *params.StaffID
	}
	return strings.Join([]string{
		params.OrgID,
		params.ServiceID,
		staff,
		startOfDay(params.Day).Format("2006-01-02"),
		string(params.Locale),
	}, "|")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// clockOnDay anchors a "HH:MM" wall-clock label to a civil day.
func clockOnDay(day time.Time, clock string) (time.Time, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func parseClock(clock string) (int, int, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// mapRepositoryError converts persistence sentinels into application errors.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrOverlap):
		return ErrSlotUnavailable
	default:
		return fmt.Errorf("repository failure: %w", err)
	}
}
