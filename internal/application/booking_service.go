package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
	"github.com/example/appointment-scheduler/internal/recurrence"
)

const (
	// maxSeriesOccurrences caps recurring bookings per request.
	maxSeriesOccurrences = 52
	// maxSeriesHorizonDays caps how far into the future a series may reach.
	maxSeriesHorizonDays = 366
)

// AppointmentStore captures the persistence interactions needed by booking
// operations.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, appointment persistence.Appointment) error
	GetAppointment(ctx context.Context, id string) (persistence.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, from, to persistence.AppointmentStatus, reason *string, updatedAt time.Time) (persistence.Appointment, error)
	ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error)
	CompleteElapsed(ctx context.Context, before time.Time) (int, error)
}

// AvailabilityInvalidator lets booking writes drop cached slot computations.
type AvailabilityInvalidator interface {
	InvalidateCache()
}

// BookingService orchestrates validation, conflict handling and persistence
// for appointment operations.
type BookingService struct {
	appointments AppointmentStore
	services     ServiceCatalog
	availability AvailabilityInvalidator
	idGenerator  func() string
	now          func() time.Time
}

// NewBookingService wires dependencies for booking operations. availability
// may be nil when no cache needs invalidation.
func NewBookingService(appointments AppointmentStore, services ServiceCatalog, availability AvailabilityInvalidator, idGenerator func() string, now func() time.Time) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		appointments: appointments,
		services:     services,
		availability: availability,
		idGenerator:  idGenerator,
		now:          now,
	}
}

// CreateAppointment books a single slot. The repository re-checks for
// overlaps inside its write transaction, so a slot lost between the caller's
// availability query and this call surfaces as ErrSlotUnavailable rather
// than a double booking.
func (s *BookingService) CreateAppointment(ctx context.Context, input BookingInput, locale jalali.Locale) (Appointment, error) {
	if s == nil {
		return Appointment{}, fmt.Errorf("BookingService is nil")
	}

	service, err := s.validateBooking(ctx, &input)
	if err != nil {
		return Appointment{}, err
	}

	record := s.newRecord(input, service)
	if err := s.appointments.CreateAppointment(ctx, record); err != nil {
		return Appointment{}, mapRepositoryError(err)
	}
	s.invalidate()
	return toAppointment(record, locale), nil
}

// CreateRecurring books every occurrence of a recurrence rule anchored at the
// input start. Occurrences that collide with existing bookings are skipped
// and reported; the rest are created.
func (s *BookingService) CreateRecurring(ctx context.Context, input BookingInput, ruleValue string, locale jalali.Locale) (RecurringResult, error) {
	if s == nil {
		return RecurringResult{}, fmt.Errorf("BookingService is nil")
	}

	service, err := s.validateBooking(ctx, &input)
	if err != nil {
		return RecurringResult{}, err
	}

	rule, err := recurrence.ParseRule(ruleValue)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("recurrence", err.Error())
		return RecurringResult{}, vErr
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	horizon := s.now().AddDate(0, 0, maxSeriesHorizonDays)
	occurrences, err := recurrence.CreateSeries(input.Start, input.Start.Add(duration), rule, recurrence.Bounds{
		MaxCount: maxSeriesOccurrences,
		MaxDate:  &horizon,
	})
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("recurrence", err.Error())
		return RecurringResult{}, vErr
	}

	var result RecurringResult
	for _, occurrence := range occurrences {
		record := s.newRecord(input, service)
		record.Start = occurrence.Start
		record.End = occurrence.End

		err := s.appointments.CreateAppointment(ctx, record)
		switch {
		case err == nil:
			result.Created = append(result.Created, toAppointment(record, locale))
		case errors.Is(err, persistence.ErrOverlap):
			result.Skipped = append(result.Skipped, SkippedOccurrence{
				Start:  occurrence.Start,
				Reason: "slot already booked",
			})
		default:
			return result, mapRepositoryError(err)
		}
	}

	if len(result.Created) > 0 {
		s.invalidate()
	}
	return result, nil
}

// UpdateStatus transitions an appointment through its lifecycle. Terminal
// appointments and unknown transitions are rejected with a BusinessError.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status persistence.AppointmentStatus, reason *string, locale jalali.Locale) (Appointment, error) {
	if s == nil {
		return Appointment{}, fmt.Errorf("BookingService is nil")
	}

	vErr := &ValidationError{}
	if id == "" {
		vErr.add("id", "appointment id is required")
	}
	if !ValidStatus(status) {
		vErr.add("status", fmt.Sprintf("unknown status %q", status))
	}
	if vErr.HasErrors() {
		return Appointment{}, vErr
	}

	current, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, mapRepositoryError(err)
	}
	if !canTransition(current.Status, status) {
		return Appointment{}, transitionError(current.Status, status)
	}

	updated, err := s.appointments.UpdateAppointmentStatus(ctx, id, current.Status, status, reason, s.now().UTC())
	if err != nil {
		// The stored status moved between the read above and the write. The
		// repository checked again inside its transaction, so a racing legal
		// transition cannot slip through.
		if errors.Is(err, persistence.ErrStaleStatus) {
			return Appointment{}, &BusinessError{
				Code:    "STATUS_TRANSITION",
				Message: "appointment status changed concurrently",
			}
		}
		return Appointment{}, mapRepositoryError(err)
	}

	// Cancellations free the slot, so cached availability is stale.
	if status == persistence.StatusCancelled {
		s.invalidate()
	}
	return toAppointment(updated, locale), nil
}

// GetAppointment retrieves a single booking.
func (s *BookingService) GetAppointment(ctx context.Context, id string, locale jalali.Locale) (Appointment, error) {
	if s == nil {
		return Appointment{}, fmt.Errorf("BookingService is nil")
	}
	record, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, mapRepositoryError(err)
	}
	return toAppointment(record, locale), nil
}

// ListAppointments returns bookings matching the parameters, ordered by
// start time.
func (s *BookingService) ListAppointments(ctx context.Context, params ListAppointmentsParams, locale jalali.Locale) ([]Appointment, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}

	vErr := &ValidationError{}
	if params.OrgID == "" {
		vErr.add("org_id", "organization is required")
	}
	for _, status := range params.Statuses {
		if !ValidStatus(status) {
			vErr.add("status", fmt.Sprintf("unknown status %q", status))
		}
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	records, err := s.appointments.ListAppointments(ctx, persistence.AppointmentFilter{
		OrgID:     params.OrgID,
		ServiceID: params.ServiceID,
		StaffID:   params.StaffID,
		From:      params.From,
		To:        params.To,
		Statuses:  params.Statuses,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	result := make([]Appointment, 0, len(records))
	for _, record := range records {
		result = append(result, toAppointment(record, locale))
	}
	return result, nil
}

// CompleteElapsed marks confirmed appointments whose end time has passed as
// completed and reports how many changed.
func (s *BookingService) CompleteElapsed(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("BookingService is nil")
	}
	changed, err := s.appointments.CompleteElapsed(ctx, s.now().UTC())
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	if changed > 0 {
		s.invalidate()
	}
	return changed, nil
}

// validateBooking checks the input and resolves the service. The input's
// name and phone are normalized in place.
func (s *BookingService) validateBooking(ctx context.Context, input *BookingInput) (persistence.Service, error) {
	input.ClientName = strings.TrimSpace(input.ClientName)
	input.ClientPhone = strings.TrimSpace(input.ClientPhone)

	vErr := &ValidationError{}
	if input.OrgID == "" {
		vErr.add("org_id", "organization is required")
	}
	if input.ServiceID == "" {
		vErr.add("service_id", "service is required")
	}
	if input.ClientName == "" {
		vErr.add("client_name", "client name is required")
	}
	if input.ClientPhone == "" {
		vErr.add("client_phone", "client phone is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start time is required")
	} else if startOfDay(input.Start).Before(startOfDay(s.now())) {
		// Same-day bookings stay valid even when the clock time has passed.
		vErr.add("start", "start date must not be in the past")
	}
	if vErr.HasErrors() {
		return persistence.Service{}, vErr
	}

	service, err := s.services.GetService(ctx, input.ServiceID)
	if err != nil {
		return persistence.Service{}, mapRepositoryError(err)
	}
	if !service.IsActive {
		return persistence.Service{}, &BusinessError{Code: "SERVICE_INACTIVE", Message: "service is not bookable"}
	}
	if service.OrgID != input.OrgID {
		return persistence.Service{}, ErrNotFound
	}
	return service, nil
}

func (s *BookingService) newRecord(input BookingInput, service persistence.Service) persistence.Appointment {
	now := s.now().UTC()
	return persistence.Appointment{
		ID:          s.idGenerator(),
		OrgID:       input.OrgID,
		ServiceID:   input.ServiceID,
		StaffID:     input.StaffID,
		ClientName:  input.ClientName,
		ClientPhone: input.ClientPhone,
		Start:       input.Start,
		End:         input.Start.Add(time.Duration(service.DurationMinutes) * time.Minute),
		Status:      persistence.StatusPending,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *BookingService) invalidate() {
	if s.availability != nil {
		s.availability.InvalidateCache()
	}
}
