package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
)

type availabilityServiceStub struct {
	day        application.DayAvailability
	days       []application.DayAvailability
	err        error
	lastParams application.AvailabilityParams
	lastRange  application.RangeParams
}

func (s *availabilityServiceStub) SlotsForDay(ctx context.Context, params application.AvailabilityParams) (application.DayAvailability, error) {
	s.lastParams = params
	if s.err != nil {
		return application.DayAvailability{}, s.err
	}
	return s.day, nil
}

func (s *availabilityServiceStub) SlotsForRange(ctx context.Context, params application.RangeParams) ([]application.DayAvailability, error) {
	s.lastRange = params
	if s.err != nil {
		return nil, s.err
	}
	return s.days, nil
}

type bookingServiceStub struct {
	appointment application.Appointment
	recurring   application.RecurringResult
	list        []application.Appointment
	err         error
	lastInput   application.BookingInput
	lastStatus  persistence.AppointmentStatus
	lastLocale  jalali.Locale
}

func (s *bookingServiceStub) CreateAppointment(ctx context.Context, input application.BookingInput, locale jalali.Locale) (application.Appointment, error) {
	s.lastInput = input
	s.lastLocale = locale
	if s.err != nil {
		return application.Appointment{}, s.err
	}
	return s.appointment, nil
}

func (s *bookingServiceStub) CreateRecurring(ctx context.Context, input application.BookingInput, rule string, locale jalali.Locale) (application.RecurringResult, error) {
	if s.err != nil {
		return application.RecurringResult{}, s.err
	}
	return s.recurring, nil
}

func (s *bookingServiceStub) UpdateStatus(ctx context.Context, id string, status persistence.AppointmentStatus, reason *string, locale jalali.Locale) (application.Appointment, error) {
	s.lastStatus = status
	if s.err != nil {
		return application.Appointment{}, s.err
	}
	return s.appointment, nil
}

func (s *bookingServiceStub) GetAppointment(ctx context.Context, id string, locale jalali.Locale) (application.Appointment, error) {
	if s.err != nil {
		return application.Appointment{}, s.err
	}
	return s.appointment, nil
}

func (s *bookingServiceStub) ListAppointments(ctx context.Context, params application.ListAppointmentsParams, locale jalali.Locale) ([]application.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func newTestRouter(availability *availabilityServiceStub, booking *bookingServiceStub) http.Handler {
	return NewRouter(RouterConfig{
		Availability: NewAvailabilityHandler(availability, nil),
		Appointments: NewAppointmentHandler(booking, nil),
	})
}

func TestAvailabilityDay(t *testing.T) {
	t.Parallel()

	stub := &availabilityServiceStub{
		day: application.DayAvailability{
			Date:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			JalaliDate: jalali.Date{Year: 1405, Month: 6, Day: 11},
			DayName:    "چهارشنبه",
			Open:       true,
			Slots: []application.TimeSlot{{
				Start:      time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
				StartLabel: "۰۹:۰۰",
				EndLabel:   "۱۰:۰۰",
				Available:  true,
			}, {
				Start:      time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
				StartLabel: "۱۰:۰۰",
				EndLabel:   "۱۱:۰۰",
				Available:  false,
			}},
		},
	}
	router := newTestRouter(stub, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/availability?service_id=svc-1&date=2026-09-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastParams.OrgID != "org-1" || stub.lastParams.ServiceID != "svc-1" {
		t.Fatalf("unexpected params: %+v", stub.lastParams)
	}
	if stub.lastParams.Locale != jalali.LocalePersian {
		t.Fatalf("expected default Persian locale, got %q", stub.lastParams.Locale)
	}

	var payload dayAvailabilityDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.JalaliDate != "1405/06/11" {
		t.Fatalf("expected Jalali date label, got %q", payload.JalaliDate)
	}
	if len(payload.Slots) != 2 || payload.Slots[0].StartLabel != "۰۹:۰۰" {
		t.Fatalf("unexpected slots payload: %+v", payload.Slots)
	}
	if !payload.Slots[0].Available || payload.Slots[1].Available {
		t.Fatalf("expected per-slot availability flags, got %+v", payload.Slots)
	}
}

func TestAvailabilityRange(t *testing.T) {
	t.Parallel()

	stub := &availabilityServiceStub{
		days: []application.DayAvailability{
			{Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)},
		},
	}
	router := newTestRouter(stub, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/availability/range?service_id=svc-1&start=2026-09-02&days=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.lastRange.From.Equal(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range start: %v", stub.lastRange.From)
	}
	if !stub.lastRange.To.Equal(time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected the day count to set the range end, got %v", stub.lastRange.To)
	}

	var payload rangeAvailabilityDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(payload.Days))
	}
}

func TestAvailabilityRangeRejectsBadDayCount(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&availabilityServiceStub{}, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/availability/range?service_id=svc-1&start=2026-09-02&days=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAvailabilityDayLocaleOverride(t *testing.T) {
	t.Parallel()

	stub := &availabilityServiceStub{}
	router := newTestRouter(stub, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/availability?service_id=svc-1&date=2026-09-02&locale=en", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if stub.lastParams.Locale != jalali.LocaleEnglish {
		t.Fatalf("expected English locale, got %q", stub.lastParams.Locale)
	}
}

func TestAvailabilityDayRejectsBadDate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&availabilityServiceStub{}, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/availability?service_id=svc-1&date=tomorrow", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAppointment(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{
		appointment: application.Appointment{
			ID:     "apt-1",
			Status: persistence.StatusPending,
		},
	}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	body := `{"org_id":"org-1","service_id":"svc-1","client_name":"Sara","client_phone":"09120000000","date":"2026-09-02","time":"09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !booking.lastInput.Start.Equal(time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date and time to combine into the start instant, got %v", booking.lastInput.Start)
	}
	var payload appointmentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.ID != "apt-1" || payload.Status != "PENDING" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCreateAppointmentRejectsMalformedTime(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&availabilityServiceStub{}, &bookingServiceStub{})

	body := `{"org_id":"org-1","service_id":"svc-1","client_name":"Sara","client_phone":"09120000000","date":"2026-09-02","time":"nine"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Errors["time"] != "قالب زمان باید HH:MM باشد." {
		t.Fatalf("expected a localized time field error, got %+v", payload.Errors)
	}
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{err: application.ErrSlotUnavailable}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	body := `{"org_id":"org-1","service_id":"svc-1","client_name":"Sara","client_phone":"09120000000","date":"2026-09-02","time":"09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.ErrorCode != "SLOT_CONFLICT" {
		t.Fatalf("expected SLOT_CONFLICT, got %q", payload.ErrorCode)
	}
}

func TestCreateAppointmentValidationLocalized(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{
		"client_name": "client name is required",
	}}
	booking := &bookingServiceStub{err: vErr}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"date":"2026-09-02","time":"09:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Errors["client_name"] != "نام مراجعه‌کننده الزامی است." {
		t.Fatalf("expected localized message, got %q", payload.Errors["client_name"])
	}
}

func TestCreateRecurringAppointment(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{
		recurring: application.RecurringResult{
			Created: []application.Appointment{{ID: "apt-1"}, {ID: "apt-2"}},
			Skipped: []application.SkippedOccurrence{{
				Start:  time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC),
				Reason: "slot already booked",
			}},
		},
	}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	body := `{"org_id":"org-1","service_id":"svc-1","client_name":"Sara","client_phone":"09120000000","date":"2026-09-02","time":"09:00","recurrence":"FREQ=WEEKLY;COUNT=3"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload recurringDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Created) != 2 || len(payload.Skipped) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{
		appointment: application.Appointment{ID: "apt-1", Status: persistence.StatusConfirmed},
	}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/apt-1/status", strings.NewReader(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if booking.lastStatus != persistence.StatusConfirmed {
		t.Fatalf("expected normalized CONFIRMED status, got %q", booking.lastStatus)
	}
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{
		err: &application.BusinessError{Code: "STATUS_TRANSITION", Message: "cannot transition appointment from COMPLETED to CANCELLED"},
	}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/apt-1/status", strings.NewReader(`{"status":"CANCELLED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.ErrorCode != "STATUS_TRANSITION" {
		t.Fatalf("expected STATUS_TRANSITION, got %q", payload.ErrorCode)
	}
}

func TestGetAppointmentNotFound(t *testing.T) {
	t.Parallel()

	booking := &bookingServiceStub{err: application.ErrNotFound}
	router := newTestRouter(&availabilityServiceStub{}, booking)

	req := httptest.NewRequest(http.MethodGet, "/appointments/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&availabilityServiceStub{}, &bookingServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
