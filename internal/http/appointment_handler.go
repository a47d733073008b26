package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence"
)

type bookingService interface {
	CreateAppointment(ctx context.Context, input application.BookingInput, locale jalali.Locale) (application.Appointment, error)
	CreateRecurring(ctx context.Context, input application.BookingInput, rule string, locale jalali.Locale) (application.RecurringResult, error)
	UpdateStatus(ctx context.Context, id string, status persistence.AppointmentStatus, reason *string, locale jalali.Locale) (application.Appointment, error)
	GetAppointment(ctx context.Context, id string, locale jalali.Locale) (application.Appointment, error)
	ListAppointments(ctx context.Context, params application.ListAppointmentsParams, locale jalali.Locale) ([]application.Appointment, error)
}

// AppointmentHandler serves booking operations.
type AppointmentHandler struct {
	service   bookingService
	responder responder
}

// NewAppointmentHandler wires an appointment handler.
func NewAppointmentHandler(service bookingService, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{service: service, responder: newResponder(logger)}
}

// Create handles POST /appointments. A request carrying a recurrence rule
// books the whole series and reports skipped occurrences.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	locale := LocaleFromContext(ctx)
	start, vErr := req.startTime()
	if vErr != nil {
		h.responder.handleServiceError(ctx, w, vErr)
		return
	}
	input := req.toInput(start)

	if rule := strings.TrimSpace(req.Recurrence); rule != "" {
		result, err := h.service.CreateRecurring(ctx, input, rule, locale)
		if err != nil {
			h.responder.handleServiceError(ctx, w, err)
			return
		}
		h.responder.writeJSON(ctx, w, http.StatusCreated, toRecurringDTO(result))
		return
	}

	created, err := h.service.CreateAppointment(ctx, input, locale)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusCreated, toAppointmentDTO(created))
}

// Get handles GET /appointments/{id}.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	appointment, err := h.service.GetAppointment(ctx, id, LocaleFromContext(ctx))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, toAppointmentDTO(appointment))
}

// List handles GET /appointments.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()

	params := application.ListAppointmentsParams{
		OrgID:     query.Get("org_id"),
		ServiceID: query.Get("service_id"),
		StaffID:   optionalString(query.Get("staff_id")),
	}
	if value := strings.TrimSpace(query.Get("from")); value != "" {
		from, err := parseDate(value)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDate)
			return
		}
		params.From = &from
	}
	if value := strings.TrimSpace(query.Get("to")); value != "" {
		to, err := parseDate(value)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDate)
			return
		}
		// The store filter is boundary-inclusive, so the range must stop
		// just short of the next civil day.
		end := to.AddDate(0, 0, 1).Add(-time.Second)
		params.To = &end
	}
	for _, status := range query["status"] {
		params.Statuses = append(params.Statuses, persistence.AppointmentStatus(strings.ToUpper(strings.TrimSpace(status))))
	}

	appointments, err := h.service.ListAppointments(ctx, params, LocaleFromContext(ctx))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := appointmentListDTO{Appointments: make([]appointmentDTO, 0, len(appointments))}
	for _, appointment := range appointments {
		payload.Appointments = append(payload.Appointments, toAppointmentDTO(appointment))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

// UpdateStatus handles PATCH /appointments/{id}/status.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	status := persistence.AppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	updated, err := h.service.UpdateStatus(ctx, id, status, optionalString(req.Reason), LocaleFromContext(ctx))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, toAppointmentDTO(updated))
}

type appointmentRequest struct {
	OrgID       string `json:"org_id"`
	ServiceID   string `json:"service_id"`
	StaffID     string `json:"staff_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
	Recurrence  string `json:"recurrence"`
}

// startTime combines the civil date and wall-clock fields into one instant.
// Malformed fields come back as field level validation errors rather than a
// generic bad-request.
func (r appointmentRequest) startTime() (time.Time, *application.ValidationError) {
	fields := make(map[string]string)

	day, err := parseDate(r.Date)
	if strings.TrimSpace(r.Date) == "" {
		fields["date"] = "date is required"
	} else if err != nil {
		fields["date"] = "date must be formatted YYYY-MM-DD"
	}

	clock, err := time.Parse("15:04", strings.TrimSpace(r.Time))
	if strings.TrimSpace(r.Time) == "" {
		fields["time"] = "time is required"
	} else if err != nil {
		fields["time"] = "time must be formatted HH:MM"
	}

	if len(fields) > 0 {
		return time.Time{}, &application.ValidationError{FieldErrors: fields}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func (r appointmentRequest) toInput(start time.Time) application.BookingInput {
	return application.BookingInput{
		OrgID:       r.OrgID,
		ServiceID:   r.ServiceID,
		StaffID:     optionalString(r.StaffID),
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Start:       start,
		Notes:       optionalString(r.Notes),
	}
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type appointmentListDTO struct {
	Appointments []appointmentDTO `json:"appointments"`
}

type appointmentDTO struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	ServiceID    string    `json:"service_id"`
	StaffID      *string   `json:"staff_id,omitempty"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	StartLabel   string    `json:"start_label"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CancelReason *string   `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAppointmentDTO(appointment application.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:           appointment.ID,
		OrgID:        appointment.OrgID,
		ServiceID:    appointment.ServiceID,
		StaffID:      appointment.StaffID,
		ClientName:   appointment.ClientName,
		ClientPhone:  appointment.ClientPhone,
		Start:        appointment.Start,
		End:          appointment.End,
		StartLabel:   appointment.StartLabel,
		Status:       string(appointment.Status),
		Notes:        appointment.Notes,
		CancelReason: appointment.CancelReason,
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}
}

type recurringDTO struct {
	Created []appointmentDTO       `json:"created"`
	Skipped []skippedOccurrenceDTO `json:"skipped"`
}

type skippedOccurrenceDTO struct {
	Start  time.Time `json:"start"`
	Reason string    `json:"reason"`
}

func toRecurringDTO(result application.RecurringResult) recurringDTO {
	dto := recurringDTO{
		Created: make([]appointmentDTO, 0, len(result.Created)),
		Skipped: make([]skippedOccurrenceDTO, 0, len(result.Skipped)),
	}
	for _, appointment := range result.Created {
		dto.Created = append(dto.Created, toAppointmentDTO(appointment))
	}
	for _, skipped := range result.Skipped {
		dto.Skipped = append(dto.Skipped, skippedOccurrenceDTO{Start: skipped.Start, Reason: skipped.Reason})
	}
	return dto
}
