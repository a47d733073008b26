package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/appointment-scheduler/internal/application"
)

// defaultRangeDays is used when a range query omits the days parameter.
const defaultRangeDays = 7

type availabilityService interface {
	SlotsForDay(ctx context.Context, params application.AvailabilityParams) (application.DayAvailability, error)
	SlotsForRange(ctx context.Context, params application.RangeParams) ([]application.DayAvailability, error)
}

// AvailabilityHandler serves slot queries.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

// NewAvailabilityHandler wires an availability handler.
func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(logger)}
}

// Day handles GET /organizations/{orgID}/availability.
func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()

	day, err := parseDate(query.Get("date"))
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDate)
		return
	}

	result, err := h.service.SlotsForDay(ctx, application.AvailabilityParams{
		OrgID:     chi.URLParam(r, "orgID"),
		ServiceID: query.Get("service_id"),
		StaffID:   optionalString(query.Get("staff_id")),
		Day:       day,
		Locale:    LocaleFromContext(ctx),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toDayAvailabilityDTO(result))
}

// Range handles GET /organizations/{orgID}/availability/range.
func (h *AvailabilityHandler) Range(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()

	from, err := parseDate(query.Get("start"))
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDate)
		return
	}
	count := defaultRangeDays
	if value := strings.TrimSpace(query.Get("days")); value != "" {
		count, err = strconv.Atoi(value)
		if err != nil || count < 1 {
			h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDays)
			return
		}
	}
	to := from.AddDate(0, 0, count-1)

	days, err := h.service.SlotsForRange(ctx, application.RangeParams{
		OrgID:     chi.URLParam(r, "orgID"),
		ServiceID: query.Get("service_id"),
		StaffID:   optionalString(query.Get("staff_id")),
		From:      from,
		To:        to,
		Locale:    LocaleFromContext(ctx),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := rangeAvailabilityDTO{Days: make([]dayAvailabilityDTO, 0, len(days))}
	for _, day := range days {
		payload.Days = append(payload.Days, toDayAvailabilityDTO(day))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.UTC)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type rangeAvailabilityDTO struct {
	Days []dayAvailabilityDTO `json:"days"`
}

type dayAvailabilityDTO struct {
	Date        string        `json:"date"`
	DateLabel   string        `json:"date_label"`
	JalaliDate  string        `json:"jalali_date"`
	DayName     string        `json:"day_name"`
	IsWeekend   bool          `json:"is_weekend"`
	IsHoliday   bool          `json:"is_holiday"`
	HolidayName string        `json:"holiday_name,omitempty"`
	Open        bool          `json:"open"`
	Slots       []timeSlotDTO `json:"slots"`
}

type timeSlotDTO struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	StartLabel string    `json:"start_label"`
	EndLabel   string    `json:"end_label"`
	Available  bool      `json:"available"`
}

func toDayAvailabilityDTO(day application.DayAvailability) dayAvailabilityDTO {
	dto := dayAvailabilityDTO{
		Date:        day.Date.Format("2006-01-02"),
		DateLabel:   day.DateLabel,
		JalaliDate:  day.JalaliDate.String(),
		DayName:     day.DayName,
		IsWeekend:   day.IsWeekend,
		IsHoliday:   day.IsHoliday,
		HolidayName: day.HolidayName,
		Open:        day.Open,
		Slots:       make([]timeSlotDTO, 0, len(day.Slots)),
	}
	for _, slot := range day.Slots {
		dto.Slots = append(dto.Slots, timeSlotDTO{
			Start:      slot.Start,
			End:        slot.End,
			StartLabel: slot.StartLabel,
			EndLabel:   slot.EndLabel,
			Available:  slot.Available,
		})
	}
	return dto
}
