package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/logging"
)

var (
	errBadRequestBody       = errors.New("قالب درخواست نامعتبر است.")
	errInvalidAppointmentID = errors.New("شناسه نوبت نامعتبر است.")
	errInvalidDate          = errors.New("تاریخ درخواستی نامعتبر است.")
	errInvalidDays          = errors.New("تعداد روزهای درخواستی نامعتبر است.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "منبع درخواستی یافت نشد."})
	case errors.Is(err, application.ErrSlotUnavailable):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "SLOT_CONFLICT",
			Message:   "این زمان پیش‌تر رزرو شده است. لطفا زمان دیگری انتخاب کنید.",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: "VALIDATION",
				Message:   "اطلاعات واردشده نامعتبر است.",
				Errors:    localizeValidationErrors(vErr),
			})
			return
		}

		var bErr *application.BusinessError
		if errors.As(err, &bErr) {
			r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
				ErrorCode: bErr.Code,
				Message:   localizeBusinessError(bErr),
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "خطای داخلی سرور رخ داده است."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "درخواست نامعتبر است."
	case http.StatusNotFound:
		return "منبع درخواستی یافت نشد."
	case http.StatusConflict:
		return "درخواست با وضعیت فعلی منبع در تضاد است."
	case http.StatusUnprocessableEntity:
		return "اطلاعات واردشده نامعتبر است."
	default:
		return "خطای داخلی سرور رخ داده است."
	}
}

func localizeBusinessError(err *application.BusinessError) string {
	switch err.Code {
	case "STATUS_TRANSITION":
		return "تغییر وضعیت نوبت در حالت فعلی مجاز نیست."
	case "SERVICE_INACTIVE":
		return "این خدمت در حال حاضر قابل رزرو نیست."
	default:
		return err.Message
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "organization is required":
		return "شناسه سازمان الزامی است."
	case "service is required":
		return "انتخاب خدمت الزامی است."
	case "client name is required":
		return "نام مراجعه‌کننده الزامی است."
	case "client phone is required":
		return "شماره تماس مراجعه‌کننده الزامی است."
	case "start time is required":
		return "زمان شروع الزامی است."
	case "start date must not be in the past":
		return "تاریخ شروع نمی‌تواند در گذشته باشد."
	case "date is required":
		return "تاریخ الزامی است."
	case "date must be formatted YYYY-MM-DD":
		return "قالب تاریخ باید YYYY-MM-DD باشد."
	case "time is required":
		return "زمان الزامی است."
	case "time must be formatted HH:MM":
		return "قالب زمان باید HH:MM باشد."
	case "appointment id is required":
		return "شناسه نوبت الزامی است."
	case "range end must not precede range start":
		return "پایان بازه نمی‌تواند پیش از آغاز آن باشد."
	default:
		if strings.HasPrefix(message, "unknown status") {
			return "وضعیت درخواستی شناخته‌شده نیست."
		}
		if strings.HasPrefix(message, "range must not exceed") {
			return "بازه درخواستی بیش از حد مجاز است."
		}
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
