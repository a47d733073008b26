// Package http provides the HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - GET /organizations/{orgID}/availability?service_id=&staff_id=&date=YYYY-MM-DD:
//     the availability picture of one day as the `dayAvailabilityDTO` defined
//     in availability_handler.go, including Jalali date labels and every slot
//     candidate with its availability flag.
//   - GET /organizations/{orgID}/availability/range?service_id=&start=&days=:
//     the same picture for the given number of days (at most 31) from the
//     start date.
//   - POST /appointments: books a slot using the `appointmentRequest` payload
//     defined in appointment_handler.go (`date` YYYY-MM-DD plus `time` HH:MM).
//     A request carrying a `recurrence` rule books the whole series and
//     reports skipped occurrences.
//   - GET /appointments?org_id=&service_id=&staff_id=&from=&to=&status=: lists
//     bookings ordered by start time.
//   - GET /appointments/{id}: fetches one booking.
//   - PATCH /appointments/{id}/status: transitions a booking through its
//     lifecycle. Illegal transitions answer 409; a lost slot answers 409 with
//     error code SLOT_CONFLICT.
//
// The response locale comes from the `locale` query parameter or the
// Accept-Language header and defaults to Persian; error messages are
// localized accordingly. Request/response DTOs live alongside their
// respective handlers so tests and documentation share the same ground truth.
package http
