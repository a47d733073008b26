package application

import (
	"fmt"

	"github.com/example/appointment-scheduler/internal/persistence"
)

// allowedTransitions is the closed appointment lifecycle. COMPLETED and
// CANCELLED are terminal.
var allowedTransitions = map[persistence.AppointmentStatus][]persistence.AppointmentStatus{
	persistence.StatusPending:   {persistence.StatusConfirmed, persistence.StatusCancelled},
	persistence.StatusConfirmed: {persistence.StatusCompleted, persistence.StatusCancelled},
	persistence.StatusCompleted: {},
	persistence.StatusCancelled: {},
}

// ValidStatus reports whether the value is a known appointment status.
func ValidStatus(status persistence.AppointmentStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func canTransition(from, to persistence.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func transitionError(from, to persistence.AppointmentStatus) *BusinessError {
	return &BusinessError{
		Code:    "STATUS_TRANSITION",
		Message: fmt.Sprintf("cannot transition appointment from %s to %s", from, to),
	}
}
