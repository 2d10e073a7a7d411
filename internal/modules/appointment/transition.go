package appointment

import "mediconnect/internal/domain"

// allowedTransitions is the whole appointment state machine. Rejected,
// completed and cancelled are terminal: they have no outgoing edges.
var allowedTransitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.AppointmentPending: {
		domain.AppointmentAccepted,
		domain.AppointmentRejected,
		domain.AppointmentCancelled,
	},
	domain.AppointmentAccepted: {
		domain.AppointmentCompleted,
		domain.AppointmentCancelled,
	},
}

func canTransition(from, to domain.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
