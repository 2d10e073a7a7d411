package notification

import (
	"context"
	"log"

	"mediconnect/internal/domain"
	"mediconnect/internal/realtime"
)

// Dispatcher turns committed domain events into durable notification
// records and live pushes. The two paths are independent: a failed store
// write is logged and the push still goes out, and vice versa. Neither
// failure ever reaches the request that produced the event.
type Dispatcher struct {
	store  *Service
	pusher Pusher
}

func NewDispatcher(store *Service, pusher Pusher) *Dispatcher {
	return &Dispatcher{store: store, pusher: pusher}
}

func (d *Dispatcher) Publish(ctx context.Context, e domain.Event) {
	recipients := e.Recipients()

	if _, err := d.store.Record(ctx, e); err != nil {
		log.Printf("notification: failed to persist for event type=%s appointment=%s: %v",
			e.Type, e.AppointmentID, err)
	}

	for _, r := range recipients {
		d.pusher.Publish([]domain.Recipient{r}, realtime.Push{
			Type:          string(e.Type),
			AppointmentID: e.AppointmentID,
			NewStatus:     string(e.NewStatus),
			Message:       RenderMessage(e, r),
		})
	}
}
