package appointment

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrSlotConflict      = errors.New("slot already booked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("appointment not found")
	ErrBusy              = errors.New("booking lock timeout")
)
