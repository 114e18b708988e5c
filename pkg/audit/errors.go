package audit

import "errors"

var (
	// ErrEventValidation is returned when an event is missing required fields.
	ErrEventValidation = errors.New("audit event validation failed")

	// ErrBufferFull is returned by the async storage when its queue is full
	// and the event had to be dropped.
	ErrBufferFull = errors.New("audit buffer full, event dropped")

	// ErrStorageClosed is returned when storing after Close.
	ErrStorageClosed = errors.New("audit storage closed")
)
