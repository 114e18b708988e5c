package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncOptions configures the buffering behavior of the async storage.
type AsyncOptions struct {
	BufferSize     int           // Max events queued in memory before drops begin
	StorageTimeout time.Duration // Per-event storage timeout
	Logger         *slog.Logger  // Destination for drop/failure diagnostics
}

// AsyncStorage decorates a Storage so that Store never blocks the request
// path. Events are queued and written by a background worker.
//
// Delivery is best-effort: when the buffer is full the event is dropped and
// the drop is logged locally. A dropped or failed audit write must never
// change the outcome of the request that produced it; callers treat Store
// errors as diagnostics, not as control flow.
type AsyncStorage struct {
	inner   Storage
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewAsyncStorage wraps inner with a buffered background writer.
func NewAsyncStorage(inner Storage, opts AsyncOptions) *AsyncStorage {
	if inner == nil {
		panic("audit: inner storage cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	as := &AsyncStorage{
		inner:   inner,
		events:  make(chan Event, opts.BufferSize),
		done:    make(chan struct{}),
		log:     opts.Logger,
		timeout: opts.StorageTimeout,
	}

	as.wg.Add(1)
	go as.worker()

	return as
}

// Store enqueues the event without blocking. The passed context is not
// retained: the background write runs under its own timeout so a canceled
// request cannot abort its own audit trail.
func (as *AsyncStorage) Store(_ context.Context, event Event) error {
	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return ErrStorageClosed
	}
	as.mu.Unlock()

	select {
	case as.events <- event:
		return nil
	default:
		as.log.Error("audit event dropped, buffer full",
			slog.String("action", event.Action),
			slog.String("correlation_id", event.CorrelationID),
		)
		return ErrBufferFull
	}
}

func (as *AsyncStorage) worker() {
	defer as.wg.Done()

	for {
		select {
		case event := <-as.events:
			as.store(event)
		case <-as.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case event := <-as.events:
					as.store(event)
				default:
					return
				}
			}
		}
	}
}

func (as *AsyncStorage) store(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), as.timeout)
	defer cancel()

	if err := as.inner.Store(ctx, event); err != nil {
		as.log.Error("audit event write failed",
			slog.String("action", event.Action),
			slog.String("correlation_id", event.CorrelationID),
			slog.Any("error", err),
		)
	}
}

// Close stops the worker after draining queued events.
func (as *AsyncStorage) Close() error {
	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return nil
	}
	as.closed = true
	as.mu.Unlock()

	close(as.done)
	as.wg.Wait()
	return nil
}
