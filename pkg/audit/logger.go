package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists audit events. Implementations must be safe for concurrent
// use. A database-backed implementation should treat Store as a single
// insert; batching belongs behind NewAsyncStorage.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Logger records security events, populating request-scoped fields from
// context via the configured extractors.
type Logger interface {
	Record(ctx context.Context, action string, opts ...EventOption) error
}

// contextExtractor extracts string values from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

type logger struct {
	storage            Storage
	requestIDExtractor contextExtractor
	ipExtractor        contextExtractor
}

// Option configures Logger behavior during initialization.
type Option func(*logger)

func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.requestIDExtractor = fn
	}
}

func WithIPExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.ipExtractor = fn
	}
}

// NewLogger creates a new audit logger backed by storage.
func NewLogger(storage Storage, opts ...Option) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record stores a security event.
func (l *logger) Record(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.Action = action

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Store(ctx, event)
}

// eventFromContext extracts request-scoped event fields from context.
func (l *logger) eventFromContext(ctx context.Context) Event {
	event := Event{}

	if l.requestIDExtractor != nil {
		if requestID, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = requestID
		}
	}

	if l.ipExtractor != nil {
		if ip, ok := l.ipExtractor(ctx); ok {
			event.IP = ip
		}
	}

	return event
}
