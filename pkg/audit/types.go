package audit

import (
	"fmt"
	"time"
)

// Event is a single security-relevant occurrence. For tenant isolation
// violations every field that names a tenant or resource is populated here
// and nowhere else: the event is the one place where full detail is allowed.
type Event struct {
	ID              string         `json:"id"`
	CorrelationID   string         `json:"correlation_id,omitempty"`
	Action          string         `json:"action"`
	UserTenant      string         `json:"user_tenant,omitempty"`
	RequestedTenant string         `json:"requested_tenant,omitempty"`
	Resource        string         `json:"resource,omitempty"`
	ResourceID      string         `json:"resource_id,omitempty"`
	Operation       string         `json:"operation,omitempty"`
	RequestID       string         `json:"request_id,omitempty"`
	IP              string         `json:"ip,omitempty"`
	Path            string         `json:"path,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithCorrelationID links the event to a client-visible correlation identifier.
func WithCorrelationID(id string) EventOption {
	return func(e *Event) {
		e.CorrelationID = id
	}
}

// WithTenants sets the principal's tenant and the tenant the request
// declared or targeted.
func WithTenants(userTenant, requestedTenant string) EventOption {
	return func(e *Event) {
		e.UserTenant = userTenant
		e.RequestedTenant = requestedTenant
	}
}

// WithResource sets the resource type and ID.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithOperation names the logical operation during which the event occurred.
func WithOperation(op string) EventOption {
	return func(e *Event) {
		e.Operation = op
	}
}

// WithPath records the request path.
func WithPath(path string) EventOption {
	return func(e *Event) {
		e.Path = path
	}
}

// WithMetadata adds free-form metadata to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
