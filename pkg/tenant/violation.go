package tenant

import (
	"errors"
	"fmt"
)

// Kind identifies the variant of a detected isolation violation.
// The set is closed: every breach anywhere in the stack maps to one of these.
type Kind string

const (
	// KindMissingContext: no tenant could be resolved for a tenant-scoped operation.
	KindMissingContext Kind = "missing_tenant_context"

	// KindCrossTenantAccess: the principal's tenant and the client-declared
	// tenant disagree at the request boundary.
	KindCrossTenantAccess Kind = "cross_tenant_access"

	// KindResourceMismatch: a loaded resource's owning tenant does not match
	// the context tenant. Detected deeper in the call stack, typically by a
	// repository.
	KindResourceMismatch Kind = "resource_tenant_mismatch"
)

// Violation is a detected tenant isolation breach with full structured
// context. It is created once at detection time, never mutated, and consumed
// by the ViolationHandler for both audit persistence and the sanitized
// client response.
//
// Violation values carry tenant and resource identifiers; they must never be
// serialized into a client response. Only the handler may translate one into
// client-visible output.
type Violation struct {
	Kind            Kind
	UserTenant      ID     // tenant of the authenticated principal, if known
	RequestedTenant ID     // tenant the request declared or targeted, if any
	ResourceType    string // set for KindResourceMismatch
	ResourceID      string // set for KindResourceMismatch
	Operation       string // logical operation during which the breach was detected
}

// Error implements the error interface. The message is for logs and audit
// trails, not for clients.
func (v *Violation) Error() string {
	switch v.Kind {
	case KindCrossTenantAccess:
		return fmt.Sprintf("tenant violation: cross-tenant access (user=%s requested=%s op=%s)",
			v.UserTenant, v.RequestedTenant, v.Operation)
	case KindResourceMismatch:
		return fmt.Sprintf("tenant violation: resource owned by another tenant (user=%s owner=%s resource=%s/%s op=%s)",
			v.UserTenant, v.RequestedTenant, v.ResourceType, v.ResourceID, v.Operation)
	default:
		return fmt.Sprintf("tenant violation: missing tenant context (op=%s)", v.Operation)
	}
}

// NewMissingContext reports that a tenant-scoped operation ran without a
// resolved tenant.
func NewMissingContext(operation string) *Violation {
	return &Violation{Kind: KindMissingContext, Operation: operation}
}

// NewCrossTenantAccess reports a request-boundary mismatch between the
// principal's tenant and the client-declared tenant.
func NewCrossTenantAccess(userTenant, requestedTenant ID, operation string) *Violation {
	return &Violation{
		Kind:            KindCrossTenantAccess,
		UserTenant:      userTenant,
		RequestedTenant: requestedTenant,
		Operation:       operation,
	}
}

// NewResourceMismatch reports that a loaded resource belongs to a tenant
// other than the context tenant.
func NewResourceMismatch(userTenant, ownerTenant ID, resourceType, resourceID, operation string) *Violation {
	return &Violation{
		Kind:            KindResourceMismatch,
		UserTenant:      userTenant,
		RequestedTenant: ownerTenant,
		ResourceType:    resourceType,
		ResourceID:      resourceID,
		Operation:       operation,
	}
}

// AsViolation unwraps err into a *Violation if one is anywhere in its chain.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsViolation reports whether err carries a tenant isolation violation.
func IsViolation(err error) bool {
	_, ok := AsViolation(err)
	return ok
}
