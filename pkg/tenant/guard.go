package tenant

import "context"

// CheckResource validates that a loaded resource belongs to the context
// tenant. Repositories call it immediately after loading a row and before
// returning or mutating it, so a cross-tenant read is detected even when the
// query itself was not tenant-filtered.
//
// Returns nil when the owner matches; a missing-context violation when no
// tenant is resolved; a resource-mismatch violation otherwise. The returned
// violation carries the resource identity for the audit trail - callers must
// propagate it unchanged to the ViolationHandler, never log-and-continue.
func CheckResource(ctx context.Context, operation, resourceType, resourceID string, owner ID) error {
	current, ok := FromContext(ctx)
	if !ok {
		return NewMissingContext(operation)
	}
	if owner != current {
		return NewResourceMismatch(current, owner, resourceType, resourceID, operation)
	}
	return nil
}
