// Package workorders is the maintenance work-order slice of the
// facility-management backend. It is deliberately thin on business rules:
// its purpose is to wire the tenant isolation core end to end - every load
// goes through the resource guard, every cached read through the
// tenant-aware cache, and every detected breach to the violation handler.
package workorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// ResourceType identifies work orders in violation and audit records.
const ResourceType = "workorder"

// Status is the lifecycle state of a work order.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// WorkOrder is a maintenance task raised against a school facility asset.
type WorkOrder struct {
	ID          uuid.UUID `json:"id"`
	TenantID    tenant.ID `json:"tenant_id"`
	AssetID     uuid.UUID `json:"asset_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CacheKey implements tenantcache.KeyFormatter: the canonical cache form of a
// work order reference is its UUID.
func (w WorkOrder) CacheKey() string {
	return w.ID.String()
}
