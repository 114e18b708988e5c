package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage persists audit events in the audit_events table. Rows are
// append-only; there is no update or delete path through this type.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	if pool == nil {
		panic("audit: pool cannot be nil")
	}
	return &PostgresStorage{pool: pool}
}

// Store inserts the event as a single row.
func (s *PostgresStorage) Store(ctx context.Context, event Event) error {
	var metadata []byte
	if len(event.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (
			id, correlation_id, action, user_tenant, requested_tenant,
			resource, resource_id, operation, request_id, ip, path, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		event.ID, event.CorrelationID, event.Action, event.UserTenant,
		event.RequestedTenant, event.Resource, event.ResourceID, event.Operation,
		event.RequestID, event.IP, event.Path, metadata, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
