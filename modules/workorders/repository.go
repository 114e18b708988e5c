package workorders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/facilitykit/pkg/pg"
	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// ErrNotFound is returned when no work order matches the requested ID within
// the caller's tenant.
var ErrNotFound = errors.New("work order not found")

// Repository loads and mutates work orders. Implementations must enforce the
// tenant guard: a row owned by another tenant is a violation, never a plain
// not-found, so the breach reaches the audit trail.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	List(ctx context.Context) ([]WorkOrder, error)
	Create(ctx context.Context, wo *WorkOrder) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// pgRepository is the PostgreSQL implementation backed by pgxpool.
type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	if pool == nil {
		panic("workorders: pool cannot be nil")
	}
	return &pgRepository{pool: pool}
}

// GetByID loads a work order by primary key. The query is intentionally not
// tenant-filtered: the row's owning tenant is compared against the context
// tenant afterwards so that a cross-tenant probe is detected and audited
// instead of being indistinguishable from a missing row.
func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, asset_id, title, description, status, created_at, updated_at
		FROM work_orders WHERE id = $1`, id)

	wo, err := scanWorkOrder(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load work order: %w", err)
	}

	if err := tenant.CheckResource(ctx, "workorders.GetByID", ResourceType, wo.ID.String(), wo.TenantID); err != nil {
		return nil, err
	}

	return wo, nil
}

// List returns the caller-tenant's work orders, newest first.
func (r *pgRepository) List(ctx context.Context) ([]WorkOrder, error) {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, asset_id, title, description, status, created_at, updated_at
		FROM work_orders WHERE tenant_id = $1
		ORDER BY created_at DESC`, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var out []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		out = append(out, *wo)
	}
	return out, rows.Err()
}

// Create inserts a work order owned by the caller's tenant. The owning tenant
// always comes from the context, never from the payload, so a client cannot
// create rows in another tenant's namespace.
func (r *pgRepository) Create(ctx context.Context, wo *WorkOrder) error {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	wo.ID = uuid.New()
	wo.TenantID = tenantID
	wo.CreatedAt = now
	wo.UpdatedAt = now
	if wo.Status == "" {
		wo.Status = StatusOpen
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO work_orders (id, tenant_id, asset_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		wo.ID, tenantID.String(), wo.AssetID, wo.Title, wo.Description, wo.Status, wo.CreatedAt, wo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// UpdateStatus transitions a work order. The row is loaded first so the
// resource guard can distinguish a cross-tenant mutation attempt from a
// missing row; the UPDATE is additionally tenant-filtered as belt and braces.
func (r *pgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	wo, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE work_orders SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4`,
		status, time.Now().UTC(), wo.ID, wo.TenantID.String())
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(row rowScanner) (*WorkOrder, error) {
	var (
		wo       WorkOrder
		tenantID string
	)
	err := row.Scan(&wo.ID, &tenantID, &wo.AssetID, &wo.Title, &wo.Description, &wo.Status, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	wo.TenantID = tenant.ID(tenantID)
	return &wo, nil
}
