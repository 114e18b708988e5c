package workorders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/facilitykit/pkg/tenantcache"
)

// cacheTTL bounds staleness for memoized work-order reads.
const cacheTTL = 5 * time.Minute

// Service layers tenant-namespaced memoization over the repository. Reads go
// through the tenant-aware cache; any mutation invalidates the affected entry
// within the caller-tenant's namespace only.
type Service struct {
	repo  Repository
	cache *tenantcache.TenantAware
	keys  *tenantcache.KeyGenerator
	log   *slog.Logger
}

// NewService wires the repository with the tenant-aware cache.
func NewService(repo Repository, cache *tenantcache.TenantAware, log *slog.Logger) *Service {
	if repo == nil {
		panic("workorders: repository cannot be nil")
	}
	if cache == nil {
		panic("workorders: cache cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:  repo,
		cache: cache,
		keys:  tenantcache.NewKeyGenerator(),
		log:   log,
	}
}

// Get returns a work order, serving repeated reads from the tenant's cache
// namespace. Violations from the repository guard pass through untouched; a
// cache backend failure degrades to a direct repository read.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	key, err := s.keys.Key(ctx, "workorders.GetByID", id)
	if err != nil {
		return nil, err
	}

	if data, err := s.cache.Get(ctx, key); err == nil {
		var wo WorkOrder
		if err := json.Unmarshal(data, &wo); err == nil {
			return &wo, nil
		}
		// Undecodable entry: drop it and fall through to the repository.
		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, tenantcache.ErrKeyNotFound) {
		s.log.WarnContext(ctx, "work order cache read failed", slog.Any("error", err))
	}

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(wo); err == nil {
		if err := s.cache.Set(ctx, key, data, cacheTTL); err != nil {
			s.log.WarnContext(ctx, "work order cache write failed", slog.Any("error", err))
		}
	}

	return wo, nil
}

// List returns the caller-tenant's work orders straight from the repository.
func (s *Service) List(ctx context.Context) ([]WorkOrder, error) {
	return s.repo.List(ctx)
}

// Create inserts a work order owned by the caller's tenant.
func (s *Service) Create(ctx context.Context, wo *WorkOrder) error {
	if wo.Title == "" {
		return errors.New("work order title is required")
	}
	return s.repo.Create(ctx, wo)
}

// UpdateStatus transitions a work order and evicts its cached entry from the
// caller-tenant's namespace.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	key, err := s.keys.Key(ctx, "workorders.GetByID", id)
	if err != nil {
		return fmt.Errorf("invalidate work order cache: %w", err)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.WarnContext(ctx, "work order cache invalidation failed", slog.Any("error", err))
	}
	return nil
}
