package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/fixpointhq/fixpoint-backend/pkg/metrics"
)

type registryKey struct {
	kind enums.RecordKind
	role enums.Role
}

// Registry lazily builds and activates one controller per (kind, role) pair.
// Each role keeps its own projection and display filter of a table.
type Registry struct {
	repo        Repository
	technicians TechnicianDirectory
	feed        Feed
	logg        *logger.Logger
	metrics     *metrics.SyncMetrics

	mu          sync.Mutex
	controllers map[registryKey]*Controller
}

// NewRegistry builds the controller registry. syncMetrics may be nil.
func NewRegistry(repo Repository, technicians TechnicianDirectory, feed Feed, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Registry, error) {
	if repo == nil {
		return nil, fmt.Errorf("lifecycle repository required")
	}
	if technicians == nil {
		return nil, fmt.Errorf("technician directory required")
	}
	if feed == nil {
		return nil, fmt.Errorf("change feed required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Registry{
		repo:        repo,
		technicians: technicians,
		feed:        feed,
		logg:        logg,
		metrics:     syncMetrics,
		controllers: make(map[registryKey]*Controller),
	}, nil
}

// Get returns the controller for the pair, activating a new one on first
// use. When the initial fetch fails the controller is still registered and
// subscribed; the returned error tells the caller the projection is stale.
func (r *Registry) Get(ctx context.Context, kind enums.RecordKind, role enums.Role) (*Controller, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid record kind %q", kind)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	key := registryKey{kind: kind, role: role}

	r.mu.Lock()
	if ctrl, ok := r.controllers[key]; ok {
		r.mu.Unlock()
		return ctrl, nil
	}

	ctrl, err := NewController(kind, role, r.repo, r.technicians, r.feed, r.logg, r.metrics)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.controllers[key] = ctrl
	r.mu.Unlock()

	if err := ctrl.Activate(ctx); err != nil {
		return ctrl, err
	}
	return ctrl, nil
}

// Deactivate cancels the pair's subscription and drops its controller.
func (r *Registry) Deactivate(kind enums.RecordKind, role enums.Role) {
	key := registryKey{kind: kind, role: role}

	r.mu.Lock()
	ctrl, ok := r.controllers[key]
	if ok {
		delete(r.controllers, key)
	}
	r.mu.Unlock()

	if ok {
		ctrl.Deactivate()
	}
}

// Close deactivates every registered controller.
func (r *Registry) Close() {
	r.mu.Lock()
	controllers := make([]*Controller, 0, len(r.controllers))
	for _, ctrl := range r.controllers {
		controllers = append(controllers, ctrl)
	}
	r.controllers = make(map[registryKey]*Controller)
	r.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Deactivate()
	}
}
