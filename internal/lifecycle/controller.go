package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/fixpointhq/fixpoint-backend/pkg/metrics"
	"gorm.io/gorm"
)

// FilterAll shows every record regardless of status.
const FilterAll = "all"

// Listener receives the filtered projection after every change.
type Listener func(records []Record)

// Controller keeps one role's local projection of a record table in sync
// with the relational store. Every change event triggers a full refetch that
// wholesale replaces the projection; the projection is never patched in
// place and never optimistically updated after a write.
type Controller struct {
	kind        enums.RecordKind
	role        enums.Role
	repo        Repository
	technicians TechnicianDirectory
	feed        Feed
	logg        *logger.Logger
	metrics     *metrics.SyncMetrics

	mu           sync.Mutex
	active       bool
	stale        bool
	filter       string
	projection   []Record
	cancelFeed   func()
	eventCtx     context.Context
	listeners    map[int64]Listener
	nextListener int64
	fetchSeq     uint64
	appliedSeq   uint64
}

// NewController builds a sync controller for one record kind acting as one
// role. syncMetrics may be nil.
func NewController(kind enums.RecordKind, role enums.Role, repo Repository, technicians TechnicianDirectory, feed Feed, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Controller, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid record kind %q", kind)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
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
	return &Controller{
		kind:        kind,
		role:        role,
		repo:        repo,
		technicians: technicians,
		feed:        feed,
		logg:        logg,
		metrics:     syncMetrics,
		filter:      FilterAll,
		listeners:   make(map[int64]Listener),
	}, nil
}

// Kind reports the record table this controller syncs.
func (c *Controller) Kind() enums.RecordKind {
	return c.kind
}

// Role reports the actor role the controller gates transitions for.
func (c *Controller) Role() enums.Role {
	return c.role
}

// Activate runs the initial full fetch and subscribes to the change feed.
// A failed initial fetch leaves the controller active and subscribed but
// stale, and is returned so the caller can surface it; Refresh recovers.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return nil
	}
	c.active = true
	c.eventCtx = context.WithoutCancel(ctx)
	c.cancelFeed = c.feed.Subscribe(c.kind.Table(), c.handleEvent)
	c.mu.Unlock()

	return c.refresh(ctx)
}

// Deactivate cancels the feed subscription. Events arriving afterwards are
// not processed. Deactivating an inactive controller is a no-op.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	cancel := c.cancelFeed
	c.cancelFeed = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Refresh re-runs the full fetch manually, clearing a stale projection left
// by an earlier fetch failure.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// Records returns the projection with the display filter applied. The filter
// never changes what is fetched or stored.
func (c *Controller) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// Stale reports whether the last fetch attempt failed and the projection may
// lag the store.
func (c *Controller) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Filter returns the current display filter.
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter narrows Records to one status, or FilterAll to show everything.
// Listeners are notified with the re-filtered view; no fetch happens.
func (c *Controller) SetFilter(value string) error {
	if value != FilterAll && !StatusValid(c.kind, value) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown filter %q for %s records", value, c.kind))
	}

	c.mu.Lock()
	c.filter = value
	view := c.filteredLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
	return nil
}

// Attach registers a listener and immediately delivers the current filtered
// view. The returned id detaches via Detach.
func (c *Controller) Attach(fn Listener) int64 {
	c.mu.Lock()
	c.nextListener++
	id := c.nextListener
	c.listeners[id] = fn
	view := c.filteredLocked()
	c.mu.Unlock()

	fn(view)
	return id
}

// Detach removes a listener registered with Attach.
func (c *Controller) Detach(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, id)
}

// RequestTransition executes a role-gated status change as a conditional
// update against the store. The projection is not touched here; the change
// event emitted on success drives the refetch like any other write.
func (c *Controller) RequestTransition(ctx context.Context, recordID int64, target string, technicianID *int64) error {
	if recordID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	if !StatusValid(c.kind, target) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown status %q for %s records", target, c.kind))
	}

	current, err := c.repo.Find(ctx, c.kind, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading record")
	}

	expected := current.Status()
	if err := ValidateTransition(c.kind, c.role, expected, target, technicianID != nil); err != nil {
		c.metrics.IncTransitionFailure(c.kind.Table())
		return err
	}

	if technicianID != nil {
		found, err := c.technicians.Exists(ctx, *technicianID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking technician")
		}
		if !found {
			c.metrics.IncTransitionFailure(c.kind.Table())
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown technician %d", *technicianID))
		}
	}

	rows, err := c.repo.UpdateStatusWhere(ctx, c.kind, recordID, expected, target, technicianID)
	if err != nil {
		c.metrics.IncTransitionFailure(c.kind.Table())
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating record status")
	}
	if rows == 0 {
		c.metrics.IncTransitionFailure(c.kind.Table())
		// Distinguish a concurrent edit from a concurrent delete.
		if _, err := c.repo.Find(ctx, c.kind, recordID); errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "record changed concurrently")
	}

	c.metrics.IncTransitionSuccess(c.kind.Table())

	event := Event{Table: c.kind.Table(), EventType: enums.ChangeEventUpdate, RecordID: recordID}
	if err := c.feed.Publish(ctx, event); err != nil {
		// The write committed; peers catch up on their next event or refresh.
		c.logg.Error(ctx, "publishing record change event failed", err)
	}
	return nil
}

func (c *Controller) handleEvent(event Event) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	ctx := c.eventCtx
	c.mu.Unlock()

	_ = c.refresh(c.logg.WithRecordID(ctx, event.RecordID))
}

// refresh replaces the projection with a fresh full fetch. Concurrent
// refreshes are resolved by sequence number so the last started fetch wins
// even when responses arrive out of order.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	start := time.Now()
	records, err := c.repo.List(ctx, c.kind)
	if err != nil {
		c.mu.Lock()
		if seq < c.appliedSeq {
			// A newer fetch already replaced the projection this one would
			// have produced; its late failure is moot.
			c.mu.Unlock()
			return nil
		}
		c.stale = true
		c.mu.Unlock()
		c.metrics.IncRefreshFailure(c.kind.Table())
		c.logg.Error(ctx, "projection refresh failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching records")
	}

	c.mu.Lock()
	if seq < c.appliedSeq {
		c.mu.Unlock()
		return nil
	}
	c.appliedSeq = seq
	c.projection = records
	c.stale = false
	view := c.filteredLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.metrics.ObserveRefresh(c.kind.Table(), time.Since(start))
	for _, fn := range listeners {
		fn(view)
	}
	return nil
}

func (c *Controller) filteredLocked() []Record {
	if c.filter == FilterAll {
		out := make([]Record, len(c.projection))
		copy(out, c.projection)
		return out
	}
	out := make([]Record, 0, len(c.projection))
	for _, record := range c.projection {
		if record.Status() == c.filter {
			out = append(out, record)
		}
	}
	return out
}

func (c *Controller) listenersLocked() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}
