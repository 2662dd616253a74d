package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const saveTimeout = 5 * time.Second

// Item is one product line in a session cart, uniquely keyed by ProductID.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// SnapshotStore persists a serialized cart for one session. Load reports
// whether a snapshot existed; a missing snapshot is not an error.
type SnapshotStore interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, snapshot string) error
}

// AddItemInput carries the product data for an add-to-cart call. A zero or
// negative Quantity defaults to 1.
type AddItemInput struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	Quantity  int
}

// Engine owns the line items of a single customer session. The in-memory
// state is always authoritative; snapshot writes are best-effort and never
// block or roll back a mutation.
type Engine struct {
	mu    sync.Mutex
	items []Item
	store SnapshotStore
	logg  *logger.Logger
	saves sync.WaitGroup
}

// NewEngine builds a cart engine and hydrates it from the snapshot store when
// one is attached. A missing, corrupt, or unreadable snapshot yields an empty
// cart, never an error.
func NewEngine(ctx context.Context, store SnapshotStore, logg *logger.Logger) *Engine {
	e := &Engine{store: store, logg: logg}
	if store == nil {
		return e
	}

	snapshot, found, err := store.Load(ctx)
	if err != nil {
		e.warn(ctx, "cart snapshot load failed, starting empty")
		return e
	}
	if !found {
		return e
	}

	var items []Item
	if err := json.Unmarshal([]byte(snapshot), &items); err != nil {
		e.warn(ctx, "cart snapshot corrupt, starting empty")
		return e
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		// Stored snapshots should already hold one line per product, but a
		// hand-edited or stale snapshot must not break the one-line invariant.
		if idx := e.indexOf(item.ProductID); idx >= 0 {
			e.items[idx].Quantity += item.Quantity
			continue
		}
		e.items = append(e.items, item)
	}
	return e
}

// AddItem merges the product into the cart: an existing line's quantity is
// incremented, a new product appends a line.
func (e *Engine) AddItem(input AddItemInput) {
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}
	price := input.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	e.mu.Lock()
	if idx := e.indexOf(input.ProductID); idx >= 0 {
		e.items[idx].Quantity += qty
	} else {
		e.items = append(e.items, Item{
			ProductID: input.ProductID,
			Name:      input.Name,
			Price:     price,
			ImageURL:  input.ImageURL,
			Quantity:  qty,
		})
	}
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(snapshot)
}

// RemoveItem deletes the matching line. Removing an absent product is a no-op.
func (e *Engine) RemoveItem(productID string) {
	e.mu.Lock()
	idx := e.indexOf(productID)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(snapshot)
}

// UpdateQuantity replaces the line's quantity. A quantity below 1 removes the
// line instead of persisting a zero or negative row.
func (e *Engine) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		e.RemoveItem(productID)
		return
	}

	e.mu.Lock()
	idx := e.indexOf(productID)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.items[idx].Quantity = quantity
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(snapshot)
}

// Clear empties all lines.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.items = nil
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	e.persist(snapshot)
}

// Items returns a copy of the current lines in insertion order.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// Total returns the sum of price times quantity over all lines; zero for an
// empty cart.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Quantity returns the total number of units across all lines.
func (e *Engine) Quantity() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Flush blocks until in-flight snapshot saves settle.
func (e *Engine) Flush() {
	e.saves.Wait()
}

func (e *Engine) indexOf(productID string) int {
	for i, item := range e.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshotLocked() string {
	data, err := json.Marshal(e.items)
	if err != nil {
		return "[]"
	}
	if e.items == nil {
		return "[]"
	}
	return string(data)
}

func (e *Engine) persist(snapshot string) {
	if e.store == nil {
		return
	}
	e.saves.Add(1)
	go func() {
		defer e.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := e.store.Save(ctx, snapshot); err != nil {
			e.error(ctx, "cart snapshot save failed", err)
		}
	}()
}

func (e *Engine) warn(ctx context.Context, msg string) {
	if e.logg == nil {
		return
	}
	e.logg.Warn(ctx, msg)
}

func (e *Engine) error(ctx context.Context, msg string, err error) {
	if e.logg == nil {
		return
	}
	e.logg.Error(ctx, msg, err)
}
