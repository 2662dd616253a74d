package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type stubSnapshotStore struct {
	mu       sync.Mutex
	snapshot string
	found    bool
	loadErr  error
	saveErr  error
	saves    []string
}

func (s *stubSnapshotStore) Load(ctx context.Context) (string, bool, error) {
	return s.snapshot, s.found, s.loadErr
}

func (s *stubSnapshotStore) Save(ctx context.Context, snapshot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshot = snapshot
	s.found = true
	s.saves = append(s.saves, snapshot)
	return nil
}

func (s *stubSnapshotStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Name: "Screen", Price: price("10"), Quantity: 1})
	engine.AddItem(AddItemInput{ProductID: "P1", Name: "Screen", Price: price("10"), Quantity: 2})

	items := engine.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
	if !engine.Total().Equal(price("30")) {
		t.Fatalf("expected total 30, got %s", engine.Total())
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("5")})
	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("5"), Quantity: -2})

	items := engine.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected single line with quantity 2, got %+v", items)
	}
}

func TestAggregatesAcrossLines(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 1})
	engine.AddItem(AddItemInput{ProductID: "P2", Price: price("5"), Quantity: 4})

	if !engine.Total().Equal(price("30")) {
		t.Fatalf("expected total 30, got %s", engine.Total())
	}
	if engine.Quantity() != 5 {
		t.Fatalf("expected cart quantity 5, got %d", engine.Quantity())
	}
}

func TestEmptyCartAggregatesAreZero(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)

	if !engine.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", engine.Total())
	}
	if engine.Quantity() != 0 {
		t.Fatalf("expected zero quantity, got %d", engine.Quantity())
	}
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)
	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 3})

	engine.UpdateQuantity("P1", 0)

	if len(engine.Items()) != 0 {
		t.Fatalf("expected empty cart after zero-quantity update")
	}

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 3})
	engine.UpdateQuantity("P1", -5)
	if len(engine.Items()) != 0 {
		t.Fatalf("negative quantity update should remove the line")
	}
}

func TestUpdateQuantityReplacesNotIncrements(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)
	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 3})

	engine.UpdateQuantity("P1", 2)

	items := engine.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected quantity replaced with 2, got %+v", items)
	}
}

func TestRemoveItemAbsentIsIdempotent(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)
	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 1})

	before := engine.Items()
	engine.RemoveItem("missing")
	engine.RemoveItem("missing")
	after := engine.Items()

	if len(before) != len(after) {
		t.Fatalf("cart changed by removing absent product")
	}
	if before[0] != after[0] {
		t.Fatalf("line mutated by removing absent product: %+v vs %+v", before[0], after[0])
	}
}

func TestClearEmptiesAllLines(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)
	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 1})
	engine.AddItem(AddItemInput{ProductID: "P2", Price: price("5"), Quantity: 2})

	engine.Clear()

	if len(engine.Items()) != 0 || engine.Quantity() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestMutationsWriteThroughToStore(t *testing.T) {
	store := &stubSnapshotStore{}
	engine := NewEngine(context.Background(), store, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 1})
	engine.UpdateQuantity("P1", 4)
	engine.RemoveItem("P1")
	engine.Flush()

	if store.saveCount() != 3 {
		t.Fatalf("expected one save per mutation, got %d", store.saveCount())
	}
	if store.snapshot != "[]" {
		t.Fatalf("expected empty snapshot after removal, got %s", store.snapshot)
	}
}

func TestHydrateFromSnapshot(t *testing.T) {
	store := &stubSnapshotStore{
		snapshot: `[{"product_id":"P1","name":"Screen","price":"10","image_url":"","quantity":2}]`,
		found:    true,
	}

	engine := NewEngine(context.Background(), store, nil)

	items := engine.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected hydrated line with quantity 2, got %+v", items)
	}
	if !engine.Total().Equal(price("20")) {
		t.Fatalf("expected total 20, got %s", engine.Total())
	}
}

func TestHydrateMergesDuplicateProductLines(t *testing.T) {
	store := &stubSnapshotStore{
		snapshot: `[{"product_id":"P1","name":"Screen","price":"10","image_url":"","quantity":1},` +
			`{"product_id":"P1","name":"Screen","price":"10","image_url":"","quantity":2}]`,
		found: true,
	}

	engine := NewEngine(context.Background(), store, nil)

	items := engine.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line per product id, got %+v", items)
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}

	engine.AddItem(AddItemInput{ProductID: "P1", Name: "Screen", Price: price("10"), Quantity: 1})
	if got := engine.Quantity(); got != 4 {
		t.Fatalf("expected quantity 4 after add, got %d", got)
	}
	if !engine.Total().Equal(price("40")) {
		t.Fatalf("expected total 40, got %s", engine.Total())
	}
}

func TestHydrateCorruptSnapshotStartsEmpty(t *testing.T) {
	store := &stubSnapshotStore{snapshot: `{not json`, found: true}

	engine := NewEngine(context.Background(), store, nil)

	if len(engine.Items()) != 0 {
		t.Fatalf("corrupt snapshot should yield an empty cart")
	}
}

func TestHydrateLoadErrorStartsEmpty(t *testing.T) {
	store := &stubSnapshotStore{loadErr: errors.New("redis down")}

	engine := NewEngine(context.Background(), store, nil)

	if len(engine.Items()) != 0 {
		t.Fatalf("unreadable snapshot should yield an empty cart")
	}
}

func TestSaveFailureDoesNotAffectMemoryState(t *testing.T) {
	store := &stubSnapshotStore{saveErr: errors.New("redis down")}
	engine := NewEngine(context.Background(), store, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("10"), Quantity: 2})
	engine.Flush()

	if engine.Quantity() != 2 {
		t.Fatalf("in-memory state must stay authoritative on save failure")
	}
}

func TestNegativePriceClampedToZero(t *testing.T) {
	engine := NewEngine(context.Background(), nil, nil)

	engine.AddItem(AddItemInput{ProductID: "P1", Price: price("-3"), Quantity: 2})

	if !engine.Total().IsZero() {
		t.Fatalf("negative prices must not produce a negative total, got %s", engine.Total())
	}
}
