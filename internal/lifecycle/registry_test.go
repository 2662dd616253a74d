package lifecycle

import (
	"context"
	"testing"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
)

func newTestRegistry(t *testing.T, repo *stubRepo, feed *stubFeed) *Registry {
	t.Helper()
	reg, err := NewRegistry(repo, &stubDirectory{ids: map[int64]bool{}}, feed, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestRegistryActivatesOncePerPair(t *testing.T) {
	repo := &stubRepo{records: []Record{orderRecord(1, enums.OrderStatusPending)}}
	feed := newStubFeed()
	reg := newTestRegistry(t, repo, feed)

	first, err := reg.Get(context.Background(), enums.RecordKindOrder, enums.RoleSupervisor)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := reg.Get(context.Background(), enums.RecordKindOrder, enums.RoleSupervisor)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Fatalf("expected one controller per pair")
	}
	if repo.listCount() != 1 {
		t.Fatalf("expected a single activation fetch, got %d", repo.listCount())
	}
}

func TestRegistryKeepsRolesSeparate(t *testing.T) {
	repo := &stubRepo{records: []Record{orderRecord(1, enums.OrderStatusPending)}}
	feed := newStubFeed()
	reg := newTestRegistry(t, repo, feed)

	manager, err := reg.Get(context.Background(), enums.RecordKindOrder, enums.RoleServiceManager)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	supervisor, err := reg.Get(context.Background(), enums.RecordKindOrder, enums.RoleSupervisor)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if manager == supervisor {
		t.Fatalf("roles must not share a controller")
	}

	if err := manager.SetFilter(enums.OrderStatusPending.String()); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if supervisor.Filter() != FilterAll {
		t.Fatalf("one role's filter must not leak to another")
	}
}

func TestRegistryDeactivateCancelsSubscription(t *testing.T) {
	repo := &stubRepo{records: []Record{orderRecord(1, enums.OrderStatusPending)}}
	feed := newStubFeed()
	reg := newTestRegistry(t, repo, feed)

	if _, err := reg.Get(context.Background(), enums.RecordKindOrder, enums.RoleSupervisor); err != nil {
		t.Fatalf("Get: %v", err)
	}
	reg.Deactivate(enums.RecordKindOrder, enums.RoleSupervisor)

	fetches := repo.listCount()
	feed.emit(Event{Table: "order_records", EventType: enums.ChangeEventUpdate, RecordID: 1})
	if repo.listCount() != fetches {
		t.Fatalf("deactivated controller must not refetch")
	}
}
