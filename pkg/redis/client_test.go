package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestGetReportsMissingKeys(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if _, found, err := client.Get(ctx, "fx:cart:absent"); err != nil || found {
		t.Fatalf("missing key should be (found=false, err=nil), got found=%v err=%v", found, err)
	}

	if err := client.Set(ctx, "fx:cart:s1", `[]`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, found, err := client.Get(ctx, "fx:cart:s1")
	if err != nil || !found {
		t.Fatalf("expected stored value, got found=%v err=%v", found, err)
	}
	if value != `[]` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := client.Del(ctx, "fx:cart:s1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, found, _ := client.Get(ctx, "fx:cart:s1"); found {
		t.Fatalf("key should be gone after del")
	}
}

func TestCartSnapshotKey(t *testing.T) {
	client := &Client{}
	if got := client.CartSnapshotKey("session-1"); got != "fx:cart:session-1" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.CartSnapshotKey(""); got != "fx:cart" {
		t.Fatalf("empty session should skip empty parts, got %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
