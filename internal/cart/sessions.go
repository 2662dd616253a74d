package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
)

// Sessions hands out one Engine per customer session, hydrating it from the
// snapshot store on first use. Engines stay resident for the process
// lifetime; the snapshot store holds the durable copy.
type Sessions struct {
	mu      sync.Mutex
	engines map[string]*Engine
	stores  SnapshotStores
	logg    *logger.Logger
}

// NewSessions builds the per-session engine registry.
func NewSessions(stores SnapshotStores, logg *logger.Logger) (*Sessions, error) {
	if stores == nil {
		return nil, fmt.Errorf("snapshot stores required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Sessions{
		engines: make(map[string]*Engine),
		stores:  stores,
		logg:    logg,
	}, nil
}

// Get returns the engine owning the session's cart, creating and hydrating it
// when the session is new to this process.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*Engine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if engine, ok := s.engines[sessionID]; ok {
		return engine, nil
	}

	engine := NewEngine(ctx, s.stores.ForSession(sessionID), s.logg)
	s.engines[sessionID] = engine
	return engine, nil
}
