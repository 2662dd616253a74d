package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/fixpointhq/fixpoint-backend/pkg/pubsub"
)

// Event is one change notification for a synced record table. Every insert,
// update, or delete against a table produces one, own writes included.
type Event struct {
	Table     string                `json:"table"`
	EventType enums.ChangeEventType `json:"event_type"`
	RecordID  int64                 `json:"record_id"`
}

// Feed delivers change events per table and publishes events for writes made
// through this process. Subscribe returns a cancel func that detaches the
// handler; nothing is delivered after cancel returns.
type Feed interface {
	Subscribe(table string, handler func(Event)) (cancel func())
	Publish(ctx context.Context, event Event) error
}

// PubSubFeed fans events from the records topic out to per-table handlers.
// One Run loop serves every controller in the process.
type PubSubFeed struct {
	client *pubsub.Client
	logg   *logger.Logger

	mu       sync.Mutex
	nextID   int64
	handlers map[string]map[int64]func(Event)
}

// NewPubSubFeed builds the process-wide change feed.
func NewPubSubFeed(client *pubsub.Client, logg *logger.Logger) (*PubSubFeed, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &PubSubFeed{
		client:   client,
		logg:     logg,
		handlers: make(map[string]map[int64]func(Event)),
	}, nil
}

// Run consumes the records subscription until the context is canceled.
// Malformed payloads are acked and dropped so they cannot wedge the
// subscription.
func (f *PubSubFeed) Run(ctx context.Context) error {
	sub := f.client.RecordsSubscription()
	if sub == nil {
		return fmt.Errorf("records subscription unavailable")
	}
	return sub.Receive(ctx, func(ctx context.Context, msg *gcppubsub.Message) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			f.logg.Warn(ctx, "discarding malformed change event")
			msg.Ack()
			return
		}
		f.dispatch(event)
		msg.Ack()
	})
}

// Subscribe registers a handler for one table's events.
func (f *PubSubFeed) Subscribe(table string, handler func(Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	if f.handlers[table] == nil {
		f.handlers[table] = make(map[int64]func(Event))
	}
	f.handlers[table][id] = handler

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[table], id)
	}
}

// Publish emits a change event onto the records topic and waits for the
// server ack.
func (f *PubSubFeed) Publish(ctx context.Context, event Event) error {
	pub := f.client.RecordsPublisher()
	if pub == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "records publisher unavailable")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding change event")
	}

	result := pub.Publish(ctx, &gcppubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing change event")
	}
	return nil
}

func (f *PubSubFeed) dispatch(event Event) {
	f.mu.Lock()
	handlers := make([]func(Event), 0, len(f.handlers[event.Table]))
	for _, handler := range f.handlers[event.Table] {
		handlers = append(handlers, handler)
	}
	f.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}
