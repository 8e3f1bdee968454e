package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/askriger/todostore/internal/domain"
	"github.com/askriger/todostore/internal/platform/logger"
)

// ErrBroadcasterClosed is returned by Subscribe after Close has been called.
var ErrBroadcasterClosed = errors.New("snapshot broadcaster is closed")

// Subscription is an observer's handle on the snapshot stream. Snapshots
// arrive on Updates; the channel is closed when the subscription is released
// or the broadcaster shuts down. Received snapshots must be treated as
// read-only, as they may be shared between subscribers.
type Subscription struct {
	id uuid.UUID
	ch chan []domain.Task
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Updates returns the channel on which snapshots are delivered.
func (s *Subscription) Updates() <-chan []domain.Task {
	return s.ch
}

// SnapshotBroadcaster fans task snapshots out to all active subscriptions.
// It is safe for concurrent use.
type SnapshotBroadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	closed bool
	logger *slog.Logger
}

// NewSnapshotBroadcaster creates a new broadcaster with no subscribers.
// If logger is nil, the process default logger is used.
func NewSnapshotBroadcaster(logger *slog.Logger) *SnapshotBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotBroadcaster{
		subs:   make(map[uuid.UUID]*Subscription),
		logger: logger.With("component", "snapshot_broadcaster"),
	}
}

// Subscribe registers a new observer and returns its subscription handle.
// The caller is expected to release the handle with Unsubscribe on teardown.
// Returns ErrBroadcasterClosed if the broadcaster has been shut down.
func (b *SnapshotBroadcaster) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBroadcasterClosed
	}

	sub := &Subscription{
		id: uuid.New(),
		// Buffer of one so the publisher never blocks: a pending snapshot
		// that was not consumed yet is replaced by the newer one.
		ch: make(chan []domain.Task, 1),
	}
	b.subs[sub.id] = sub

	b.logger.Debug("registered new subscriber",
		"subscription_id", sub.id,
		"subscriber_count", len(b.subs))

	return sub, nil
}

// Unsubscribe removes the subscription and closes its channel. Releasing a
// subscription that is already gone is a no-op.
func (b *SnapshotBroadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}

	delete(b.subs, sub.id)
	close(sub.ch)

	b.logger.Debug("removed subscriber",
		"subscription_id", sub.id,
		"subscriber_count", len(b.subs))
}

// Publish delivers the snapshot to every active subscription. Slow
// subscribers are conflated to the latest snapshot. Publish never blocks on
// subscriber channels and is a no-op after Close.
func (b *SnapshotBroadcaster) Publish(ctx context.Context, snapshot []domain.Task) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	log.Debug("publishing snapshot",
		"task_count", len(snapshot),
		"subscriber_count", len(b.subs))

	for _, sub := range b.subs {
		deliver(sub.ch, snapshot)
	}
}

// Send delivers the snapshot to a single subscription, typically to prime a
// new observer with the current state. The same conflation rules as Publish
// apply.
func (b *SnapshotBroadcaster) Send(sub *Subscription, snapshot []domain.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if _, ok := b.subs[sub.id]; !ok {
		return
	}

	deliver(sub.ch, snapshot)
}

// deliver performs a conflating send: if the subscriber has not consumed the
// previously delivered snapshot, it is dropped in favor of the newer one.
// Callers must hold b.mu so the channel cannot be closed mid-send.
func deliver(ch chan []domain.Task, snapshot []domain.Task) {
	select {
	case ch <- snapshot:
	default:
		// Stale snapshot still pending: drop it, then deliver the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Close shuts the broadcaster down, closing every subscriber channel and
// rejecting further subscriptions. Close is idempotent.
func (b *SnapshotBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}

	b.logger.Debug("snapshot broadcaster closed")
}

// SubscriberCount reports the number of active subscriptions.
func (b *SnapshotBroadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
