package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askriger/todostore/internal/domain"
	"github.com/askriger/todostore/internal/events"
)

func snapshot(descriptions ...string) []domain.Task {
	tasks := make([]domain.Task, 0, len(descriptions))
	for i, d := range descriptions {
		tasks = append(tasks, domain.Task{ID: int64(i + 1), Description: d})
	}
	return tasks
}

// receive waits for a snapshot with a timeout so a broken broadcaster fails
// the test instead of hanging it.
func receive(t *testing.T, sub *events.Subscription) []domain.Task {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeAndPublish(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)
	defer b.Close()

	sub, err := b.Subscribe()
	require.NoError(t, err)
	assert.Equal(t, 1, b.SubscriberCount())

	want := snapshot("Buy milk", "Walk the dog")
	b.Publish(context.Background(), want)

	got := receive(t, sub)
	assert.Equal(t, want, got)
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)
	defer b.Close()

	first, err := b.Subscribe()
	require.NoError(t, err)
	second, err := b.Subscribe()
	require.NoError(t, err)

	want := snapshot("Buy milk")
	b.Publish(context.Background(), want)

	assert.Equal(t, want, receive(t, first))
	assert.Equal(t, want, receive(t, second))
}

func TestSlowSubscriberIsConflatedToLatest(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)
	defer b.Close()

	sub, err := b.Subscribe()
	require.NoError(t, err)

	// The subscriber consumes nothing while three snapshots go out.
	b.Publish(context.Background(), snapshot("one"))
	b.Publish(context.Background(), snapshot("one", "two"))
	latest := snapshot("one", "two", "three")
	b.Publish(context.Background(), latest)

	// Only the latest snapshot is pending.
	assert.Equal(t, latest, receive(t, sub))
	select {
	case extra := <-sub.Updates():
		t.Fatalf("expected no further snapshots, got %v", extra)
	default:
	}
}

func TestSend(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)
	defer b.Close()

	sub, err := b.Subscribe()
	require.NoError(t, err)
	other, err := b.Subscribe()
	require.NoError(t, err)

	want := snapshot("Buy milk")
	b.Send(sub, want)

	assert.Equal(t, want, receive(t, sub))

	// The targeted send must not leak to other subscribers.
	select {
	case got := <-other.Updates():
		t.Fatalf("expected no snapshot on other subscription, got %v", got)
	default:
	}
}

func TestUnsubscribeClosesChannelAndStopsDelivery(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)
	defer b.Close()

	sub, err := b.Subscribe()
	require.NoError(t, err)

	b.Unsubscribe(sub)
	assert.Equal(t, 0, b.SubscriberCount())

	_, ok := <-sub.Updates()
	assert.False(t, ok, "channel should be closed after Unsubscribe")

	// Publishing afterwards must not panic or deliver anywhere.
	b.Publish(context.Background(), snapshot("Buy milk"))

	// Unsubscribing twice is a no-op.
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
}

func TestCloseTerminatesAllStreams(t *testing.T) {
	t.Parallel()

	b := events.NewSnapshotBroadcaster(nil)

	first, err := b.Subscribe()
	require.NoError(t, err)
	second, err := b.Subscribe()
	require.NoError(t, err)

	b.Close()
	b.Close() // idempotent

	_, ok := <-first.Updates()
	assert.False(t, ok)
	_, ok = <-second.Updates()
	assert.False(t, ok)

	_, err = b.Subscribe()
	assert.ErrorIs(t, err, events.ErrBroadcasterClosed)

	// Publish after Close is a silent no-op.
	b.Publish(context.Background(), snapshot("Buy milk"))
}
