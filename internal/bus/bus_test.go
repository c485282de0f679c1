package bus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := newTestBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)

	b.Publish(TopicBookAdded, "payload-1")

	select {
	case got := <-events:
		assert.Equal(t, "payload-1", got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishIsScopedToTopic(t *testing.T) {
	b := newTestBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	books, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)
	persons, err := b.Subscribe(ctx, TopicPersonAdded)
	require.NoError(t, err)

	b.Publish(TopicPersonAdded, "carol")

	select {
	case got := <-persons:
		assert.Equal(t, "carol", got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for person event")
	}

	select {
	case got := <-books:
		t.Fatalf("book subscriber received unrelated event: %v", got)
	default:
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := newTestBus()
	defer b.Close()

	b.Publish(TopicBookAdded, "before-anyone-listened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)

	select {
	case got := <-events:
		t.Fatalf("late subscriber received replayed event: %v", got)
	default:
	}
}

func TestContextCancelClosesChannel(t *testing.T) {
	b := newTestBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)
	require.Equal(t, 1, b.SubscriberCount(TopicBookAdded))

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}

	assert.Eventually(t, func() bool {
		return b.SubscriberCount(TopicBookAdded) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := newTestBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)

	// Overfill the subscriber buffer without draining. Publish must
	// return promptly every time.
	for i := 0; i < subscriberBuffer+5; i++ {
		done := make(chan struct{})
		go func() {
			b.Publish(TopicBookAdded, i)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on slow subscriber")
		}
	}

	// The buffered events are still readable.
	for i := 0; i < subscriberBuffer; i++ {
		select {
		case <-events:
		case <-time.After(time.Second):
			t.Fatal("expected buffered event")
		}
	}
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	b := newTestBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)

	b.Close()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel should be closed after bus close")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after bus close")
	}

	// Publish after close is a no-op, not a panic.
	b.Publish(TopicBookAdded, "ignored")
}
