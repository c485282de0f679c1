// Package bus provides an in-process topic-based event bus used to push
// catalog changes to live subscribers.
package bus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shelfgraph/shelfgraph-server/internal/id"
)

// Topics published by the mutation resolvers.
const (
	TopicBookAdded   = "book-added"
	TopicPersonAdded = "person-added"
)

// subscriberBuffer is the per-subscriber channel capacity. Publish never
// blocks; a subscriber that falls this far behind starts losing events.
const subscriberBuffer = 16

type subscriber struct {
	ConnectedAt time.Time
	Events      chan interface{}
	ID          string
	Topic       string
}

// Bus fans events out to topic subscribers. Subscribers that joined after
// an event was published never see it; there is no replay.
type Bus struct {
	logger *slog.Logger
	topics map[string]map[string]*subscriber
	mu     sync.RWMutex
	closed bool
}

// New creates an event bus. Instances are handed to consumers explicitly;
// there is no package-level default.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logger,
		topics: make(map[string]map[string]*subscriber),
	}
}

// Subscribe registers a new subscriber on topic and returns its event
// channel. The channel is closed, and the subscriber deregistered, when
// ctx is cancelled or the bus shuts down. The untyped channel element is
// what the GraphQL subscription executor consumes.
func (b *Bus) Subscribe(ctx context.Context, topic string) (chan interface{}, error) {
	subID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	sub := &subscriber{
		ID:          subID,
		Topic:       topic,
		Events:      make(chan interface{}, subscriberBuffer),
		ConnectedAt: time.Now(),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.Events)
		return sub.Events, nil
	}
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[string]*subscriber)
	}
	b.topics[topic][subID] = sub
	total := len(b.topics[topic])
	b.mu.Unlock()

	b.logger.Debug("subscriber joined",
		slog.String("subscriber_id", subID),
		slog.String("topic", topic),
		slog.Int("topic_subscribers", total))

	go func() {
		<-ctx.Done()
		b.unsubscribe(topic, subID)
	}()

	return sub.Events, nil
}

// Publish delivers payload to every current subscriber of topic.
// Sends are non-blocking: a subscriber whose buffer is full has the
// event dropped rather than stalling the publisher.
func (b *Bus) Publish(topic string, payload interface{}) {
	var delivered, dropped int

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.topics[topic] {
		select {
		case sub.Events <- payload:
			delivered++
		default:
			dropped++
			b.logger.Warn("dropped event for slow subscriber",
				slog.String("subscriber_id", sub.ID),
				slog.String("topic", topic))
		}
	}

	b.logger.Debug("event published",
		slog.String("topic", topic),
		slog.Group("stats",
			slog.Int("delivered", delivered),
			slog.Int("dropped", dropped)))
}

// SubscriberCount returns the number of live subscribers on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close shuts the bus down, closing every subscriber channel. Publish and
// Subscribe become no-ops afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for topic, subs := range b.topics {
		for _, sub := range subs {
			close(sub.Events)
		}
		delete(b.topics, topic)
	}

	b.logger.Info("event bus closed")
}

func (b *Bus) unsubscribe(topic, subID string) {
	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		b.mu.Unlock()
		return
	}
	sub, ok := subs[subID]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	b.mu.Unlock()

	close(sub.Events)

	b.logger.Debug("subscriber left",
		slog.String("subscriber_id", subID),
		slog.String("topic", topic),
		slog.Duration("duration", time.Since(sub.ConnectedAt)))
}
