// Package event provides the in-process event bus used to notify modules
// of content changes and session transitions.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/module"
)

// Compile-time interface guard.
var _ module.EventBus = (*Bus)(nil)

// Bus is a thread-safe topic-based event bus. Handlers run synchronously
// on Publish and on a separate goroutine on PublishAsync; a panicking
// handler never takes down the publisher or other handlers.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]module.EventHandler
	all      map[int]module.EventHandler
	logger   *zap.Logger
}

// NewBus creates an event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string]map[int]module.EventHandler),
		all:      make(map[int]module.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given topic. The returned function
// removes the subscription.
func (b *Bus) Subscribe(topic string, handler module.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]module.EventHandler)
	}
	b.handlers[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}

// SubscribeAll registers a handler invoked for every published event.
func (b *Bus) SubscribeAll(handler module.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.all[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers the event to all matching subscribers synchronously.
// Publishing with no subscribers is not an error.
func (b *Bus) Publish(ctx context.Context, event module.Event) error {
	for _, h := range b.snapshot(event.Topic) {
		b.invoke(ctx, h, event)
	}
	return nil
}

// PublishAsync delivers the event on a new goroutine.
func (b *Bus) PublishAsync(ctx context.Context, event module.Event) {
	handlers := b.snapshot(event.Topic)
	go func() {
		for _, h := range handlers {
			b.invoke(ctx, h, event)
		}
	}()
}

// snapshot returns the handlers to run for a topic, copied under the read
// lock so handlers may subscribe/unsubscribe reentrantly.
func (b *Bus) snapshot(topic string) []module.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]module.EventHandler, 0, len(b.handlers[topic])+len(b.all))
	for _, h := range b.handlers[topic] {
		handlers = append(handlers, h)
	}
	for _, h := range b.all {
		handlers = append(handlers, h)
	}
	return handlers
}

func (b *Bus) invoke(ctx context.Context, h module.EventHandler, event module.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.Any("panic", r),
			)
		}
	}()
	h(ctx, event)
}
