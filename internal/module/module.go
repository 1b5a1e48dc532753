// Package module defines the lifecycle contract for Limelight feature
// modules and the registry that composes them at startup.
package module

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
)

// Route represents an HTTP route exposed by a module.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Module defines the interface that all Limelight modules must implement.
type Module interface {
	// Name returns the module's unique identifier (e.g., "admin", "site").
	Name() string

	// Version returns the module's semantic version.
	Version() string

	// Init initializes the module with the application configuration and
	// a named logger. Modules read their keys under modules.<name>.
	Init(cfg *config.Config, logger *zap.Logger) error

	// Start begins the module's background operations.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the module.
	Stop() error

	// Routes returns the HTTP routes this module exposes.
	Routes() []Route
}

// Event is a message published on the in-process event bus.
type Event struct {
	Topic     string    `json:"topic"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// EventHandler processes a single event.
type EventHandler func(ctx context.Context, e Event)

// EventBus distributes events between modules.
type EventBus interface {
	// Publish delivers the event to all subscribers synchronously.
	Publish(ctx context.Context, event Event) error

	// PublishAsync delivers the event without blocking the caller.
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for a topic and returns an
	// unsubscribe function.
	Subscribe(topic string, handler EventHandler) func()

	// SubscribeAll registers a handler for every topic.
	SubscribeAll(handler EventHandler) func()
}
