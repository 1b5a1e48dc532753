package module

import "context"

// HealthChecker is implemented by modules that report their health status.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Validator is implemented by modules that validate their config post-init.
type Validator interface {
	ValidateConfig() error
}

// EventPublisher is implemented by modules that need the shared event bus.
// The registry injects the bus before Init.
type EventPublisher interface {
	SetBus(bus EventBus)
}
