package interfaces

import "context"

// EventPublisher emits domain events to whatever broker is configured.
// Publishing is best effort: callers log failures but never roll back a
// committed transaction because of one.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
