package messaging

import "context"

// Broker publishes domain events to interested consumers. Publishing is
// best-effort: callers log failures and never fail the request on them.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
