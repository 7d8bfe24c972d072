package stockwatch

import "context"

// Notifier delivers messages to the chat channel.
type Notifier interface {
	// Notify sends msg once. Failures are returned, never retried.
	Notify(ctx context.Context, msg *Message) error
}
