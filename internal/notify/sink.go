// internal/notify/sink.go
package notify

import "context"

// Sink is the chat backend the notifier delivers through. ResolveRecipient
// turns an email address into a channel handle; Deliver posts one message to
// that handle.
type Sink interface {
	ResolveRecipient(ctx context.Context, email string) (string, error)
	Deliver(ctx context.Context, handle, message, link string) error
}
