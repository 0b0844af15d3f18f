package interfaces

import "context"

// EventsPublisher emits domain events after ingestion. Publishing is
// best effort; failures are logged, never surfaced to the webhook caller.
type EventsPublisher interface {
	PublishEmailReceived(ctx context.Context, emailID, submissionHash string)
	Close() error
}
