package core

import (
	"context"
)

// JobDispatcher is the contract for a system that accepts review events and
// queues them for asynchronous processing. It decouples the webhook handler
// from the execution mechanism so the HTTP response never waits on a review.
type JobDispatcher interface {
	// Dispatch queues a ReviewEvent for processing. It returns an error if
	// the event cannot be queued, for example when the queue is full.
	Dispatch(ctx context.Context, event *ReviewEvent) error

	// Stop shuts the dispatcher down, draining in-flight jobs.
	Stop()
}

// Job is a single executable unit of work triggered by a ReviewEvent.
type Job interface {
	Run(ctx context.Context, event *ReviewEvent) error
}
