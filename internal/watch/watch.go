// Package watch contains the console's status pollers. Each poller owns a
// single lease: a cancellable background loop scoped to one lead or job id.
// Starting a new lease cancels the prior one before the first tick, so poll
// start is idempotent per id. Polling has no backoff and no retry cap; a
// lease ends only when the watched status leaves its active state or the
// lease is torn down.
package watch

import "context"

// Notifier receives user-visible notifications emitted by pollers.
type Notifier interface {
	Success(message string)
}

// lease is one active polling loop. The cancel func is owned by the lease,
// not by the caller, so teardown order cannot leak a timer.
type lease struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

func newLease(id string) (*lease, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	return &lease{id: id, cancel: cancel, done: make(chan struct{})}, ctx
}
