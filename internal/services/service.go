// Package services holds the per-resource business operations. Each
// mutation runs in its own storage transaction and, once committed,
// announces itself on the event bus.
package services

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Publisher delivers resource events. *amqp.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev *amqp.Event) error
}

// Options carries collaborators shared by every service. Zero values are
// usable: no publisher disables events, a nil logger logs to stdout.
type Options struct {
	Publisher Publisher
	Logger    *log.Logger
	Now       func() time.Time
}

type base struct {
	store     *storage.Store
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

func newBase(store *storage.Store, opts Options, component string) base {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	now := opts.Now
	if now == nil {
		now = defaultNow
	}
	return base{
		store:     store,
		publisher: opts.Publisher,
		logger:    logger.WithComponent(component),
		now:       now,
	}
}

// Postgres keeps microseconds; truncating keeps returned values equal to
// what a later read sees.
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// publish announces a committed change. Failures are logged only: the
// write already succeeded and the worker resyncs on its schedule.
func (b base) publish(ctx context.Context, resource, action, id string) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, amqp.NewEvent(resource, action, id)); err != nil {
		fields := log.NewFields().
			WithResource(resource, id).
			WithOperation(log.OpPublish).
			WithErrorType(log.ErrorTypeNetwork).
			WithError(err)
		fields[log.FieldAction] = action
		b.logger.ErrorContext(ctx, "Failed to publish event", fields.ToSlice()...)
	}
}
