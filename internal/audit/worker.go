package audit

import (
	"context"
	"log/slog"
)

// Sink is an optional broker mirror for the worker.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains the recorder inbox into the store and, when configured,
// mirrors each event to the sink. Persistence failures are logged, not
// fatal: losing one audit row must never take the worker down.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(logger *slog.Logger, store Store, sink Sink, inbox <-chan Event) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "append audit event", "error", err, "subject", event.Subject)
			}
			if w.sink == nil {
				continue
			}
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "publish audit event", "error", err, "subject", event.Subject)
			}
		}
	}
}
