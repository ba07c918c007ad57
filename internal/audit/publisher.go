package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder is what domain code emits events through. The send never blocks:
// a full inbox drops the event with a warning rather than stalling a
// verification.
type Recorder struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{inbox: make(chan Event, buffer), logger: logger}
}

// Inbox exposes the channel the worker drains.
func (r *Recorder) Inbox() <-chan Event { return r.inbox }

func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil {
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"workflow", event.Workflow, "subject", event.Subject)
	}
}
