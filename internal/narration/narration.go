// Package narration carries the human-readable progress lines a workflow
// emits while it runs. Transports collect them and return them with the
// result; they are informational and never part of the data contract.
package narration

import (
	"fmt"
	"sync"
)

// Sink receives progress lines. A nil Sink drops everything, so callers
// never need to guard.
type Sink func(line string)

// Say emits one line.
func (s Sink) Say(line string) {
	if s != nil {
		s(line)
	}
}

// Sayf emits one formatted line.
func (s Sink) Sayf(format string, args ...any) {
	if s != nil {
		s(fmt.Sprintf(format, args...))
	}
}

// Collector accumulates narration lines for transports that return them in
// the response body. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	lines []string
}

// Sink returns a Sink that appends to the collector.
func (c *Collector) Sink() Sink {
	return func(line string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, line)
	}
}

// Lines returns the collected lines in emission order.
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}
