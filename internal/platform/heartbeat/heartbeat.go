// Package heartbeat pings an external liveness endpoint on a fixed
// interval (healthchecks.io style dead-man's switch).
package heartbeat

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultInterval fits comfortably inside a five-minute check period with
// a three-minute grace.
const DefaultInterval = 4*time.Minute + 30*time.Second

type Heartbeat struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
}

func New(logger *slog.Logger, url string, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Heartbeat{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Run pings until the context is cancelled. Failures are logged at debug
// and otherwise ignored: a missed ping is exactly what the monitor is for.
func (h *Heartbeat) Run(ctx context.Context) {
	if h.url == "" {
		return
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ping(ctx)
		}
	}
}

func (h *Heartbeat) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.DebugContext(ctx, "heartbeat ping failed", "error", err)
		return
	}
	resp.Body.Close()
}
