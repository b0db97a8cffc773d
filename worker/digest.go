package worker

import (
	"context"
	"log/slog"
	"time"
)

// SentMarker is the slice of the cache the worker uses to avoid
// sending the same day twice.
type SentMarker interface {
	WasSent(ctx context.Context, day string) (bool, error)
	MarkSent(ctx context.Context, day string) error
}

// DigestWorker runs the full newsletter flow immediately and then on
// every interval tick.
type DigestWorker struct {
	Interval time.Duration
	Sent     SentMarker // optional double-send guard

	// Run performs one complete run: collect, curate, compose, send.
	// It reports whether a digest actually went out; empty days return
	// false so the day is not marked done and a later tick can retry.
	Run func(ctx context.Context) (bool, error)

	clock func() time.Time
}

func (w *DigestWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 24 * time.Hour
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *DigestWorker) runOnce(ctx context.Context) {
	day := w.now().UTC().Format("2006-01-02")
	if w.Sent != nil {
		sent, err := w.Sent.WasSent(ctx, day)
		if err != nil {
			slog.Warn("digest-worker: sent check failed, running anyway", "day", day, "err", err)
		} else if sent {
			slog.Info("digest-worker: already sent, skipping", "day", day)
			return
		}
	}

	start := time.Now()
	sent, err := w.Run(ctx)
	if err != nil {
		slog.Error("digest-worker: run failed", "day", day, "err", err)
		return
	}
	if sent && w.Sent != nil {
		if err := w.Sent.MarkSent(ctx, day); err != nil {
			slog.Warn("digest-worker: mark sent failed", "day", day, "err", err)
		}
	}
	slog.Info("digest-worker: run done", "day", day, "sent", sent, "took", time.Since(start))
}

func (w *DigestWorker) now() time.Time {
	if w.clock != nil {
		return w.clock()
	}
	return time.Now()
}
