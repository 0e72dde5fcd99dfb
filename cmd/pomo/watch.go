package main

import (
	"context"
	"sync"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/notify"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/store"
)

// watcher drives countdowns: each tick it walks the store, fires notifiers
// and retires expired timers (restarting the ones with repeats left).
type watcher struct {
	mu      sync.Mutex
	ready   bool
	closing bool

	store     *store.Store
	notifiers []notify.Notifier
	interval  time.Duration
}

func newWatcher(s *store.Store, notifiers []notify.Notifier, interval time.Duration) *watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &watcher{store: s, notifiers: notifiers, interval: interval}
}

func (w *watcher) setReady(v bool)   { w.mu.Lock(); w.ready = v; w.mu.Unlock() }
func (w *watcher) setClosing(v bool) { w.mu.Lock(); w.closing = v; w.mu.Unlock() }
func (w *watcher) isReady() bool     { w.mu.Lock(); defer w.mu.Unlock(); return w.ready }
func (w *watcher) isClosing() bool   { w.mu.Lock(); defer w.mu.Unlock(); return w.closing }

func (w *watcher) run(ctx context.Context) {
	// Another process may have edited the file between ticks; re-read it so
	// externally started timers show up.
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.Reload(); err != nil {
				obs.Error("watch.reload", obs.Fields{"err": err.Error()})
				continue
			}
			w.sweep()
		}
	}
}

func (w *watcher) sweep() {
	for _, t := range w.store.All() {
		if t.Expired() {
			for _, n := range w.notifiers {
				n.Done(t)
			}
			obs.TimersFinishedTotal.Inc()
			obs.TimerDurationSeconds.Observe(t.Duration.Seconds())
			if t.Finish() {
				// Repeats left: the restarted timer goes back in.
				if err := w.store.Add(t); err != nil {
					obs.Error("watch.restart", obs.Fields{"id": t.ID, "err": err.Error()})
				}
				obs.TimersStartedTotal.Inc()
			} else if err := w.store.Remove(t.ID); err != nil {
				obs.Error("watch.remove", obs.Fields{"id": t.ID, "err": err.Error()})
			}
			continue
		}
		if rem, ok := t.TimeRemaining(); ok && !t.Paused {
			for _, n := range w.notifiers {
				n.Tick(t, rem)
			}
		}
	}
}
