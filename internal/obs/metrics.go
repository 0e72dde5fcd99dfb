package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveTimers         = promauto.NewGauge(prometheus.GaugeOpts{Name: "pomo_active_timers", Help: "Timers currently held by the store"})
	TimersStartedTotal   = promauto.NewCounter(prometheus.CounterOpts{Name: "pomo_timers_started_total", Help: "Timers started"})
	TimersFinishedTotal  = promauto.NewCounter(prometheus.CounterOpts{Name: "pomo_timers_finished_total", Help: "Timers that ran to completion"})
	StoreSavesTotal      = promauto.NewCounter(prometheus.CounterOpts{Name: "pomo_store_saves_total", Help: "Full rewrites of the backing store"})
	StoreLoadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "pomo_store_load_errors_total", Help: "Persisted records skipped as unreadable"})
	ErrorsTotal          = promauto.NewCounterVec(prometheus.CounterOpts{Name: "pomo_errors_total", Help: "Errors by type"}, []string{"type"})
	TimerDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{Name: "pomo_timer_duration_seconds", Help: "Configured duration of finished timers", Buckets: prometheus.ExponentialBuckets(60, 2, 10)})
)
