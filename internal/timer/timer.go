package timer

import (
	"fmt"
	"time"
)

// Timer is a single countdown. The zero ID means "not yet assigned"; the
// store hands out IDs at insertion time.
type Timer struct {
	ID        int
	Name      string
	Duration  time.Duration
	StartTime *time.Time

	// Repeat is the number of runs left (>= 1 for a live timer).
	Repeat    int
	MaxRepeat int

	// Paused freezes the countdown; Remaining holds the frozen value.
	Paused    bool
	Remaining time.Duration
}

// New creates an unstarted timer. A repeat below 1 is treated as 1.
func New(name string, d time.Duration, repeat int) *Timer {
	if repeat < 1 {
		repeat = 1
	}
	return &Timer{Name: name, Duration: d, Repeat: repeat, MaxRepeat: repeat}
}

// WithID sets the ID and returns the timer, for callers inserting at an
// explicit slot.
func (t *Timer) WithID(id int) *Timer {
	t.ID = id
	return t
}

// Start stamps the timer's start time. Starting an already running timer
// restarts it from the full duration.
func (t *Timer) Start() {
	now := time.Now()
	t.StartTime = &now
	t.Paused = false
	t.Remaining = 0
}

// Stop clears the start time; the timer keeps its identity but no longer
// reports a remaining time.
func (t *Timer) Stop() {
	t.StartTime = nil
	t.Paused = false
	t.Remaining = 0
}

// Pause freezes the countdown at its current remaining time.
// Pausing a timer that is not running is a no-op.
func (t *Timer) Pause() {
	rem, ok := t.TimeRemaining()
	if !ok || t.Paused {
		return
	}
	t.Paused = true
	t.Remaining = rem
}

// Resume re-stamps the start time so the countdown continues from the
// frozen remaining value.
func (t *Timer) Resume() {
	if !t.Paused {
		return
	}
	start := time.Now().Add(t.Remaining - t.Duration)
	t.StartTime = &start
	t.Paused = false
	t.Remaining = 0
}

// TimeRemaining reports the time until expiry. ok is false when the timer
// was never started or has already run out; paused timers report their
// frozen value.
func (t *Timer) TimeRemaining() (time.Duration, bool) {
	if t.StartTime == nil {
		return 0, false
	}
	if t.Paused {
		return t.Remaining, true
	}
	rem := t.Duration - time.Since(*t.StartTime)
	if rem <= 0 {
		return 0, false
	}
	return rem, true
}

// Expired reports whether a started, unpaused timer has run out.
func (t *Timer) Expired() bool {
	if t.StartTime == nil || t.Paused {
		return false
	}
	return time.Since(*t.StartTime) >= t.Duration
}

// Finish consumes one repetition. It returns true and restarts the
// countdown when runs remain, false when the timer is done for good.
func (t *Timer) Finish() bool {
	if t.Repeat > 1 {
		t.Repeat--
		t.Start()
		return true
	}
	t.Repeat = 0
	t.Stop()
	return false
}

// String renders the timer for lists and notifications.
func (t *Timer) String() string {
	label := t.Name
	if label == "" {
		label = "Timer"
	}
	if t.MaxRepeat > 1 {
		label = fmt.Sprintf("%s (%d/%d)", label, t.MaxRepeat-t.Repeat+1, t.MaxRepeat)
	}
	if rem, ok := t.TimeRemaining(); ok {
		return fmt.Sprintf("#%d %s %s", t.ID, label, FormatRemaining(rem))
	}
	return fmt.Sprintf("#%d %s (not running)", t.ID, label)
}

// FormatRemaining renders a countdown as MM:SS, or H:MM:SS past an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
