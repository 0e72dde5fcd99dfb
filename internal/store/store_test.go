package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

func testBackend(t *testing.T) (*fileBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.TimersFile)
	b, err := newFileBackend(path)
	require.NoError(t, err)
	return b, path
}

func startedAt(tm *timer.Timer, at time.Time) *timer.Timer {
	tm.StartTime = &at
	return tm
}

func TestAddAssignsFirstAvailableID(t *testing.T) {
	b, _ := testBackend(t)
	cfg := config.Default()
	s, err := New(cfg, b)
	require.NoError(t, err)

	t1 := timer.New("one", time.Minute, 1)
	require.NoError(t, s.Add(t1))
	require.Equal(t, 1, t1.ID)

	t2 := timer.New("two", time.Minute, 1)
	require.NoError(t, s.Add(t2))
	require.Equal(t, 2, t2.ID)

	// Remove the low slot; the hole is reused before max+1.
	require.NoError(t, s.Remove(1))
	t3 := timer.New("three", time.Minute, 1)
	require.NoError(t, s.Add(t3))
	require.Equal(t, 1, t3.ID)
}

func TestAddAfterExplicitIDFillsLowestHole(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)

	explicit := timer.New("explicit", time.Minute, 1)
	explicit.ID = 5
	require.NoError(t, s.Add(explicit))

	next := timer.New("next", time.Minute, 1)
	require.NoError(t, s.Add(next))
	require.Equal(t, 1, next.ID, "first available, not max+1")
	require.Equal(t, 2, s.Len())
}

func TestLenMatchesOccupiedSlots(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	for _, id := range []int{2, 4, 9} {
		tm := timer.New("t", time.Minute, 1)
		tm.ID = id
		require.NoError(t, s.Add(tm))
	}
	occupied := 0
	for id := 1; id <= 10; id++ {
		if s.Get(id) != nil {
			occupied++
		}
	}
	require.Equal(t, s.Len(), occupied)
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	require.NoError(t, s.Add(timer.New("only", time.Minute, 1)))
	require.NoError(t, s.Remove(99))
	require.Equal(t, 1, s.Len())
}

func TestLatestPrefersGreatestStartTime(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)

	base := time.Now()
	older := startedAt(timer.New("older", time.Minute, 1), base.Add(-time.Hour))
	newer := startedAt(timer.New("newer", time.Minute, 1), base)
	idle := timer.New("idle", time.Minute, 1)
	require.NoError(t, s.Add(older))
	require.NoError(t, s.Add(newer))
	require.NoError(t, s.Add(idle))

	got := s.Latest()
	require.NotNil(t, got)
	require.Equal(t, newer.ID, got.ID)
}

func TestLatestTieGoesToLowestID(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)

	at := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add(startedAt(timer.New("t", time.Minute, 1), at)))
	}
	got := s.Latest()
	require.NotNil(t, got)
	require.Equal(t, 1, got.ID)
}

func TestLatestEmptyStore(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	require.Nil(t, s.Latest())
	require.Nil(t, s.FirstToFinish())
}

func TestFirstToFinishSkipsIdleTimers(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)

	// IDs 1..5 with remaining times [none, 30s, 10s, none, 20s].
	now := time.Now()
	durations := []time.Duration{0, 30 * time.Second, 10 * time.Second, 0, 20 * time.Second}
	for i, d := range durations {
		tm := timer.New("t", time.Hour, 1)
		tm.ID = i + 1
		if d > 0 {
			tm.Duration = d
			tm.StartTime = &now
		}
		require.NoError(t, s.Add(tm))
	}

	got := s.FirstToFinish()
	require.NotNil(t, got)
	require.Equal(t, 3, got.ID)
}

func TestFirstToFinishAllIdle(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	require.NoError(t, s.Add(timer.New("a", time.Minute, 1)))
	require.NoError(t, s.Add(timer.New("b", time.Minute, 1)))
	require.Nil(t, s.FirstToFinish())
}

func TestPopExplicitID(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	tm := timer.New("target", time.Minute, 1)
	require.NoError(t, s.Add(tm))

	got, err := s.Pop(tm.ID)
	require.NoError(t, err)
	require.Equal(t, tm, got)
	require.True(t, s.IsEmpty())

	got, err = s.Pop(tm.ID)
	require.NoError(t, err)
	require.Nil(t, got, "popping an absent id yields nil, not an error")
}

func TestPopLatestSingleTimerAnySlot(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)

	tm := timer.New("lonely", time.Minute, 1)
	tm.ID = 7 // never started, parked in a high slot
	require.NoError(t, s.Add(tm))

	got, err := s.PopLatest()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 7, got.ID)
	require.True(t, s.IsEmpty())
}

func TestPopLatestMultipleWithoutStartTimes(t *testing.T) {
	b, _ := testBackend(t)
	s, err := New(config.Default(), b)
	require.NoError(t, err)
	require.NoError(t, s.Add(timer.New("a", time.Minute, 1)))
	require.NoError(t, s.Add(timer.New("b", time.Minute, 1)))

	got, err := s.PopLatest()
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 2, s.Len(), "nothing removed when no timer qualifies")
}

func TestRoundTripAcrossRestart(t *testing.T) {
	b, path := testBackend(t)
	cfg := config.Default()
	s, err := New(cfg, b)
	require.NoError(t, err)

	running := timer.New("running", 20*time.Minute, 2)
	running.Start()
	idle := timer.New("idle", 5*time.Minute, 1)
	require.NoError(t, s.Add(running))
	require.NoError(t, s.Add(idle))

	// Simulated restart: a fresh store over the same file.
	b2, err := newFileBackend(path)
	require.NoError(t, err)
	s2, err := New(cfg, b2)
	require.NoError(t, err)

	require.Equal(t, s.Len(), s2.Len())
	for _, want := range s.All() {
		got := s2.Get(want.ID)
		require.NotNil(t, got, "timer %d survived restart", want.ID)
		require.Equal(t, want.Name, got.Name)
		require.Equal(t, want.Duration, got.Duration)
		require.Equal(t, want.Repeat, got.Repeat)
	}
}

func TestUpdateSavedRemoveBeatsStaleMemory(t *testing.T) {
	b, _ := testBackend(t)
	cfg := config.Default()
	s, err := New(cfg, b)
	require.NoError(t, err)

	keep := timer.New("keep", time.Minute, 1)
	stale := timer.New("stale", time.Minute, 1)
	require.NoError(t, s.Add(keep))
	require.NoError(t, s.Add(stale))

	require.NoError(t, s.UpdateSaved(stale, true))

	// Memory still holds the stale copy; the persisted set does not.
	require.NotNil(t, s.Get(stale.ID))
	require.NoError(t, s.Reload())
	require.Nil(t, s.Get(stale.ID))
	require.NotNil(t, s.Get(keep.ID))
}

func TestUpdateSavedInsertReconcilesFromDisk(t *testing.T) {
	b, path := testBackend(t)
	cfg := config.Default()
	s, err := New(cfg, b)
	require.NoError(t, err)
	require.NoError(t, s.Add(timer.New("existing", time.Minute, 1)))

	// Another process appends a timer behind our back.
	other, err := New(cfg, mustFileBackend(t, path))
	require.NoError(t, err)
	foreign := timer.New("foreign", time.Minute, 1)
	foreign.ID = 9
	require.NoError(t, other.Add(foreign))

	mine := timer.New("mine", time.Minute, 1)
	mine.ID = 2
	require.NoError(t, s.UpdateSaved(mine, false))

	require.NoError(t, s.Reload())
	require.NotNil(t, s.Get(1), "existing survived")
	require.NotNil(t, s.Get(2), "reconciled timer written")
	require.NotNil(t, s.Get(9), "foreign timer not clobbered")
}

func TestScenarioStartStartPop(t *testing.T) {
	b, path := testBackend(t)
	cfg := config.Default()
	s, err := New(cfg, b)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "backing file created at construction")

	base := time.Now()
	first := startedAt(timer.New("first", time.Minute, 1), base.Add(-100*time.Second))
	second := startedAt(timer.New("second", time.Minute, 1), base.Add(-50*time.Second))
	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))
	require.Equal(t, 1, first.ID)
	require.Equal(t, 2, second.ID)

	require.Equal(t, 2, s.Latest().ID)

	popped, err := s.PopLatest()
	require.NoError(t, err)
	require.Equal(t, 2, popped.ID)

	// File now holds exactly ID 1's line.
	left, err := b.Load(cfg)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, 1, left[0].ID)
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := New(config.Default(), nil)
	require.NoError(t, err)

	tm := timer.New("volatile", time.Minute, 1)
	require.NoError(t, s.Add(tm))
	require.Equal(t, 1, tm.ID)
	require.NoError(t, s.UpdateSaved(tm, true), "reconciliation is a no-op without a backend")
	require.NoError(t, s.Reload())
	require.NotNil(t, s.Get(1), "memory survives a reload with no backend")
	require.NoError(t, s.Remove(1))
	require.True(t, s.IsEmpty())
}

func mustFileBackend(t *testing.T, path string) *fileBackend {
	t.Helper()
	b, err := newFileBackend(path)
	require.NoError(t, err)
	return b
}
