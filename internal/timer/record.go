package timer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
)

// record is the JSON form written to the backing store, one object per line.
// Durations are stored as strings ("25m0s") so the file stays hand-readable.
type record struct {
	ID        int        `json:"id"`
	Name      string     `json:"name,omitempty"`
	Duration  string     `json:"duration"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Repeat    int        `json:"repeat,omitempty"`
	MaxRepeat int        `json:"max_repeat,omitempty"`
	Paused    bool       `json:"paused,omitempty"`
	Remaining string     `json:"remaining,omitempty"`
}

// Serialize renders the timer as a single line with no embedded newlines.
func (t *Timer) Serialize() (string, error) {
	r := record{
		ID:        t.ID,
		Name:      t.Name,
		Duration:  t.Duration.String(),
		StartTime: t.StartTime,
		Repeat:    t.Repeat,
		MaxRepeat: t.MaxRepeat,
		Paused:    t.Paused,
	}
	if t.Paused {
		r.Remaining = t.Remaining.String()
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("serialize timer %d: %w", t.ID, err)
	}
	return string(b), nil
}

// Deserialize parses one persisted line back into a timer. Records without
// a positive ID are rejected; callers treat that as a soft error and skip
// the line. cfg supplies the duration when the record lacks one.
func Deserialize(line string, cfg *config.Config) (*Timer, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty record")
	}
	var r record
	if err := json.Unmarshal([]byte(line), &r); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	if r.ID < 1 {
		return nil, fmt.Errorf("record has no usable id")
	}
	t := &Timer{
		ID:        r.ID,
		Name:      r.Name,
		StartTime: r.StartTime,
		Repeat:    r.Repeat,
		MaxRepeat: r.MaxRepeat,
		Paused:    r.Paused,
	}
	if r.Duration != "" {
		d, err := time.ParseDuration(r.Duration)
		if err != nil {
			return nil, fmt.Errorf("record %d duration: %w", r.ID, err)
		}
		t.Duration = d
	} else if cfg != nil {
		t.Duration = cfg.DefaultDuration
	}
	if t.Repeat < 1 {
		t.Repeat = 1
	}
	if t.MaxRepeat < t.Repeat {
		t.MaxRepeat = t.Repeat
	}
	if r.Paused {
		if r.Remaining != "" {
			rem, err := time.ParseDuration(r.Remaining)
			if err != nil {
				return nil, fmt.Errorf("record %d remaining: %w", r.ID, err)
			}
			t.Remaining = rem
		} else {
			t.Remaining = t.Duration
		}
	}
	return t, nil
}
