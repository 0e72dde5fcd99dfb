package main

import (
	"fmt"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/store"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// TimerInfo is one timer row for the API & dashboard.
type TimerInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Remaining string `json:"remaining"`
	Repeat    string `json:"repeat"`
}

// Stats represents the current registry state for dashboards & API.
type Stats struct {
	Total      int         `json:"total"`
	Running    int         `json:"running"`
	NextFinish string      `json:"next_finish,omitempty"`
	Timers     []TimerInfo `json:"timers"`
	Now        string      `json:"now"`
}

func collectStats(s *store.Store) Stats {
	st := Stats{Now: time.Now().UTC().Format(time.RFC3339)}
	for _, t := range s.All() {
		info := TimerInfo{ID: t.ID, Name: t.Name}
		if t.MaxRepeat > 1 {
			info.Repeat = fmt.Sprintf("%d/%d", t.MaxRepeat-t.Repeat+1, t.MaxRepeat)
		}
		if rem, ok := t.TimeRemaining(); ok {
			info.Remaining = timer.FormatRemaining(rem)
			st.Running++
		} else {
			info.Remaining = "-"
		}
		st.Timers = append(st.Timers, info)
		st.Total++
	}
	if next := s.FirstToFinish(); next != nil {
		if rem, ok := next.TimeRemaining(); ok {
			st.NextFinish = timer.FormatRemaining(rem)
		}
	}
	return st
}

// ToTemplateMap returns a map suited for html/template rendering with expected capitalized keys.
func (s Stats) ToTemplateMap() map[string]any {
	return map[string]any{
		"Timers":  s.Timers,
		"Total":   s.Total,
		"Running": s.Running,
	}
}
