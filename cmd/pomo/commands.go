package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/notify"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/store"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

func openStore(cfg *config.Config) (*store.Store, error) {
	backend, err := store.Open(cfg, flags.RedisAddr, flags.RedisPassword, flags.RedisDB)
	if err != nil {
		return nil, err
	}
	return store.New(cfg, backend)
}

// cmdStart creates and starts a timer: pomo [-name x] [-repeat n] start [duration]
func cmdStart(cfg *config.Config, args []string) error {
	d := cfg.DefaultDuration
	if len(args) > 0 {
		parsed, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", args[0], err)
		}
		d = parsed
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	t := timer.New(flags.Name, d, flags.Repeat)
	t.Start()
	if err := s.Add(t); err != nil {
		return err
	}
	obs.TimersStartedTotal.Inc()
	fmt.Println("started", t)
	return nil
}

// cmdStop removes a timer: pomo stop [id]. Without an id the most recently
// started timer goes (or the only one, when a single timer is stored).
func cmdStop(cfg *config.Config, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	var t *timer.Timer
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad timer id %q", args[0])
		}
		if t, err = s.Pop(id); err != nil {
			return err
		}
	} else if t, err = s.PopLatest(); err != nil {
		return err
	}
	if t == nil {
		fmt.Println("no timer to stop")
		return nil
	}
	for _, n := range notify.FromConfig(cfg) {
		n.Stopped(t)
	}
	fmt.Println("stopped", t)
	return nil
}

// cmdPause freezes a timer's countdown. The reconciliation path is used so
// a running watch process's file view stays consistent even if our load
// raced with it.
func cmdPause(cfg *config.Config, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	t, err := pickTimer(s, args)
	if err != nil || t == nil {
		return err
	}
	t.Pause()
	if err := s.UpdateSaved(t, false); err != nil {
		return err
	}
	fmt.Println("paused", t)
	return nil
}

// cmdResume continues a paused timer from its frozen remaining time.
func cmdResume(cfg *config.Config, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	t, err := pickTimer(s, args)
	if err != nil || t == nil {
		return err
	}
	t.Resume()
	if err := s.UpdateSaved(t, false); err != nil {
		return err
	}
	fmt.Println("resumed", t)
	return nil
}

// cmdList prints all stored timers.
func cmdList(cfg *config.Config, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if s.IsEmpty() {
		fmt.Println("no timers")
		return nil
	}
	for _, t := range s.All() {
		fmt.Println(t)
	}
	return nil
}

func pickTimer(s *store.Store, args []string) (*timer.Timer, error) {
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("bad timer id %q", args[0])
		}
		t := s.Get(id)
		if t == nil {
			fmt.Println("no timer", id)
		}
		return t, nil
	}
	t := s.Latest()
	if t == nil {
		fmt.Println("no running timer")
	}
	return t, nil
}
