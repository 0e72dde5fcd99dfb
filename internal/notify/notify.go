package notify

import (
	"os/exec"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// Notifier reacts to timer lifecycle events during a watch loop.
type Notifier interface {
	// Tick fires on every update while the timer is counting down.
	Tick(t *timer.Timer, remaining time.Duration)
	// Done fires when the timer runs out.
	Done(t *timer.Timer)
	// Stopped fires when the timer is removed before running out.
	Stopped(t *timer.Timer)
}

// FromConfig builds the notifier set named in cfg. Unknown names are
// reported and dropped.
func FromConfig(cfg *config.Config) []Notifier {
	var out []Notifier
	for _, name := range cfg.Notifiers {
		switch name {
		case "log":
			out = append(out, &logNotifier{})
		case "command":
			out = append(out, &commandNotifier{command: cfg.NotifyCommand})
		default:
			obs.Warn("notify.unknown", obs.Fields{"name": name})
		}
	}
	return out
}

// logNotifier writes timer events to the structured log.
type logNotifier struct{}

func (n *logNotifier) Tick(t *timer.Timer, remaining time.Duration) {
	obs.Debug("timer.tick", obs.Fields{"id": t.ID, "name": t.Name, "remaining": timer.FormatRemaining(remaining)})
}

func (n *logNotifier) Done(t *timer.Timer) {
	obs.Info("timer.done", obs.Fields{"id": t.ID, "name": t.Name})
}

func (n *logNotifier) Stopped(t *timer.Timer) {
	obs.Info("timer.stopped", obs.Fields{"id": t.ID, "name": t.Name})
}

// commandNotifier shells out on completion, e.g. to notify-send. Tick is
// deliberately silent; spawning a process per tick would be absurd.
type commandNotifier struct {
	command string
}

func (n *commandNotifier) Tick(t *timer.Timer, remaining time.Duration) {}

func (n *commandNotifier) Done(t *timer.Timer) { n.run(t, "done") }

func (n *commandNotifier) Stopped(t *timer.Timer) { n.run(t, "stopped") }

func (n *commandNotifier) run(t *timer.Timer, event string) {
	if n.command == "" {
		return
	}
	name := t.Name
	if name == "" {
		name = "Timer"
	}
	cmd := exec.Command(n.command, name, event)
	if err := cmd.Start(); err != nil {
		obs.Error("notify.command", obs.Fields{"cmd": n.command, "err": err.Error()})
		return
	}
	// Reap in the background so finished notifiers don't pile up as zombies.
	go func() { _ = cmd.Wait() }()
}
