package notify

import (
	"testing"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Notifiers = []string{"log", "bogus", "command"}
	cfg.NotifyCommand = "true"

	got := FromConfig(cfg)
	if len(got) != 2 {
		t.Fatalf("FromConfig() built %d notifiers, want 2 (unknown names dropped)", len(got))
	}
	if _, ok := got[0].(*logNotifier); !ok {
		t.Errorf("first notifier = %T, want *logNotifier", got[0])
	}
	if _, ok := got[1].(*commandNotifier); !ok {
		t.Errorf("second notifier = %T, want *commandNotifier", got[1])
	}
}

func TestCommandNotifierWithoutCommand(t *testing.T) {
	n := &commandNotifier{}
	// Must not spawn anything with no command configured.
	n.Done(timer.New("quiet", time.Minute, 1))
}
