package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/notify"
	"github.com/CoMfUcIoS/pomo/internal/obs"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pomo [flags] <start|stop|pause|resume|list|watch> [args]")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flags.Debug {
		obs.EnableDebug(true)
	}

	cfg, err := loadSettings()
	if err != nil {
		obs.Error("config.load", obs.Fields{"err": err.Error()})
		os.Exit(1)
	}

	cmd := "list"
	args := flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "start":
		err = cmdStart(cfg, args)
	case "stop":
		err = cmdStop(cfg, args)
	case "pause":
		err = cmdPause(cfg, args)
	case "resume":
		err = cmdResume(cfg, args)
	case "list":
		err = cmdList(cfg, args)
	case "watch":
		err = cmdWatch(cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		obs.Error("pomo."+cmd, obs.Fields{"err": err.Error()})
		os.Exit(1)
	}
}

// cmdWatch runs the countdown loop until interrupted, serving metrics,
// dashboard and state endpoints on the side.
func cmdWatch(cfg *config.Config) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	w := newWatcher(s, notify.FromConfig(cfg), cfg.UpdateInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs.Info("watch.start", obs.Fields{"interval": cfg.UpdateInterval.String(), "metrics": flags.MetricsAddr, "timers": s.Len()})
	go startMetricsServer(flags.MetricsAddr, w)

	w.setReady(true)
	obs.Info("watch.ready", obs.Fields{})
	w.run(ctx)

	w.setClosing(true)
	obs.Info("watch.shutdown", obs.Fields{})
	return nil
}
