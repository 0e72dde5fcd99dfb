package main

import (
	"flag"
	"path/filepath"

	"github.com/CoMfUcIoS/pomo/internal/config"
)

// Flags holds runtime knobs not kept in the settings file.
type Flags struct {
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MetricsAddr   string
	Name          string
	Repeat        int
	Debug         bool
}

var flags Flags

// init registers flags into the global flag set. main() parses and dispatches.
func init() {
	flag.StringVar(&flags.DataDir, "data-dir", "", "state directory (default ~/.pomo, '-' disables persistence)")
	flag.StringVar(&flags.RedisAddr, "redis", "", "redis address; if set timers persist to redis instead of the flat file")
	flag.StringVar(&flags.RedisPassword, "redis-password", "", "redis password")
	flag.IntVar(&flags.RedisDB, "redis-db", 0, "redis database number")
	flag.StringVar(&flags.MetricsAddr, "metrics", ":9100", "metrics, dashboard and health listen address (watch mode)")
	flag.StringVar(&flags.Name, "name", "", "timer name (start)")
	flag.IntVar(&flags.Repeat, "repeat", 1, "number of repetitions (start)")
	flag.BoolVar(&flags.Debug, "debug", false, "enable debug logs")
}

// loadSettings reads config.yaml from the state directory and applies flag
// overrides. The returned value is what the store forwards to timer
// deserialization.
func loadSettings() (*config.Config, error) {
	probe := config.Default()
	probe.DataDir = flags.DataDir
	dir := probe.StateDir()
	if dir == "" {
		return probe, nil
	}
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	return cfg, nil
}
