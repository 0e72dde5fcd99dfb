package store

import (
	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// Backend persists the full timer set. Save always rewrites the whole
// snapshot; Load returns every readable record and skips the rest as soft
// errors. The flat file is the default; Redis exists for setups that share
// timers between machines.
type Backend interface {
	Load(cfg *config.Config) ([]*timer.Timer, error)
	Save(timers []*timer.Timer) error
}

// Open selects a backend from configuration. An empty redisAddr selects the
// flat file; an unresolvable state directory disables persistence, which is
// reported once and leaves the store memory-only.
func Open(cfg *config.Config, redisAddr, redisPassword string, redisDB int) (Backend, error) {
	if redisAddr != "" {
		obs.Info("store.backend", obs.Fields{"type": "redis", "addr": redisAddr})
		return newRedisBackend(redisAddr, redisPassword, redisDB)
	}
	path := cfg.TimersPath()
	if path == "" {
		obs.Warn("store.backend", obs.Fields{"type": "memory", "reason": "no state directory"})
		return nil, nil
	}
	obs.Info("store.backend", obs.Fields{"type": "file", "path": path})
	return newFileBackend(path)
}
