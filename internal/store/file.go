package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// fileBackend persists timers to a flat text file, one serialized record
// per line. Every Save truncates and rewrites the file; there is no append
// log and no atomic rename, which is fine at pomodoro scale.
type fileBackend struct {
	path string
}

// newFileBackend ensures the backing file exists. A missing file is created
// empty; failure to create it is fatal.
func newFileBackend(path string) (*fileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create timers file: %w", err)
	}
	_ = f.Close()
	return &fileBackend{path: path}, nil
}

func (b *fileBackend) Load(cfg *config.Config) ([]*timer.Timer, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("open timers file: %w", err)
	}
	defer f.Close()

	var timers []*timer.Timer
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		t, err := timer.Deserialize(sc.Text(), cfg)
		if err != nil {
			// Soft error: report the line and keep loading.
			obs.Error("store.load.skip", obs.Fields{"path": b.path, "line": line, "err": err.Error()})
			obs.StoreLoadErrorsTotal.Inc()
			continue
		}
		timers = append(timers, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read timers file: %w", err)
	}
	return timers, nil
}

func (b *fileBackend) Save(timers []*timer.Timer) error {
	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("open timers file for rewrite: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, t := range timers {
		line, err := t.Serialize()
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			_ = f.Close()
			return fmt.Errorf("write timers file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush timers file: %w", err)
	}
	return f.Close()
}
