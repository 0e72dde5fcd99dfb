package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

func TestFileBackend(t *testing.T) {
	cfg := config.Default()

	t.Run("CreatesMissingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", config.TimersFile)
		if _, err := newFileBackend(path); err != nil {
			t.Fatalf("newFileBackend() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("backing file not created: %v", err)
		}
	})

	t.Run("LoadEmptyFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.TimersFile)
		b, err := newFileBackend(path)
		if err != nil {
			t.Fatal(err)
		}
		timers, err := b.Load(cfg)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(timers) != 0 {
			t.Errorf("Load() = %d timers, want 0", len(timers))
		}
	})

	t.Run("SkipsMalformedLines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.TimersFile)
		good1, _ := timer.New("a", time.Minute, 1).WithID(1).Serialize()
		good2, _ := timer.New("b", time.Minute, 1).WithID(2).Serialize()
		content := strings.Join([]string{good1, "not json at all", `{"name":"no id"}`, good2}, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		b, err := newFileBackend(path)
		if err != nil {
			t.Fatal(err)
		}
		timers, err := b.Load(cfg)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(timers) != 2 {
			t.Fatalf("Load() = %d timers, want 2 (malformed lines skipped)", len(timers))
		}
	})

	t.Run("SaveRewritesWholeFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.TimersFile)
		b, err := newFileBackend(path)
		if err != nil {
			t.Fatal(err)
		}
		two := []*timer.Timer{
			timer.New("a", time.Minute, 1).WithID(1),
			timer.New("b", time.Minute, 1).WithID(2),
		}
		if err := b.Save(two); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		one := two[:1]
		if err := b.Save(one); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		timers, err := b.Load(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(timers) != 1 || timers[0].ID != 1 {
			t.Errorf("Load() after truncating Save = %v, want just timer 1", timers)
		}
	})

	t.Run("OneRecordPerLine", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.TimersFile)
		b, err := newFileBackend(path)
		if err != nil {
			t.Fatal(err)
		}
		timers := []*timer.Timer{
			timer.New("a", time.Minute, 1).WithID(1),
			timer.New("b", time.Hour, 3).WithID(2),
		}
		if err := b.Save(timers); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != 2 {
			t.Errorf("file has %d lines, want 2", len(lines))
		}
	})
}
