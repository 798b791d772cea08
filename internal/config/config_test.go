package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/spine/internal/extract"
)

func TestToEngineConfig(t *testing.T) {
	base := extract.DefaultExtractionConfig()

	t.Run("zero overrides keep base", func(t *testing.T) {
		got := ExtractionCfg{}.ToEngineConfig(base)
		if got.MaxIndexPages != base.MaxIndexPages || got.MinTableCellFill != base.MinTableCellFill {
			t.Errorf("zero overrides changed the base: %+v", got)
		}
	})

	t.Run("set fields win", func(t *testing.T) {
		override := ExtractionCfg{
			MaxIndexPages:    30,
			MinTableCellFill: 0.5,
		}
		got := override.ToEngineConfig(base)
		if got.MaxIndexPages != 30 {
			t.Errorf("expected MaxIndexPages 30, got %d", got.MaxIndexPages)
		}
		if got.MinTableCellFill != 0.5 {
			t.Errorf("expected MinTableCellFill 0.5, got %v", got.MinTableCellFill)
		}
		// Untouched fields keep the base values.
		if got.MinIndexEntries != base.MinIndexEntries {
			t.Errorf("expected MinIndexEntries %d, got %d", base.MinIndexEntries, got.MinIndexEntries)
		}
	})
}

func TestIsZero(t *testing.T) {
	if !(ExtractionCfg{}).IsZero() {
		t.Error("empty override should be zero")
	}
	if (ExtractionCfg{MaxIndexPages: 1}).IsZero() {
		t.Error("set override should not be zero")
	}
}

func TestForBookType(t *testing.T) {
	cfg := &Config{
		Extraction: ExtractionCfg{MinContentLength: 400},
		BookTypes: map[string]ExtractionCfg{
			"novel": {MaxIndexPages: 8},
		},
	}

	t.Run("baseline override applies to every type", func(t *testing.T) {
		got := cfg.ForBookType(extract.BookTypeAcademic)
		if got.MinContentLength != 400 {
			t.Errorf("expected MinContentLength 400, got %d", got.MinContentLength)
		}
		// Tuned values without an override survive.
		if got.MaxIndexPages != 20 {
			t.Errorf("expected the academic index window, got %d", got.MaxIndexPages)
		}
	})

	t.Run("per-type override wins over baseline and tuning", func(t *testing.T) {
		got := cfg.ForBookType(extract.BookTypeNovel)
		if got.MaxIndexPages != 8 {
			t.Errorf("expected MaxIndexPages 8, got %d", got.MaxIndexPages)
		}
		if got.SkipInitialPages != 3 {
			t.Errorf("expected the novel skip pages, got %d", got.SkipInitialPages)
		}
		if got.MinContentLength != 400 {
			t.Errorf("expected baseline MinContentLength 400, got %d", got.MinContentLength)
		}
	})

	t.Run("unknown type uses defaults", func(t *testing.T) {
		plain := &Config{}
		got := plain.ForBookType(extract.BookTypeUnknown)
		if got.MaxIndexPages != 15 || got.MinIndexEntries != 3 {
			t.Errorf("expected engine defaults, got %+v", got)
		}
	})
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("batch:\n  max_workers: 2\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if got := cm.Get().Batch.MaxWorkers; got != 2 {
		t.Fatalf("expected max_workers 2, got %d", got)
	}

	reloaded := make(chan *Config, 1)
	cm.OnChange(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	cm.WatchConfig()

	if err := os.WriteFile(path, []byte("batch:\n  max_workers: 6\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Batch.MaxWorkers != 6 {
			t.Errorf("expected reloaded max_workers 6, got %d", cfg.Batch.MaxWorkers)
		}
		if got := cm.Get().Batch.MaxWorkers; got != 6 {
			t.Errorf("expected Get to observe the reload, got %d", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid yaml: %v", err)
	}
	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected default max_workers 4, got %d", cfg.Batch.MaxWorkers)
	}
}
