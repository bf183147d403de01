package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinSize != DefaultMinSize {
		t.Errorf("MinSize = %q, want default %q", cfg.MinSize, DefaultMinSize)
	}
	if cfg.TimeBudgetMin != DefaultTimeBudgetMin {
		t.Errorf("TimeBudgetMin = %d, want default %d", cfg.TimeBudgetMin, DefaultTimeBudgetMin)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
min_size: 100MiB
include_cloud: true
add_exclude:
  - /mnt/backup
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinSize != "100MiB" {
		t.Errorf("MinSize = %q, want 100MiB", cfg.MinSize)
	}
	if !cfg.IncludeCloud {
		t.Error("include_cloud not applied")
	}
	if len(cfg.AddExclude) != 1 || cfg.AddExclude[0] != "/mnt/backup" {
		t.Errorf("AddExclude = %v", cfg.AddExclude)
	}
	// Untouched keys keep their defaults.
	if cfg.TimeBudgetMin != DefaultTimeBudgetMin {
		t.Errorf("TimeBudgetMin = %d, want default %d", cfg.TimeBudgetMin, DefaultTimeBudgetMin)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("min_size: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")

	cfg := GetDefault()
	cfg.MinSize = "25MiB"
	cfg.Workers = 8
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.MinSize != "25MiB" || loaded.Workers != 8 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"both ext modes", func(c *Config) { c.IgnoreExt = true; c.KeepExt = true }, true},
		{"keep ext alone", func(c *Config) { c.KeepExt = true }, false},
		{"unparseable min size", func(c *Config) { c.MinSize = "ten bananas" }, true},
		{"zero budget", func(c *Config) { c.TimeBudgetMin = 0 }, true},
		{"negative budget", func(c *Config) { c.TimeBudgetMin = -5 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bad glob", func(c *Config) { c.ExcludePatterns = []string{"[unclosed"} }, true},
		{"good glob", func(c *Config) { c.ExcludePatterns = []string{"**/*.tmp"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMinSizeBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10MiB", 10 * 1024 * 1024},
		{"1GiB", 1024 * 1024 * 1024},
		{"500", 500},
		{"0", 0},
	}
	for _, tt := range tests {
		cfg := GetDefault()
		cfg.MinSize = tt.in
		got, err := cfg.MinSizeBytes()
		if err != nil {
			t.Errorf("MinSizeBytes(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MinSizeBytes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	cfg := GetDefault()
	cfg.Workers = 4
	if got := cfg.WorkerCount(); got != 4 {
		t.Errorf("explicit WorkerCount() = %d, want 4", got)
	}

	cfg.Workers = 0
	got := cfg.WorkerCount()
	if got < 2 || got > 16 {
		t.Errorf("auto WorkerCount() = %d, want within [2,16]", got)
	}
}
