package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	cfg := Default()

	if cfg.Search.MaxDepth != 18 {
		t.Errorf("expected default max depth 18, got %d", cfg.Search.MaxDepth)
	}

	if cfg.Search.TruncateDepth != 6 {
		t.Errorf("expected default truncate depth 6, got %d", cfg.Search.TruncateDepth)
	}

	if cfg.Search.InventDepth != 12 {
		t.Errorf("expected default invent depth 12, got %d", cfg.Search.InventDepth)
	}

	if cfg.Search.MaxSize != 1000000 {
		t.Errorf("expected default max size 1000000, got %d", cfg.Search.MaxSize)
	}

	if cfg.Search.ImproveTree || cfg.Search.FillHoles {
		t.Error("expected improve_tree and fill_holes to be off")
	}

	if cfg.BallSearch.Depth != -1 {
		t.Errorf("expected ball search disabled (-1), got %d", cfg.BallSearch.Depth)
	}

	if cfg.BallSearch.MaxWordLength != 10 {
		t.Errorf("expected max word length 10, got %d", cfg.BallSearch.MaxWordLength)
	}

	if cfg.BallSearch.MinScore != -200 {
		t.Errorf("expected min score -200, got %g", cfg.BallSearch.MinScore)
	}

	if cfg.State.DBPath != "/custom/data/momrefine/runs.db" {
		t.Errorf("expected db path under XDG_DATA_HOME, got %q", cfg.State.DBPath)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
search:
  max_depth: 40
  truncate_depth: 8
  improve_tree: true
ball_search:
  depth: 3
  min_score: -50
files:
  words: ${WORDS_DIR}/words.txt
relators:
  - gmGM
  - gg
log:
  level: debug
state:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("WORDS_DIR", "/data/words")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Search.MaxDepth != 40 {
		t.Errorf("expected max depth 40, got %d", cfg.Search.MaxDepth)
	}

	if cfg.Search.TruncateDepth != 8 {
		t.Errorf("expected truncate depth 8, got %d", cfg.Search.TruncateDepth)
	}

	if cfg.Search.InventDepth != 12 {
		t.Errorf("expected default invent depth 12, got %d", cfg.Search.InventDepth)
	}

	if !cfg.Search.ImproveTree {
		t.Error("expected improve_tree to be true")
	}

	if cfg.BallSearch.Depth != 3 || cfg.BallSearch.MinScore != -50 {
		t.Errorf("expected ball search depth 3 min score -50, got %d %g", cfg.BallSearch.Depth, cfg.BallSearch.MinScore)
	}

	if cfg.Files.Words != "/data/words/words.txt" {
		t.Errorf("expected expanded words path, got %q", cfg.Files.Words)
	}

	if len(cfg.Relators) != 2 || cfg.Relators[0] != "gmGM" {
		t.Errorf("expected relators [gmGM gg], got %v", cfg.Relators)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("expected debug console logging, got %s %s", cfg.Log.Level, cfg.Log.Format)
	}

	if cfg.State.Enabled {
		t.Error("expected state to be disabled")
	}
}

func TestLoadFromPath_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("search:\n  max_depth: 40\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("MOMREFINE_SEARCH_MAX_DEPTH", "24")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Search.MaxDepth != 24 {
		t.Errorf("expected env override 24, got %d", cfg.Search.MaxDepth)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Search.MaxDepth = 30
	cfg.Relators = []string{"gmGM"}
	cfg.Files.Mom = "/tmp/mom.txt"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Search.MaxDepth != 30 {
		t.Errorf("expected max depth 30, got %d", loaded.Search.MaxDepth)
	}
	if len(loaded.Relators) != 1 || loaded.Relators[0] != "gmGM" {
		t.Errorf("expected relators [gmGM], got %v", loaded.Relators)
	}
	if loaded.Files.Mom != "/tmp/mom.txt" {
		t.Errorf("expected mom file /tmp/mom.txt, got %q", loaded.Files.Mom)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative depth", func(c *Config) { c.Search.MaxDepth = -1 }},
		{"depth over capacity", func(c *Config) { c.Search.MaxDepth = 1000 }},
		{"zero beam", func(c *Config) { c.BallSearch.Depth = 2; c.BallSearch.BeamWidth = 0 }},
		{"probe radius", func(c *Config) { c.BallSearch.ProbeRadius = 2 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"relator letters", func(c *Config) { c.Relators = []string{"gxG"} }},
		{"db path", func(c *Config) { c.State.DBPath = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestRefineOptions(t *testing.T) {
	cfg := Default()
	cfg.Search.FillHoles = true
	cfg.BallSearch.Depth = 4

	opts := cfg.RefineOptions()
	if opts.MaxDepth != 18 || opts.TruncateDepth != 6 || opts.InventDepth != 12 {
		t.Errorf("unexpected depths %+v", opts)
	}
	if !opts.FillHoles || opts.ImproveTree {
		t.Errorf("expected fill holes only, got %+v", opts)
	}
	if opts.BallSearchDepth != 4 || opts.MaxWordLength != 10 || opts.MinScore != -200 {
		t.Errorf("unexpected ball search options %+v", opts)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir := getUserConfigDir()
	expected := "/custom/config/momrefine"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	want := filepath.Join(root, ".momrefine.yaml")
	if err := os.WriteFile(want, []byte("search:\n  max_depth: 9\n"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working dir: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got := findProjectConfig()
	gotReal, _ := filepath.EvalSymlinks(got)
	wantReal, _ := filepath.EvalSymlinks(want)
	if gotReal != wantReal {
		t.Errorf("expected %q, got %q", want, got)
	}
}
