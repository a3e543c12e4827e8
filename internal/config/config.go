// Package config handles configuration loading and management for momrefine.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/momrefine/internal/refine"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for momrefine.
type Config struct {
	Search     SearchConfig     `mapstructure:"search" yaml:"search"`
	BallSearch BallSearchConfig `mapstructure:"ball_search" yaml:"ball_search"`
	Files      FilesConfig      `mapstructure:"files" yaml:"files"`
	Relators   []string         `mapstructure:"relators" yaml:"relators"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	State      StateConfig      `mapstructure:"state" yaml:"state"`
}

// SearchConfig holds the refinement budgets.
type SearchConfig struct {
	MaxDepth      int  `mapstructure:"max_depth" yaml:"max_depth"`
	TruncateDepth int  `mapstructure:"truncate_depth" yaml:"truncate_depth"`
	InventDepth   int  `mapstructure:"invent_depth" yaml:"invent_depth"`
	MaxSize       int  `mapstructure:"max_size" yaml:"max_size"`
	ImproveTree   bool `mapstructure:"improve_tree" yaml:"improve_tree"`
	FillHoles     bool `mapstructure:"fill_holes" yaml:"fill_holes"`
}

// BallSearchConfig holds the test invention settings.
type BallSearchConfig struct {
	// Depth is the gap in levels between searches along a path; negative
	// disables ball search.
	Depth         int     `mapstructure:"depth" yaml:"depth"`
	MaxWordLength int     `mapstructure:"max_word_length" yaml:"max_word_length"`
	MinScore      float64 `mapstructure:"min_score" yaml:"min_score"`
	BeamWidth     int     `mapstructure:"beam_width" yaml:"beam_width"`
	ProbeRadius   float64 `mapstructure:"probe_radius" yaml:"probe_radius"`
}

// FilesConfig names the input word files. Empty paths are skipped.
type FilesConfig struct {
	Words         string `mapstructure:"words" yaml:"words"`
	Powers        string `mapstructure:"powers" yaml:"powers"`
	Mom           string `mapstructure:"mom" yaml:"mom"`
	Parameterized string `mapstructure:"parameterized" yaml:"parameterized"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is console or json.
	Format string `mapstructure:"format" yaml:"format"`
	// File, when set, receives a copy of every entry.
	File string `mapstructure:"file" yaml:"file"`
}

// StateConfig holds the run ledger settings.
type StateConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (MOMREFINE_SEARCH_MAX_DEPTH, ...)
// 2. Project config (.momrefine.yaml in current directory or parent)
// 3. User config (~/.config/momrefine/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := newViper()

	// Load user config from XDG path
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MOMREFINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Files = cfg.Files.Expand()
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.State.DBPath = expandPath(cfg.State.DBPath)
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg *Config) error {
	return SaveTo(cfg, GetUserConfigPath())
}

// SaveTo writes cfg to path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.Set("search.max_depth", cfg.Search.MaxDepth)
	v.Set("search.truncate_depth", cfg.Search.TruncateDepth)
	v.Set("search.invent_depth", cfg.Search.InventDepth)
	v.Set("search.max_size", cfg.Search.MaxSize)
	v.Set("search.improve_tree", cfg.Search.ImproveTree)
	v.Set("search.fill_holes", cfg.Search.FillHoles)
	v.Set("ball_search.depth", cfg.BallSearch.Depth)
	v.Set("ball_search.max_word_length", cfg.BallSearch.MaxWordLength)
	v.Set("ball_search.min_score", cfg.BallSearch.MinScore)
	v.Set("ball_search.beam_width", cfg.BallSearch.BeamWidth)
	v.Set("ball_search.probe_radius", cfg.BallSearch.ProbeRadius)
	v.Set("files.words", cfg.Files.Words)
	v.Set("files.powers", cfg.Files.Powers)
	v.Set("files.mom", cfg.Files.Mom)
	v.Set("files.parameterized", cfg.Files.Parameterized)
	v.Set("relators", cfg.Relators)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("state.enabled", cfg.State.Enabled)
	v.Set("state.db_path", cfg.State.DBPath)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// DefaultDBPath returns the default run ledger location.
func DefaultDBPath() string {
	return filepath.Join(getUserDataDir(), "runs.db")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("search.max_depth", d.Search.MaxDepth)
	v.SetDefault("search.truncate_depth", d.Search.TruncateDepth)
	v.SetDefault("search.invent_depth", d.Search.InventDepth)
	v.SetDefault("search.max_size", d.Search.MaxSize)
	v.SetDefault("search.improve_tree", d.Search.ImproveTree)
	v.SetDefault("search.fill_holes", d.Search.FillHoles)

	v.SetDefault("ball_search.depth", d.BallSearch.Depth)
	v.SetDefault("ball_search.max_word_length", d.BallSearch.MaxWordLength)
	v.SetDefault("ball_search.min_score", d.BallSearch.MinScore)
	v.SetDefault("ball_search.beam_width", d.BallSearch.BeamWidth)
	v.SetDefault("ball_search.probe_radius", d.BallSearch.ProbeRadius)

	// Registered so that environment overrides are seen by Unmarshal.
	v.SetDefault("files.words", "")
	v.SetDefault("files.powers", "")
	v.SetDefault("files.mom", "")
	v.SetDefault("files.parameterized", "")
	v.SetDefault("relators", []string{})

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", "")

	v.SetDefault("state.enabled", d.State.Enabled)
	v.SetDefault("state.db_path", d.State.DBPath)
}

// getUserConfigDir returns the XDG config directory for momrefine.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "momrefine")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "momrefine")
	}
	return filepath.Join(home, ".config", "momrefine")
}

// getUserDataDir returns the XDG data directory for momrefine.
func getUserDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "momrefine")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share", "momrefine")
	}
	return filepath.Join(home, ".local", "share", "momrefine")
}

// findProjectConfig searches for .momrefine.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".momrefine.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	opts := refine.DefaultOptions()
	return &Config{
		Search: SearchConfig{
			MaxDepth:      opts.MaxDepth,
			TruncateDepth: opts.TruncateDepth,
			InventDepth:   opts.InventDepth,
			MaxSize:       opts.MaxSize,
		},
		BallSearch: BallSearchConfig{
			Depth:         opts.BallSearchDepth,
			MaxWordLength: opts.MaxWordLength,
			MinScore:      opts.MinScore,
			BeamWidth:     64,
			ProbeRadius:   0.5,
		},
		Relators: []string{},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		State: StateConfig{
			Enabled: true,
			DBPath:  DefaultDBPath(),
		},
	}
}

// Validate checks the values that the loaders cannot.
func (c *Config) Validate() error {
	if err := c.RefineOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.BallSearch.Depth >= 0 && c.BallSearch.BeamWidth <= 0 {
		return fmt.Errorf("ball_search.beam_width must be positive: %w", ErrInvalid)
	}
	if c.BallSearch.ProbeRadius < 0 || c.BallSearch.ProbeRadius > 1 {
		return fmt.Errorf("ball_search.probe_radius %g outside [0, 1]: %w", c.BallSearch.ProbeRadius, ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalid)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalid)
	}
	for _, r := range c.Relators {
		if strings.Trim(r, "gGmMnN") != "" {
			return fmt.Errorf("relator %q has letters outside g, m, n: %w", r, ErrInvalid)
		}
	}
	if c.State.Enabled && c.State.DBPath == "" {
		return fmt.Errorf("state.db_path is empty: %w", ErrInvalid)
	}
	return nil
}

// RefineOptions returns the search budgets as engine options.
func (c *Config) RefineOptions() refine.Options {
	return refine.Options{
		MaxDepth:        c.Search.MaxDepth,
		TruncateDepth:   c.Search.TruncateDepth,
		InventDepth:     c.Search.InventDepth,
		MaxSize:         c.Search.MaxSize,
		ImproveTree:     c.Search.ImproveTree,
		FillHoles:       c.Search.FillHoles,
		BallSearchDepth: c.BallSearch.Depth,
		MaxWordLength:   c.BallSearch.MaxWordLength,
		MinScore:        c.BallSearch.MinScore,
	}
}
