package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify momrefine configuration.

Without arguments, displays the effective configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value in the user config file.

Configuration is stored at ~/.config/momrefine/config.yaml
Project-specific overrides can be placed in .momrefine.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			displayAllConfig(out, cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		default:
			return setConfigKey(out, cfg, args[0], args[1])
		}
	},
}

// configKeys lists the keys in display order.
var configKeys = []string{
	"search.max_depth",
	"search.truncate_depth",
	"search.invent_depth",
	"search.max_size",
	"search.improve_tree",
	"search.fill_holes",
	"ball_search.depth",
	"ball_search.max_word_length",
	"ball_search.min_score",
	"ball_search.beam_width",
	"ball_search.probe_radius",
	"files.words",
	"files.powers",
	"files.mom",
	"files.parameterized",
	"relators",
	"log.level",
	"log.format",
	"log.file",
	"state.enabled",
	"state.db_path",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(w io.Writer, cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(w io.Writer, cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "search.max_depth":
		return strconv.Itoa(cfg.Search.MaxDepth), nil
	case "search.truncate_depth":
		return strconv.Itoa(cfg.Search.TruncateDepth), nil
	case "search.invent_depth":
		return strconv.Itoa(cfg.Search.InventDepth), nil
	case "search.max_size":
		return strconv.Itoa(cfg.Search.MaxSize), nil
	case "search.improve_tree":
		return strconv.FormatBool(cfg.Search.ImproveTree), nil
	case "search.fill_holes":
		return strconv.FormatBool(cfg.Search.FillHoles), nil
	case "ball_search.depth":
		return strconv.Itoa(cfg.BallSearch.Depth), nil
	case "ball_search.max_word_length":
		return strconv.Itoa(cfg.BallSearch.MaxWordLength), nil
	case "ball_search.min_score":
		return strconv.FormatFloat(cfg.BallSearch.MinScore, 'g', -1, 64), nil
	case "ball_search.beam_width":
		return strconv.Itoa(cfg.BallSearch.BeamWidth), nil
	case "ball_search.probe_radius":
		return strconv.FormatFloat(cfg.BallSearch.ProbeRadius, 'g', -1, 64), nil
	case "files.words":
		return orNotSet(cfg.Files.Words), nil
	case "files.powers":
		return orNotSet(cfg.Files.Powers), nil
	case "files.mom":
		return orNotSet(cfg.Files.Mom), nil
	case "files.parameterized":
		return orNotSet(cfg.Files.Parameterized), nil
	case "relators":
		return orNotSet(strings.Join(cfg.Relators, ",")), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	case "log.file":
		return orNotSet(cfg.Log.File), nil
	case "state.enabled":
		return strconv.FormatBool(cfg.State.Enabled), nil
	case "state.db_path":
		return cfg.State.DBPath, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	key = strings.ToLower(key)
	intField := map[string]*int{
		"search.max_depth":            &cfg.Search.MaxDepth,
		"search.truncate_depth":       &cfg.Search.TruncateDepth,
		"search.invent_depth":         &cfg.Search.InventDepth,
		"search.max_size":             &cfg.Search.MaxSize,
		"ball_search.depth":           &cfg.BallSearch.Depth,
		"ball_search.max_word_length": &cfg.BallSearch.MaxWordLength,
		"ball_search.beam_width":      &cfg.BallSearch.BeamWidth,
	}
	if p, ok := intField[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		*p = n
		return nil
	}
	boolField := map[string]*bool{
		"search.improve_tree": &cfg.Search.ImproveTree,
		"search.fill_holes":   &cfg.Search.FillHoles,
		"state.enabled":       &cfg.State.Enabled,
	}
	if p, ok := boolField[key]; ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		*p = b
		return nil
	}
	floatField := map[string]*float64{
		"ball_search.min_score":    &cfg.BallSearch.MinScore,
		"ball_search.probe_radius": &cfg.BallSearch.ProbeRadius,
	}
	if p, ok := floatField[key]; ok {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %w", key, err)
		}
		*p = f
		return nil
	}

	switch key {
	case "files.words":
		cfg.Files.Words = value
	case "files.powers":
		cfg.Files.Powers = value
	case "files.mom":
		cfg.Files.Mom = value
	case "files.parameterized":
		cfg.Files.Parameterized = value
	case "relators":
		cfg.Relators = splitList(value)
	case "log.level":
		cfg.Log.Level = value
	case "log.format":
		cfg.Log.Format = value
	case "log.file":
		cfg.Log.File = value
	case "state.db_path":
		cfg.State.DBPath = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
