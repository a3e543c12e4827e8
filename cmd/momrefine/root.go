package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/config"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "momrefine",
	Short: "Refine parameter-space elimination trees",
	Long: `momrefine extends a binary tree of boxes in the six-dimensional parameter
space of two-generator groups until every box is eliminated by a word test
or a budget runs out.

The tree is read from --tree (or stdin) and the refined tree is written to
--out (or stdout). With no subcommand, momrefine runs refine.

Configuration is read from ~/.config/momrefine/config.yaml, then from
.momrefine.yaml in the current directory or a parent, then from MOMREFINE_*
environment variables. Flags override all of them.`,
	SilenceUsage: true,
	RunE:         runRefine,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Read configuration from this file only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	addRefineFlags(rootCmd)

	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(boxCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(holesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration before command flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// printStatus prints a status message with a colored symbol.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(color.Error, "%s %s\n", c.Sprint(symbol), message)
}
