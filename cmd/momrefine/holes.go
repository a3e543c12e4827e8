package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/state"
)

var (
	holesWords bool
	holesPurge time.Duration
)

var holesCmd = &cobra.Command{
	Use:   "holes [run-id]",
	Short: "List the holes left by a run",
	Long: `List the boxes a run left as HOLEs, with the budget that stopped each one.

Without a run id, the latest run is shown. With --words, the test words the
run invented are listed too. With --purge, runs older than the given age
are deleted first.

Examples:
  momrefine holes
  momrefine holes run-1a2b3c4d --words
  momrefine holes --purge 720h`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHoles,
}

func init() {
	holesCmd.Flags().BoolVar(&holesWords, "words", false, "Also list invented test words")
	holesCmd.Flags().DurationVar(&holesPurge, "purge", 0, "Delete runs older than this age first")
}

func runHoles(cmd *cobra.Command, args []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if db == nil {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	defer db.Close()

	if holesPurge > 0 {
		n, err := db.PurgeOldRuns(holesPurge)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged %d runs older than %s\n", n, holesPurge)
	}

	var run *state.Run
	if len(args) == 1 {
		run, err = db.GetRun(args[0])
	} else {
		run, err = db.LatestRun()
	}
	if err != nil {
		return err
	}
	if run == nil {
		if len(args) == 1 {
			return fmt.Errorf("run %s not found", args[0])
		}
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	holes, err := db.ListHoles(run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Run %s: %d holes\n", run.ID, len(holes))
	for _, h := range holes {
		fmt.Fprintf(out, "  %s depth=%d %s", h.Box, h.Depth, h.Reason)
		if h.Description != "" && h.Description != "-" {
			fmt.Fprintf(out, " [%s]", h.Description)
		}
		fmt.Fprintln(out)
	}

	if !holesWords {
		return nil
	}
	words, err := db.ListInvented(run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Invented %d words:\n", len(words))
	for _, w := range words {
		fmt.Fprintf(out, "  #%d %s at %s (from %s)\n", w.TestIndex, w.Word, w.Box, w.FromBox)
	}
	return nil
}
