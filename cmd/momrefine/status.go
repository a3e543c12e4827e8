package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/state"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs",
	Long: `Display the most recent runs recorded in the run ledger.

Shows for each run:
  - Start box and status
  - Nodes added, eliminations and holes
  - When it started and how long it took`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "Number of runs to show (0 for all)")
}

// openLedger opens the configured run ledger. It returns nil when no
// ledger has been written yet.
func openLedger() (state.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.State.DBPath); os.IsNotExist(err) {
		return nil, nil
	}
	return openStore(cfg.State.DBPath)
}

// openStore opens and migrates the ledger at path, creating it if needed.
func openStore(path string) (state.Store, error) {
	db, err := state.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if db == nil {
		fmt.Fprintln(out, "No runs recorded. Run 'momrefine refine' to start.")
		return nil
	}
	defer db.Close()

	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded. Run 'momrefine refine' to start.")
		return nil
	}

	fmt.Fprintln(out, "Recent Runs:")
	for _, r := range runs {
		displayRun(out, r, time.Now())
	}
	return nil
}

func displayRun(w io.Writer, r state.Run, now time.Time) {
	boxName := r.Box
	if boxName == "" {
		boxName = "(root)"
	}
	elapsed := formatDuration(now.Sub(r.StartedAt))
	fmt.Fprintf(w, "  %s: %s %s (%s ago)\n", r.ID, boxName, r.Status, elapsed)
	if r.FinishedAt == nil {
		return
	}
	fmt.Fprintf(w, "    %s nodes added, %s eliminations, %d holes, took %s\n",
		formatNumber(r.NodesAdded),
		formatNumber(r.Eliminations),
		r.HoleCount,
		formatDuration(r.FinishedAt.Sub(r.StartedAt)))
	if r.Error != "" {
		fmt.Fprintf(w, "    error: %s\n", r.Error)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}

// formatNumber formats a number with commas.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Add commas every 3 digits from the right
	var result strings.Builder
	offset := len(s) % 3
	if offset > 0 {
		result.WriteString(s[:offset])
		if len(s) > offset {
			result.WriteString(",")
		}
	}
	for i := offset; i < len(s); i += 3 {
		result.WriteString(s[i : i+3])
		if i+3 < len(s) {
			result.WriteString(",")
		}
	}
	return result.String()
}
