package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/momrefine/internal/config"
	"github.com/ShayCichocki/momrefine/internal/refine"
	"github.com/ShayCichocki/momrefine/internal/state"
	"github.com/ShayCichocki/momrefine/internal/testset"
	"github.com/ShayCichocki/momrefine/internal/tree"
)

// inputs holds the word lists read from the configured files.
type inputs struct {
	words         []string
	powers        []string
	mom           []string
	parameterized []string
}

// loadInputs reads every configured word file concurrently. Empty paths
// yield empty lists.
func loadInputs(ctx context.Context, files config.FilesConfig) (*inputs, error) {
	in := &inputs{}
	g, ctx := errgroup.WithContext(ctx)

	read := func(path string, dst *[]string) {
		if path == "" {
			return
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, err := testset.ReadWords(path)
			if err != nil {
				return err
			}
			*dst = words
			return nil
		})
	}
	read(files.Words, &in.words)
	read(files.Powers, &in.powers)
	read(files.Mom, &in.mom)
	read(files.Parameterized, &in.parameterized)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	return in, nil
}

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	summaryLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(20)
	summaryValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
	summaryDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
	summaryOpen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// printSummary writes the run panel followed by the node count line.
func printSummary(w io.Writer, run *refinement) {
	res := run.result

	status := summaryOpen.Render("incomplete")
	if res.Complete {
		status = summaryDone.Render("complete")
	}
	boxName := run.boxPath
	if boxName == "" {
		boxName = "(root)"
	}

	rows := [][2]string{
		{"Run", run.id},
		{"Box", boxName},
		{"Status", status},
		{"Eliminations", fmt.Sprintf("%d", res.TotalEliminations())},
	}
	for _, class := range res.EliminationClasses() {
		rows = append(rows, [2]string{"  " + class, fmt.Sprintf("%d", res.Eliminations[class])})
	}
	rows = append(rows,
		[2]string{"Holes", fmt.Sprintf("%d", len(res.Holes))},
		[2]string{"Truncated", fmt.Sprintf("%d", res.Truncated)},
		[2]string{"Drifts", fmt.Sprintf("%d", len(res.Drifts))},
		[2]string{"Ball searches", fmt.Sprintf("%d", res.BallSearches)},
		[2]string{"Invented tests", fmt.Sprintf("%d", len(res.Invented))},
	)
	if res.InvalidIdentities > 0 {
		rows = append(rows, [2]string{"Invalid identities", summaryOpen.Render(fmt.Sprintf("%d", res.InvalidIdentities))})
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = summaryLabel.Render(r[0]) + summaryValue.Render(r[1])
	}
	fmt.Fprintln(w, summaryBox.Render(strings.Join(lines, "\n")))
	fmt.Fprintf(w, "%d nodes added\n", res.NodesAdded)
}

// report is the YAML document written by --report.
type report struct {
	Run     string         `yaml:"run"`
	Box     string         `yaml:"box"`
	Options refine.Options `yaml:"options"`
	Result  *refine.Result `yaml:"result"`
}

func writeReport(path string, run *refinement) error {
	data, err := yaml.Marshal(report{
		Run:     run.id,
		Box:     run.boxPath,
		Options: run.opts,
		Result:  run.result,
	})
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// persist records run in the ledger. Ledger failures are logged and never
// fail the run.
func (r *refiner) persist(run *refinement) {
	if !r.cfg.State.Enabled {
		return
	}
	store, err := openStore(r.cfg.State.DBPath)
	if err != nil {
		r.logger.Warn("run ledger unavailable", zap.String("run", run.id), zap.Error(err))
		return
	}
	defer store.Close()
	if err := recordRun(store, run); err != nil {
		r.logger.Warn("run not recorded", zap.String("run", run.id), zap.Error(err))
	}
}

// recordRun writes run with its holes and invented words to store.
func recordRun(store state.Store, run *refinement) error {
	opts, err := json.Marshal(run.opts)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	row := &state.Run{
		ID:      run.id,
		Box:     run.boxPath,
		TreeIn:  run.treeIn,
		Options: string(opts),
	}
	if err := store.CreateRun(row); err != nil {
		return err
	}

	row.Status = run.status()
	if run.err != nil {
		row.Error = run.err.Error()
	}
	if res := run.result; res != nil {
		var out strings.Builder
		if err := tree.Write(&out, run.tree, run.tests); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
		row.TreeOut = out.String()
		row.NodesAdded = res.NodesAdded
		row.Eliminations = res.TotalEliminations()
		row.InvalidIdentities = res.InvalidIdentities
		row.Drifts = len(res.Drifts)
		row.HoleCount = len(res.Holes)

		holes := make([]state.HoleRecord, len(res.Holes))
		for i, h := range res.Holes {
			holes[i] = state.HoleRecord{Box: h.Box, Description: h.Desc, Depth: h.Depth, Reason: h.Reason}
		}
		if err := store.RecordHoles(run.id, holes); err != nil {
			return err
		}
		words := make([]state.InventedRecord, len(res.Invented))
		for i, w := range res.Invented {
			words[i] = state.InventedRecord{Word: w.Word, Box: w.Box, FromBox: w.From, TestIndex: w.Index}
		}
		if err := store.RecordInvented(run.id, words); err != nil {
			return err
		}
	}
	return store.FinishRun(row)
}
