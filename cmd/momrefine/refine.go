package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/momrefine/internal/ballsearch"
	"github.com/ShayCichocki/momrefine/internal/box"
	"github.com/ShayCichocki/momrefine/internal/config"
	"github.com/ShayCichocki/momrefine/internal/logging"
	"github.com/ShayCichocki/momrefine/internal/refine"
	"github.com/ShayCichocki/momrefine/internal/relator"
	"github.com/ShayCichocki/momrefine/internal/state"
	"github.com/ShayCichocki/momrefine/internal/testset"
	"github.com/ShayCichocki/momrefine/internal/tree"
)

var (
	refineBox       string
	refineTree      string
	refineOut       string
	refineReport    string
	refineNoState   bool
	refineFiles     config.FilesConfig
	refineRelators  []string
	refineMaxDepth  int
	refineTruncate  int
	refineInvent    int
	refineMaxSize   int
	refineImprove   bool
	refineFillHoles bool
	refineBallDepth int
	refineWordLen   int
	refineMinScore  float64
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a tree over a box",
	Long: `Refine the tree read from --tree (or stdin) over the box named by --box.

Every leaf is replayed against the current tests. Leaves that still need work
are subdivided until a test eliminates them, or a budget turns them into
HOLEs. The refined tree is written to --out (or stdout) in the same format.

Examples:
  momrefine refine --words words.txt --box 0110 < tree.txt > out.txt
  momrefine refine --words words.txt --tree tree.txt --max-depth 24 --fill-holes
  momrefine refine --words words.txt --ball-search-depth 4 --report run.yaml`,
	SilenceUsage: true,
	RunE:         runRefine,
}

func init() {
	addRefineFlags(refineCmd)
}

func addRefineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&refineBox, "box", "", "Start box as a path of 0/1 digits from the root")
	f.StringVar(&refineTree, "tree", "", "Read the tree from this file instead of stdin")
	f.StringVar(&refineOut, "out", "", "Write the refined tree to this file instead of stdout")
	f.StringVar(&refineReport, "report", "", "Write a YAML run report to this file")
	f.BoolVar(&refineNoState, "no-state", false, "Do not record the run in the ledger")
	f.StringVar(&refineFiles.Words, "words", "", "Test word file (overrides files.words)")
	f.StringVar(&refineFiles.Powers, "powers", "", "Impossible powers file (overrides files.powers)")
	f.StringVar(&refineFiles.Mom, "mom", "", "Mom variety word file (overrides files.mom)")
	f.StringVar(&refineFiles.Parameterized, "parameterized", "", "Parameterized variety word file (overrides files.parameterized)")
	f.StringSliceVar(&refineRelators, "relator", nil, "Defining relator word (repeatable, overrides relators)")
	f.IntVar(&refineMaxDepth, "max-depth", 0, "Deepest level a box may be subdivided to")
	f.IntVar(&refineTruncate, "truncate-depth", 0, "Depth below which failed subtrees are cut back to HOLEs")
	f.IntVar(&refineInvent, "invent-depth", 0, "Subdivisions allowed below the input tree")
	f.IntVar(&refineMaxSize, "max-size", 0, "Maximum number of boxes visited")
	f.BoolVar(&refineImprove, "improve-tree", false, "Retry tests on nodes that already have children")
	f.BoolVar(&refineFillHoles, "fill-holes", false, "Refine HOLE leaves of the input tree")
	f.IntVar(&refineBallDepth, "ball-search-depth", 0, "Levels between ball searches on a path (negative disables)")
	f.IntVar(&refineWordLen, "max-word-length", 0, "Longest word ball search may propose")
	f.Float64Var(&refineMinScore, "min-score", 0, "Minimum ball search score for a proposal")
}

// applyRefineFlags copies the flags the user set onto cfg.
func applyRefineFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	cfg.Files = cfg.Files.Override(refineFiles.Expand())
	if f.Changed("relator") {
		cfg.Relators = refineRelators
	}
	if f.Changed("max-depth") {
		cfg.Search.MaxDepth = refineMaxDepth
	}
	if f.Changed("truncate-depth") {
		cfg.Search.TruncateDepth = refineTruncate
	}
	if f.Changed("invent-depth") {
		cfg.Search.InventDepth = refineInvent
	}
	if f.Changed("max-size") {
		cfg.Search.MaxSize = refineMaxSize
	}
	if f.Changed("improve-tree") {
		cfg.Search.ImproveTree = refineImprove
	}
	if f.Changed("fill-holes") {
		cfg.Search.FillHoles = refineFillHoles
	}
	if f.Changed("ball-search-depth") {
		cfg.BallSearch.Depth = refineBallDepth
	}
	if f.Changed("max-word-length") {
		cfg.BallSearch.MaxWordLength = refineWordLen
	}
	if f.Changed("min-score") {
		cfg.BallSearch.MinScore = refineMinScore
	}
	if refineNoState {
		cfg.State.Enabled = false
	}
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRefineFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkBoxPath(refineBox); err != nil {
		return err
	}
	if err := cfg.Files.Check(); err != nil {
		return fmt.Errorf("check input files: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer closeLog()

	in, err := loadInputs(cmd.Context(), cfg.Files)
	if err != nil {
		return err
	}

	treeIn, err := readTreeInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	r := &refiner{cfg: cfg, logger: logger}
	run, err := r.run(in, treeIn)
	if run == nil {
		return err
	}

	if run.result != nil {
		if werr := writeTreeOutput(cmd.OutOrStdout(), run.tree, run.tests); werr != nil {
			return werr
		}
		printSummary(cmd.ErrOrStderr(), run)
		if refineReport != "" {
			if rerr := writeReport(refineReport, run); rerr != nil {
				return rerr
			}
		}
	}

	r.persist(run)
	if err != nil {
		return err
	}

	if n := len(run.result.Holes); n > 0 {
		printStatus("⚠", fmt.Sprintf("%d holes left in box %q", n, run.boxPath), color.FgYellow)
	} else if run.result.Complete {
		printStatus("✓", "tree complete", color.FgGreen)
	}
	return nil
}

// refinement is one engine run with its inputs and outcome.
type refinement struct {
	id      string
	boxPath string
	treeIn  string
	opts    refine.Options
	tree    *tree.Node
	tests   *testset.Collection
	result  *refine.Result
	err     error
}

type refiner struct {
	cfg    *config.Config
	logger *zap.Logger
}

// run parses the tree and refines it. A nil refinement means the inputs
// could not be used. A non-nil refinement with an error means the engine
// stopped early.
func (r *refiner) run(in *inputs, treeIn []byte) (*refinement, error) {
	tests := testset.New(r.logger)
	tests.AddAll(in.words)
	tests.SetImpossiblePowers(in.powers)

	t, err := tree.Read(bytes.NewReader(treeIn), tests)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}

	opts := r.cfg.RefineOptions()
	var search refine.BallSearch
	if opts.BallSearchDepth >= 0 {
		search = ballsearch.New(r.cfg.BallSearch.BeamWidth, r.cfg.BallSearch.ProbeRadius, r.logger)
	}
	engine, err := refine.New(opts, tests, search, refine.NewVarieties(in.mom, in.parameterized), r.logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	ctx := relator.NewContext(r.cfg.Relators, r.logger)
	root := box.FromPath(refineBox, ctx)

	run := &refinement{
		id:      state.NewRunID(),
		boxPath: root.Name,
		treeIn:  string(treeIn),
		opts:    opts,
		tree:    t,
		tests:   tests,
	}
	r.logger.Info("refine",
		zap.String("run", run.id),
		zap.String("box", root.Name),
		zap.String("relators", ctx.Desc()),
		zap.Int("tests", tests.Count()),
		zap.Int("tree_size", t.Size()))

	run.result, run.err = engine.Run(root, t)
	if run.err != nil {
		return run, fmt.Errorf("refine box %q: %w", root.Name, run.err)
	}
	return run, nil
}

func readTreeInput(stdin io.Reader) ([]byte, error) {
	if refineTree == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read tree from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(refineTree)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	return data, nil
}

func writeTreeOutput(stdout io.Writer, t *tree.Node, names tree.Namer) error {
	if refineOut == "" {
		if err := tree.Write(stdout, t, names); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := tree.Write(&buf, t, names); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	if err := os.WriteFile(refineOut, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	return nil
}

// status maps the outcome onto the ledger's run status.
func (run *refinement) status() state.RunStatus {
	switch {
	case run.err != nil:
		return state.RunFailed
	case run.result != nil && run.result.Complete:
		return state.RunComplete
	default:
		return state.RunIncomplete
	}
}
