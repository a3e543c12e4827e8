package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/momrefine/internal/canonical"
	"github.com/ShayCichocki/momrefine/internal/relator"
)

var (
	canonRelators []string
	canonRules    bool
)

var canonCmd = &cobra.Command{
	Use:   "canon <word>...",
	Short: "Print canonical names of words",
	Long: `Print the canonical name and class of each word under the given relators.

Relators default to the configured relators list.

Examples:
  momrefine canon gmGM gMgm
  momrefine canon --relator gmGM --relator ggnGGN gmgM
  momrefine canon --relator gmGM --rules`,
	RunE: runCanon,
}

func init() {
	canonCmd.Flags().StringSliceVar(&canonRelators, "relator", nil, "Defining relator word (repeatable)")
	canonCmd.Flags().BoolVar(&canonRules, "rules", false, "Print the derived rewrite rules")
}

func runCanon(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !canonRules {
		return fmt.Errorf("canon needs at least one word or --rules")
	}

	relators := canonRelators
	if !cmd.Flags().Changed("relator") {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		relators = cfg.Relators
	}

	ctx := relator.NewContext(relators, nil)
	out := cmd.OutOrStdout()

	if canonRules {
		for _, s := range ctx.Engine().Substitutions() {
			fmt.Fprintf(out, "%s -> %s\n", s.Pattern, s.Replacement)
		}
	}

	for _, w := range args {
		name := ctx.Name(w)
		class := canonical.Class(name)
		if name == "" {
			name = "(identity)"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", w, name, class)
	}
	return nil
}
