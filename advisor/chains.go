package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/advise"
)

func (a *app) chainsCmd() *cobra.Command {
	var programs []string
	cmd := &cobra.Command{
		Use:   "chains [expression]",
		Short: "Expand the prerequisite chains behind programs and an expression",
		Example: `  advisor chains --catalog catalog.json --program "major:Computer Science and Engineering"
  advisor chains --catalog catalog.json "CSEN146 & CSEN174"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := parsePrograms(programs)
			if err != nil {
				return err
			}
			if len(refs) == 0 && len(args) == 0 {
				return fmt.Errorf("chains needs a --program or an expression")
			}
			var extra string
			if len(args) == 1 {
				extra = args[0]
			}

			cat, closeCatalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeCatalog()

			result, err := advise.ExpandPrerequisiteChains(cmd.Context(), cat, refs, extra, a.adviseOptions()...)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), chainsOutput(result))
			}
			writeChains(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&programs, "program", "p", nil, "program as type:name, repeatable")
	return cmd
}

func writeChains(w io.Writer, result advise.ChainResult) {
	for _, c := range result.Chains {
		fmt.Fprintf(w, "%s: %s\n", c.Course, c.Expression)
	}
	for _, warning := range result.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, err := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", err)
	}
	if len(result.Unresolved) > 0 {
		fmt.Fprintf(w, "unresolved: %s\n", strings.Join(result.Unresolved, ", "))
	}
}
