package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/advise"
	"github.com/brequin/brequin/advise/evaluate"
)

func (a *app) checkCmd() *cobra.Command {
	var programs []string
	var courses []string
	var core bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check planned courses against program requirements",
		Long: `Check evaluates the planned courses against every requested program and
reports what is satisfied, the smallest unmet requirements, and requirements
the catalog only describes in prose. It exits 1 when anything is unmet.`,
		Example: `  advisor check --catalog catalog.json -p "major:Computer Science and Engineering" -c CSEN10,CSEN12 --core`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := parsePrograms(programs)
			if err != nil {
				return err
			}
			if len(refs) == 0 && !core {
				return fmt.Errorf("check needs a --program or --core")
			}

			cat, closeCatalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeCatalog()

			opts := a.adviseOptions()
			if core {
				opts = append(opts, advise.WithCoreCurriculum())
			}
			planned := make([]string, len(courses))
			for i, course := range courses {
				planned[i] = evaluate.NormalizeCourse(course)
			}

			report, err := advise.CheckRequirementsSatisfied(cmd.Context(), cat, refs, planned, opts...)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				err = writeJSON(cmd.OutOrStdout(), reportOutput(report))
			} else {
				writeReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if !report.Met() {
				return errUnmet
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&programs, "program", "p", nil, "program as type:name, repeatable")
	cmd.Flags().StringSliceVarP(&courses, "course", "c", nil, "completed or planned course, repeatable or comma separated")
	cmd.Flags().BoolVar(&core, "core", false, "also check the core curriculum")
	return cmd
}

func writeReport(w io.Writer, report evaluate.Report) {
	for _, s := range report.Satisfied {
		fmt.Fprintf(w, "satisfied %s: %s (using %s)\n", s.Program, s.Expression, strings.Join(s.CoursesUsed, ", "))
	}
	for _, u := range report.Unsatisfied {
		fmt.Fprintf(w, "unsatisfied %s: %s\n", u.Program, u.Expression)
	}
	for _, n := range report.NotChecked {
		for _, requirement := range n.Requirements {
			fmt.Fprintf(w, "not checked %s: %s\n", n.Program, requirement)
		}
	}
	for _, err := range report.Errors {
		fmt.Fprintf(w, "error: %s\n", err)
	}
}
