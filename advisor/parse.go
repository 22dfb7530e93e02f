package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brequin/brequin/advise/advise"
	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/requirement"
)

func (a *app) parseCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "parse [expression...]",
		Short: "Print the canonical form of requirement expressions",
		Long: `Parse prints each expression in canonical form, or the error that stops it.

With --check, course references are also checked against the catalog. Given
--check and no expressions, every program and prerequisite expression of the
catalog file is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !check {
				return errors.New("parse needs an expression, or --check to check the catalog")
			}
			if len(args) == 0 {
				return a.checkCatalog(cmd.Context(), cmd.OutOrStdout())
			}
			return a.parse(cmd.Context(), cmd.OutOrStdout(), args, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check departments and ranges against the catalog")
	return cmd
}

type parsed struct {
	Expression string   `json:"expression"`
	Canonical  string   `json:"canonical,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// parseAll parses each expression. trees[i] is nil when expressions[i]
// did not parse.
func parseAll(expressions []string) ([]parsed, []requirement.Node) {
	results := make([]parsed, len(expressions))
	trees := make([]requirement.Node, len(expressions))
	for i, expression := range expressions {
		results[i].Expression = expression
		tree, err := requirement.Parse(expression)
		if err != nil {
			results[i].Errors = []string{err.Error()}
			continue
		}
		results[i].Canonical = tree.String()
		trees[i] = tree
	}
	return results, trees
}

func (a *app) parse(ctx context.Context, w io.Writer, expressions []string, check bool) error {
	results, trees := parseAll(expressions)
	if check {
		cat, closeCatalog, err := a.openCatalog(ctx)
		if err != nil {
			return err
		}
		defer closeCatalog()
		if err := a.checkTrees(ctx, cat, trees, results); err != nil {
			return err
		}
	}

	if a.jsonOutput {
		if err := writeJSON(w, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Canonical != "" {
				fmt.Fprintln(w, r.Canonical)
			}
			for _, msg := range r.Errors {
				fmt.Fprintf(w, "error: %s\n", msg)
			}
		}
	}
	for _, r := range results {
		if len(r.Errors) > 0 {
			return errUnmet
		}
	}
	return nil
}

// checkTrees appends the reference errors of each parsed tree to its
// result.
func (a *app) checkTrees(ctx context.Context, cat catalog.Catalog, trees []requirement.Node, results []parsed) error {
	var parsedTrees []requirement.Node
	for _, tree := range trees {
		if tree != nil {
			parsedTrees = append(parsedTrees, tree)
		}
	}
	known, err := advise.Known(ctx, cat, parsedTrees...)
	if err != nil {
		return err
	}
	for i, tree := range trees {
		if tree == nil {
			continue
		}
		for _, err := range known.Check(tree) {
			results[i].Errors = append(results[i].Errors, err.Error())
		}
	}
	return nil
}

// checkCatalog checks every expression stored in the catalog file and
// writes one line per problem.
func (a *app) checkCatalog(ctx context.Context, w io.Writer) error {
	if a.cfg.Catalog.File == "" {
		return errors.New("checking the whole catalog needs a catalog file")
	}
	doc, err := catalog.ReadFile(a.cfg.Catalog.File)
	if err != nil {
		return err
	}
	cat := catalog.NewMemory(doc)

	var labels []string
	var expressions []string
	for _, p := range doc.Programs() {
		if strings.TrimSpace(p.Expression) != "" {
			labels = append(labels, p.Ref.String())
			expressions = append(expressions, p.Expression)
		}
	}
	for _, c := range doc.Courses {
		for _, e := range []struct{ kind, expression string }{
			{"prerequisites", c.Prerequisites},
			{"corequisites", c.Corequisites},
		} {
			if strings.TrimSpace(e.expression) != "" {
				labels = append(labels, e.kind+" of "+c.Code)
				expressions = append(expressions, e.expression)
			}
		}
	}

	results, trees := parseAll(expressions)
	if err := a.checkTrees(ctx, cat, trees, results); err != nil {
		return err
	}

	problems := 0
	for i, r := range results {
		for _, msg := range r.Errors {
			problems++
			fmt.Fprintf(w, "%s: %s\n", labels[i], msg)
		}
	}
	a.logger.Info("checked catalog",
		slog.Int("expressions", len(expressions)),
		slog.Int("problems", problems))
	if problems > 0 {
		return errUnmet
	}
	return nil
}
