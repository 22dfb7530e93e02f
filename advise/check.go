package advise

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/evaluate"
	"github.com/brequin/brequin/advise/requirement"
)

// CheckRequirementsSatisfied evaluates planned against the requirements
// of programs. Programs whose requirements are only described in prose
// are listed as not checked. The error is reserved for catalog failures.
func CheckRequirementsSatisfied(ctx context.Context, cat catalog.Catalog, programs []catalog.ProgramRef, planned []string, opts ...Option) (evaluate.Report, error) {
	o := newOptions(opts)

	sources, found, errs, err := lookupPrograms(ctx, cat, programs)
	if err != nil {
		return evaluate.Report{}, err
	}
	if o.coreCurriculum {
		core, err := applicableCore(ctx, cat, found)
		if err != nil {
			return evaluate.Report{}, err
		}
		for _, p := range core {
			sources = append(sources, requirement.Source{Program: p.Ref, Expression: p.Expression})
			found = append(found, p)
		}
	}

	var checked []requirement.Source
	var notChecked []evaluate.NotChecked
	for i, p := range found {
		if len(p.NotEncoded) > 0 {
			notChecked = append(notChecked, evaluate.NotChecked{Program: p.Ref, Requirements: p.NotEncoded})
		}
		if strings.TrimSpace(p.Expression) == "" && len(p.NotEncoded) > 0 {
			continue
		}
		checked = append(checked, sources[i])
	}

	combined := requirement.Combine(checked...)
	var trees []requirement.Node
	for _, source := range combined.Sources {
		trees = append(trees, source.Tree)
	}
	known, err := Known(ctx, cat, trees...)
	if err != nil {
		return evaluate.Report{}, err
	}

	report := evaluate.Evaluate(combined, planned, evaluate.WithKnown(known))
	report.Errors = append(errs, report.Errors...)
	report.NotChecked = notChecked

	o.logger.Info("checked requirements",
		slog.Int("programs", len(found)),
		slog.Int("planned", len(planned)),
		slog.Int("unsatisfied", len(report.Unsatisfied)),
		slog.Int("errors", len(report.Errors)))
	return report, nil
}

// applicableCore returns the core curriculum requirements that bind every
// student, or the students of a school one of programs belongs to.
func applicableCore(ctx context.Context, cat catalog.Catalog, programs []catalog.Program) ([]catalog.Program, error) {
	core, err := cat.CoreRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("looking up core curriculum: %w", err)
	}

	var schools []string
	for _, p := range programs {
		if p.School != "" {
			schools = append(schools, p.School)
		}
	}

	var applicable []catalog.Program
	for _, req := range core {
		applies := req.Applies("")
		for _, school := range schools {
			applies = applies || req.Applies(school)
		}
		if applies {
			applicable = append(applicable, req.Program())
		}
	}
	return applicable, nil
}

// Known loads the departments and range courses trees are checked
// against. A catalog without departments skips the checks.
func Known(ctx context.Context, cat catalog.Catalog, trees ...requirement.Node) (requirement.Known, error) {
	departments, err := cat.Departments(ctx)
	if err != nil {
		return requirement.Known{}, fmt.Errorf("looking up departments: %w", err)
	}
	if len(departments) == 0 {
		return requirement.Known{}, nil
	}

	known := requirement.Known{Departments: make(map[string]bool, len(departments))}
	for _, dept := range departments {
		known.Departments[dept] = true
	}

	var rangeDepts []string
	for _, tree := range trees {
		rangeDepts = appendRangeDepartments(rangeDepts, tree)
	}
	known.Courses, err = cat.CourseCodes(ctx, rangeDepts)
	if err != nil {
		return requirement.Known{}, fmt.Errorf("looking up range courses: %w", err)
	}
	if known.Courses == nil {
		known.Courses = []string{}
	}
	return known, nil
}

func appendRangeDepartments(depts []string, n requirement.Node) []string {
	switch x := n.(type) {
	case *requirement.CourseRange:
		for _, dept := range depts {
			if dept == x.Department() {
				return depts
			}
		}
		return append(depts, x.Department())
	case *requirement.Set:
		for _, excluded := range x.Excluded {
			depts = appendRangeDepartments(depts, excluded)
		}
	}
	for _, child := range requirement.Children(n) {
		depts = appendRangeDepartments(depts, child)
	}
	return depts
}
