package advise

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/chain"
	"github.com/brequin/brequin/advise/requirement"
)

type ChainResult struct {
	Chains []chain.Chain
	// Errors holds missing programs and expressions that did not parse.
	Errors requirement.Errors
	// Unresolved lists courses whose prerequisites were not fetched
	// because the round limit was reached.
	Unresolved []string
}

// Warnings returns the cycle warnings of every chain.
func (r ChainResult) Warnings() []*chain.CycleWarning {
	var warnings []*chain.CycleWarning
	for _, c := range r.Chains {
		warnings = append(warnings, c.Warnings...)
	}
	return warnings
}

// ExpandPrerequisiteChains combines the requirements of programs and the
// optional extra expression, and returns the prerequisite chain of every
// course they reference that has prerequisites. The error is reserved
// for catalog failures.
func ExpandPrerequisiteChains(ctx context.Context, cat catalog.Catalog, programs []catalog.ProgramRef, extra string, opts ...Option) (ChainResult, error) {
	o := newOptions(opts)

	sources, _, errs, err := lookupPrograms(ctx, cat, programs)
	if err != nil {
		return ChainResult{}, err
	}
	if strings.TrimSpace(extra) != "" {
		sources = append(sources, requirement.AdHoc(extra))
	}
	combined := requirement.Combine(sources...)
	errs = append(errs, combined.Errors...)

	codes := requirement.Courses(combined.Root())
	res, err := resolvePrerequisites(ctx, cat, codes, o)
	if err != nil {
		return ChainResult{}, err
	}
	errs = append(errs, res.errs...)

	chains := chain.Expand(codes, res.prerequisites)
	for _, c := range chains {
		for _, w := range c.Warnings {
			o.logger.Warn("prerequisite cycle",
				slog.String("course", w.Course),
				slog.String("path", strings.Join(w.Path, " -> ")))
		}
	}
	o.logger.Info("expanded prerequisite chains",
		slog.Int("programs", len(programs)),
		slog.Int("courses", len(codes)),
		slog.Int("chains", len(chains)))

	return ChainResult{Chains: chains, Errors: errs, Unresolved: res.unresolved}, nil
}
