// Package advise answers advising questions against a catalog: the
// prerequisite chains behind a set of programs, and whether a list of
// courses satisfies them.
package advise

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/requirement"
)

const (
	DefaultParallelism = 4
	DefaultMaxRounds   = 16
)

type Option func(*options)

type options struct {
	parallelism    int
	maxRounds      int
	coreCurriculum bool
	logger         *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		parallelism: DefaultParallelism,
		maxRounds:   DefaultMaxRounds,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parallelism < 1 {
		o.parallelism = 1
	}
	return o
}

// WithParallelism sets how many catalog lookups a resolution round may
// run at once.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithMaxRounds bounds how many levels of transitive prerequisites are
// fetched. Courses beyond the last round are left unexpanded.
func WithMaxRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// WithCoreCurriculum also checks the core curriculum requirements that
// apply to the schools of the requested programs.
func WithCoreCurriculum() Option {
	return func(o *options) { o.coreCurriculum = true }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// ProgramNotFoundError reports a requested program the catalog does not
// have.
type ProgramNotFoundError struct {
	Program requirement.Program
}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in catalog", e.Program.Type, e.Program.Name)
}

// PrerequisiteError reports a course whose stored prerequisite
// expression does not parse.
type PrerequisiteError struct {
	Course string
	Err    error
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisites of %s: %v", e.Course, e.Err)
}

func (e *PrerequisiteError) Unwrap() error { return e.Err }

// lookupPrograms resolves refs into requirement sources in the order
// requested. Missing programs are reported in errs.
func lookupPrograms(ctx context.Context, cat catalog.Catalog, refs []catalog.ProgramRef) ([]requirement.Source, []catalog.Program, requirement.Errors, error) {
	if len(refs) == 0 {
		return nil, nil, nil, nil
	}
	found, err := cat.Programs(ctx, refs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("looking up programs: %w", err)
	}

	var sources []requirement.Source
	var programs []catalog.Program
	var errs requirement.Errors
	seen := make(map[catalog.ProgramRef]bool)
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		p, ok := found[ref]
		if !ok {
			errs = append(errs, &ProgramNotFoundError{Program: ref})
			continue
		}
		sources = append(sources, requirement.Source{Program: ref, Expression: p.Expression})
		programs = append(programs, p)
	}
	return sources, programs, errs, nil
}
