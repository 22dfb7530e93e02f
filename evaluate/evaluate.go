// Package evaluate checks a set of completed or planned courses against
// combined requirement trees.
package evaluate

import (
	"slices"
	"strings"

	"github.com/brequin/brequin/advise/requirement"
)

// Unsatisfied is the smallest unmet part of one program's requirement.
type Unsatisfied struct {
	Program    requirement.Program
	Node       requirement.Node
	Expression string
}

type Satisfied struct {
	Program     requirement.Program
	Expression  string
	CoursesUsed []string
}

// NotChecked lists requirements of a program the grammar does not encode.
type NotChecked struct {
	Program      requirement.Program
	Requirements []string
}

type Report struct {
	Unsatisfied []Unsatisfied
	Satisfied   []Satisfied
	NotChecked  []NotChecked
	Errors      requirement.Errors
}

// Met reports whether every evaluated requirement was satisfied and
// nothing went wrong along the way.
func (r Report) Met() bool {
	return len(r.Unsatisfied) == 0 && len(r.Errors) == 0
}

type Option func(*options)

type options struct {
	known *requirement.Known
}

// WithKnown reports references to departments and ranges outside known.
func WithKnown(known requirement.Known) Option {
	return func(o *options) { o.known = &known }
}

// Evaluate checks taken against every source of combined. Each source
// is evaluated on its own, so a course may count toward every program it
// appears in.
func Evaluate(combined requirement.Combined, taken []string, opts ...Option) Report {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	report := Report{Errors: append(requirement.Errors(nil), combined.Errors...)}
	v := newView(taken)
	for _, source := range combined.Sources {
		if o.known != nil {
			for _, err := range o.known.Check(source.Tree) {
				report.Errors = append(report.Errors, &requirement.SourceError{Program: source.Program, Err: err})
			}
		}

		r := v.eval(source.Tree)
		if r.satisfied {
			report.Satisfied = append(report.Satisfied, Satisfied{
				Program:     source.Program,
				Expression:  source.Tree.String(),
				CoursesUsed: r.used,
			})
			continue
		}
		for _, n := range r.unmet() {
			report.Unsatisfied = append(report.Unsatisfied, Unsatisfied{
				Program:    source.Program,
				Node:       n,
				Expression: n.String(),
			})
		}
	}
	return report
}

// NormalizeCourse upper-cases a course code and drops its spaces, so
// "csci 10" is read as CSCI10.
func NormalizeCourse(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// view is the taken courses as seen from inside a set. Matches of
// excluded never count.
type view struct {
	taken    []string
	has      map[string]bool
	excluded []requirement.Node
}

func newView(taken []string) view {
	v := view{has: make(map[string]bool)}
	for _, code := range taken {
		code = NormalizeCourse(code)
		if code == "" || v.has[code] {
			continue
		}
		v.has[code] = true
		v.taken = append(v.taken, code)
	}
	return v
}

func (v view) excluding(excluded []requirement.Node) view {
	if len(excluded) == 0 {
		return v
	}
	v.excluded = append(slices.Clip(v.excluded), excluded...)
	return v
}

func (v view) excludes(code string) bool {
	for _, member := range v.excluded {
		for _, leaf := range requirement.Extract(member) {
			switch x := leaf.(type) {
			case *requirement.CourseRef:
				if slices.Contains(requirement.Variants(x.Code), code) {
					return true
				}
			case *requirement.CourseRange:
				if x.Contains(code) {
					return true
				}
			}
		}
	}
	return false
}

// matches returns the taken courses a leaf credits. A course ref credits
// the first of its variants that was taken.
func (v view) matches(leaf requirement.Node) []string {
	switch x := leaf.(type) {
	case *requirement.CourseRef:
		for _, variant := range requirement.Variants(x.Code) {
			if v.has[variant] && !v.excludes(variant) {
				return []string{variant}
			}
		}
	case *requirement.CourseRange:
		var found []string
		for _, code := range v.taken {
			if x.Contains(code) && !v.excludes(code) {
				found = append(found, code)
			}
		}
		return found
	}
	return nil
}
