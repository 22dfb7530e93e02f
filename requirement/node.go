// Package requirement parses, combines and walks course-requirement
// expressions such as "2-3(CSCI100-189 | MATH122)!(CSCI150)".
package requirement

import "strconv"

type precedence int

const (
	andPrecedence precedence = iota
	orPrecedence
	precedesPrecedence
	atomicPrecedence
)

// A Node is a requirement sub-expression in a tree.
type Node interface {
	// String returns the canonical text of the node.
	String() string

	precedence() precedence
}

type Op int

const (
	OpOr Op = iota
	OpAnd
)

func (o Op) separator() string {
	if o == OpAnd {
		return " & "
	}
	return " | "
}

// CourseRef is a single course code, e.g. CSCI183.
type CourseRef struct {
	Code string
}

// CourseRange is an inclusive range of course numbers within one
// department, e.g. CSCI100-189. Its bounds cannot change once built.
type CourseRange struct {
	low  Code
	high Code
}

// NewCourseRange builds the range low-high. high may be a full code
// (CSCI189) or just a number (189).
func NewCourseRange(low, high string) (*CourseRange, error) {
	lowCode, ok := ParseCode(low)
	if !ok {
		return nil, &ParseError{Msg: "invalid course code " + strconv.Quote(low) + " in range"}
	}
	if len(high) > 0 && high[0] >= '0' && high[0] <= '9' {
		high = lowCode.Dept + high
	}
	highCode, ok := ParseCode(high)
	if !ok {
		return nil, &ParseError{Msg: "invalid course code " + strconv.Quote(high) + " in range"}
	}
	if lowCode.Dept != highCode.Dept {
		return nil, &ParseError{Msg: "course range " + low + "-" + high + " spans departments " + lowCode.Dept + " and " + highCode.Dept}
	}
	if lowCode.Number > highCode.Number {
		return nil, &ParseError{Msg: "course range " + low + "-" + high + " has low bound above high bound"}
	}
	if lowCode.leadingZero || highCode.leadingZero {
		return nil, &ParseError{Msg: "course range " + low + "-" + high + " has a course number starting with 0"}
	}
	return &CourseRange{low: lowCode, high: highCode}, nil
}

func (r *CourseRange) Department() string { return r.low.Dept }
func (r *CourseRange) Low() int           { return r.low.Number }
func (r *CourseRange) High() int          { return r.high.Number }

// Contains reports whether code is within the range. Suffixes are ignored,
// so CSCI150L is inside CSCI100-189.
func (r *CourseRange) Contains(code string) bool {
	c, ok := ParseCode(code)
	if !ok {
		return false
	}
	return c.Dept == r.low.Dept && c.Number >= r.low.Number && c.Number <= r.high.Number
}

// Diversity constrains which departments may contribute to a Set. Zero
// fields are unset.
type Diversity struct {
	MinUniqueDepts        int
	MaxCoursesFromOneDept int
}

// Set is a bounded group of alternatives. Upper is 0 when the set has no
// upper bound. Matches of Excluded never count toward the bounds.
type Set struct {
	Op        Op
	Children  []Node
	Lower     int
	Upper     int
	Diversity *Diversity
	Excluded  []Node
}

// DefaultLower is the lower bound a set has when none is written: 1 for
// alternatives joined by |, every child for alternatives joined by &.
func (s *Set) DefaultLower() int {
	if s.Op == OpAnd {
		return len(s.Children)
	}
	if len(s.Children) == 0 {
		return 0
	}
	return 1
}

// Implicit reports whether the set's bounds are the computed defaults.
func (s *Set) Implicit() bool {
	return s.Lower == s.DefaultLower() && s.Upper == 0
}

// Plain reports whether the set has default bounds, no diversity
// constraint and no exclusions. Plain sets print as a bare operator list.
func (s *Set) Plain() bool {
	return s.Implicit() && s.Diversity == nil && len(s.Excluded) == 0
}

// And is a conjunction with no bound semantics.
type And struct {
	Children []Node
}

// Or is a disjunction with no bound semantics.
type Or struct {
	Children []Node
}

// Precedes means Before must be completed before After (X -> Y).
type Precedes struct {
	Before Node
	After  Node
}

// Empty means no requirement is encoded.
type Empty struct{}

func (*CourseRef) precedence() precedence   { return atomicPrecedence }
func (*CourseRange) precedence() precedence { return atomicPrecedence }
func (*Empty) precedence() precedence       { return atomicPrecedence }
func (*Precedes) precedence() precedence    { return precedesPrecedence }

func (a *And) precedence() precedence {
	if kids := nonEmpty(a.Children); len(kids) == 1 {
		return kids[0].precedence()
	}
	return andPrecedence
}

func (o *Or) precedence() precedence {
	if kids := nonEmpty(o.Children); len(kids) == 1 {
		return kids[0].precedence()
	}
	return orPrecedence
}

func (s *Set) precedence() precedence {
	if !s.Plain() {
		return atomicPrecedence
	}
	if len(s.Children) == 1 {
		return s.Children[0].precedence()
	}
	if s.Op == OpAnd {
		return andPrecedence
	}
	return orPrecedence
}

func nonEmpty(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if _, ok := n.(*Empty); ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NewAnd returns a plain & set over children.
func NewAnd(children ...Node) *Set {
	return &Set{Op: OpAnd, Children: children, Lower: len(children)}
}

// NewOr returns a plain | set over children.
func NewOr(children ...Node) *Set {
	s := &Set{Op: OpOr, Children: children}
	s.Lower = s.DefaultLower()
	return s
}
