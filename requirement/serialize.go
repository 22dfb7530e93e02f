package requirement

import (
	"strconv"
	"strings"
)

func (c *CourseRef) String() string { return c.Code }

func (r *CourseRange) String() string {
	return r.low.Text + "-" + strings.TrimPrefix(r.high.Text, r.high.Dept)
}

func (*Empty) String() string { return "" }

func (p *Precedes) String() string {
	before := p.Before.String()
	if p.Before.precedence() < precedesPrecedence {
		before = "(" + before + ")"
	}
	after := p.After.String()
	if p.After.precedence() <= precedesPrecedence {
		after = "(" + after + ")"
	}
	return before + " -> " + after
}

func (a *And) String() string { return joinOperands(nonEmpty(a.Children), OpAnd) }
func (o *Or) String() string  { return joinOperands(nonEmpty(o.Children), OpOr) }

func (s *Set) String() string {
	if s.Plain() {
		return joinOperands(s.Children, s.Op)
	}

	var b strings.Builder
	if !s.Implicit() {
		b.WriteString(strconv.Itoa(s.Lower))
		if s.Upper > 0 {
			b.WriteString("-")
			b.WriteString(strconv.Itoa(s.Upper))
		}
	}
	if s.Diversity != nil {
		b.WriteString(s.Diversity.String())
	}
	b.WriteString("(")
	b.WriteString(joinOperands(s.Children, s.Op))
	b.WriteString(")")
	if len(s.Excluded) > 0 {
		b.WriteString("!(")
		b.WriteString(joinNodes(s.Excluded, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (d *Diversity) String() string {
	var fields []string
	if d.MinUniqueDepts > 0 {
		fields = append(fields, keyMinUniqueDepts+":"+strconv.Itoa(d.MinUniqueDepts))
	}
	if d.MaxCoursesFromOneDept > 0 {
		fields = append(fields, keyMaxCoursesFromOneDept+":"+strconv.Itoa(d.MaxCoursesFromOneDept))
	}
	return "@{" + strings.Join(fields, ", ") + "}"
}

// joinOperands joins children with op, parenthesizing any child that
// binds no tighter than op.
func joinOperands(children []Node, op Op) string {
	parent := orPrecedence
	if op == OpAnd {
		parent = andPrecedence
	}
	parts := make([]string, len(children))
	for i, child := range children {
		part := child.String()
		if child.precedence() <= parent {
			part = "(" + part + ")"
		}
		parts[i] = part
	}
	return strings.Join(parts, op.separator())
}

func joinNodes(nodes []Node, separator string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, separator)
}
