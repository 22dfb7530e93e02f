package evaluate

import "github.com/brequin/brequin/advise/requirement"

type result struct {
	node      requirement.Node
	satisfied bool
	// used holds the courses credited toward node, each once, in the
	// order they were first credited.
	used     []string
	children []result
}

func (v view) eval(n requirement.Node) result {
	r := result{node: n}
	switch x := n.(type) {
	case *requirement.Empty:
		r.satisfied = true
	case *requirement.CourseRef, *requirement.CourseRange:
		r.used = v.matches(x)
		r.satisfied = len(r.used) > 0
	case *requirement.Precedes:
		// Order cannot be checked against a set of courses, so both sides
		// are simply required.
		r.children = []result{v.eval(x.Before), v.eval(x.After)}
		r.satisfied = r.children[0].satisfied && r.children[1].satisfied
		r.used = usedBy(r.children)
	case *requirement.And:
		r.children = v.evalAll(x.Children)
		r.satisfied = countSatisfied(r.children) == len(r.children)
		r.used = usedBy(r.children)
	case *requirement.Or:
		r.children = v.evalAll(x.Children)
		r.satisfied = countSatisfied(r.children) > 0
		r.used = usedBy(r.children)
	case *requirement.Set:
		r = v.evalSet(x)
	}
	return r
}

func (v view) evalAll(nodes []requirement.Node) []result {
	results := make([]result, len(nodes))
	for i, n := range nodes {
		results[i] = v.eval(n)
	}
	return results
}

func (v view) evalSet(s *requirement.Set) result {
	inner := v.excluding(s.Excluded)
	r := result{node: s, children: inner.evalAll(s.Children)}

	if s.Implicit() {
		// Default bounds count children.
		var matched []result
		for _, child := range r.children {
			if child.satisfied {
				matched = append(matched, child)
			}
		}
		matched = limitChildren(matched, s.Diversity)
		r.used = usedBy(matched)
		r.satisfied = len(matched) >= s.Lower && enoughDepartments(departmentsOfChildren(matched), s.Diversity)
		return r
	}

	// Explicit bounds count distinct courses.
	var credited []string
	for _, child := range r.children {
		switch child.node.(type) {
		case *requirement.CourseRef, *requirement.CourseRange:
			credited = appendDistinct(credited, child.used...)
		default:
			if child.satisfied {
				credited = appendDistinct(credited, child.used...)
			}
		}
	}
	credited = limitCourses(credited, s.Diversity)

	r.satisfied = len(credited) >= s.Lower && enoughDepartments(departmentsOf(credited), s.Diversity)
	// A & set needs every child only when its bound asks for at least as
	// many courses as it has children.
	if s.Op == requirement.OpAnd && s.Lower >= len(s.Children) && countSatisfied(r.children) < len(r.children) {
		r.satisfied = false
	}
	if s.Upper > 0 && len(credited) > s.Upper {
		credited = credited[:s.Upper]
	}
	r.used = credited
	return r
}

// unmet returns the smallest unsatisfied nodes under r. A node is split
// into its failing children only when each of them is required.
func (r result) unmet() []requirement.Node {
	if r.satisfied {
		return nil
	}
	if !r.splits() {
		return []requirement.Node{r.node}
	}
	var nodes []requirement.Node
	for _, child := range r.children {
		nodes = append(nodes, child.unmet()...)
	}
	if len(nodes) == 0 {
		return []requirement.Node{r.node}
	}
	return nodes
}

func (r result) splits() bool {
	switch x := r.node.(type) {
	case *requirement.And, *requirement.Precedes:
		return true
	case *requirement.Or:
		return len(x.Children) == 1
	case *requirement.Set:
		if !x.Implicit() || x.Diversity != nil {
			return false
		}
		return x.Op == requirement.OpAnd || (len(x.Children) == 1 && len(x.Excluded) == 0)
	}
	return false
}

func countSatisfied(results []result) int {
	n := 0
	for _, r := range results {
		if r.satisfied {
			n++
		}
	}
	return n
}

func usedBy(results []result) []string {
	var used []string
	for _, r := range results {
		if r.satisfied {
			used = appendDistinct(used, r.used...)
		}
	}
	return used
}

func appendDistinct(into []string, codes ...string) []string {
	for _, code := range codes {
		duplicate := false
		for _, existing := range into {
			if existing == code {
				duplicate = true
				break
			}
		}
		if !duplicate {
			into = append(into, code)
		}
	}
	return into
}
