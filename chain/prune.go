package chain

import "github.com/brequin/brequin/advise/requirement"

// prune drops repeated operands of a plain group and, inside a
// conjunction, any bare course a sibling chain already requires. A group
// left with one operand collapses to it.
func prune(n requirement.Node) requirement.Node {
	var children []requirement.Node
	conjunction := false
	switch x := n.(type) {
	case *requirement.And:
		children, conjunction = x.Children, true
	case *requirement.Or:
		children = x.Children
	case *requirement.Set:
		if !x.Plain() {
			return n
		}
		children, conjunction = x.Children, x.Op == requirement.OpAnd
	default:
		return n
	}

	covered := make(map[string]bool)
	if conjunction {
		for _, child := range children {
			if chain, ok := child.(*requirement.Precedes); ok {
				for code := range required(chain) {
					covered[code] = true
				}
			}
		}
	}

	var kept []requirement.Node
	seen := make(map[string]bool)
	for _, child := range children {
		if ref, ok := child.(*requirement.CourseRef); ok && covered[ref.Code] {
			continue
		}
		if seen[child.String()] {
			continue
		}
		seen[child.String()] = true
		kept = append(kept, child)
	}

	if len(kept) == 1 {
		return kept[0]
	}
	switch x := n.(type) {
	case *requirement.And:
		return &requirement.And{Children: kept}
	case *requirement.Or:
		return &requirement.Or{Children: kept}
	case *requirement.Set:
		if x.Op == requirement.OpAnd {
			return requirement.NewAnd(kept...)
		}
		return requirement.NewOr(kept...)
	}
	return n
}

// required returns the courses every way of satisfying n takes.
func required(n requirement.Node) map[string]bool {
	codes := make(map[string]bool)
	var walk func(requirement.Node)
	walk = func(n requirement.Node) {
		switch x := n.(type) {
		case *requirement.CourseRef:
			codes[x.Code] = true
		case *requirement.Precedes:
			walk(x.Before)
			walk(x.After)
		case *requirement.And:
			for _, child := range x.Children {
				walk(child)
			}
		case *requirement.Set:
			if x.Op == requirement.OpAnd && x.Plain() {
				for _, child := range x.Children {
					walk(child)
				}
			}
		}
	}
	walk(n)
	return codes
}
