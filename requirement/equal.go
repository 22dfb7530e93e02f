package requirement

// Equal reports whether two trees have the same structure.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *CourseRef:
		y, ok := b.(*CourseRef)
		return ok && x.Code == y.Code
	case *CourseRange:
		y, ok := b.(*CourseRange)
		return ok && x.String() == y.String()
	case *Empty:
		_, ok := b.(*Empty)
		return ok
	case *Precedes:
		y, ok := b.(*Precedes)
		return ok && Equal(x.Before, y.Before) && Equal(x.After, y.After)
	case *And:
		y, ok := b.(*And)
		return ok && equalAll(x.Children, y.Children)
	case *Or:
		y, ok := b.(*Or)
		return ok && equalAll(x.Children, y.Children)
	case *Set:
		y, ok := b.(*Set)
		if !ok || x.Op != y.Op || x.Lower != y.Lower || x.Upper != y.Upper {
			return false
		}
		if (x.Diversity == nil) != (y.Diversity == nil) {
			return false
		}
		if x.Diversity != nil && *x.Diversity != *y.Diversity {
			return false
		}
		return equalAll(x.Children, y.Children) && equalAll(x.Excluded, y.Excluded)
	}
	return false
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Children returns the operands of n, not including a set's exclusions.
func Children(n Node) []Node {
	switch x := n.(type) {
	case *Set:
		return x.Children
	case *And:
		return x.Children
	case *Or:
		return x.Children
	case *Precedes:
		return []Node{x.Before, x.After}
	}
	return nil
}
