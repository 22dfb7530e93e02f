package requirement

// Extract returns the distinct course refs and ranges n references, in
// order of first appearance. Members of exclusions are skipped and ranges
// are not expanded.
func Extract(n Node) []Node {
	switch n.(type) {
	case *CourseRef, *CourseRange:
		return []Node{n}
	}

	var found []Node
	for _, child := range Children(n) {
		found = mergeDistinct(found, Extract(child))
	}
	return found
}

// Courses returns the distinct course codes n references outside of
// exclusions.
func Courses(n Node) []string {
	var codes []string
	for _, found := range Extract(n) {
		if ref, ok := found.(*CourseRef); ok {
			codes = append(codes, ref.Code)
		}
	}
	return codes
}

// Ranges returns the distinct course ranges n references outside of
// exclusions.
func Ranges(n Node) []*CourseRange {
	var ranges []*CourseRange
	for _, found := range Extract(n) {
		if r, ok := found.(*CourseRange); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func mergeDistinct(into, from []Node) []Node {
	for _, n := range from {
		duplicate := false
		for _, existing := range into {
			if existing.String() == n.String() {
				duplicate = true
				break
			}
		}
		if !duplicate {
			into = append(into, n)
		}
	}
	return into
}
