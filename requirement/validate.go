package requirement

// Known is the catalog vocabulary that course references are checked
// against. A nil Departments skips department checks and a nil Courses
// skips range checks.
type Known struct {
	Departments map[string]bool
	Courses     []string
}

// Check reports every reference in n, including excluded ones, whose
// department is unknown, and every range that matches no known course.
// Each problem is reported once.
func (k Known) Check(n Node) Errors {
	var errs Errors
	seen := make(map[string]bool)
	report := func(err error) {
		if !seen[err.Error()] {
			seen[err.Error()] = true
			errs = append(errs, err)
		}
	}

	var walk func(Node)
	walk = func(n Node) {
		switch x := n.(type) {
		case *CourseRef:
			if k.Departments != nil && !k.Departments[Department(x.Code)] {
				report(&UnknownDepartmentError{Code: x.Code})
			}
			return
		case *CourseRange:
			if k.Departments != nil && !k.Departments[x.Department()] {
				report(&UnknownDepartmentError{Code: x.low.Text})
				return
			}
			if k.Courses != nil && !k.anyIn(x) {
				report(&UnknownCourseInRangeError{Range: x.String()})
			}
			return
		}
		for _, child := range Children(n) {
			walk(child)
		}
		if s, ok := n.(*Set); ok {
			for _, excluded := range s.Excluded {
				walk(excluded)
			}
		}
	}
	walk(n)
	return errs
}

func (k Known) anyIn(r *CourseRange) bool {
	for _, code := range k.Courses {
		if r.Contains(code) {
			return true
		}
	}
	return false
}
