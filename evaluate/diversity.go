package evaluate

import "github.com/brequin/brequin/advise/requirement"

// limitCourses drops courses beyond the per-department maximum, keeping
// the first ones credited.
func limitCourses(codes []string, d *requirement.Diversity) []string {
	if d == nil || d.MaxCoursesFromOneDept == 0 {
		return codes
	}
	perDept := make(map[string]int)
	var kept []string
	for _, code := range codes {
		dept := requirement.Department(code)
		if perDept[dept] >= d.MaxCoursesFromOneDept {
			continue
		}
		perDept[dept]++
		kept = append(kept, code)
	}
	return kept
}

// limitChildren is limitCourses for sets that count children. A child is
// attributed to the department of the first course it used.
func limitChildren(children []result, d *requirement.Diversity) []result {
	if d == nil || d.MaxCoursesFromOneDept == 0 {
		return children
	}
	perDept := make(map[string]int)
	var kept []result
	for _, child := range children {
		dept := departmentOfChild(child)
		if dept != "" && perDept[dept] >= d.MaxCoursesFromOneDept {
			continue
		}
		perDept[dept]++
		kept = append(kept, child)
	}
	return kept
}

func departmentOfChild(child result) string {
	if len(child.used) == 0 {
		return ""
	}
	return requirement.Department(child.used[0])
}

func departmentsOf(codes []string) map[string]bool {
	depts := make(map[string]bool)
	for _, code := range codes {
		depts[requirement.Department(code)] = true
	}
	return depts
}

func departmentsOfChildren(children []result) map[string]bool {
	depts := make(map[string]bool)
	for _, child := range children {
		if dept := departmentOfChild(child); dept != "" {
			depts[dept] = true
		}
	}
	return depts
}

func enoughDepartments(depts map[string]bool, d *requirement.Diversity) bool {
	return d == nil || len(depts) >= d.MinUniqueDepts
}
