package evaluate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brequin/brequin/advise/requirement"
)

var major = requirement.Program{Type: requirement.ProgramMajor, Name: "Computer Science and Engineering"}

func check(t *testing.T, expression string, taken ...string) Report {
	t.Helper()
	combined := requirement.Combine(requirement.Source{Program: major, Expression: expression})
	require.Empty(t, combined.Errors)
	return Evaluate(combined, taken)
}

func satisfied(t *testing.T, expression string, taken ...string) bool {
	t.Helper()
	return check(t, expression, taken...).Met()
}

func TestBounds(t *testing.T) {
	const expression = "2-3(CSCI100 | CSCI101 | CSCI102 | CSCI103)"
	assert.False(t, satisfied(t, expression, "CSCI100"))
	assert.True(t, satisfied(t, expression, "CSCI100", "CSCI101"))
	assert.True(t, satisfied(t, expression, "CSCI100", "CSCI101", "CSCI102"))

	report := check(t, expression, "CSCI100", "CSCI101", "CSCI102", "CSCI103")
	require.Len(t, report.Satisfied, 1)
	assert.Equal(t, []string{"CSCI100", "CSCI101", "CSCI102"}, report.Satisfied[0].CoursesUsed)

	assert.True(t, satisfied(t, "CSCI10 | CSCI11", "CSCI11"))
	assert.False(t, satisfied(t, "CSCI10 & CSCI11", "CSCI11"))
	assert.True(t, satisfied(t, "2(CSCI100-189)", "CSCI150", "CSCI160"))
	assert.False(t, satisfied(t, "2(CSCI100-189)", "CSCI150"))
}

func TestExplicitBoundOnConjunction(t *testing.T) {
	const twoOfThree = "2(CSCI10 & CSCI11 & CSCI12)"
	assert.True(t, satisfied(t, twoOfThree, "CSCI10", "CSCI11"))
	assert.True(t, satisfied(t, twoOfThree, "CSCI11", "CSCI12"))
	assert.False(t, satisfied(t, twoOfThree, "CSCI10"))

	report := check(t, twoOfThree, "CSCI10")
	require.Len(t, report.Unsatisfied, 1)
	assert.Equal(t, twoOfThree, report.Unsatisfied[0].Expression)

	assert.True(t, satisfied(t, "3(CSCI10 & CSCI11 & CSCI12 & CSCI13)", "CSCI10", "CSCI12", "CSCI13"))

	// Bounds at least the child count keep every child mandatory.
	assert.False(t, satisfied(t, "4(2(CSCI100-189) & MATH11)", "CSCI100", "CSCI101", "CSCI102", "CSCI103"))
	assert.True(t, satisfied(t, "4(2(CSCI100-189) & MATH11)", "CSCI100", "CSCI101", "CSCI102", "MATH11"))
}

func TestRedundantBoundsCountChildren(t *testing.T) {
	tree := requirement.MustParse("2((CSCI10 | CSCI11) & (CSCI10 | CSCI12))")
	assert.Equal(t, "CSCI10 | CSCI11 & CSCI10 | CSCI12", tree.String())
	assert.True(t, satisfied(t, "2((CSCI10 | CSCI11) & (CSCI10 | CSCI12))", "CSCI10"))

	assert.Equal(t, "CSCI10 | CSCI11", requirement.MustParse("1(CSCI10 | CSCI11)").String())
}

func TestDiversity(t *testing.T) {
	const expression = "2@{min_unique_depts:2}(CSCI100 | CSCI101 | MATH100)"
	assert.True(t, satisfied(t, expression, "CSCI100", "MATH100"))
	assert.False(t, satisfied(t, expression, "CSCI100", "CSCI101"))

	const capped = "3@{max_courses_from_one_dept:2}(CSCI100-189 | MATH100-199)"
	assert.False(t, satisfied(t, capped, "CSCI100", "CSCI101", "CSCI102"))
	assert.True(t, satisfied(t, capped, "CSCI100", "CSCI101", "CSCI102", "MATH100"))

	const nested = "6@{min_unique_depts:2}(4(CSCI100-189) & 2(MATH100-199))"
	assert.True(t, satisfied(t, nested, "CSCI100", "CSCI101", "CSCI102", "CSCI103", "MATH100", "MATH101"))
	assert.False(t, satisfied(t, nested, "CSCI100", "CSCI101", "CSCI102", "CSCI103", "CSCI104", "MATH100"))

	const children = "@{max_courses_from_one_dept:1}(CSCI10 & MATH11)"
	assert.True(t, satisfied(t, children, "CSCI10", "MATH11"))
}

func TestExclusion(t *testing.T) {
	const expression = "2((CSCI100|CSCI101|CSCI102) & !(CSCI101))"
	assert.True(t, satisfied(t, expression, "CSCI100", "CSCI102"))
	assert.False(t, satisfied(t, expression, "CSCI100", "CSCI101"))

	assert.False(t, satisfied(t, "(CSCI100-189)!(CSCI150)", "CSCI150"))
	assert.False(t, satisfied(t, "(CSCI100-189)!(CSCI150)", "CSCI150H"))
	assert.True(t, satisfied(t, "(CSCI100-189)!(CSCI150)", "CSCI151"))
	assert.False(t, satisfied(t, "2(CSCI100-189 | MATH100-199)!(CSCI150-160)", "CSCI150", "CSCI155"))
}

func TestRanges(t *testing.T) {
	const expression = "CSCI100-189"
	assert.True(t, satisfied(t, expression, "CSCI150"))
	assert.True(t, satisfied(t, expression, "CSCI189"))
	assert.False(t, satisfied(t, expression, "CSCI199"))
	assert.False(t, satisfied(t, expression, "MATH150"))
}

func TestVariants(t *testing.T) {
	report := check(t, "CSCI10 & MATH11", "csci 10h", "MATH11T")
	require.True(t, report.Met())
	assert.Equal(t, []string{"CSCI10H", "MATH11T"}, report.Satisfied[0].CoursesUsed)

	assert.False(t, satisfied(t, "CSCI61L", "CSCI61"))
}

func TestCoursesCountForEveryProgram(t *testing.T) {
	minor := requirement.Program{Type: requirement.ProgramMinor, Name: "Mathematics"}
	combined := requirement.Combine(
		requirement.Source{Program: major, Expression: "CSCI10 & MATH11"},
		requirement.Source{Program: minor, Expression: "2(CSCI10 | CSCI11 | MATH11)"},
	)
	report := Evaluate(combined, []string{"CSCI10", "MATH11"})
	assert.True(t, report.Met())
	require.Len(t, report.Satisfied, 2)
	assert.Equal(t, minor, report.Satisfied[1].Program)
}

func TestUnmet(t *testing.T) {
	report := check(t, "CSCI10 & CSCI60 & 2(MATH11 | MATH12 | MATH13) & (CSCI100-189)!(CSCI150)", "CSCI10", "MATH11", "CSCI150")

	var unmet []string
	for _, u := range report.Unsatisfied {
		assert.Equal(t, major, u.Program)
		unmet = append(unmet, u.Expression)
	}
	assert.Equal(t, []string{"CSCI60", "2(MATH11 | MATH12 | MATH13)", "(CSCI100-189)!(CSCI150)"}, unmet)
	assert.Empty(t, report.Satisfied)

	report = check(t, "(CSCI10 | CSCI11) & (MATH11 -> MATH12)", "MATH12")
	unmet = nil
	for _, u := range report.Unsatisfied {
		unmet = append(unmet, u.Expression)
	}
	assert.Equal(t, []string{"CSCI10 | CSCI11", "MATH11"}, unmet)
}

func TestErrorsDoNotStopEvaluation(t *testing.T) {
	minor := requirement.Program{Type: requirement.ProgramMinor, Name: "Mathematics"}
	combined := requirement.Combine(
		requirement.Source{Program: minor, Expression: "MATH11 & (MATH12"},
		requirement.Source{Program: major, Expression: "CSCI10 & PHYS31 & CSCI100-189"},
	)
	report := Evaluate(combined, []string{"CSCI10", "PHYS31"}, WithKnown(requirement.Known{
		Departments: map[string]bool{"CSCI": true, "MATH": true},
		Courses:     []string{"CSCI10"},
	}))

	require.Len(t, report.Errors, 3)
	var sourceErr *requirement.SourceError
	require.True(t, errors.As(report.Errors[0], &sourceErr))
	assert.Equal(t, minor, sourceErr.Program)

	var deptErr *requirement.UnknownDepartmentError
	require.True(t, errors.As(report.Errors[1], &deptErr))
	assert.Equal(t, "PHYS31", deptErr.Code)
	var rangeErr *requirement.UnknownCourseInRangeError
	assert.True(t, errors.As(report.Errors[2], &rangeErr))

	require.Len(t, report.Unsatisfied, 1)
	assert.Equal(t, "CSCI100-189", report.Unsatisfied[0].Expression)
	assert.False(t, report.Met())
}

func TestAdHocExpression(t *testing.T) {
	const expression = "2(CSCI10 | CSCI11 | MATH11) & PHYS31"
	taken := []string{"CSCI10", "PHYS31", "MATH11"}

	combined := requirement.Combine(requirement.AdHoc(expression))
	assert.True(t, requirement.Equal(requirement.MustParse(expression), combined.Root()))
	assert.Equal(t, check(t, expression, taken...).Met(), Evaluate(combined, taken).Met())
}

func TestEmpty(t *testing.T) {
	report := check(t, "")
	assert.True(t, report.Met())
	require.Len(t, report.Satisfied, 1)
	assert.Empty(t, report.Satisfied[0].CoursesUsed)
}
