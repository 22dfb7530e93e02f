package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brequin/brequin/advise/requirement"
)

const document = `{
  "schools": [
    {"name": "School of Engineering", "courseRequirementsExpression": "MATH11 & MATH12", "otherRequirements": "175 units"}
  ],
  "deptsAndPrograms": [
    {
      "name": "Computer Science and Engineering",
      "school": "School of Engineering",
      "majors": [
        {"name": "Computer Science and Engineering", "deptCode": "CSEN", "courseRequirementsExpression": "CSEN10 & CSEN12", "otherRequirements": ["senior design"]}
      ],
      "minors": [
        {"name": "Computer Science", "courseRequirementsExpression": "CSEN10 | CSEN11"}
      ],
      "emphases": [
        {"name": "Software", "nameOfWhichItAppliesTo": "Computer Science and Engineering", "courseRequirementsExpression": "CSEN146 & CSEN174"}
      ]
    }
  ],
  "specialPrograms": [
    {"name": "LEAD Scholars", "courseRequirementsExpression": "ENGL1A"}
  ],
  "courses": [
    {"courseCode": "CSEN10", "name": "Introduction to Programming", "numUnits": 4},
    {"courseCode": "CSEN12", "name": "Abstract Data Types", "numUnits": 4, "prerequisiteCourses": "CSEN11 | CSEN10", "otherRequirements": null},
    {"courseCode": "MATH11", "name": "Calculus I", "numUnits": 4, "otherRequirements": {"placement": true}}
  ],
  "coreCurriculum": {
    "requirements": [
      {"requirementName": "Critical Thinking & Writing 1", "appliesTo": "All", "fulfilledBy": ["ENGL1A", "ENGL1H"]},
      {"requirementName": "Ethics", "appliesTo": "School of Engineering", "fulfilledBy": ["ENGR19"]},
      {"requirementName": "Experiential Learning", "requirementDescription": "Approved activity", "appliesTo": "College of Arts and Sciences"}
    ],
    "pathways": [
      {"name": "Public Health", "associatedCourses": ["PHSC1", "PHSC2", "ANTH3", "BIOL4", "ECON5"]},
      {"name": "Empty", "description": "Ask an advisor"}
    ]
  }
}`

func memory(t *testing.T) *Memory {
	t.Helper()
	doc, err := Decode(strings.NewReader(document))
	require.NoError(t, err)
	return NewMemory(doc)
}

func TestMemoryPrograms(t *testing.T) {
	m := memory(t)
	major := ProgramRef{Type: requirement.ProgramMajor, Name: "Computer Science and Engineering"}
	short := ProgramRef{Type: requirement.ProgramEmphasis, Name: "Software"}
	long := ProgramRef{Type: requirement.ProgramEmphasis, Name: "M{Computer Science and Engineering}E{Software}"}
	pathway := ProgramRef{Type: requirement.ProgramPathway, Name: "Public Health"}
	empty := ProgramRef{Type: requirement.ProgramPathway, Name: "Empty"}
	core := ProgramRef{Type: requirement.ProgramCore, Name: "Ethics"}
	school := ProgramRef{Type: requirement.ProgramSchool, Name: "School of Engineering"}
	special := ProgramRef{Type: requirement.ProgramSpecialProgram, Name: "LEAD Scholars"}
	missing := ProgramRef{Type: requirement.ProgramMinor, Name: "Underwater Basket Weaving"}

	programs, err := m.Programs(context.Background(), []ProgramRef{major, short, long, pathway, empty, core, school, special, missing})
	require.NoError(t, err)
	assert.Len(t, programs, 8)
	assert.NotContains(t, programs, missing)

	assert.Equal(t, "CSEN10 & CSEN12", programs[major].Expression)
	assert.Equal(t, "School of Engineering", programs[major].School)
	assert.Equal(t, "CSEN", programs[major].Department)
	assert.Equal(t, Notes{"senior design"}, programs[major].NotEncoded)

	assert.Equal(t, "CSEN146 & CSEN174", programs[short].Expression)
	assert.Equal(t, short, programs[short].Ref)
	assert.Equal(t, "CSEN146 & CSEN174", programs[long].Expression)
	assert.Equal(t, "Software", programs[long].Alias)
	assert.Equal(t, EmphasisName("Computer Science and Engineering", "Software"), long.Name)

	assert.Equal(t, "4(PHSC1 | PHSC2 | ANTH3 | BIOL4 | ECON5)", programs[pathway].Expression)
	assert.Empty(t, programs[empty].Expression)
	assert.Equal(t, Notes{"Ask an advisor"}, programs[empty].NotEncoded)

	assert.Equal(t, "(ENGR19)", programs[core].Expression)
	assert.Equal(t, "MATH11 & MATH12", programs[school].Expression)
	assert.Equal(t, Notes{"175 units"}, programs[school].NotEncoded)
	assert.Equal(t, "ENGL1A", programs[special].Expression)
}

func TestMemoryCourses(t *testing.T) {
	m := memory(t)
	ctx := context.Background()

	courses, err := m.Courses(ctx, []string{"CSEN12", "MATH11", "PHYS31"})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CSEN11 | CSEN10", courses["CSEN12"].Prerequisites)
	assert.Nil(t, courses["CSEN12"].OtherRequirements)
	assert.Equal(t, Notes{`{"placement": true}`}, courses["MATH11"].OtherRequirements)

	departments, err := m.Departments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CSEN", "MATH"}, departments)

	codes, err := m.CourseCodes(ctx, []string{"CSEN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CSEN10", "CSEN12"}, codes)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.Courses(cancelled, []string{"CSEN10"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoreRequirementApplies(t *testing.T) {
	m := memory(t)
	core, err := m.CoreRequirements(context.Background())
	require.NoError(t, err)
	require.Len(t, core, 3)

	assert.True(t, core[0].Applies("School of Engineering"))
	assert.True(t, core[0].Applies(""))
	assert.True(t, core[1].Applies("school of engineering"))
	assert.False(t, core[1].Applies("Leavey School of Business"))
	assert.False(t, core[2].Applies("School of Engineering"))
}

func TestParseEmphasis(t *testing.T) {
	major, emphasis, ok := ParseEmphasis("M{Computer Science and Engineering}E{Software}")
	require.True(t, ok)
	assert.Equal(t, "Computer Science and Engineering", major)
	assert.Equal(t, "Software", emphasis)

	_, _, ok = ParseEmphasis("Software")
	assert.False(t, ok)
	_, _, ok = ParseEmphasis("M{}E{Software}")
	assert.False(t, ok)
}
