package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brequin/brequin/advise/requirement"
)

func prerequisites(t *testing.T, expressions map[string]string) Prerequisites {
	t.Helper()
	p := make(Prerequisites)
	for code, expression := range expressions {
		tree, err := requirement.Parse(expression)
		require.NoError(t, err, code)
		p[code] = tree
	}
	return p
}

func expressions(chains []Chain) map[string]string {
	out := make(map[string]string)
	for _, c := range chains {
		out[c.Course] = c.Expression
	}
	return out
}

func TestExpand(t *testing.T) {
	p := prerequisites(t, map[string]string{
		"CSCI60": "CSCI10",
		"CSCI61": "CSCI60",
		"CSCI62": "CSCI61 & MATH11",
		"CSCI70": "CSCI10 & CSCI60",
		"CSCI80": "CSCI60 | MATH11",
		"CSCI90": "CSCI100-189",
		"MATH11": "",
	})

	chains := Expand([]string{"CSCI10", "MATH11", "CSCI62", "CSCI70", "CSCI80", "CSCI90", "CSCI62"}, p)
	require.Len(t, chains, 4)
	assert.Equal(t, []string{"CSCI62", "CSCI70", "CSCI80", "CSCI90"}, []string{
		chains[0].Course, chains[1].Course, chains[2].Course, chains[3].Course,
	})
	assert.Equal(t, map[string]string{
		"CSCI62": "CSCI10 -> CSCI60 -> CSCI61 & MATH11",
		"CSCI70": "CSCI10 -> CSCI60",
		"CSCI80": "CSCI10 -> CSCI60 | MATH11",
		"CSCI90": "CSCI100-189",
	}, expressions(chains))

	for _, c := range chains {
		assert.Empty(t, c.Warnings, c.Course)
		reparsed, err := requirement.Parse(c.Expression)
		require.NoError(t, err, c.Expression)
		assert.Equal(t, c.Expression, reparsed.String())
	}
}

func TestExpandCycle(t *testing.T) {
	p := prerequisites(t, map[string]string{
		"CSCI1": "CSCI2",
		"CSCI2": "CSCI1",
		"CSCI3": "CSCI3 | MATH11",
	})

	chains := Expand([]string{"CSCI1", "CSCI2", "CSCI3"}, p)
	require.Len(t, chains, 3)

	assert.Equal(t, "CSCI1 -> CSCI2", chains[0].Expression)
	require.Len(t, chains[0].Warnings, 1)
	assert.Equal(t, "CSCI1", chains[0].Warnings[0].Course)
	assert.Equal(t, []string{"CSCI1", "CSCI2", "CSCI1"}, chains[0].Warnings[0].Path)
	assert.EqualError(t, chains[0].Warnings[0], "prerequisite cycle while expanding CSCI1: CSCI1 -> CSCI2 -> CSCI1")

	assert.Equal(t, "CSCI2 -> CSCI1", chains[1].Expression)
	require.Len(t, chains[1].Warnings, 1)
	assert.Equal(t, []string{"CSCI2", "CSCI1", "CSCI2"}, chains[1].Warnings[0].Path)

	assert.Equal(t, "CSCI3 | MATH11", chains[2].Expression)
	require.Len(t, chains[2].Warnings, 1)
	assert.Equal(t, []string{"CSCI3", "CSCI3"}, chains[2].Warnings[0].Path)
}

func TestExpandStopsAtRepeatedCourse(t *testing.T) {
	p := prerequisites(t, map[string]string{"MATH5": "MATH5"})

	chains := Expand([]string{"MATH5"}, p)
	require.Len(t, chains, 1)
	assert.Equal(t, "MATH5", chains[0].Expression)
	require.Len(t, chains[0].Warnings, 1)
	assert.Equal(t, []string{"MATH5", "MATH5"}, chains[0].Warnings[0].Path)
}

func TestExpandKeepsExclusions(t *testing.T) {
	p := prerequisites(t, map[string]string{
		"CSCI60":  "CSCI10",
		"CSCI183": "2(CSCI60 | MATH11 | PHYS31)!(CSCI60)",
	})

	chains := Expand([]string{"CSCI183"}, p)
	require.Len(t, chains, 1)
	assert.Equal(t, "2(CSCI10 -> CSCI60 | MATH11 | PHYS31)!(CSCI60)", chains[0].Expression)
}

func TestPrune(t *testing.T) {
	tests := []struct {
		expression string
		want       string
	}{
		{"CSCI10 & CSCI10 -> CSCI60", "CSCI10 -> CSCI60"},
		{"MATH11 & CSCI10 -> CSCI60 & MATH11", "MATH11 & CSCI10 -> CSCI60"},
		{"CSCI10 & (CSCI10 | MATH11) -> CSCI60", "CSCI10 & (CSCI10 | MATH11) -> CSCI60"},
		{"CSCI10 | CSCI10", "CSCI10"},
		{"2(CSCI10 | CSCI10 | MATH11)", "2(CSCI10 | CSCI10 | MATH11)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prune(requirement.MustParse(tt.expression)).String(), tt.expression)
	}
}
