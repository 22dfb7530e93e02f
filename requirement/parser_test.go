package requirement

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       string
	}{
		{"single course", "CSCI183", "CSCI183"},
		{"conjunction", "CSCI10 & CSCI60", "CSCI10 & CSCI60"},
		{"or binds tighter than and", "CSCI10 | CSCI60 & MATH11", "CSCI10 | CSCI60 & MATH11"},
		{"grouped and under or", "(CSCI10 & CSCI60) | MATH11", "(CSCI10 & CSCI60) | MATH11"},
		{"redundant parentheses", "((CSCI10))", "CSCI10"},
		{"flattened or", "CSCI10 | (CSCI60 | MATH11)", "CSCI10 | CSCI60 | MATH11"},
		{"lower bound", "2(CSCI10 | CSCI60 | MATH11)", "2(CSCI10 | CSCI60 | MATH11)"},
		{"lower and upper bound", "2-3(CSCI10|CSCI60|MATH11)", "2-3(CSCI10 | CSCI60 | MATH11)"},
		{"default bound dropped", "1(CSCI10 | CSCI60)", "CSCI10 | CSCI60"},
		{"short range", "CSCI100-189", "CSCI100-189"},
		{"long range", "CSCI100-CSCI189", "CSCI100-189"},
		{"precedes", "CSCI10->CSCI60", "CSCI10 -> CSCI60"},
		{"precedes binds tighter than and", "CSCI10 & CSCI11 -> CSCI60", "CSCI10 & CSCI11 -> CSCI60"},
		{"grouped precedes operand", "(CSCI10 & CSCI11) -> CSCI60", "(CSCI10 & CSCI11) -> CSCI60"},
		{"left associative precedes", "CSCI10 -> CSCI11 -> CSCI12", "CSCI10 -> CSCI11 -> CSCI12"},
		{"right grouped precedes", "CSCI10 -> (CSCI11 -> CSCI12)", "CSCI10 -> (CSCI11 -> CSCI12)"},
		{"diversity before group", "3@{min_unique_depts:2}(CSCI10 | MATH11 | PHYS31)", "3@{min_unique_depts:2}(CSCI10 | MATH11 | PHYS31)"},
		{"diversity after group", "3(CSCI10 | MATH11 | PHYS31)@{min_unique_depts:2}", "3@{min_unique_depts:2}(CSCI10 | MATH11 | PHYS31)"},
		{"quoted diversity keys", `3@{"min_unique_depts": 2, "max_courses_from_one_dept": 2}(CSCI10 | MATH11 | PHYS31)`, "3@{min_unique_depts:2, max_courses_from_one_dept:2}(CSCI10 | MATH11 | PHYS31)"},
		{"empty diversity", "@{}(CSCI10 | CSCI11)", "CSCI10 | CSCI11"},
		{"exclusion suffix", "(CSCI100-189)!(CSCI150)", "(CSCI100-189)!(CSCI150)"},
		{"exclusion conjunct", "CSCI100-189 & !(CSCI150)", "(CSCI100-189)!(CSCI150)"},
		{"bare exclusion", "(CSCI100-189)!CSCI150", "(CSCI100-189)!(CSCI150)"},
		{"exclusion alternatives spread", "2(CSCI100-189 | MATH100-199)!(CSCI150 | CSCI151)", "2(CSCI100-189 | MATH100-199)!(CSCI150, CSCI151)"},
		{"legacy exclusion", "(CSCI100-189) - (CSCI150, CSCI151)", "(CSCI100-189)!(CSCI150, CSCI151)"},
		{"legacy operators", "CSCI10 && CSCI60 || MATH11", "CSCI10 & CSCI60 | MATH11"},
		{"suffixed course", "CSCI61L & ENGL1AH", "CSCI61L & ENGL1AH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, expression := range []string{"", "   ", "\n\t"} {
		node, err := Parse(expression)
		require.NoError(t, err)
		assert.IsType(t, &Empty{}, node)
		assert.Equal(t, "", node.String())
	}
}

func TestParseStructure(t *testing.T) {
	node := MustParse("2-3(CSCI10 | CSCI60 | MATH11)")
	set, ok := node.(*Set)
	require.True(t, ok)
	assert.Equal(t, OpOr, set.Op)
	assert.Equal(t, 2, set.Lower)
	assert.Equal(t, 3, set.Upper)
	assert.Len(t, set.Children, 3)
	assert.False(t, set.Implicit())

	node = MustParse("CSCI10 & CSCI10 -> CSCI60")
	and, ok := node.(*Set)
	require.True(t, ok)
	assert.Equal(t, OpAnd, and.Op)
	assert.Equal(t, 2, and.Lower)
	require.IsType(t, &Precedes{}, and.Children[1])
	assert.Equal(t, "CSCI10", and.Children[1].(*Precedes).Before.String())

	node = MustParse("3@{min_unique_depts:2, max_courses_from_one_dept:1}(CSCI10 | MATH11 | PHYS31)!(MATH11)")
	set = node.(*Set)
	require.NotNil(t, set.Diversity)
	assert.Equal(t, Diversity{MinUniqueDepts: 2, MaxCoursesFromOneDept: 1}, *set.Diversity)
	require.Len(t, set.Excluded, 1)
	assert.Equal(t, "MATH11", set.Excluded[0].String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		pos        int
	}{
		{"dangling operator", "CSCI10 &", 8},
		{"unclosed group", "(CSCI10 | CSCI60", 0},
		{"unopened group", "CSCI10)", 6},
		{"upper below lower", "3-2(CSCI10 | CSCI60)", 2},
		{"range low above high", "CSCI189-100", 0},
		{"range across departments", "CSCI100-MATH189", 0},
		{"range with leading zero", "CSCI010-100", 0},
		{"exclusion joined with or", "CSCI10 | !(CSCI60)", 9},
		{"exclusion on its own", "!(CSCI60)", 0},
		{"unknown diversity key", "2@{bogus:1}(CSCI10 | MATH11)", 3},
		{"duplicate diversity key", "2@{min_unique_depts:1, min_unique_depts:2}(CSCI10 | MATH11)", 23},
		{"zero max per department", "@{max_courses_from_one_dept:0}(CSCI10 | MATH11)", 28},
		{"bound without group", "2 CSCI10", 2},
		{"two diversity constraints", "@{min_unique_depts:1}(CSCI10 | MATH11)@{min_unique_depts:2}", 38},
		{"missing operator", "CSCI10 CSCI60", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.expression)
			require.Error(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.Equal(t, tt.pos, parseErr.Pos)
		})
	}
}

func TestParseTokenizeErrors(t *testing.T) {
	tests := []struct {
		expression string
		pos        int
		text       string
	}{
		{"CSCI10 $ CSCI60", 7, "$"},
		{"C10", 0, "C10"},
		{"CSCI10 & CSCIXYZ", 9, "CSCIXYZ"},
		{`@{"min_unique_depts:2}(CSCI10)`, 2, `"min_unique_depts`},
	}

	for _, tt := range tests {
		_, err := Parse(tt.expression)
		var tokenizeErr *TokenizeError
		require.True(t, errors.As(err, &tokenizeErr), "%q: got %v", tt.expression, err)
		assert.Equal(t, tt.pos, tokenizeErr.Pos)
		assert.Equal(t, tt.text, tokenizeErr.Text)
	}
}

func TestParseDepthLimit(t *testing.T) {
	nested := func(depth int) string {
		return strings.Repeat("(", depth) + "CSCI10" + strings.Repeat(")", depth)
	}

	node, err := Parse(nested(MaxDepth))
	require.NoError(t, err)
	assert.Equal(t, "CSCI10", node.String())

	_, err = Parse(nested(MaxDepth + 1))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Msg, "deeper")
}

func TestRoundTrip(t *testing.T) {
	expressions := []string{
		"CSCI10 & (CSCI60 | CSCI61) & MATH11",
		"2-3(CSCI100-189 | MATH100-199 | PHYS31)!(CSCI150, MATH153)",
		"6@{min_unique_depts:2, max_courses_from_one_dept:3}(4(CSCI100-189) & 2(MATH100-199 | AMTH100-199))",
		"(CSCI10 -> CSCI60) | (CSCI10 & MATH11 -> CSCI61)",
		"CSCI10 & !(CSCI11) & MATH11",
		"2(CSCI10 | CSCI60) & !(CSCI60)",
		"(CSCI10 & CSCI11) & !(CSCI12)",
		"((CSCI10 | CSCI11) & (MATH11 | MATH12)) | PHYS31",
		"CSCI10 -> (CSCI11 & CSCI12) -> CSCI60",
		"@{max_courses_from_one_dept:1}(CSCI10 | MATH11 | PHYS31)",
	}

	for _, expression := range expressions {
		t.Run(expression, func(t *testing.T) {
			first, err := Parse(expression)
			require.NoError(t, err)
			canonical := first.String()

			second, err := Parse(canonical)
			require.NoError(t, err, canonical)
			assert.True(t, Equal(first, second), "%s reparsed differently", canonical)
			assert.Equal(t, canonical, second.String())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(MustParse("CSCI10 | CSCI60"), MustParse("(CSCI10 || CSCI60)")))
	assert.False(t, Equal(MustParse("CSCI10 | CSCI60"), MustParse("CSCI60 | CSCI10")))
	assert.False(t, Equal(MustParse("2(CSCI10 | CSCI60)"), MustParse("2-2(CSCI10 | CSCI60)")))
	assert.False(t, Equal(MustParse("CSCI10 | CSCI60"), MustParse("CSCI10 & CSCI60")))
	assert.True(t, Equal(&Empty{}, MustParse("")))
	assert.False(t, Equal(nil, &Empty{}))
}
