package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brequin/brequin/advise/config"
	"github.com/brequin/brequin/advise/requirement"
)

const catalogJSON = `{
  "schools": [{"name": "School of Engineering"}],
  "deptsAndPrograms": [{
    "name": "Computer Science and Engineering",
    "school": "School of Engineering",
    "majors": [{
      "name": "Computer Science and Engineering",
      "courseRequirementsExpression": "CSEN10 && CSEN12 && 1(CSEN100-199)"
    }]
  }],
  "courses": [
    {"courseCode": "CSEN10"},
    {"courseCode": "CSEN11", "prerequisiteCourses": "CSEN10"},
    {"courseCode": "CSEN12", "prerequisiteCourses": "CSEN11"},
    {"courseCode": "CSEN146", "prerequisiteCourses": "CSEN12"},
    {"courseCode": "CSEN99", "prerequisiteCourses": "CSEN10 ||"},
    {"courseCode": "MATH11"},
    {"courseCode": "PHIL2"}
  ],
  "coreCurriculum": {
    "requirements": [{"requirementName": "Ethics", "appliesTo": "All", "fulfilledBy": ["PHIL2"]}],
    "pathways": []
  }
}`

const major = "major:Computer Science and Engineering"

func catalogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvCatalogFile, "")
	t.Setenv(config.EnvLogLevel, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParse(t *testing.T) {
	out, err := run(t, "parse", "CSCI10 && CSCI60 || MATH11", "(CSCI100-189) - (CSCI150)")
	require.NoError(t, err)
	assert.Equal(t, "CSCI10 & CSCI60 | MATH11\n(CSCI100-189)!(CSCI150)\n", out)

	out, err = run(t, "parse", "CSCI10 &")
	assert.ErrorIs(t, err, errUnmet)
	assert.Contains(t, out, "error: ")

	_, err = run(t, "parse")
	assert.ErrorContains(t, err, "parse needs an expression")
}

func TestParseCheck(t *testing.T) {
	out, err := run(t, "parse", "--check", "--catalog", catalogFile(t), "CSEN10 & BIOL1")
	assert.ErrorIs(t, err, errUnmet)
	assert.Contains(t, out, "CSEN10 & BIOL1\n")
	assert.Contains(t, out, "error: ")
	assert.Contains(t, out, "BIOL1")

	out, err = run(t, "parse", "--check", "--catalog", catalogFile(t), "--json", "CSEN10 | MATH11")
	require.NoError(t, err)
	var results []parsed
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "CSEN10 | MATH11", results[0].Canonical)
	assert.Empty(t, results[0].Errors)
}

func TestParseCheckCatalog(t *testing.T) {
	out, err := run(t, "parse", "--check", "--catalog", catalogFile(t))
	assert.ErrorIs(t, err, errUnmet)
	assert.Contains(t, out, "prerequisites of CSEN99: ")
	assert.NotContains(t, out, "major")
}

func TestChains(t *testing.T) {
	out, err := run(t, "chains", "--catalog", catalogFile(t), "-p", major, "CSEN146")
	require.NoError(t, err)
	assert.Equal(t, "CSEN12: CSEN10 -> CSEN11\nCSEN146: CSEN10 -> CSEN11 -> CSEN12\n", out)

	out, err = run(t, "chains", "--catalog", catalogFile(t), "--json", "CSEN146 & CSEN99")
	require.NoError(t, err)
	var result chainsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Chains, 1)
	assert.Equal(t, "CSEN146", result.Chains[0].Course)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "prerequisites of CSEN99")
}

func TestCheck(t *testing.T) {
	file := catalogFile(t)

	out, err := run(t, "check", "--catalog", file, "-p", major, "-c", "csen10,CSEN12", "-c", "CSEN146")
	require.NoError(t, err)
	assert.Equal(t, `satisfied major "Computer Science and Engineering": CSEN10 & CSEN12 & CSEN100-199 (using CSEN10, CSEN12, CSEN146)`+"\n", out)

	out, err = run(t, "check", "--catalog", file, "-p", major, "-c", "CSEN10", "--core")
	assert.ErrorIs(t, err, errUnmet)
	assert.Contains(t, out, `unsatisfied major "Computer Science and Engineering": CSEN12`)
	assert.Contains(t, out, `unsatisfied core "Ethics": PHIL2`)
}

func TestCheckJSON(t *testing.T) {
	out, err := run(t, "check", "--catalog", catalogFile(t), "--json", "-p", major, "-p", "minor:Dance", "-c", "CSEN10,CSEN12,CSEN146")
	assert.ErrorIs(t, err, errUnmet)

	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Met)
	require.Len(t, report.Satisfied, 1)
	assert.Equal(t, requirement.ProgramMajor, report.Satisfied[0].Program.Type)
	assert.Empty(t, report.Unsatisfied)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "not found")
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "check", "-p", major)
	assert.ErrorContains(t, err, "no catalog")

	_, err = run(t, "check", "--catalog", catalogFile(t), "-p", "major")
	assert.ErrorContains(t, err, "want type:name")

	_, err = run(t, "check", "--catalog", catalogFile(t), "-p", "club:Chess")
	assert.ErrorContains(t, err, `unknown program type "club"`)

	_, err = run(t, "chains", "--catalog", catalogFile(t))
	assert.ErrorContains(t, err, "chains needs")
}
