package main

import (
	"encoding/json"
	"io"

	"github.com/brequin/brequin/advise/advise"
	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/evaluate"
	"github.com/brequin/brequin/advise/requirement"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type chainJSON struct {
	Course     string      `json:"course"`
	Expression string      `json:"expression"`
	Warnings   []cycleJSON `json:"warnings,omitempty"`
}

type cycleJSON struct {
	Course string   `json:"course"`
	Path   []string `json:"path"`
}

type chainsJSON struct {
	Chains     []chainJSON `json:"chains"`
	Errors     []string    `json:"errors,omitempty"`
	Unresolved []string    `json:"unresolved,omitempty"`
}

func chainsOutput(result advise.ChainResult) chainsJSON {
	out := chainsJSON{Chains: []chainJSON{}, Errors: messages(result.Errors), Unresolved: result.Unresolved}
	for _, c := range result.Chains {
		chain := chainJSON{Course: c.Course, Expression: c.Expression}
		for _, w := range c.Warnings {
			chain.Warnings = append(chain.Warnings, cycleJSON{Course: w.Course, Path: w.Path})
		}
		out.Chains = append(out.Chains, chain)
	}
	return out
}

type satisfiedJSON struct {
	Program     catalog.ProgramRef `json:"program"`
	Expression  string             `json:"expression"`
	CoursesUsed []string           `json:"coursesUsed"`
}

type unsatisfiedJSON struct {
	Program    catalog.ProgramRef `json:"program"`
	Expression string             `json:"expression"`
	Courses    []string           `json:"courses"`
}

type notCheckedJSON struct {
	Program      catalog.ProgramRef `json:"program"`
	Requirements []string           `json:"requirements"`
}

type reportJSON struct {
	Met         bool              `json:"met"`
	Satisfied   []satisfiedJSON   `json:"satisfied"`
	Unsatisfied []unsatisfiedJSON `json:"unsatisfied"`
	NotChecked  []notCheckedJSON  `json:"notChecked"`
	Errors      []string          `json:"errors,omitempty"`
}

func reportOutput(report evaluate.Report) reportJSON {
	out := reportJSON{
		Met:         report.Met(),
		Satisfied:   []satisfiedJSON{},
		Unsatisfied: []unsatisfiedJSON{},
		NotChecked:  []notCheckedJSON{},
		Errors:      messages(report.Errors),
	}
	for _, s := range report.Satisfied {
		out.Satisfied = append(out.Satisfied, satisfiedJSON{Program: s.Program, Expression: s.Expression, CoursesUsed: s.CoursesUsed})
	}
	for _, u := range report.Unsatisfied {
		out.Unsatisfied = append(out.Unsatisfied, unsatisfiedJSON{Program: u.Program, Expression: u.Expression, Courses: requirement.Courses(u.Node)})
	}
	for _, n := range report.NotChecked {
		out.NotChecked = append(out.NotChecked, notCheckedJSON{Program: n.Program, Requirements: n.Requirements})
	}
	return out
}

func messages(errs requirement.Errors) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
