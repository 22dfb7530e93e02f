// Package chain expands courses into the full transitive structure of
// their prerequisites, e.g. "MATH11 -> MATH12 -> MATH13".
package chain

import (
	"strings"

	"github.com/brequin/brequin/advise/requirement"
)

// Prerequisites maps a course code to its parsed prerequisite tree. A
// course that is missing, or maps to nil or Empty, has no prerequisites.
type Prerequisites map[string]requirement.Node

func (p Prerequisites) of(code string) requirement.Node {
	tree := p[code]
	if _, ok := tree.(*requirement.Empty); ok {
		return nil
	}
	return tree
}

// CycleWarning reports a course that is its own transitive prerequisite.
// Expansion stops at the repeated course and the rest of the chain is
// still returned.
type CycleWarning struct {
	Course string
	Path   []string
}

func (w *CycleWarning) Error() string {
	return "prerequisite cycle while expanding " + w.Course + ": " + strings.Join(w.Path, " -> ")
}

// Chain is the expanded prerequisite expression of one course.
type Chain struct {
	Course     string
	Expression string
	Tree       requirement.Node
	Warnings   []*CycleWarning
}

// Expand returns a chain for every course in courses that has at least
// one prerequisite, in the order given. Every course referenced by a
// prerequisite tree is replaced by "its own chain -> course"; ranges are
// left as they are.
func Expand(courses []string, prerequisites Prerequisites) []Chain {
	e := &expander{prerequisites: prerequisites, memo: make(map[string]requirement.Node)}

	var chains []Chain
	seen := make(map[string]bool)
	for _, code := range courses {
		if seen[code] || prerequisites.of(code) == nil {
			continue
		}
		seen[code] = true

		node, cycles := e.course(code, nil)
		tree := node.(*requirement.Precedes).Before
		chains = append(chains, Chain{
			Course:     code,
			Expression: tree.String(),
			Tree:       tree,
			Warnings:   warnings(code, cycles),
		})
	}
	return chains
}

type expander struct {
	prerequisites Prerequisites
	// memo holds expansions that never ran into a cycle. Those do not
	// depend on the path they were reached through.
	memo map[string]requirement.Node
}

// course expands a reference to code reached through path.
func (e *expander) course(code string, path []string) (requirement.Node, [][]string) {
	ref := &requirement.CourseRef{Code: code}
	for _, visited := range path {
		if visited == code {
			cycle := append(append([]string(nil), path...), code)
			return ref, [][]string{cycle}
		}
	}

	prerequisite := e.prerequisites.of(code)
	if prerequisite == nil {
		return ref, nil
	}
	if node, ok := e.memo[code]; ok {
		return node, nil
	}

	before, cycles := e.tree(prerequisite, append(path[:len(path):len(path)], code))
	node := &requirement.Precedes{Before: before, After: ref}
	if len(cycles) == 0 {
		e.memo[code] = node
	}
	return node, cycles
}

func (e *expander) tree(n requirement.Node, path []string) (requirement.Node, [][]string) {
	switch x := n.(type) {
	case *requirement.CourseRef:
		return e.course(x.Code, path)
	case *requirement.Precedes:
		before, beforeCycles := e.tree(x.Before, path)
		after, afterCycles := e.tree(x.After, path)
		return &requirement.Precedes{Before: before, After: after}, append(beforeCycles, afterCycles...)
	case *requirement.And:
		children, cycles := e.trees(x.Children, path)
		return prune(&requirement.And{Children: children}), cycles
	case *requirement.Or:
		children, cycles := e.trees(x.Children, path)
		return prune(&requirement.Or{Children: children}), cycles
	case *requirement.Set:
		children, cycles := e.trees(x.Children, path)
		set := *x
		set.Children = children
		return prune(&set), cycles
	}
	return n, nil
}

func (e *expander) trees(nodes []requirement.Node, path []string) ([]requirement.Node, [][]string) {
	var cycles [][]string
	expanded := make([]requirement.Node, len(nodes))
	for i, n := range nodes {
		var found [][]string
		expanded[i], found = e.tree(n, path)
		cycles = append(cycles, found...)
	}
	return expanded, cycles
}

func warnings(course string, cycles [][]string) []*CycleWarning {
	var out []*CycleWarning
	seen := make(map[string]bool)
	for _, path := range cycles {
		key := strings.Join(path, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &CycleWarning{Course: course, Path: path})
	}
	return out
}
