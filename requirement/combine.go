package requirement

import "fmt"

type ProgramType string

const (
	ProgramMajor          ProgramType = "major"
	ProgramMinor          ProgramType = "minor"
	ProgramEmphasis       ProgramType = "emphasis"
	ProgramSchool         ProgramType = "school"
	ProgramSpecialProgram ProgramType = "specialProgram"
	ProgramPathway        ProgramType = "pathway"
	ProgramCore           ProgramType = "core"
	ProgramAdHoc          ProgramType = "adHoc"
)

func ParseProgramType(s string) (ProgramType, error) {
	switch t := ProgramType(s); t {
	case ProgramMajor, ProgramMinor, ProgramEmphasis, ProgramSchool, ProgramSpecialProgram, ProgramPathway, ProgramCore, ProgramAdHoc:
		return t, nil
	}
	return "", fmt.Errorf("unknown program type %q", s)
}

// Program names one contributor of requirements.
type Program struct {
	Type ProgramType `json:"type" yaml:"type"`
	Name string      `json:"name" yaml:"name"`
}

func (p Program) String() string {
	return fmt.Sprintf("%s %q", p.Type, p.Name)
}

// Source is one program's requirement expression and its parsed tree.
type Source struct {
	Program    Program
	Expression string
	Tree       Node
}

// NewSource parses expression for program.
func NewSource(program Program, expression string) (Source, error) {
	source := Source{Program: program, Expression: expression}
	tree, err := Parse(expression)
	if err != nil {
		return source, &SourceError{Program: program, Err: err}
	}
	source.Tree = tree
	return source, nil
}

// AdHoc is a source for an expression supplied with the request rather
// than stored with a program.
func AdHoc(expression string) Source {
	return Source{Program: Program{Type: ProgramAdHoc, Name: "courseExpression"}, Expression: expression}
}

// Combined is the conjunction of every source's tree. Tree.Children[i]
// came from Sources[i].
type Combined struct {
	Sources []Source
	Tree    *And
	Errors  Errors
}

// Combine conjoins sources in order. A source without a tree is parsed
// first; sources that fail to parse are recorded in Errors and left out.
func Combine(sources ...Source) Combined {
	combined := Combined{Tree: &And{}}
	for _, source := range sources {
		if source.Tree == nil {
			tree, err := Parse(source.Expression)
			if err != nil {
				combined.Errors = append(combined.Errors, &SourceError{Program: source.Program, Err: err})
				continue
			}
			source.Tree = tree
		}
		combined.Sources = append(combined.Sources, source)
		combined.Tree.Children = append(combined.Tree.Children, source.Tree)
	}
	return combined
}

// Root returns the combined tree without the wrapping conjunction when
// only one source has a requirement.
func (c Combined) Root() Node {
	children := nonEmpty(c.Tree.Children)
	switch len(children) {
	case 0:
		return &Empty{}
	case 1:
		return children[0]
	}
	return &And{Children: children}
}
