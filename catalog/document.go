package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/brequin/brequin/advise/requirement"
)

// Document is the university catalog JSON document produced by the
// bulletin parser.
type Document struct {
	Schools          []ProgramRecord `json:"schools"`
	DeptsAndPrograms []Department    `json:"deptsAndPrograms"`
	SpecialPrograms  []ProgramRecord `json:"specialPrograms"`
	Courses          []Course        `json:"courses"`
	CoreCurriculum   CoreCurriculum  `json:"coreCurriculum"`
}

type CoreCurriculum struct {
	Requirements []CoreRequirement `json:"requirements"`
	Pathways     []Pathway         `json:"pathways"`
}

type Department struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	School      string           `json:"school"`
	Majors      []ProgramRecord  `json:"majors"`
	Minors      []ProgramRecord  `json:"minors"`
	Emphases    []EmphasisRecord `json:"emphases"`
	Source      string           `json:"src"`
}

type ProgramRecord struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	DeptCode          string `json:"deptCode"`
	RequiresEmphasis  bool   `json:"requiresEmphasis"`
	Expression        string `json:"courseRequirementsExpression"`
	OtherRequirements Notes  `json:"otherRequirements"`
	OtherNotes        string `json:"otherNotes"`
	Source            string `json:"src"`
}

// EmphasisRecord is an emphasis within the program named AppliesToName.
type EmphasisRecord struct {
	ProgramRecord
	AppliesTo     string `json:"appliesTo"`
	AppliesToName string `json:"nameOfWhichItAppliesTo"`
}

func (r ProgramRecord) program(ref ProgramRef, school string) Program {
	return Program{
		Ref:         ref,
		Description: r.Description,
		School:      school,
		Department:  r.DeptCode,
		Expression:  r.Expression,
		NotEncoded:  r.OtherRequirements,
	}
}

// Programs flattens every program the document describes, in document
// order: schools, department majors, minors and emphases, special
// programs, then the core curriculum's pathways and requirements.
func (d *Document) Programs() []Program {
	var programs []Program
	for _, school := range d.Schools {
		programs = append(programs, school.program(ProgramRef{Type: requirement.ProgramSchool, Name: school.Name}, school.Name))
	}
	for _, dept := range d.DeptsAndPrograms {
		for _, major := range dept.Majors {
			programs = append(programs, major.program(ProgramRef{Type: requirement.ProgramMajor, Name: major.Name}, dept.School))
		}
		for _, minor := range dept.Minors {
			programs = append(programs, minor.program(ProgramRef{Type: requirement.ProgramMinor, Name: minor.Name}, dept.School))
		}
		for _, e := range dept.Emphases {
			p := e.program(ProgramRef{Type: requirement.ProgramEmphasis, Name: EmphasisName(e.AppliesToName, e.Name)}, dept.School)
			p.Alias = e.Name
			programs = append(programs, p)
		}
	}
	for _, special := range d.SpecialPrograms {
		programs = append(programs, special.program(ProgramRef{Type: requirement.ProgramSpecialProgram, Name: special.Name}, ""))
	}
	for _, pathway := range d.CoreCurriculum.Pathways {
		programs = append(programs, pathway.Program())
	}
	for _, core := range d.CoreCurriculum.Requirements {
		programs = append(programs, core.Program())
	}
	return programs
}

func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &doc, nil
}

// ReadFile decodes the catalog document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
