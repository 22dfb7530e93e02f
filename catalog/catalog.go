// Package catalog holds the university catalog entities the advising
// engine reads and the lookup capability it reads them through.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/brequin/brequin/advise/requirement"
)

// ProgramRef names a program by type and name.
type ProgramRef = requirement.Program

// Catalog resolves catalog records in batches. Unknown keys are left out
// of the returned maps rather than reported as errors; errors are for
// failures of the underlying store.
type Catalog interface {
	Programs(ctx context.Context, refs []ProgramRef) (map[ProgramRef]Program, error)
	Courses(ctx context.Context, codes []string) (map[string]Course, error)
	// Departments returns every department code the catalog knows.
	Departments(ctx context.Context) ([]string, error)
	// CourseCodes returns the codes of every course in the given departments.
	CourseCodes(ctx context.Context, departments []string) ([]string, error)
	CoreRequirements(ctx context.Context) ([]CoreRequirement, error)
}

type Course struct {
	Code              string `json:"courseCode"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Units             int    `json:"numUnits"`
	Prerequisites     string `json:"prerequisiteCourses"`
	Corequisites      string `json:"corequisiteCourses"`
	OtherRequirements Notes  `json:"otherRequirements"`
	OtherNotes        string `json:"otherNotes"`
	Source            string `json:"src"`
}

// Program is a program's stored requirement expression. NotEncoded lists
// requirements the grammar cannot express.
type Program struct {
	Ref         ProgramRef
	Description string
	School      string
	Department  string
	Expression  string
	NotEncoded  Notes
	// Alias is an emphasis's own name, which also finds it when no other
	// emphasis of that name comes first.
	Alias       string
}

type CoreRequirement struct {
	Name        string   `json:"requirementName"`
	Description string   `json:"requirementDescription"`
	AppliesTo   string   `json:"appliesTo"`
	FulfilledBy []string `json:"fulfilledBy"`
	Source      string   `json:"src"`
}

// Applies reports whether the requirement binds students of school.
func (r CoreRequirement) Applies(school string) bool {
	appliesTo := strings.ToLower(r.AppliesTo)
	if strings.TrimSpace(appliesTo) == "all" {
		return true
	}
	return school != "" && strings.Contains(appliesTo, strings.ToLower(school))
}

// Program returns the requirement as a core program: any one of the
// fulfilling courses.
func (r CoreRequirement) Program() Program {
	p := Program{
		Ref:         ProgramRef{Type: requirement.ProgramCore, Name: r.Name},
		Description: r.Description,
	}
	if len(r.FulfilledBy) == 0 {
		p.NotEncoded = Notes{r.Description}
		return p
	}
	p.Expression = "(" + strings.Join(r.FulfilledBy, " | ") + ")"
	return p
}

type Pathway struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	AssociatedCourses []string `json:"associatedCourses"`
	Source            string   `json:"src"`
}

// PathwayCourses is how many associated courses complete a pathway.
const PathwayCourses = 4

func (p Pathway) Program() Program {
	program := Program{
		Ref:         ProgramRef{Type: requirement.ProgramPathway, Name: p.Name},
		Description: p.Description,
	}
	if len(p.AssociatedCourses) == 0 {
		program.NotEncoded = Notes{p.Description}
		return program
	}
	program.Expression = fmt.Sprintf("%d(%s)", PathwayCourses, strings.Join(p.AssociatedCourses, " | "))
	return program
}

var emphasisPattern = regexp.MustCompile(`^M\{(.*)\}E\{(.*)\}$`)

// EmphasisName is the qualified name of emphasis within major.
func EmphasisName(major, emphasis string) string {
	return "M{" + major + "}E{" + emphasis + "}"
}

// ParseEmphasis splits an emphasis name written as M{major}E{emphasis}.
func ParseEmphasis(name string) (major, emphasis string, ok bool) {
	submatches := emphasisPattern.FindStringSubmatch(name)
	if submatches == nil || submatches[1] == "" || submatches[2] == "" {
		return "", "", false
	}
	return submatches[1], submatches[2], true
}

// Notes is free-form catalog text. It decodes from a string, a list of
// strings, or any other JSON value kept as its raw text.
type Notes []string

func (n *Notes) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*n = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*n = nil
		} else {
			*n = Notes{s}
		}
		return nil
	}
	if string(data) == "null" {
		*n = nil
		return nil
	}
	*n = Notes{string(data)}
	return nil
}
