package catalog

import (
	"context"
	"sort"

	"github.com/brequin/brequin/advise/requirement"
)

// Memory is a Catalog over a decoded Document.
type Memory struct {
	programs map[ProgramRef]Program
	// emphases by alias, in document order
	emphases map[string][]Program
	courses  map[string]Course
	byDept   map[string][]string
	core     []CoreRequirement
}

func NewMemory(doc *Document) *Memory {
	m := &Memory{
		programs: make(map[ProgramRef]Program),
		emphases: make(map[string][]Program),
		courses:  make(map[string]Course),
		byDept:   make(map[string][]string),
		core:     doc.CoreCurriculum.Requirements,
	}
	for _, p := range doc.Programs() {
		if _, ok := m.programs[p.Ref]; ok {
			continue
		}
		m.programs[p.Ref] = p
		if p.Alias != "" {
			m.emphases[p.Alias] = append(m.emphases[p.Alias], p)
		}
	}

	for _, course := range doc.Courses {
		if _, ok := m.courses[course.Code]; ok {
			continue
		}
		m.courses[course.Code] = course
		dept := requirement.Department(course.Code)
		m.byDept[dept] = append(m.byDept[dept], course.Code)
	}
	return m
}

// Program looks up one program. An emphasis may be named either as
// M{major}E{emphasis} or by its own name, which matches the first
// emphasis of that name.
func (m *Memory) Program(ref ProgramRef) (Program, bool) {
	if p, ok := m.programs[ref]; ok {
		return p, true
	}
	if ref.Type != requirement.ProgramEmphasis {
		return Program{}, false
	}
	if candidates := m.emphases[ref.Name]; len(candidates) > 0 {
		p := candidates[0]
		p.Ref = ref
		return p, true
	}
	return Program{}, false
}

func (m *Memory) Programs(ctx context.Context, refs []ProgramRef) (map[ProgramRef]Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := make(map[ProgramRef]Program, len(refs))
	for _, ref := range refs {
		if p, ok := m.Program(ref); ok {
			found[ref] = p
		}
	}
	return found, nil
}

func (m *Memory) Courses(ctx context.Context, codes []string) (map[string]Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := make(map[string]Course, len(codes))
	for _, code := range codes {
		if course, ok := m.courses[code]; ok {
			found[code] = course
		}
	}
	return found, nil
}

func (m *Memory) Departments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	departments := make([]string, 0, len(m.byDept))
	for dept := range m.byDept {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	return departments, nil
}

func (m *Memory) CourseCodes(ctx context.Context, departments []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var codes []string
	for _, dept := range departments {
		codes = append(codes, m.byDept[dept]...)
	}
	return codes, nil
}

func (m *Memory) CoreRequirements(ctx context.Context) ([]CoreRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.core, nil
}
