package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/requirement"
)

// Exact names sort before aliases so an exact match wins.
const selectPrograms = `SELECT r.type, r.name, p.alias, p.description, p.school, p.department, p.course_requirements_expression, p.other_requirements FROM unnest($1::text[], $2::text[]) AS r(type, name) JOIN programs p ON p.type = r.type AND (p.name = r.name OR p.alias = r.name) ORDER BY (p.name = r.name) DESC, p.position`

const selectCourses = `SELECT code, name, description, units, prerequisite_courses, corequisite_courses, other_requirements, other_notes, src FROM courses WHERE code = ANY($1)`

const listDepartments = `SELECT code FROM departments UNION SELECT department FROM courses ORDER BY 1`

const listCourseCodes = `SELECT code FROM courses WHERE department = ANY($1) ORDER BY department, code`

const listCoreRequirements = `SELECT name, description, applies_to, fulfilled_by, src FROM core_requirements ORDER BY position`

func (d *Database) Programs(ctx context.Context, refs []catalog.ProgramRef) (map[catalog.ProgramRef]catalog.Program, error) {
	found := make(map[catalog.ProgramRef]catalog.Program, len(refs))
	if len(refs) == 0 {
		return found, nil
	}

	types := make([]string, len(refs))
	names := make([]string, len(refs))
	for i, ref := range refs {
		types[i] = string(ref.Type)
		names[i] = ref.Name
	}

	rows, err := d.Pool.Query(ctx, selectPrograms, types, names)
	if err != nil {
		return nil, fmt.Errorf("selecting programs: %w", err)
	}
	programs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Program, error) {
		var p catalog.Program
		var programType string
		var notEncoded []string
		err := row.Scan(&programType, &p.Ref.Name, &p.Alias, &p.Description, &p.School, &p.Department, &p.Expression, &notEncoded)
		p.Ref.Type = requirement.ProgramType(programType)
		p.NotEncoded = notEncoded
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("selecting programs: %w", err)
	}

	for _, p := range programs {
		if _, ok := found[p.Ref]; !ok {
			found[p.Ref] = p
		}
	}
	return found, nil
}

func (d *Database) Courses(ctx context.Context, codes []string) (map[string]catalog.Course, error) {
	found := make(map[string]catalog.Course, len(codes))
	if len(codes) == 0 {
		return found, nil
	}

	rows, err := d.Pool.Query(ctx, selectCourses, codes)
	if err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}
	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Course, error) {
		var c catalog.Course
		var other []string
		err := row.Scan(&c.Code, &c.Name, &c.Description, &c.Units, &c.Prerequisites, &c.Corequisites, &other, &c.OtherNotes, &c.Source)
		c.OtherRequirements = other
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}

	for _, c := range courses {
		found[c.Code] = c
	}
	return found, nil
}

func (d *Database) Departments(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.Query(ctx, listDepartments)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	departments, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	return departments, nil
}

func (d *Database) CourseCodes(ctx context.Context, departments []string) ([]string, error) {
	if len(departments) == 0 {
		return nil, nil
	}
	rows, err := d.Pool.Query(ctx, listCourseCodes, departments)
	if err != nil {
		return nil, fmt.Errorf("listing course codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing course codes: %w", err)
	}
	return codes, nil
}

func (d *Database) CoreRequirements(ctx context.Context) ([]catalog.CoreRequirement, error) {
	rows, err := d.Pool.Query(ctx, listCoreRequirements)
	if err != nil {
		return nil, fmt.Errorf("listing core requirements: %w", err)
	}
	requirements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.CoreRequirement, error) {
		var r catalog.CoreRequirement
		err := row.Scan(&r.Name, &r.Description, &r.AppliesTo, &r.FulfilledBy, &r.Source)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("listing core requirements: %w", err)
	}
	return requirements, nil
}
