package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/requirement"
)

const insertDepartment = `INSERT INTO departments (code, name) VALUES ($1, $2) ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name`

const insertProgram = `INSERT INTO programs (type, name, alias, description, school, department, course_requirements_expression, other_requirements) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (type, name) DO UPDATE SET alias=EXCLUDED.alias, description=EXCLUDED.description, school=EXCLUDED.school, department=EXCLUDED.department, course_requirements_expression=EXCLUDED.course_requirements_expression, other_requirements=EXCLUDED.other_requirements`

const insertCourse = `INSERT INTO courses (code, department, name, description, units, prerequisite_courses, corequisite_courses, other_requirements, other_notes, src) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, units=EXCLUDED.units, prerequisite_courses=EXCLUDED.prerequisite_courses, corequisite_courses=EXCLUDED.corequisite_courses, other_requirements=EXCLUDED.other_requirements, other_notes=EXCLUDED.other_notes, src=EXCLUDED.src`

const insertCoreRequirement = `INSERT INTO core_requirements (name, description, applies_to, fulfilled_by, src) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (name) DO UPDATE SET description=EXCLUDED.description, applies_to=EXCLUDED.applies_to, fulfilled_by=EXCLUDED.fulfilled_by, src=EXCLUDED.src`

const updateCourseDetails = `UPDATE courses SET name=$2, description=$3, units=$4 WHERE code=$1`

func insertCallback(ct pgconn.CommandTag) error {
	return nil
}

// batchSender is a pool or a transaction.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// sendBatch runs sql once per row of args.
func sendBatch(ctx context.Context, sender batchSender, sql string, args [][]any) error {
	if len(args) == 0 {
		return nil
	}

	batch := pgx.Batch{}
	var queuedQueries []*pgx.QueuedQuery

	for _, row := range args {
		queuedQueries = append(queuedQueries, batch.Queue(sql, row...))
	}

	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}

	return sender.SendBatch(ctx, &batch).Close()
}

func departmentArgs(departments []Department) [][]any {
	var args [][]any
	for _, department := range departments {
		args = append(args, []any{department.Code, department.Name})
	}
	return args
}

func programArgs(programs []catalog.Program) [][]any {
	var args [][]any
	for _, p := range programs {
		args = append(args, []any{
			string(p.Ref.Type),
			p.Ref.Name,
			p.Alias,
			p.Description,
			p.School,
			p.Department,
			p.Expression,
			[]string(p.NotEncoded),
		})
	}
	return args
}

func courseArgs(courses []catalog.Course) [][]any {
	var args [][]any
	for _, c := range courses {
		args = append(args, []any{
			c.Code,
			requirement.Department(c.Code),
			c.Name,
			strings.ReplaceAll(c.Description, "\x00", ""),
			c.Units,
			c.Prerequisites,
			c.Corequisites,
			[]string(c.OtherRequirements),
			c.OtherNotes,
			c.Source,
		})
	}
	return args
}

func coreArgs(requirements []catalog.CoreRequirement) [][]any {
	var args [][]any
	for _, r := range requirements {
		args = append(args, []any{r.Name, r.Description, r.AppliesTo, r.FulfilledBy, r.Source})
	}
	return args
}

func (d *Database) InsertDepartments(ctx context.Context, departments []Department) error {
	if err := sendBatch(ctx, d.Pool, insertDepartment, departmentArgs(departments)); err != nil {
		return fmt.Errorf("inserting departments: %w", err)
	}
	return nil
}

func (d *Database) InsertPrograms(ctx context.Context, programs []catalog.Program) error {
	if err := sendBatch(ctx, d.Pool, insertProgram, programArgs(programs)); err != nil {
		return fmt.Errorf("inserting programs: %w", err)
	}
	return nil
}

func (d *Database) InsertCourses(ctx context.Context, courses []catalog.Course) error {
	if err := sendBatch(ctx, d.Pool, insertCourse, courseArgs(courses)); err != nil {
		return fmt.Errorf("inserting courses: %w", err)
	}
	return nil
}

// UpdateCourseDetails sets the name, description and units of stored
// courses. Courses that are not stored are left out.
func (d *Database) UpdateCourseDetails(ctx context.Context, courses []catalog.Course) error {
	var args [][]any
	for _, course := range courses {
		args = append(args, []any{course.Code, course.Name, strings.ReplaceAll(course.Description, "\x00", ""), course.Units})
	}
	if err := sendBatch(ctx, d.Pool, updateCourseDetails, args); err != nil {
		return fmt.Errorf("updating course details: %w", err)
	}
	return nil
}

func (d *Database) InsertCoreRequirements(ctx context.Context, requirements []catalog.CoreRequirement) error {
	if err := sendBatch(ctx, d.Pool, insertCoreRequirement, coreArgs(requirements)); err != nil {
		return fmt.Errorf("inserting core requirements: %w", err)
	}
	return nil
}

// Load stores every program, course and core requirement of doc in one
// transaction.
func (d *Database) Load(ctx context.Context, doc *catalog.Document) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []struct {
		what string
		sql  string
		args [][]any
	}{
		{"programs", insertProgram, programArgs(doc.Programs())},
		{"courses", insertCourse, courseArgs(doc.Courses)},
		{"core requirements", insertCoreRequirement, coreArgs(doc.CoreCurriculum.Requirements)},
	}
	for _, step := range steps {
		if err := sendBatch(ctx, tx, step.sql, step.args); err != nil {
			return fmt.Errorf("loading %s: %w", step.what, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	return nil
}
