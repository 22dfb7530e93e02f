// Package db stores the university catalog in Postgres and serves it
// back as a catalog.Catalog.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brequin/brequin/advise/catalog"
)

type Database struct {
	Pool *pgxpool.Pool
}

var _ catalog.Catalog = (*Database)(nil)

// Open connects to the database at url.
func Open(ctx context.Context, url string) (*Database, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Database{Pool: pool}, nil
}

func (d *Database) Close() {
	d.Pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS departments (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS programs (
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	alias TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	school TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	course_requirements_expression TEXT NOT NULL DEFAULT '',
	other_requirements TEXT[],
	position SERIAL,
	PRIMARY KEY (type, name)
);

CREATE INDEX IF NOT EXISTS programs_alias ON programs (type, alias) WHERE alias <> '';

CREATE TABLE IF NOT EXISTS courses (
	code TEXT PRIMARY KEY,
	department TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	units INTEGER NOT NULL DEFAULT 0,
	prerequisite_courses TEXT NOT NULL DEFAULT '',
	corequisite_courses TEXT NOT NULL DEFAULT '',
	other_requirements TEXT[],
	other_notes TEXT NOT NULL DEFAULT '',
	src TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS courses_department ON courses (department);

CREATE TABLE IF NOT EXISTS core_requirements (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	applies_to TEXT NOT NULL DEFAULT '',
	fulfilled_by TEXT[],
	src TEXT NOT NULL DEFAULT '',
	position SERIAL
);
`

// Migrate creates any missing tables.
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
