package kb

import (
	"strconv"
	"strings"
)

// dialect captures the handful of places SQLite and PostgreSQL differ:
// placeholder style, case-insensitive substring match, tag-set overlap,
// and the schema DDL. Queries are written with ? placeholders and
// rebound per dialect at execution time.
type dialect struct {
	name   string
	driver string
	schema string
	// rebindNeeded converts ? placeholders to $1..$n.
	rebindNeeded bool
	// containsExpr yields a predicate matching a case-insensitive
	// substring of column, consuming one placeholder.
	containsExpr func(column string) string
	// overlapExpr yields a predicate true when the JSON string array in
	// column shares at least one element with n placeholder values.
	overlapExpr func(column string, n int) string
}

func sqliteDialect() dialect {
	return dialect{
		name:   "sqlite",
		driver: "sqlite",
		schema: schemaSQLite,
		containsExpr: func(column string) string {
			return "lower(" + column + ") LIKE '%' || lower(?) || '%'"
		},
		overlapExpr: func(column string, n int) string {
			return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value IN (" + placeholders(n) + "))"
		},
	}
}

func postgresDialect() dialect {
	return dialect{
		name:         "postgres",
		driver:       "pgx",
		schema:       schemaPostgres,
		rebindNeeded: true,
		containsExpr: func(column string) string {
			return column + " ILIKE '%' || ? || '%'"
		},
		overlapExpr: func(column string, n int) string {
			return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" + column + "::jsonb) AS tag(value) WHERE tag.value IN (" + placeholders(n) + "))"
		},
	}
}

// rebind rewrites ? placeholders as $1..$n for PostgreSQL. SQL text
// contains no literal question marks outside placeholders.
func (d dialect) rebind(query string) string {
	if !d.rebindNeeded {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Timestamps are written by the application (Now()) rather than DB
// defaults so both dialects order records identically. Boolean flags
// are INTEGER 0/1 on SQLite and BOOLEAN on PostgreSQL; database/sql
// converts both to Go bool on scan.

const schemaSQLite = `
	CREATE TABLE IF NOT EXISTS people (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		slug            TEXT NOT NULL UNIQUE,
		relation        TEXT NOT NULL DEFAULT '',
		summary         TEXT NOT NULL DEFAULT '',
		is_primary_user INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		slug               TEXT NOT NULL UNIQUE,
		summary            TEXT NOT NULL DEFAULT '',
		is_default_project INTEGER NOT NULL DEFAULT 0,
		is_protected       INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		status     TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		sprint_id    TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo',
		priority     INTEGER NOT NULL DEFAULT 3,
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS person_notes (
		id         TEXT PRIMARY KEY,
		person_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS project_notes (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sprint_notes (
		id         TEXT PRIMARY KEY,
		sprint_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sprints_project      ON sprints(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_sprint         ON tasks(sprint_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status         ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_person_notes_parent  ON person_notes(person_id);
	CREATE INDEX IF NOT EXISTS idx_project_notes_parent ON project_notes(project_id);
	CREATE INDEX IF NOT EXISTS idx_sprint_notes_parent  ON sprint_notes(sprint_id);
`

const schemaPostgres = `
	CREATE TABLE IF NOT EXISTS people (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		slug            TEXT NOT NULL UNIQUE,
		relation        TEXT NOT NULL DEFAULT '',
		summary         TEXT NOT NULL DEFAULT '',
		is_primary_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		slug               TEXT NOT NULL UNIQUE,
		summary            TEXT NOT NULL DEFAULT '',
		is_default_project BOOLEAN NOT NULL DEFAULT FALSE,
		is_protected       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		status     TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		sprint_id    TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo',
		priority     INTEGER NOT NULL DEFAULT 3,
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS person_notes (
		id         TEXT PRIMARY KEY,
		person_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS project_notes (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sprint_notes (
		id         TEXT PRIMARY KEY,
		sprint_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sprints_project      ON sprints(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_sprint         ON tasks(sprint_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status         ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_person_notes_parent  ON person_notes(person_id);
	CREATE INDEX IF NOT EXISTS idx_project_notes_parent ON project_notes(project_id);
	CREATE INDEX IF NOT EXISTS idx_sprint_notes_parent  ON sprint_notes(sprint_id);
`
