package kb

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
)

// The adapter is the only code that builds SQL. Higher layers issue
// find-one / find-many / count / insert / update / delete against
// named collections with declarative predicates; the concrete storage
// technology stays behind the dialect.

// ─── Predicates ──────────────────────────────────────────────────────────────

type filterOp int

const (
	opEq filterOp = iota
	opContains
	opOverlap
	opIn
)

// Filter is one predicate of a filtered select.
type Filter struct {
	op     filterOp
	field  string
	fields []string // opContains may match any of several columns
	value  any
	values []string // opOverlap / opIn
}

// Eq matches rows where field equals value.
func Eq(field string, value any) Filter {
	return Filter{op: opEq, field: field, value: value}
}

// ContainsAny matches rows where any of the fields contains substr,
// case-insensitively.
func ContainsAny(fields []string, substr string) Filter {
	return Filter{op: opContains, fields: fields, value: substr}
}

// TagsOverlap matches rows whose tag set shares at least one element
// with tags.
func TagsOverlap(tags []string) Filter {
	return Filter{op: opOverlap, field: "tags", values: tags}
}

// In matches rows where field equals any of values.
func In(field string, values []string) Filter {
	return Filter{op: opIn, field: field, values: values}
}

func (s *Store) whereClause(filters []Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	var (
		parts []string
		args  []any
	)
	for _, f := range filters {
		switch f.op {
		case opEq:
			parts = append(parts, f.field+" = ?")
			args = append(args, f.value)
		case opContains:
			var sub []string
			for _, col := range f.fields {
				sub = append(sub, s.d.containsExpr(col))
				args = append(args, f.value)
			}
			parts = append(parts, "("+strings.Join(sub, " OR ")+")")
		case opOverlap:
			parts = append(parts, s.d.overlapExpr(f.field, len(f.values)))
			for _, v := range f.values {
				args = append(args, v)
			}
		case opIn:
			parts = append(parts, f.field+" IN ("+placeholders(len(f.values))+")")
			for _, v := range f.values {
				args = append(args, v)
			}
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// ─── Core operations ─────────────────────────────────────────────────────────

func (s *Store) selectRows(table string, columns []string, filters []Filter, orderBy string, limit int) (*sql.Rows, error) {
	query := "SELECT " + strings.Join(columns, ", ") + " FROM " + table
	where, args := s.whereClause(filters)
	query += where
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	if limit > 0 {
		query += " LIMIT " + strconv.Itoa(limit)
	}
	return s.db.Query(s.d.rebind(query), args...)
}

func (s *Store) countRows(table string, filters []Filter) (int, error) {
	query := "SELECT COUNT(*) FROM " + table
	where, args := s.whereClause(filters)
	query += where
	var n int
	if err := s.db.QueryRow(s.d.rebind(query), args...).Scan(&n); err != nil {
		return 0, storeErr("count "+table, err)
	}
	return n, nil
}

func (s *Store) insertRow(table string, columns []string, values ...any) error {
	query := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders(len(columns)) + ")"
	_, err := s.db.Exec(s.d.rebind(query), values...)
	return err
}

// updateRow applies SET columns to the row with the given id and
// returns the number of rows touched.
func (s *Store) updateRow(table, id string, columns []string, values ...any) (int64, error) {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(s.d.rebind(query), append(values, id)...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) deleteWhere(table string, filters []Filter) (int64, error) {
	query := "DELETE FROM " + table
	where, args := s.whereClause(filters)
	query += where
	res, err := s.db.Exec(s.d.rebind(query), args...)
	if err != nil {
		return 0, storeErr("delete from "+table, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ─── Tags codec ──────────────────────────────────────────────────────────────

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// ─── Per-kind columns and scanners ───────────────────────────────────────────

var (
	personColumns  = []string{"id", "name", "slug", "relation", "summary", "is_primary_user", "created_at", "updated_at"}
	projectColumns = []string{"id", "name", "slug", "summary", "is_default_project", "is_protected", "created_at", "updated_at"}
	sprintColumns  = []string{"id", "project_id", "name", "slug", "status", "created_at", "updated_at"}
	taskColumns    = []string{"id", "sprint_id", "title", "description", "status", "priority", "completed_at", "created_at", "updated_at"}
	memoryColumns  = []string{"id", "title", "content", "tags", "created_at", "updated_at"}
)

func noteColumns(nc noteCollection) []string {
	return []string{"id", nc.ParentColumn, "title", "content", "tags", "created_at", "updated_at"}
}

func (s *Store) queryPeople(filters []Filter, orderBy string, limit int) ([]Person, error) {
	rows, err := s.selectRows(colPeople, personColumns, filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select people", err)
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Relation, &p.Summary, &p.IsPrimaryUser, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storeErr("scan person", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) queryProjects(filters []Filter, orderBy string, limit int) ([]Project, error) {
	rows, err := s.selectRows(colProjects, projectColumns, filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select projects", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Summary, &p.IsDefaultProject, &p.IsProtected, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storeErr("scan project", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) querySprints(filters []Filter, orderBy string, limit int) ([]Sprint, error) {
	rows, err := s.selectRows(colSprints, sprintColumns, filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select sprints", err)
	}
	defer rows.Close()

	var out []Sprint
	for rows.Next() {
		var sp Sprint
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.Slug, &sp.Status, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, storeErr("scan sprint", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *Store) queryTasks(filters []Filter, orderBy string, limit int) ([]Task, error) {
	rows, err := s.selectRows(colTasks, taskColumns, filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select tasks", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var (
			t        Task
			priority int
		)
		if err := rows.Scan(&t.ID, &t.SprintID, &t.Title, &t.Description, &t.Status, &priority, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, storeErr("scan task", err)
		}
		t.Priority = PriorityFromStorage(priority)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) queryMemories(filters []Filter, orderBy string, limit int) ([]Memory, error) {
	rows, err := s.selectRows(colMemories, memoryColumns, filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select memories", err)
	}
	defer rows.Close()

	var out []Memory
	for rows.Next() {
		var (
			m    Memory
			tags string
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &tags, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, storeErr("scan memory", err)
		}
		m.Tags = decodeTags(tags)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) queryNotes(nc noteCollection, filters []Filter, orderBy string, limit int) ([]Note, error) {
	rows, err := s.selectRows(nc.Name, noteColumns(nc), filters, orderBy, limit)
	if err != nil {
		return nil, storeErr("select "+nc.Name, err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n    Note
			tags string
		)
		if err := rows.Scan(&n.ID, &n.ParentID, &n.Title, &n.Content, &tags, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, storeErr("scan "+nc.Name, err)
		}
		n.ParentKind = nc.Parent
		n.Tags = decodeTags(tags)
		out = append(out, n)
	}
	return out, rows.Err()
}
