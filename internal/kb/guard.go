package kb

import (
	"fmt"
	"strings"
)

// The mutation guard sits in front of every create/update/delete:
// it validates input before storage is touched, enforces the
// protection invariants (primary person, protected projects), keeps
// the singleton flags unique, and runs cascade deletes children-first
// (notes → tasks → sprints → parent) so a partial failure is always
// safe to re-run.

// ─── Create ──────────────────────────────────────────────────────────────────

// Create dispatches on the input's kind and returns the created entity.
func (s *Store) Create(in CreateInput) (*Entity, error) {
	switch in.Kind {
	case KindPerson:
		if in.Person == nil {
			return nil, invalidInput("person fields are required")
		}
		p, err := s.CreatePerson(*in.Person)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindPerson, Person: p}, nil
	case KindProject:
		if in.Project == nil {
			return nil, invalidInput("project fields are required")
		}
		p, err := s.CreateProject(*in.Project)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindProject, Project: p}, nil
	case KindSprint:
		if in.Sprint == nil {
			return nil, invalidInput("sprint fields are required")
		}
		sp, err := s.CreateSprint(*in.Sprint)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindSprint, Sprint: sp}, nil
	case KindTask:
		if in.Task == nil {
			return nil, invalidInput("task fields are required")
		}
		t, err := s.CreateTask(*in.Task)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindTask, Task: t}, nil
	case KindMemory:
		if in.Memory == nil {
			return nil, invalidInput("memory fields are required")
		}
		m, err := s.CreateMemory(*in.Memory)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindMemory, Memory: m}, nil
	case KindNote:
		if in.Note == nil {
			return nil, invalidInput("note fields are required")
		}
		n, err := s.CreateNote(*in.Note)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindNote, Note: n}, nil
	}
	return nil, invalidInput("unknown kind %q", in.Kind)
}

// CreatePerson inserts a person. Setting IsPrimaryUser clears the flag
// on any previous holder in the same pass (at most one per collection).
func (s *Store) CreatePerson(f PersonFields) (*Person, error) {
	if f.Name == "" || f.Slug == "" {
		return nil, invalidInput("person requires name and slug")
	}
	if f.IsPrimaryUser {
		if err := s.clearFlag(colPeople, "is_primary_user"); err != nil {
			return nil, err
		}
	}
	id, now := NewID(), Now()
	err := s.insertRow(colPeople, personColumns,
		id, f.Name, f.Slug, f.Relation, f.Summary, f.IsPrimaryUser, now, now)
	if err != nil {
		if s.isUniqueViolation(err) {
			return nil, &DuplicateEntityError{Kind: KindPerson, Name: f.Name}
		}
		return nil, storeErr("insert person", err)
	}
	return s.getPerson(id)
}

// CreateProject inserts a project, keeping is_default_project unique.
func (s *Store) CreateProject(f ProjectFields) (*Project, error) {
	if f.Name == "" || f.Slug == "" {
		return nil, invalidInput("project requires name and slug")
	}
	if f.IsDefaultProject {
		if err := s.clearFlag(colProjects, "is_default_project"); err != nil {
			return nil, err
		}
	}
	id, now := NewID(), Now()
	err := s.insertRow(colProjects, projectColumns,
		id, f.Name, f.Slug, f.Summary, f.IsDefaultProject, f.IsProtected, now, now)
	if err != nil {
		if s.isUniqueViolation(err) {
			return nil, &DuplicateEntityError{Kind: KindProject, Name: f.Name}
		}
		return nil, storeErr("insert project", err)
	}
	return s.getProject(id)
}

// CreateSprint inserts a sprint under an existing project.
func (s *Store) CreateSprint(f SprintFields) (*Sprint, error) {
	if f.Name == "" || f.Slug == "" {
		return nil, invalidInput("sprint requires name and slug")
	}
	if f.ProjectID == "" {
		return nil, invalidInput("sprint requires project_id")
	}
	if _, err := s.getProject(f.ProjectID); err != nil {
		if IsNotFound(err) {
			return nil, invalidInput("project %q does not exist", f.ProjectID)
		}
		return nil, err
	}
	status := f.Status
	if status == "" {
		status = "active"
	}
	id, now := NewID(), Now()
	err := s.insertRow(colSprints, sprintColumns,
		id, f.ProjectID, f.Name, f.Slug, status, now, now)
	if err != nil {
		if s.isUniqueViolation(err) {
			return nil, &DuplicateEntityError{Kind: KindSprint, Name: f.Name}
		}
		return nil, storeErr("insert sprint", err)
	}
	return s.getSprint(id)
}

// CreateTask inserts a task under an existing sprint.
func (s *Store) CreateTask(f TaskFields) (*Task, error) {
	if f.Title == "" {
		return nil, invalidInput("task requires a title")
	}
	if f.SprintID == "" {
		return nil, invalidInput("task requires sprint_id")
	}
	if _, err := s.getSprint(f.SprintID); err != nil {
		if IsNotFound(err) {
			return nil, invalidInput("sprint %q does not exist", f.SprintID)
		}
		return nil, err
	}
	status := f.Status
	if status == "" {
		status = "todo"
	}
	level := f.Priority
	if level == "" {
		level = PriorityMedium
	}
	priority, err := PriorityToStorage(level)
	if err != nil {
		return nil, err
	}
	id, now := NewID(), Now()
	err = s.insertRow(colTasks, taskColumns,
		id, f.SprintID, f.Title, f.Description, status, priority, completionFor(status), now, now)
	if err != nil {
		return nil, storeErr("insert task", err)
	}
	return s.getTask(id)
}

// CreateMemory inserts a standalone memory.
func (s *Store) CreateMemory(f MemoryFields) (*Memory, error) {
	if f.Title == "" {
		return nil, invalidInput("memory requires a title")
	}
	id, now := NewID(), Now()
	err := s.insertRow(colMemories, memoryColumns,
		id, f.Title, f.Content, encodeTags(f.Tags), now, now)
	if err != nil {
		return nil, storeErr("insert memory", err)
	}
	return s.getMemory(id)
}

// CreateNote inserts a note into the collection of its parent kind.
// The parent must be named and must exist; otherwise the request is
// rejected before storage is touched.
func (s *Store) CreateNote(f NoteFields) (*Note, error) {
	if f.Title == "" {
		return nil, invalidInput("note requires a title")
	}
	if f.ParentKind == "" || f.ParentID == "" {
		return nil, invalidInput("note requires parent_kind (person, project, or sprint) and parent_id")
	}
	nc, err := noteCollectionFor(f.ParentKind)
	if err != nil {
		return nil, err
	}
	if _, err := s.Resolve(f.ParentKind, f.ParentID); err != nil {
		if IsNotFound(err) {
			return nil, invalidInput("%s %q does not exist", f.ParentKind, f.ParentID)
		}
		return nil, err
	}
	id, now := NewID(), Now()
	err = s.insertRow(nc.Name, noteColumns(nc),
		id, f.ParentID, f.Title, f.Content, encodeTags(f.Tags), now, now)
	if err != nil {
		return nil, storeErr("insert "+nc.Name, err)
	}
	return s.resolveNote(id)
}

// CreateKnowledgeNote is the quick-capture shortcut: a project note
// under the default project.
func (s *Store) CreateKnowledgeNote(title, content string, tags []string) (*Note, error) {
	project, err := s.DefaultProject()
	if err != nil {
		return nil, err
	}
	return s.CreateNote(NoteFields{
		ParentKind: KindProject,
		ParentID:   project.ID,
		Title:      title,
		Content:    content,
		Tags:       tags,
	})
}

// clearFlag unsets a boolean singleton flag on every row carrying it.
func (s *Store) clearFlag(table, column string) error {
	query := "UPDATE " + table + " SET " + column + " = ?, updated_at = ? WHERE " + column + " = ?"
	if _, err := s.db.Exec(s.d.rebind(query), false, Now(), true); err != nil {
		return storeErr("clear "+column, err)
	}
	return nil
}

// ─── Update ──────────────────────────────────────────────────────────────────

// Update applies a partial patch to the entity with the given id.
// Absent fields are left untouched; an empty patch changes nothing.
func (s *Store) Update(id string, in UpdateInput) (*Entity, error) {
	ent, err := s.Resolve(in.Kind, id)
	if err != nil {
		return nil, err
	}

	var (
		table   string
		columns []string
		values  []any
	)

	switch in.Kind {
	case KindPerson:
		p := in.Person
		if p == nil {
			p = &PersonPatch{}
		}
		table = colPeople
		columns, values = appendSet(columns, values, "name", p.Name)
		columns, values = appendSet(columns, values, "slug", p.Slug)
		columns, values = appendSet(columns, values, "relation", p.Relation)
		columns, values = appendSet(columns, values, "summary", p.Summary)
		if p.IsPrimaryUser != nil {
			if *p.IsPrimaryUser {
				if err := s.clearFlag(colPeople, "is_primary_user"); err != nil {
					return nil, err
				}
			}
			columns = append(columns, "is_primary_user")
			values = append(values, *p.IsPrimaryUser)
		}
	case KindProject:
		p := in.Project
		if p == nil {
			p = &ProjectPatch{}
		}
		table = colProjects
		columns, values = appendSet(columns, values, "name", p.Name)
		columns, values = appendSet(columns, values, "slug", p.Slug)
		columns, values = appendSet(columns, values, "summary", p.Summary)
		if p.IsDefaultProject != nil {
			if *p.IsDefaultProject {
				if err := s.clearFlag(colProjects, "is_default_project"); err != nil {
					return nil, err
				}
			}
			columns = append(columns, "is_default_project")
			values = append(values, *p.IsDefaultProject)
		}
		if p.IsProtected != nil {
			columns = append(columns, "is_protected")
			values = append(values, *p.IsProtected)
		}
	case KindSprint:
		p := in.Sprint
		if p == nil {
			p = &SprintPatch{}
		}
		table = colSprints
		columns, values = appendSet(columns, values, "name", p.Name)
		columns, values = appendSet(columns, values, "slug", p.Slug)
		columns, values = appendSet(columns, values, "status", p.Status)
	case KindTask:
		p := in.Task
		if p == nil {
			p = &TaskPatch{}
		}
		table = colTasks
		columns, values = appendSet(columns, values, "title", p.Title)
		columns, values = appendSet(columns, values, "description", p.Description)
		if p.Status != nil {
			columns = append(columns, "status", "completed_at")
			values = append(values, *p.Status, completionFor(*p.Status))
		}
		if p.Priority != nil {
			priority, err := PriorityToStorage(*p.Priority)
			if err != nil {
				return nil, err
			}
			columns = append(columns, "priority")
			values = append(values, priority)
		}
	case KindMemory:
		p := in.Memory
		if p == nil {
			p = &MemoryPatch{}
		}
		table = colMemories
		columns, values = appendSet(columns, values, "title", p.Title)
		columns, values = appendSet(columns, values, "content", p.Content)
		if p.Tags != nil {
			columns = append(columns, "tags")
			values = append(values, encodeTags(*p.Tags))
		}
	case KindNote:
		p := in.Note
		if p == nil {
			p = &NotePatch{}
		}
		// The resolver already found the concrete collection; the note
		// stays there (parents are immutable).
		nc, err := noteCollectionFor(ent.Note.ParentKind)
		if err != nil {
			return nil, err
		}
		table = nc.Name
		columns, values = appendSet(columns, values, "title", p.Title)
		columns, values = appendSet(columns, values, "content", p.Content)
		if p.Tags != nil {
			columns = append(columns, "tags")
			values = append(values, encodeTags(*p.Tags))
		}
	default:
		return nil, invalidInput("unknown kind %q", in.Kind)
	}

	if len(columns) == 0 {
		return ent, nil
	}

	columns = append(columns, "updated_at")
	values = append(values, Now())

	if _, err := s.updateRow(table, id, columns, values...); err != nil {
		if s.isUniqueViolation(err) {
			return nil, &DuplicateEntityError{Kind: in.Kind, Name: ent.DisplayName()}
		}
		return nil, storeErr("update "+table, err)
	}
	return s.Resolve(in.Kind, id)
}

func appendSet(columns []string, values []any, column string, v *string) ([]string, []any) {
	if v == nil {
		return columns, values
	}
	return append(columns, column), append(values, *v)
}

// ─── Delete ──────────────────────────────────────────────────────────────────

// DeleteResult confirms a delete and describes what cascaded.
type DeleteResult struct {
	Kind     Kind     `json:"kind"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cascaded []string `json:"cascaded,omitempty"`
}

// CascadeNote renders the cascade as a human-readable sentence.
func (r *DeleteResult) CascadeNote() string {
	if len(r.Cascaded) == 0 {
		return fmt.Sprintf("Deleted %s %q.", r.Kind, r.Name)
	}
	return fmt.Sprintf("Deleted %s %q (cascaded: %s).", r.Kind, r.Name, strings.Join(r.Cascaded, ", "))
}

// Delete removes the entity, enforcing protection and cascading
// children-first. Re-running a partially-completed delete finishes the
// remainder: already-removed children simply match zero rows.
func (s *Store) Delete(kind Kind, id string) (*DeleteResult, error) {
	ent, err := s.Resolve(kind, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{Kind: kind, ID: id, Name: ent.DisplayName()}

	switch kind {
	case KindPerson:
		if ent.Person.IsPrimaryUser {
			return nil, &ProtectedError{Kind: KindPerson, Name: ent.Person.Name}
		}
		notes, err := s.deleteWhere(colPersonNotes, []Filter{Eq("person_id", id)})
		if err != nil {
			return nil, err
		}
		result.Cascaded = cascadeCounts(0, 0, notes)
		if _, err := s.deleteWhere(colPeople, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	case KindProject:
		if ent.Project.IsProtected {
			return nil, &ProtectedError{Kind: KindProject, Name: ent.Project.Name}
		}
		sprints, err := s.querySprints([]Filter{Eq("project_id", id)}, "", 0)
		if err != nil {
			return nil, err
		}
		var taskCount, noteCount int64
		// Children first: each sprint's notes and tasks, then the
		// sprints, then the project's own notes, then the project row.
		for _, sp := range sprints {
			n, err := s.deleteWhere(colSprintNotes, []Filter{Eq("sprint_id", sp.ID)})
			if err != nil {
				return nil, err
			}
			noteCount += n
			n, err = s.deleteWhere(colTasks, []Filter{Eq("sprint_id", sp.ID)})
			if err != nil {
				return nil, err
			}
			taskCount += n
		}
		sprintCount, err := s.deleteWhere(colSprints, []Filter{Eq("project_id", id)})
		if err != nil {
			return nil, err
		}
		n, err := s.deleteWhere(colProjectNotes, []Filter{Eq("project_id", id)})
		if err != nil {
			return nil, err
		}
		noteCount += n
		result.Cascaded = cascadeCounts(sprintCount, taskCount, noteCount)
		if _, err := s.deleteWhere(colProjects, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	case KindSprint:
		noteCount, err := s.deleteWhere(colSprintNotes, []Filter{Eq("sprint_id", id)})
		if err != nil {
			return nil, err
		}
		taskCount, err := s.deleteWhere(colTasks, []Filter{Eq("sprint_id", id)})
		if err != nil {
			return nil, err
		}
		result.Cascaded = cascadeCounts(0, taskCount, noteCount)
		if _, err := s.deleteWhere(colSprints, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	case KindTask:
		if _, err := s.deleteWhere(colTasks, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	case KindMemory:
		if _, err := s.deleteWhere(colMemories, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	case KindNote:
		nc, err := noteCollectionFor(ent.Note.ParentKind)
		if err != nil {
			return nil, err
		}
		if _, err := s.deleteWhere(nc.Name, []Filter{Eq("id", id)}); err != nil {
			return nil, err
		}
	default:
		return nil, invalidInput("unknown kind %q", kind)
	}

	return result, nil
}

func cascadeCounts(sprints, tasks, notes int64) []string {
	var out []string
	if sprints > 0 {
		out = append(out, plural(sprints, "sprint"))
	}
	if tasks > 0 {
		out = append(out, plural(tasks, "task"))
	}
	if notes > 0 {
		out = append(out, plural(notes, "note"))
	}
	return out
}

func plural(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
