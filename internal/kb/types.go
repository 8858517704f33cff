package kb

import (
	"time"

	"github.com/google/uuid"
)

// ─── Entities ────────────────────────────────────────────────────────────────

// Person is someone in the knowledge base. At most one person carries
// IsPrimaryUser; that person is protected from deletion.
type Person struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Relation      string `json:"relation,omitempty"`
	Summary       string `json:"summary,omitempty"`
	IsPrimaryUser bool   `json:"is_primary_user"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Project is a top-level container for sprints. IsProtected blocks
// deletion; IsDefaultProject marks the target for quick-capture notes.
type Project struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Summary          string `json:"summary,omitempty"`
	IsDefaultProject bool   `json:"is_default_project"`
	IsProtected      bool   `json:"is_protected"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// Sprint belongs to exactly one project. The project reference is
// immutable once created.
type Sprint struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Task belongs to exactly one sprint (immutable). Priority is exposed
// as its level name; storage is numeric. CompletedAt is set while the
// status is "completed" and nil otherwise.
type Task struct {
	ID          string  `json:"id"`
	SprintID    string  `json:"sprint_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CompletedAt *string `json:"completed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Memory is a standalone freeform entry with no parent.
type Memory struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Note is attached to one person, project, or sprint. ParentKind is the
// discriminant naming the concrete collection the note lives in.
type Note struct {
	ID         string   `json:"id"`
	ParentKind Kind     `json:"parent_kind"`
	ParentID   string   `json:"parent_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// Entity is the tagged union the resolver returns: Kind selects which
// single pointer is set.
type Entity struct {
	Kind    Kind     `json:"kind"`
	Person  *Person  `json:"person,omitempty"`
	Project *Project `json:"project,omitempty"`
	Sprint  *Sprint  `json:"sprint,omitempty"`
	Task    *Task    `json:"task,omitempty"`
	Memory  *Memory  `json:"memory,omitempty"`
	Note    *Note    `json:"note,omitempty"`
}

// ID returns the entity's opaque id.
func (e *Entity) ID() string {
	switch e.Kind {
	case KindPerson:
		return e.Person.ID
	case KindProject:
		return e.Project.ID
	case KindSprint:
		return e.Sprint.ID
	case KindTask:
		return e.Task.ID
	case KindMemory:
		return e.Memory.ID
	case KindNote:
		return e.Note.ID
	}
	return ""
}

// DisplayName returns the human-facing name or title.
func (e *Entity) DisplayName() string {
	switch e.Kind {
	case KindPerson:
		return e.Person.Name
	case KindProject:
		return e.Project.Name
	case KindSprint:
		return e.Sprint.Name
	case KindTask:
		return e.Task.Title
	case KindMemory:
		return e.Memory.Title
	case KindNote:
		return e.Note.Title
	}
	return ""
}

// ─── Create inputs ───────────────────────────────────────────────────────────

// PersonFields holds the writable fields for creating a person.
type PersonFields struct {
	Name          string
	Slug          string
	Relation      string
	Summary       string
	IsPrimaryUser bool
}

// ProjectFields holds the writable fields for creating a project.
type ProjectFields struct {
	Name             string
	Slug             string
	Summary          string
	IsDefaultProject bool
	IsProtected      bool
}

// SprintFields holds the writable fields for creating a sprint.
// Status defaults to "active".
type SprintFields struct {
	ProjectID string
	Name      string
	Slug      string
	Status    string
}

// TaskFields holds the writable fields for creating a task.
// Status defaults to "todo", priority to "medium".
type TaskFields struct {
	SprintID    string
	Title       string
	Description string
	Status      string
	Priority    string
}

// MemoryFields holds the writable fields for creating a memory.
type MemoryFields struct {
	Title   string
	Content string
	Tags    []string
}

// NoteFields holds the writable fields for creating a note. ParentKind
// and ParentID are required and immutable afterwards.
type NoteFields struct {
	ParentKind Kind
	ParentID   string
	Title      string
	Content    string
	Tags       []string
}

// CreateInput is a closed variant: Kind selects which single case is
// read. Each case carries its own field schema.
type CreateInput struct {
	Kind    Kind
	Person  *PersonFields
	Project *ProjectFields
	Sprint  *SprintFields
	Task    *TaskFields
	Memory  *MemoryFields
	Note    *NoteFields
}

// ─── Update patches ──────────────────────────────────────────────────────────

// Patches apply partially: nil fields are left untouched.

// PersonPatch holds partial updates for a person.
type PersonPatch struct {
	Name          *string
	Slug          *string
	Relation      *string
	Summary       *string
	IsPrimaryUser *bool
}

// ProjectPatch holds partial updates for a project.
type ProjectPatch struct {
	Name             *string
	Slug             *string
	Summary          *string
	IsDefaultProject *bool
	IsProtected      *bool
}

// SprintPatch holds partial updates for a sprint. The project
// reference is immutable and cannot be patched.
type SprintPatch struct {
	Name   *string
	Slug   *string
	Status *string
}

// TaskPatch holds partial updates for a task. The sprint reference is
// immutable and cannot be patched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// MemoryPatch holds partial updates for a memory.
type MemoryPatch struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// NotePatch holds partial updates for a note. The parent is immutable.
type NotePatch struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// UpdateInput is the closed variant for partial updates.
type UpdateInput struct {
	Kind    Kind
	Person  *PersonPatch
	Project *ProjectPatch
	Sprint  *SprintPatch
	Task    *TaskPatch
	Memory  *MemoryPatch
	Note    *NotePatch
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// NewID returns a fresh opaque entity id.
func NewID() string {
	return uuid.New().String()
}

// Now returns the current UTC time formatted for storage. Nanosecond
// precision keeps lexicographic order equal to chronological order.
func Now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05.000000000")
}

// Truncate shortens a string to max length with ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
