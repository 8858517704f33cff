package kb

import "fmt"

// Kind is the discriminant selecting which entity schema and backing
// collection an operation targets.
type Kind string

const (
	KindPerson  Kind = "person"
	KindProject Kind = "project"
	KindSprint  Kind = "sprint"
	KindTask    Kind = "task"
	KindMemory  Kind = "memory"

	// KindNote is virtual: it has no collection of its own. The resolver
	// probes the three concrete note collections in noteCollections order.
	KindNote Kind = "note"
)

// Concrete collection names. Never constructed from input — every
// operation goes through the collections lookup below.
const (
	colPeople       = "people"
	colProjects     = "projects"
	colSprints      = "sprints"
	colTasks        = "tasks"
	colMemories     = "memories"
	colPersonNotes  = "person_notes"
	colProjectNotes = "project_notes"
	colSprintNotes  = "sprint_notes"
	colSettings     = "settings"
)

// collections maps each concrete kind to its backing collection.
// KindNote is deliberately absent.
var collections = map[Kind]string{
	KindPerson:  colPeople,
	KindProject: colProjects,
	KindSprint:  colSprints,
	KindTask:    colTasks,
	KindMemory:  colMemories,
}

// noteCollection pairs a concrete note collection with the parent kind
// it attaches to.
type noteCollection struct {
	Parent Kind
	Name   string
	// column holding the parent id in that collection
	ParentColumn string
}

// noteCollections is the fixed probe order for the virtual note kind.
var noteCollections = []noteCollection{
	{KindPerson, colPersonNotes, "person_id"},
	{KindProject, colProjectNotes, "project_id"},
	{KindSprint, colSprintNotes, "sprint_id"},
}

// parentKinds are the kinds that may own notes.
var parentKinds = map[Kind]bool{
	KindPerson:  true,
	KindProject: true,
	KindSprint:  true,
}

// mutableFields lists the caller-writable fields per kind. Parent
// references (sprint.project_id, task.sprint_id, note parent) are
// immutable once created and never appear here.
var mutableFields = map[Kind][]string{
	KindPerson:  {"name", "slug", "relation", "summary", "is_primary_user"},
	KindProject: {"name", "slug", "summary", "is_default_project", "is_protected"},
	KindSprint:  {"name", "slug", "status"},
	KindTask:    {"title", "description", "status", "priority"},
	KindMemory:  {"title", "content", "tags"},
	KindNote:    {"title", "content", "tags"},
}

// ParseKind validates a caller-supplied kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPerson, KindProject, KindSprint, KindTask, KindMemory, KindNote:
		return Kind(s), nil
	}
	return "", invalidInput("unknown kind %q (expected person, project, sprint, task, memory, or note)", s)
}

// IsParentKind reports whether the kind may own notes.
func IsParentKind(k Kind) bool {
	return parentKinds[k]
}

// noteCollectionFor returns the note collection attached to a parent kind.
func noteCollectionFor(parent Kind) (noteCollection, error) {
	for _, nc := range noteCollections {
		if nc.Parent == parent {
			return nc, nil
		}
	}
	return noteCollection{}, invalidInput("kind %q cannot own notes", parent)
}

// validateRegistry checks the kind→collection tables at startup so a
// broken registry fails on New, not mid-operation.
func validateRegistry() error {
	seen := map[string]Kind{}
	for k, col := range collections {
		if col == "" {
			return fmt.Errorf("kind %q has no collection", k)
		}
		if prev, dup := seen[col]; dup {
			return fmt.Errorf("collection %q mapped by both %q and %q", col, prev, k)
		}
		seen[col] = k
	}
	for _, nc := range noteCollections {
		if !parentKinds[nc.Parent] {
			return fmt.Errorf("note collection %q has non-parent kind %q", nc.Name, nc.Parent)
		}
		if _, dup := seen[nc.Name]; dup {
			return fmt.Errorf("note collection %q collides with a concrete collection", nc.Name)
		}
		seen[nc.Name] = KindNote
	}
	for k := range mutableFields {
		if k == KindNote {
			continue
		}
		if _, ok := collections[k]; !ok {
			return fmt.Errorf("mutable fields declared for unknown kind %q", k)
		}
	}
	return nil
}
