package kb

// The manifest is the discovery document: callers fetch it before any
// id-based operation, because it is the only place ids are discovered.
// It is computed fresh on every call — no caching.

// PersonSummary is the compact manifest projection of a person.
type PersonSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary,omitempty"`
	Primary   bool   `json:"primary,omitempty"`
	NoteCount int    `json:"note_count"`
}

// ProjectSummary is the compact manifest projection of a project.
type ProjectSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Summary     string `json:"summary,omitempty"`
	Default     bool   `json:"default,omitempty"`
	Protected   bool   `json:"protected,omitempty"`
	SprintCount int    `json:"sprint_count"`
	NoteCount   int    `json:"note_count"`
}

// SprintSummary is the compact manifest projection of a sprint.
type SprintSummary struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	TaskCount int    `json:"task_count"`
	NoteCount int    `json:"note_count"`
}

// TaskSummary is the compact manifest projection of a task.
type TaskSummary struct {
	ID       string `json:"id"`
	SprintID string `json:"sprint_id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// MemorySummary is the compact manifest projection of a memory.
type MemorySummary struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// Manifest is the aggregated snapshot of the whole dataset.
type Manifest struct {
	GeneratedAt      string           `json:"generated_at"`
	Counts           map[string]int   `json:"counts"`
	People           []PersonSummary  `json:"people,omitempty"`
	Projects         []ProjectSummary `json:"projects,omitempty"`
	Sprints          []SprintSummary  `json:"sprints,omitempty"`
	Tasks            []TaskSummary    `json:"tasks,omitempty"`
	Memories         []MemorySummary  `json:"memories,omitempty"`
	PrimaryPerson    *PersonSummary   `json:"primary_person,omitempty"`
	Protected        []string         `json:"protected,omitempty"`
	DefaultProjectID string           `json:"default_project_id,omitempty"`
	Instructions     string           `json:"instructions,omitempty"`
}

// BuildManifest assembles the discovery document in one pass over the
// concrete collections.
func (s *Store) BuildManifest() (*Manifest, error) {
	m := &Manifest{
		GeneratedAt: Now(),
		Counts:      map[string]int{},
	}

	instructions, err := s.Instructions()
	if err != nil {
		return nil, err
	}
	m.Instructions = instructions

	people, err := s.queryPeople(nil, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		noteCount, err := s.countRows(colPersonNotes, []Filter{Eq("person_id", p.ID)})
		if err != nil {
			return nil, err
		}
		summary := PersonSummary{
			ID:        p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Summary:   p.Summary,
			Primary:   p.IsPrimaryUser,
			NoteCount: noteCount,
		}
		m.People = append(m.People, summary)
		if p.IsPrimaryUser {
			primary := summary
			m.PrimaryPerson = &primary
			m.Protected = append(m.Protected, p.Name)
		}
	}

	projects, err := s.queryProjects(nil, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		sprintCount, err := s.countRows(colSprints, []Filter{Eq("project_id", p.ID)})
		if err != nil {
			return nil, err
		}
		noteCount, err := s.countRows(colProjectNotes, []Filter{Eq("project_id", p.ID)})
		if err != nil {
			return nil, err
		}
		m.Projects = append(m.Projects, ProjectSummary{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Summary:     p.Summary,
			Default:     p.IsDefaultProject,
			Protected:   p.IsProtected,
			SprintCount: sprintCount,
			NoteCount:   noteCount,
		})
		if p.IsProtected {
			m.Protected = append(m.Protected, p.Name)
		}
		if p.IsDefaultProject {
			m.DefaultProjectID = p.ID
		}
	}

	sprints, err := s.querySprints(nil, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	for _, sp := range sprints {
		taskCount, err := s.countRows(colTasks, []Filter{Eq("sprint_id", sp.ID)})
		if err != nil {
			return nil, err
		}
		noteCount, err := s.countRows(colSprintNotes, []Filter{Eq("sprint_id", sp.ID)})
		if err != nil {
			return nil, err
		}
		m.Sprints = append(m.Sprints, SprintSummary{
			ID:        sp.ID,
			ProjectID: sp.ProjectID,
			Name:      sp.Name,
			Slug:      sp.Slug,
			Status:    sp.Status,
			TaskCount: taskCount,
			NoteCount: noteCount,
		})
	}

	tasks, err := s.queryTasks(nil, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		m.Tasks = append(m.Tasks, TaskSummary{
			ID:       t.ID,
			SprintID: t.SprintID,
			Title:    t.Title,
			Status:   t.Status,
			Priority: t.Priority,
		})
	}

	memories, err := s.queryMemories(nil, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	for _, mem := range memories {
		m.Memories = append(m.Memories, MemorySummary{ID: mem.ID, Title: mem.Title, Tags: mem.Tags})
	}

	m.Counts[colPeople] = len(people)
	m.Counts[colProjects] = len(projects)
	m.Counts[colSprints] = len(sprints)
	m.Counts[colTasks] = len(tasks)
	m.Counts[colMemories] = len(memories)
	for _, nc := range noteCollections {
		n, err := s.countRows(nc.Name, nil)
		if err != nil {
			return nil, err
		}
		m.Counts[nc.Name] = n
	}

	return m, nil
}
