package kb

// The resolver maps (kind, id) to the backing collection and record.
// Concrete kinds are a single lookup. The virtual note kind probes the
// three note collections in fixed order and tags the hit with the
// concrete sub-kind it came from. NotFound is a result, not a fault.

// Resolve locates the entity for kind+id, read-only.
func (s *Store) Resolve(kind Kind, id string) (*Entity, error) {
	if id == "" {
		return nil, invalidInput("id is required")
	}
	switch kind {
	case KindPerson:
		p, err := s.getPerson(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindPerson, Person: p}, nil
	case KindProject:
		p, err := s.getProject(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindProject, Project: p}, nil
	case KindSprint:
		sp, err := s.getSprint(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindSprint, Sprint: sp}, nil
	case KindTask:
		t, err := s.getTask(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindTask, Task: t}, nil
	case KindMemory:
		m, err := s.getMemory(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindMemory, Memory: m}, nil
	case KindNote:
		n, err := s.resolveNote(id)
		if err != nil {
			return nil, err
		}
		return &Entity{Kind: KindNote, Note: n}, nil
	}
	return nil, invalidInput("unknown kind %q", kind)
}

// resolveNote probes the note collections in registry order and
// returns the first hit.
func (s *Store) resolveNote(id string) (*Note, error) {
	for _, nc := range noteCollections {
		notes, err := s.queryNotes(nc, []Filter{Eq("id", id)}, "", 1)
		if err != nil {
			return nil, err
		}
		if len(notes) == 1 {
			return &notes[0], nil
		}
	}
	return nil, notFound(KindNote, id)
}

func (s *Store) getPerson(id string) (*Person, error) {
	people, err := s.queryPeople([]Filter{Eq("id", id)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, notFound(KindPerson, id)
	}
	return &people[0], nil
}

func (s *Store) getProject(id string) (*Project, error) {
	projects, err := s.queryProjects([]Filter{Eq("id", id)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, notFound(KindProject, id)
	}
	return &projects[0], nil
}

func (s *Store) getSprint(id string) (*Sprint, error) {
	sprints, err := s.querySprints([]Filter{Eq("id", id)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(sprints) == 0 {
		return nil, notFound(KindSprint, id)
	}
	return &sprints[0], nil
}

func (s *Store) getTask(id string) (*Task, error) {
	tasks, err := s.queryTasks([]Filter{Eq("id", id)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, notFound(KindTask, id)
	}
	return &tasks[0], nil
}

func (s *Store) getMemory(id string) (*Memory, error) {
	memories, err := s.queryMemories([]Filter{Eq("id", id)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(memories) == 0 {
		return nil, notFound(KindMemory, id)
	}
	return &memories[0], nil
}

// DefaultProject returns the project flagged is_default_project, or
// ErrNoDefaultProject when none is configured.
func (s *Store) DefaultProject() (*Project, error) {
	projects, err := s.queryProjects([]Filter{Eq("is_default_project", true)}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, ErrNoDefaultProject
	}
	return &projects[0], nil
}
