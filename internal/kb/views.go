package kb

// Read views beyond the bare resolver: get-with-children and the flat
// task listing with denormalized names.

// EntityDetail is a resolved entity with its direct children inlined.
type EntityDetail struct {
	Entity
	Sprints []SprintSummary `json:"sprints,omitempty"`
	Tasks   []Task          `json:"tasks,omitempty"`
	Notes   []Note          `json:"notes,omitempty"`
}

// Get resolves kind+id and inlines direct children: a project carries
// its sprints with counts, a sprint its tasks and notes, a person its
// notes. Tasks, memories, and notes have no children to inline.
func (s *Store) Get(kind Kind, id string) (*EntityDetail, error) {
	ent, err := s.Resolve(kind, id)
	if err != nil {
		return nil, err
	}
	detail := &EntityDetail{Entity: *ent}

	switch kind {
	case KindPerson:
		nav, err := s.Navigate(KindPerson, id, NavNotes)
		if err != nil {
			return nil, err
		}
		detail.Notes = nav.Notes
	case KindProject:
		sprints, err := s.querySprints([]Filter{Eq("project_id", id)}, "created_at DESC", 0)
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
			detail.Sprints = append(detail.Sprints, SprintSummary{
				ID:        sp.ID,
				ProjectID: sp.ProjectID,
				Name:      sp.Name,
				Slug:      sp.Slug,
				Status:    sp.Status,
				TaskCount: taskCount,
				NoteCount: noteCount,
			})
		}
		nav, err := s.Navigate(KindProject, id, NavNotes)
		if err != nil {
			return nil, err
		}
		detail.Notes = nav.Notes
	case KindSprint:
		tasks, err := s.queryTasks([]Filter{Eq("sprint_id", id)}, "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		detail.Tasks = tasks
		nav, err := s.Navigate(KindSprint, id, NavNotes)
		if err != nil {
			return nil, err
		}
		detail.Notes = nav.Notes
	}

	return detail, nil
}

// ─── Task listing ────────────────────────────────────────────────────────────

// TaskListOptions filters the flat task listing.
type TaskListOptions struct {
	ProjectID string `json:"project_id,omitempty"`
	SprintID  string `json:"sprint_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// TaskRow is a task with its sprint and project names denormalized.
type TaskRow struct {
	Task
	SprintName  string `json:"sprint_name"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// ListTasks returns a flat task list ordered by creation time, most
// recent first.
func (s *Store) ListTasks(opts TaskListOptions) ([]TaskRow, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.TaskLimit
	}

	var filters []Filter
	if opts.Status != "" {
		filters = append(filters, Eq("status", opts.Status))
	}
	if opts.Priority != "" {
		priority, err := PriorityToStorage(opts.Priority)
		if err != nil {
			return nil, err
		}
		filters = append(filters, Eq("priority", priority))
	}
	if opts.SprintID != "" {
		filters = append(filters, Eq("sprint_id", opts.SprintID))
	}
	if opts.ProjectID != "" {
		sprints, err := s.querySprints([]Filter{Eq("project_id", opts.ProjectID)}, "", 0)
		if err != nil {
			return nil, err
		}
		if len(sprints) == 0 {
			return nil, nil
		}
		ids := make([]string, len(sprints))
		for i, sp := range sprints {
			ids[i] = sp.ID
		}
		filters = append(filters, In("sprint_id", ids))
	}

	tasks, err := s.queryTasks(filters, "created_at DESC", limit)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	sprints, err := s.querySprints(nil, "", 0)
	if err != nil {
		return nil, err
	}
	projects, err := s.queryProjects(nil, "", 0)
	if err != nil {
		return nil, err
	}
	sprintByID := make(map[string]Sprint, len(sprints))
	for _, sp := range sprints {
		sprintByID[sp.ID] = sp
	}
	projectByID := make(map[string]Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		row := TaskRow{Task: t}
		if sp, ok := sprintByID[t.SprintID]; ok {
			row.SprintName = sp.Name
			row.ProjectID = sp.ProjectID
			if p, ok := projectByID[sp.ProjectID]; ok {
				row.ProjectName = p.Name
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
