package kb

import "sort"

// ─── Search ──────────────────────────────────────────────────────────────────

// SearchOptions holds the cross-kind search request. Kinds defaults to
// all searchable kinds (memory, note, task). Query is a
// case-insensitive substring; Tags is a set-overlap match.
type SearchOptions struct {
	Query     string   `json:"query,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Kinds     []Kind   `json:"kinds,omitempty"`
	Status    string   `json:"status,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
	SprintID  string   `json:"sprint_id,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// SearchHit is one merged result. NoteParent is set for note hits and
// names the concrete collection the note came from.
type SearchHit struct {
	Kind       Kind     `json:"kind"`
	NoteParent Kind     `json:"note_parent,omitempty"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Status     string   `json:"status,omitempty"`
	Priority   string   `json:"priority,omitempty"`
}

var searchableKinds = []Kind{KindMemory, KindNote, KindTask}

// Search runs the free-text/tag search across the requested kinds,
// merges the hits, sorts them by title (byte-wise ordinal), and
// truncates to the limit. No match is an empty result, not an error.
func (s *Store) Search(opts SearchOptions) ([]SearchHit, error) {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = searchableKinds
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.SearchLimit
	}

	var hits []SearchHit
	for _, k := range kinds {
		switch k {
		case KindMemory:
			found, err := s.searchMemories(opts)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		case KindNote:
			found, err := s.searchNotes(opts)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		case KindTask:
			found, err := s.searchTasks(opts)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		default:
			return nil, invalidInput("kind %q is not searchable (expected memory, note, or task)", k)
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Title < hits[j].Title })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func textFilters(opts SearchOptions, fields []string) []Filter {
	var filters []Filter
	if opts.Query != "" {
		filters = append(filters, ContainsAny(fields, opts.Query))
	}
	if len(opts.Tags) > 0 {
		filters = append(filters, TagsOverlap(opts.Tags))
	}
	return filters
}

func (s *Store) searchMemories(opts SearchOptions) ([]SearchHit, error) {
	memories, err := s.queryMemories(textFilters(opts, []string{"title", "content"}), "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(memories))
	for _, m := range memories {
		hits = append(hits, SearchHit{
			Kind:    KindMemory,
			ID:      m.ID,
			Title:   m.Title,
			Snippet: Truncate(m.Content, 200),
			Tags:    m.Tags,
		})
	}
	return hits, nil
}

// searchNotes applies the same substring/tag match independently to
// each of the three note collections.
func (s *Store) searchNotes(opts SearchOptions) ([]SearchHit, error) {
	var hits []SearchHit
	for _, nc := range noteCollections {
		notes, err := s.queryNotes(nc, textFilters(opts, []string{"title", "content"}), "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		for _, n := range notes {
			hits = append(hits, SearchHit{
				Kind:       KindNote,
				NoteParent: nc.Parent,
				ID:         n.ID,
				Title:      n.Title,
				Snippet:    Truncate(n.Content, 200),
				Tags:       n.Tags,
			})
		}
	}
	return hits, nil
}

func (s *Store) searchTasks(opts SearchOptions) ([]SearchHit, error) {
	// Tasks carry no tags, so a tag predicate can never match one.
	if len(opts.Tags) > 0 {
		return nil, nil
	}

	var filters []Filter
	if opts.Query != "" {
		filters = append(filters, ContainsAny([]string{"title", "description"}, opts.Query))
	}
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
		// Project filtering joins through the task's sprint.
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

	tasks, err := s.queryTasks(filters, "created_at DESC", 0)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(tasks))
	for _, t := range tasks {
		hits = append(hits, SearchHit{
			Kind:     KindTask,
			ID:       t.ID,
			Title:    t.Title,
			Snippet:  Truncate(t.Description, 200),
			Status:   t.Status,
			Priority: t.Priority,
		})
	}
	return hits, nil
}

// ─── Navigate ────────────────────────────────────────────────────────────────

// NavTarget names the destination of a relationship traversal.
type NavTarget string

const (
	NavSprints NavTarget = "sprints"
	NavTasks   NavTarget = "tasks"
	NavNotes   NavTarget = "notes"
	NavProject NavTarget = "project"
)

// ParseNavTarget validates a caller-supplied navigation target.
func ParseNavTarget(s string) (NavTarget, error) {
	switch NavTarget(s) {
	case NavSprints, NavTasks, NavNotes, NavProject:
		return NavTarget(s), nil
	}
	return "", invalidInput("unknown navigation target %q (expected sprints, tasks, notes, or project)", s)
}

// NavigateResult holds the traversal output; exactly one field is
// populated, matching the target.
type NavigateResult struct {
	From    Kind      `json:"from"`
	FromID  string    `json:"from_id"`
	To      NavTarget `json:"to"`
	Sprints []Sprint  `json:"sprints,omitempty"`
	Tasks   []Task    `json:"tasks,omitempty"`
	Notes   []Note    `json:"notes,omitempty"`
	Project *Project  `json:"project,omitempty"`
}

// Navigate traverses exactly these relationships: project→sprints,
// sprint→tasks, sprint→parent project, and {person|project|sprint}→notes.
// Any other pair is InvalidNavigation. Children come back ordered by
// creation time, most recent first.
func (s *Store) Navigate(from Kind, fromID string, to NavTarget) (*NavigateResult, error) {
	ent, err := s.Resolve(from, fromID)
	if err != nil {
		return nil, err
	}

	result := &NavigateResult{From: from, FromID: fromID, To: to}

	switch {
	case from == KindProject && to == NavSprints:
		sprints, err := s.querySprints([]Filter{Eq("project_id", fromID)}, "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		result.Sprints = sprints
	case from == KindSprint && to == NavTasks:
		tasks, err := s.queryTasks([]Filter{Eq("sprint_id", fromID)}, "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		result.Tasks = tasks
	case from == KindSprint && to == NavProject:
		project, err := s.getProject(ent.Sprint.ProjectID)
		if err != nil {
			return nil, err
		}
		result.Project = project
	case to == NavNotes && IsParentKind(from):
		nc, err := noteCollectionFor(from)
		if err != nil {
			return nil, err
		}
		notes, err := s.queryNotes(nc, []Filter{Eq(nc.ParentColumn, fromID)}, "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		result.Notes = notes
	default:
		return nil, &InvalidNavigationError{From: from, To: to}
	}

	return result, nil
}
