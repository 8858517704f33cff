package kbtools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/satchel-mcp/satchel/internal/kb"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a kb.Store in a temp directory for testing.
func newTestStore(t *testing.T) *kb.Store {
	t.Helper()
	store, err := kb.New(kb.Config{
		DataDir:     t.TempDir(),
		SearchLimit: 20,
		TaskLimit:   50,
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// seedWorkshop populates a store with a person, default project,
// sprint, and task, returning their ids.
func seedWorkshop(t *testing.T, store *kb.Store) (personID, projectID, sprintID, taskID string) {
	t.Helper()
	person, err := store.CreatePerson(kb.PersonFields{Name: "Ada", Slug: "ada", IsPrimaryUser: true})
	if err != nil {
		t.Fatalf("seed person: %v", err)
	}
	project, err := store.CreateProject(kb.ProjectFields{Name: "Workshop", Slug: "workshop", IsDefaultProject: true})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	sprint, err := store.CreateSprint(kb.SprintFields{ProjectID: project.ID, Name: "Week 1", Slug: "week-1"})
	if err != nil {
		t.Fatalf("seed sprint: %v", err)
	}
	task, err := store.CreateTask(kb.TaskFields{SprintID: sprint.ID, Title: "Sand the bench"})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return person.ID, project.ID, sprint.ID, task.ID
}

// ─── ManifestTool ────────────────────────────────────────────────────────────

func TestManifestTool_Definition(t *testing.T) {
	tool := NewManifestTool(newTestStore(t))
	if def := tool.Definition(); def.Name != "kb_manifest" {
		t.Errorf("tool name = %q, want kb_manifest", def.Name)
	}
}

func TestManifestTool_ListsEverything(t *testing.T) {
	store := newTestStore(t)
	_, projectID, _, _ := seedWorkshop(t, store)

	tool := NewManifestTool(store)
	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	for _, want := range []string{"Ada", "Workshop", "Week 1", "Sand the bench", "[primary]", "[default]", projectID} {
		if !strings.Contains(text, want) {
			t.Errorf("manifest missing %q:\n%s", want, text)
		}
	}
}

// ─── GetTool ─────────────────────────────────────────────────────────────────

func TestGetTool_ReturnsDetail(t *testing.T) {
	store := newTestStore(t)
	_, projectID, _, _ := seedWorkshop(t, store)

	tool := NewGetTool(store)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "project",
		"id":   projectID,
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, "Workshop") || !strings.Contains(text, "Week 1") {
		t.Errorf("detail missing children:\n%s", text)
	}
}

func TestGetTool_NotFound(t *testing.T) {
	tool := NewGetTool(newTestStore(t))
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "task",
		"id":   "missing",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(res), "no task found") {
		t.Errorf("error text = %q", resultText(res))
	}
}

func TestGetTool_BadKind(t *testing.T) {
	tool := NewGetTool(newTestStore(t))
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "epic",
		"id":   "x",
	}))
	if !res.IsError {
		t.Fatal("expected error result for unknown kind")
	}
}

// ─── CreateTool ──────────────────────────────────────────────────────────────

func TestCreateTool_Person(t *testing.T) {
	store := newTestStore(t)
	tool := NewCreateTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":     "person",
		"name":     "Grace",
		"slug":     "grace",
		"relation": "colleague",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), `Created person "Grace"`) {
		t.Errorf("result = %q", resultText(res))
	}
}

func TestCreateTool_NoteNeedsParent(t *testing.T) {
	store := newTestStore(t)
	seedWorkshop(t, store)
	tool := NewCreateTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":  "note",
		"title": "floating",
	}))
	if !res.IsError {
		t.Fatal("note without parent should fail")
	}
	if !strings.Contains(resultText(res), "parent_kind") {
		t.Errorf("error text = %q", resultText(res))
	}
}

func TestCreateTool_TaskWithTagsAndPriority(t *testing.T) {
	store := newTestStore(t)
	_, _, sprintID, _ := seedWorkshop(t, store)
	tool := NewCreateTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":      "task",
		"sprint_id": sprintID,
		"title":     "Varnish",
		"priority":  "high",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	rows, err := store.ListTasks(kb.TaskListOptions{Priority: kb.PriorityHigh})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Title != "Varnish" {
		t.Errorf("rows = %+v", rows)
	}
}

// ─── UpdateTool ──────────────────────────────────────────────────────────────

func TestUpdateTool_PartialTaskUpdate(t *testing.T) {
	store := newTestStore(t)
	_, _, _, taskID := seedWorkshop(t, store)
	tool := NewUpdateTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":   "task",
		"id":     taskID,
		"status": "completed",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	ent, err := store.Resolve(kb.KindTask, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if ent.Task.Status != "completed" || ent.Task.CompletedAt == nil {
		t.Errorf("task = %+v", ent.Task)
	}
	// Title untouched.
	if ent.Task.Title != "Sand the bench" {
		t.Errorf("title changed: %q", ent.Task.Title)
	}
}

func TestUpdateTool_ClearTagsWithEmptyString(t *testing.T) {
	store := newTestStore(t)
	mem, err := store.CreateMemory(kb.MemoryFields{Title: "m", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	tool := NewUpdateTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "memory",
		"id":   mem.ID,
		"tags": "",
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	ent, err := store.Resolve(kb.KindMemory, mem.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ent.Memory.Tags) != 0 {
		t.Errorf("tags = %v, want cleared", ent.Memory.Tags)
	}
}

// ─── DeleteTool ──────────────────────────────────────────────────────────────

func TestDeleteTool_CascadeMessage(t *testing.T) {
	store := newTestStore(t)
	_, _, sprintID, _ := seedWorkshop(t, store)
	tool := NewDeleteTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "sprint",
		"id":   sprintID,
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	text := resultText(res)
	if !strings.Contains(text, `Deleted sprint "Week 1"`) || !strings.Contains(text, "1 task") {
		t.Errorf("result = %q", text)
	}
}

func TestDeleteTool_ProtectionSurfaces(t *testing.T) {
	store := newTestStore(t)
	personID, _, _, _ := seedWorkshop(t, store)
	tool := NewDeleteTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind": "person",
		"id":   personID,
	}))
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(res), "protected") {
		t.Errorf("error text = %q", resultText(res))
	}
}

// ─── SearchTool ──────────────────────────────────────────────────────────────

func TestSearchTool_NoResults(t *testing.T) {
	tool := NewSearchTool(newTestStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "nothing here",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resultText(res) != "No results." {
		t.Errorf("result = %q", resultText(res))
	}
}

func TestSearchTool_RendersHits(t *testing.T) {
	store := newTestStore(t)
	_, _, sprintID, _ := seedWorkshop(t, store)
	if _, err := store.CreateNote(kb.NoteFields{
		ParentKind: kb.KindSprint, ParentID: sprintID,
		Title: "Bench findings", Content: "the oak warped", Tags: []string{"wood"},
	}); err != nil {
		t.Fatal(err)
	}

	tool := NewSearchTool(store)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "bench",
		"kinds": "note,task",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	text := resultText(res)
	if !strings.Contains(text, "Found 2 results") {
		t.Errorf("result = %q", text)
	}
	if !strings.Contains(text, "(sprint note)") {
		t.Errorf("note hit should name its parent kind:\n%s", text)
	}
	if !strings.Contains(text, "tags: wood") {
		t.Errorf("note tags missing:\n%s", text)
	}
}

func TestSearchTool_BadKind(t *testing.T) {
	tool := NewSearchTool(newTestStore(t))
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kinds": "epic",
	}))
	if !res.IsError {
		t.Fatal("expected error result for unknown kind")
	}
}

// ─── TasksTool ───────────────────────────────────────────────────────────────

func TestTasksTool_RendersRows(t *testing.T) {
	store := newTestStore(t)
	seedWorkshop(t, store)
	tool := NewTasksTool(store)

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	text := resultText(res)
	for _, want := range []string{"Found 1 tasks", "Sand the bench", "sprint: Week 1", "project: Workshop"} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q:\n%s", want, text)
		}
	}
}

func TestTasksTool_EmptyMatch(t *testing.T) {
	store := newTestStore(t)
	seedWorkshop(t, store)
	tool := NewTasksTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"status": "blocked",
	}))
	if resultText(res) != "No tasks match." {
		t.Errorf("result = %q", resultText(res))
	}
}

// ─── NavigateTool ────────────────────────────────────────────────────────────

func TestNavigateTool_ProjectToSprints(t *testing.T) {
	store := newTestStore(t)
	_, projectID, _, _ := seedWorkshop(t, store)
	tool := NewNavigateTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"from_kind": "project",
		"from_id":   projectID,
		"to":        "sprints",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(resultText(res), "Week 1") {
		t.Errorf("result = %q", resultText(res))
	}
}

func TestNavigateTool_UnsupportedEdge(t *testing.T) {
	store := newTestStore(t)
	personID, _, _, _ := seedWorkshop(t, store)
	tool := NewNavigateTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"from_kind": "person",
		"from_id":   personID,
		"to":        "tasks",
	}))
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(res), "cannot navigate") {
		t.Errorf("error text = %q", resultText(res))
	}
}

func TestNavigateTool_UnknownEdgeName(t *testing.T) {
	store := newTestStore(t)
	_, projectID, _, _ := seedWorkshop(t, store)
	tool := NewNavigateTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"from_kind": "project",
		"from_id":   projectID,
		"to":        "memories",
	}))
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(res), "cannot navigate from project to memories") {
		t.Errorf("error text = %q", resultText(res))
	}
}

// ─── QuickNoteTool ───────────────────────────────────────────────────────────

func TestQuickNoteTool_AttachesToDefaultProject(t *testing.T) {
	store := newTestStore(t)
	_, projectID, _, _ := seedWorkshop(t, store)
	tool := NewQuickNoteTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"title":   "Shelf idea",
		"content": "folding brackets",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	nav, err := store.Navigate(kb.KindProject, projectID, kb.NavNotes)
	if err != nil {
		t.Fatal(err)
	}
	if len(nav.Notes) != 1 || nav.Notes[0].Title != "Shelf idea" {
		t.Errorf("notes = %+v", nav.Notes)
	}
}

func TestQuickNoteTool_NoDefaultProject(t *testing.T) {
	store := newTestStore(t)
	tool := NewQuickNoteTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"title":   "x",
		"content": "y",
	}))
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(res), "no default project") {
		t.Errorf("error text = %q", resultText(res))
	}
}

// ─── InstructionsTool ────────────────────────────────────────────────────────

func TestInstructionsTool_UpdatesAndRejectsEmpty(t *testing.T) {
	store := newTestStore(t)
	tool := NewInstructionsTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"content": "Prefer bullet points.",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	got, err := store.Instructions()
	if err != nil {
		t.Fatal(err)
	}
	if got != "Prefer bullet points." {
		t.Errorf("instructions = %q", got)
	}

	res, _ = tool.Handle(context.Background(), makeReq(nil))
	if !res.IsError {
		t.Fatal("empty content should be rejected")
	}
}

// ─── Argument helpers ────────────────────────────────────────────────────────

func TestTagsArg(t *testing.T) {
	req := makeReq(map[string]interface{}{"tags": " a , b ,, c "})
	tags := tagsArg(req, "tags")
	if len(tags) != 3 || tags[0] != "a" || tags[2] != "c" {
		t.Errorf("tags = %v", tags)
	}
	if tagsArg(makeReq(nil), "tags") != nil {
		t.Error("absent tags should be nil")
	}
}

func TestOptTags_DistinguishesAbsentFromEmpty(t *testing.T) {
	if optTags(makeReq(nil), "tags") != nil {
		t.Error("absent tags should be nil")
	}
	got := optTags(makeReq(map[string]interface{}{"tags": ""}), "tags")
	if got == nil || len(*got) != 0 {
		t.Errorf("empty tags = %v, want empty non-nil", got)
	}
}

func TestOptBool_PresenceAware(t *testing.T) {
	if optBool(makeReq(nil), "flag") != nil {
		t.Error("absent bool should be nil")
	}
	got := optBool(makeReq(map[string]interface{}{"flag": false}), "flag")
	if got == nil || *got != false {
		t.Errorf("flag = %v, want false", got)
	}
}
