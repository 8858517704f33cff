package kbtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// UpdateTool handles the kb_update MCP tool.
type UpdateTool struct {
	store *kb.Store
}

// NewUpdateTool creates an UpdateTool.
func NewUpdateTool(store *kb.Store) *UpdateTool {
	return &UpdateTool{store: store}
}

// Definition returns the MCP tool definition for kb_update.
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_update",
		mcp.WithDescription(
			"Partially update one entity: only the fields you pass change, everything else is left "+
				"untouched. Parent references (a sprint's project, a task's sprint, a note's parent) "+
				"are immutable and cannot be updated.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Entity kind: person, project, sprint, task, memory, or note"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entity id"),
		),
		mcp.WithString("name", mcp.Description("New display name (person, project, sprint)")),
		mcp.WithString("slug", mcp.Description("New slug (person, project, sprint)")),
		mcp.WithString("relation", mcp.Description("New relation (person)")),
		mcp.WithString("summary", mcp.Description("New summary (person, project)")),
		mcp.WithString("title", mcp.Description("New title (task, memory, note)")),
		mcp.WithString("content", mcp.Description("New content (memory, note)")),
		mcp.WithString("description", mcp.Description("New task description")),
		mcp.WithString("status", mcp.Description("New status; setting a task to \"completed\" stamps its completion time, any other value clears it")),
		mcp.WithString("priority", mcp.Description("New task priority: low, medium, or high")),
		mcp.WithString("tags", mcp.Description("Replacement comma-separated tags; empty string clears them (memory, note)")),
		mcp.WithBoolean("is_primary_user", mcp.Description("Move or clear the primary-user flag (person)")),
		mcp.WithBoolean("is_default_project", mcp.Description("Move or clear the default-project flag (project)")),
		mcp.WithBoolean("is_protected", mcp.Description("Set or clear deletion protection (project)")),
	)
}

// Handle processes the kb_update tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := kb.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return errResult(err), nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	in := kb.UpdateInput{Kind: kind}
	switch kind {
	case kb.KindPerson:
		in.Person = &kb.PersonPatch{
			Name:          optString(req, "name"),
			Slug:          optString(req, "slug"),
			Relation:      optString(req, "relation"),
			Summary:       optString(req, "summary"),
			IsPrimaryUser: optBool(req, "is_primary_user"),
		}
	case kb.KindProject:
		in.Project = &kb.ProjectPatch{
			Name:             optString(req, "name"),
			Slug:             optString(req, "slug"),
			Summary:          optString(req, "summary"),
			IsDefaultProject: optBool(req, "is_default_project"),
			IsProtected:      optBool(req, "is_protected"),
		}
	case kb.KindSprint:
		in.Sprint = &kb.SprintPatch{
			Name:   optString(req, "name"),
			Slug:   optString(req, "slug"),
			Status: optString(req, "status"),
		}
	case kb.KindTask:
		in.Task = &kb.TaskPatch{
			Title:       optString(req, "title"),
			Description: optString(req, "description"),
			Status:      optString(req, "status"),
			Priority:    optString(req, "priority"),
		}
	case kb.KindMemory:
		in.Memory = &kb.MemoryPatch{
			Title:   optString(req, "title"),
			Content: optString(req, "content"),
			Tags:    optTags(req, "tags"),
		}
	case kb.KindNote:
		in.Note = &kb.NotePatch{
			Title:   optString(req, "title"),
			Content: optString(req, "content"),
			Tags:    optTags(req, "tags"),
		}
	}

	ent, err := t.store.Update(id, in)
	if err != nil {
		return errResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %s %q (%s)", ent.Kind, ent.DisplayName(), ent.ID())), nil
}
