package kbtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// CreateTool handles the kb_create MCP tool.
type CreateTool struct {
	store *kb.Store
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(store *kb.Store) *CreateTool {
	return &CreateTool{store: store}
}

// Definition returns the MCP tool definition for kb_create.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_create",
		mcp.WithDescription(
			"Create one entity. Which fields apply depends on the kind: "+
				"person (name, slug, relation, summary, is_primary_user), "+
				"project (name, slug, summary, is_default_project, is_protected), "+
				"sprint (project_id, name, slug, status), "+
				"task (sprint_id, title, description, status, priority), "+
				"memory (title, content, tags), "+
				"note (parent_kind, parent_id, title, content, tags).",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Entity kind: person, project, sprint, task, memory, or note"),
		),
		mcp.WithString("name", mcp.Description("Display name (person, project, sprint)")),
		mcp.WithString("slug", mcp.Description("URL-safe unique slug (person, project, sprint)")),
		mcp.WithString("relation", mcp.Description("How the person relates to you")),
		mcp.WithString("summary", mcp.Description("Short summary (person, project)")),
		mcp.WithString("title", mcp.Description("Title (task, memory, note)")),
		mcp.WithString("content", mcp.Description("Body content (memory, note)")),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("status", mcp.Description("Sprint status (default: active) or task status (default: todo)")),
		mcp.WithString("priority", mcp.Description("Task priority: low, medium, or high (default: medium)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (memory, note)")),
		mcp.WithString("project_id", mcp.Description("Owning project id (sprint)")),
		mcp.WithString("sprint_id", mcp.Description("Owning sprint id (task)")),
		mcp.WithString("parent_kind", mcp.Description("Note parent kind: person, project, or sprint")),
		mcp.WithString("parent_id", mcp.Description("Note parent id")),
		mcp.WithBoolean("is_primary_user", mcp.Description("Mark this person as the primary user (at most one)")),
		mcp.WithBoolean("is_default_project", mcp.Description("Mark this project as the quick-capture default (at most one)")),
		mcp.WithBoolean("is_protected", mcp.Description("Protect this project from deletion")),
	)
}

// Handle processes the kb_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := kb.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return errResult(err), nil
	}

	in := kb.CreateInput{Kind: kind}
	switch kind {
	case kb.KindPerson:
		in.Person = &kb.PersonFields{
			Name:          req.GetString("name", ""),
			Slug:          req.GetString("slug", ""),
			Relation:      req.GetString("relation", ""),
			Summary:       req.GetString("summary", ""),
			IsPrimaryUser: req.GetBool("is_primary_user", false),
		}
	case kb.KindProject:
		in.Project = &kb.ProjectFields{
			Name:             req.GetString("name", ""),
			Slug:             req.GetString("slug", ""),
			Summary:          req.GetString("summary", ""),
			IsDefaultProject: req.GetBool("is_default_project", false),
			IsProtected:      req.GetBool("is_protected", false),
		}
	case kb.KindSprint:
		in.Sprint = &kb.SprintFields{
			ProjectID: req.GetString("project_id", ""),
			Name:      req.GetString("name", ""),
			Slug:      req.GetString("slug", ""),
			Status:    req.GetString("status", ""),
		}
	case kb.KindTask:
		in.Task = &kb.TaskFields{
			SprintID:    req.GetString("sprint_id", ""),
			Title:       req.GetString("title", ""),
			Description: req.GetString("description", ""),
			Status:      req.GetString("status", ""),
			Priority:    req.GetString("priority", ""),
		}
	case kb.KindMemory:
		in.Memory = &kb.MemoryFields{
			Title:   req.GetString("title", ""),
			Content: req.GetString("content", ""),
			Tags:    tagsArg(req, "tags"),
		}
	case kb.KindNote:
		parentKind := kb.Kind(req.GetString("parent_kind", ""))
		in.Note = &kb.NoteFields{
			ParentKind: parentKind,
			ParentID:   req.GetString("parent_id", ""),
			Title:      req.GetString("title", ""),
			Content:    req.GetString("content", ""),
			Tags:       tagsArg(req, "tags"),
		}
	}

	ent, err := t.store.Create(in)
	if err != nil {
		return errResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created %s %q with id %s", ent.Kind, ent.DisplayName(), ent.ID())), nil
}
