package kbtools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// DeleteTool handles the kb_delete MCP tool.
type DeleteTool struct {
	store *kb.Store
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(store *kb.Store) *DeleteTool {
	return &DeleteTool{store: store}
}

// Definition returns the MCP tool definition for kb_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_delete",
		mcp.WithDescription(
			"Delete one entity. Deleting a project removes its sprints, their tasks, and all "+
				"attached notes; deleting a sprint removes its tasks and notes. The primary person "+
				"and protected projects refuse deletion.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Entity kind: person, project, sprint, task, memory, or note"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entity id"),
		),
	)
}

// Handle processes the kb_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := kb.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return errResult(err), nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	result, err := t.store.Delete(kind, id)
	if err != nil {
		return errResult(err), nil
	}

	return mcp.NewToolResultText(result.CascadeNote()), nil
}
