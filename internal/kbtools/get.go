package kbtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// GetTool handles the kb_get MCP tool.
type GetTool struct {
	store *kb.Store
}

// NewGetTool creates a GetTool.
func NewGetTool(store *kb.Store) *GetTool {
	return &GetTool{store: store}
}

// Definition returns the MCP tool definition for kb_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_get",
		mcp.WithDescription(
			"Fetch one entity by kind and id, with its direct children inlined: a project comes "+
				"with its sprints and counts, a sprint with its tasks and notes, a person with its notes.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Entity kind: person, project, sprint, task, memory, or note"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entity id (discover ids via kb_manifest)"),
		),
	)
}

// Handle processes the kb_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := kb.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return errResult(err), nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	detail, err := t.store.Get(kind, id)
	if err != nil {
		return errResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %q (%s)\n\n", detail.Kind, detail.DisplayName(), detail.ID())

	record, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	b.Write(record)

	return mcp.NewToolResultText(b.String()), nil
}
