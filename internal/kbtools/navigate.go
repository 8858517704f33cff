package kbtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// NavigateTool handles the kb_navigate MCP tool.
type NavigateTool struct {
	store *kb.Store
}

// NewNavigateTool creates a NavigateTool.
func NewNavigateTool(store *kb.Store) *NavigateTool {
	return &NavigateTool{store: store}
}

// Definition returns the MCP tool definition for kb_navigate.
func (t *NavigateTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_navigate",
		mcp.WithDescription(
			"Walk one relationship edge from an entity. Supported edges: project to sprints, "+
				"sprint to tasks, sprint to its parent project, and person/project/sprint to notes.",
		),
		mcp.WithString("from_kind",
			mcp.Required(),
			mcp.Description("Starting entity kind: person, project, or sprint"),
		),
		mcp.WithString("from_id",
			mcp.Required(),
			mcp.Description("Starting entity id"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Edge to follow: sprints, tasks, notes, or project"),
		),
	)
}

// Handle processes the kb_navigate tool call.
func (t *NavigateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := kb.ParseKind(req.GetString("from_kind", ""))
	if err != nil {
		return errResult(err), nil
	}
	fromID := req.GetString("from_id", "")
	if fromID == "" {
		return mcp.NewToolResultError("'from_id' is required"), nil
	}
	toRaw := req.GetString("to", "")
	to, err := kb.ParseNavTarget(toRaw)
	if err != nil {
		// An unknown edge name is the same outcome as an unsupported pair.
		return errResult(&kb.InvalidNavigationError{From: from, To: kb.NavTarget(toRaw)}), nil
	}

	result, err := t.store.Navigate(from, fromID, to)
	if err != nil {
		return errResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s -> %s\n\n", result.From, result.FromID, result.To)

	record, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	b.Write(record)

	return mcp.NewToolResultText(b.String()), nil
}
