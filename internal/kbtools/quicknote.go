package kbtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// QuickNoteTool handles the kb_quick_note MCP tool.
type QuickNoteTool struct {
	store *kb.Store
}

// NewQuickNoteTool creates a QuickNoteTool.
func NewQuickNoteTool(store *kb.Store) *QuickNoteTool {
	return &QuickNoteTool{store: store}
}

// Definition returns the MCP tool definition for kb_quick_note.
func (t *QuickNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_quick_note",
		mcp.WithDescription(
			"Capture a note without choosing a parent: it attaches to the default project. "+
				"Fails when no project carries the default flag.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Note title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Note body"),
		),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	)
}

// Handle processes the kb_quick_note tool call.
func (t *QuickNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	note, err := t.store.CreateKnowledgeNote(title, content, tagsArg(req, "tags"))
	if err != nil {
		return errResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Captured note %q with id %s on the default project", note.Title, note.ID)), nil
}
