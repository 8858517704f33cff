package kbtools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// InstructionsTool handles the kb_update_instructions MCP tool.
type InstructionsTool struct {
	store *kb.Store
}

// NewInstructionsTool creates an InstructionsTool.
func NewInstructionsTool(store *kb.Store) *InstructionsTool {
	return &InstructionsTool{store: store}
}

// Definition returns the MCP tool definition for kb_update_instructions.
func (t *InstructionsTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_update_instructions",
		mcp.WithDescription(
			"Replace the stored standing instructions that the manifest surfaces back to callers. "+
				"The previous text is overwritten whole; pass the full new version.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The complete new instructions text"),
		),
	)
}

// Handle processes the kb_update_instructions tool call.
func (t *InstructionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.store.UpdateInstructions(req.GetString("content", "")); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Instructions updated."), nil
}
