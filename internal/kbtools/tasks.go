package kbtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// TasksTool handles the kb_list_tasks MCP tool.
type TasksTool struct {
	store *kb.Store
}

// NewTasksTool creates a TasksTool.
func NewTasksTool(store *kb.Store) *TasksTool {
	return &TasksTool{store: store}
}

// Definition returns the MCP tool definition for kb_list_tasks.
func (t *TasksTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_list_tasks",
		mcp.WithDescription(
			"Flat task list across the whole base, newest first, with sprint and project "+
				"names attached to each row. All filters are optional and combine with AND.",
		),
		mcp.WithString("project_id", mcp.Description("Only tasks whose sprint belongs to this project")),
		mcp.WithString("sprint_id", mcp.Description("Only tasks in this sprint")),
		mcp.WithString("status", mcp.Description("Exact status filter, e.g. todo or completed")),
		mcp.WithString("priority", mcp.Description("Priority filter: low, medium, or high")),
		mcp.WithNumber("limit", mcp.Description("Max rows (default: 50)")),
	)
}

// Handle processes the kb_list_tasks tool call.
func (t *TasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := t.store.ListTasks(kb.TaskListOptions{
		ProjectID: req.GetString("project_id", ""),
		SprintID:  req.GetString("sprint_id", ""),
		Status:    req.GetString("status", ""),
		Priority:  req.GetString("priority", ""),
		Limit:     intArg(req, "limit", 0),
	})
	if err != nil {
		return errResult(err), nil
	}

	if len(rows) == 0 {
		return mcp.NewToolResultText("No tasks match."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d tasks:\n\n", len(rows))
	for i, row := range rows {
		fmt.Fprintf(&b, "[%d] %s [%s]\n", i+1, row.Title, row.Task.ID)
		fmt.Fprintf(&b, "    status: %s | priority: %s\n", row.Status, row.Priority)
		if row.SprintName != "" {
			fmt.Fprintf(&b, "    sprint: %s | project: %s\n", row.SprintName, row.ProjectName)
		}
		if row.Description != "" {
			fmt.Fprintf(&b, "    %s\n", kb.Truncate(row.Description, 200))
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
