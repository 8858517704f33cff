package kbtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// SearchTool handles the kb_search MCP tool.
type SearchTool struct {
	store *kb.Store
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *kb.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the MCP tool definition for kb_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_search",
		mcp.WithDescription(
			"Free-text and tag search across memories, notes, and tasks. The query matches "+
				"title and content as a case-insensitive substring; tags match by set overlap. "+
				"Task results additionally accept status, priority, project and sprint filters.",
		),
		mcp.WithString("query", mcp.Description("Substring to match against titles and content")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; a result matches when it shares at least one")),
		mcp.WithString("kinds", mcp.Description("Comma-separated kinds to search: memory, note, task (default: all three)")),
		mcp.WithString("status", mcp.Description("Exact task status filter")),
		mcp.WithString("priority", mcp.Description("Task priority filter: low, medium, or high")),
		mcp.WithString("project_id", mcp.Description("Restrict task results to one project (joins through the sprint)")),
		mcp.WithString("sprint_id", mcp.Description("Restrict task results to one sprint")),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 20)")),
	)
}

// Handle processes the kb_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kinds []kb.Kind
	for _, raw := range tagsArg(req, "kinds") {
		k, err := kb.ParseKind(raw)
		if err != nil {
			return errResult(err), nil
		}
		kinds = append(kinds, k)
	}

	hits, err := t.store.Search(kb.SearchOptions{
		Query:     req.GetString("query", ""),
		Tags:      tagsArg(req, "tags"),
		Kinds:     kinds,
		Status:    req.GetString("status", ""),
		Priority:  req.GetString("priority", ""),
		ProjectID: req.GetString("project_id", ""),
		SprintID:  req.GetString("sprint_id", ""),
		Limit:     intArg(req, "limit", 0),
	})
	if err != nil {
		return errResult(err), nil
	}

	if len(hits) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results:\n\n", len(hits))
	for i, h := range hits {
		kind := string(h.Kind)
		if h.NoteParent != "" {
			kind = fmt.Sprintf("%s note", h.NoteParent)
		}
		fmt.Fprintf(&b, "[%d] (%s) %s [%s]\n", i+1, kind, h.Title, h.ID)
		if h.Snippet != "" {
			fmt.Fprintf(&b, "    %s\n", h.Snippet)
		}
		var meta []string
		if h.Status != "" {
			meta = append(meta, "status: "+h.Status)
		}
		if h.Priority != "" {
			meta = append(meta, "priority: "+h.Priority)
		}
		if len(h.Tags) > 0 {
			meta = append(meta, "tags: "+strings.Join(h.Tags, ", "))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "    %s\n", strings.Join(meta, " | "))
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
