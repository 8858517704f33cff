package kbtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// ManifestTool handles the kb_manifest MCP tool.
type ManifestTool struct {
	store *kb.Store
}

// NewManifestTool creates a ManifestTool.
func NewManifestTool(store *kb.Store) *ManifestTool {
	return &ManifestTool{store: store}
}

// Definition returns the MCP tool definition for kb_manifest.
func (t *ManifestTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_manifest",
		mcp.WithDescription(
			"Fetch the discovery document for the knowledge base: every entity with its id, "+
				"display name and child counts, plus the primary person, protected entities, and "+
				"the default project. Call this before any id-based operation — it is the only "+
				"place ids are discovered.",
		),
	)
}

// Handle processes the kb_manifest tool call.
func (t *ManifestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := t.store.BuildManifest()
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(renderManifest(m)), nil
}

func renderManifest(m *kb.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Knowledge base manifest (%s)\n\n", m.GeneratedAt)

	fmt.Fprintf(&b, "Counts: %d people, %d projects, %d sprints, %d tasks, %d memories, %d notes\n\n",
		m.Counts["people"], m.Counts["projects"], m.Counts["sprints"], m.Counts["tasks"], m.Counts["memories"],
		m.Counts["person_notes"]+m.Counts["project_notes"]+m.Counts["sprint_notes"],
	)

	if m.PrimaryPerson != nil {
		fmt.Fprintf(&b, "Primary person: %s (%s) — %s\n", m.PrimaryPerson.Name, m.PrimaryPerson.ID, m.PrimaryPerson.Summary)
	}
	if len(m.Protected) > 0 {
		fmt.Fprintf(&b, "Protected (cannot be deleted): %s\n", strings.Join(m.Protected, ", "))
	}
	if m.DefaultProjectID != "" {
		fmt.Fprintf(&b, "Default project id: %s\n", m.DefaultProjectID)
	}
	b.WriteString("\n")

	if len(m.People) > 0 {
		b.WriteString("## People\n")
		for _, p := range m.People {
			marker := ""
			if p.Primary {
				marker = " [primary]"
			}
			fmt.Fprintf(&b, "- %s (%s)%s — %s | notes: %d\n", p.Name, p.ID, marker, p.Summary, p.NoteCount)
		}
		b.WriteString("\n")
	}

	if len(m.Projects) > 0 {
		b.WriteString("## Projects\n")
		for _, p := range m.Projects {
			var markers []string
			if p.Default {
				markers = append(markers, "default")
			}
			if p.Protected {
				markers = append(markers, "protected")
			}
			marker := ""
			if len(markers) > 0 {
				marker = " [" + strings.Join(markers, ", ") + "]"
			}
			fmt.Fprintf(&b, "- %s (%s)%s — %s | sprints: %d, notes: %d\n",
				p.Name, p.ID, marker, p.Summary, p.SprintCount, p.NoteCount)
		}
		b.WriteString("\n")
	}

	if len(m.Sprints) > 0 {
		b.WriteString("## Sprints\n")
		for _, sp := range m.Sprints {
			fmt.Fprintf(&b, "- %s (%s) [%s] project: %s | tasks: %d, notes: %d\n",
				sp.Name, sp.ID, sp.Status, sp.ProjectID, sp.TaskCount, sp.NoteCount)
		}
		b.WriteString("\n")
	}

	if len(m.Tasks) > 0 {
		b.WriteString("## Tasks\n")
		for _, t := range m.Tasks {
			fmt.Fprintf(&b, "- %s (%s) [%s/%s] sprint: %s\n", t.Title, t.ID, t.Status, t.Priority, t.SprintID)
		}
		b.WriteString("\n")
	}

	if len(m.Memories) > 0 {
		b.WriteString("## Memories\n")
		for _, mem := range m.Memories {
			tags := ""
			if len(mem.Tags) > 0 {
				tags = " #" + strings.Join(mem.Tags, " #")
			}
			fmt.Fprintf(&b, "- %s (%s)%s\n", mem.Title, mem.ID, tags)
		}
		b.WriteString("\n")
	}

	if m.Instructions != "" {
		b.WriteString("## Instructions\n")
		b.WriteString(m.Instructions)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
