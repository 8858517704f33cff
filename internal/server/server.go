// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on them.
// No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/satchel-mcp/satchel/internal/config"
	"github.com/satchel-mcp/satchel/internal/kb"
	"github.com/satchel-mcp/satchel/internal/kbtools"
	"github.com/satchel-mcp/satchel/internal/prompts"
	"github.com/satchel-mcp/satchel/internal/resources"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer). It is always
// non-nil and safe to call even when init failed.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	store, err := kb.New(cfg.StoreConfig())
	if err != nil {
		return nil, noop, fmt.Errorf("opening knowledge base: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("WARNING: store close: %v", err)
		}
	}

	s := server.NewMCPServer(
		"satchel",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, store)

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.ManifestResource(), resourceHandler.HandleManifest)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the store
// hasn't been initialized.
func noop() {}

// registerTools registers the knowledge base MCP tools with the server.
func registerTools(s *server.MCPServer, store *kb.Store) {
	// --- Discovery ---
	manifestTool := kbtools.NewManifestTool(store)
	s.AddTool(manifestTool.Definition(), manifestTool.Handle)

	getTool := kbtools.NewGetTool(store)
	s.AddTool(getTool.Definition(), getTool.Handle)

	// --- Mutation ---
	createTool := kbtools.NewCreateTool(store)
	s.AddTool(createTool.Definition(), createTool.Handle)

	updateTool := kbtools.NewUpdateTool(store)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	deleteTool := kbtools.NewDeleteTool(store)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	// --- Query & traversal ---
	searchTool := kbtools.NewSearchTool(store)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	tasksTool := kbtools.NewTasksTool(store)
	s.AddTool(tasksTool.Definition(), tasksTool.Handle)

	navigateTool := kbtools.NewNavigateTool(store)
	s.AddTool(navigateTool.Definition(), navigateTool.Handle)

	// --- Convenience ---
	quickNoteTool := kbtools.NewQuickNoteTool(store)
	s.AddTool(quickNoteTool.Definition(), quickNoteTool.Handle)

	instructionsTool := kbtools.NewInstructionsTool(store)
	s.AddTool(instructionsTool.Definition(), instructionsTool.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use Satchel effectively.
func serverInstructions() string {
	return `You have access to Satchel, a personal knowledge base MCP server.

Satchel stores the user's people, projects, sprints, tasks, memories,
and notes, and exposes them through one uniform surface: every entity
is reached by (kind, id), and ids are discovered through the manifest.

## Getting oriented

ALWAYS call kb_manifest before any id-based operation. The manifest is
the only place ids are discovered — never guess or fabricate an id.
It also carries the user's stored instructions; follow them.

## Entity model

- person: someone the user knows. Exactly one person can be the
  primary user — that is the user themself and it cannot be deleted.
- project: a long-running effort. One project can be the default
  project (quick-capture target); protected projects refuse deletion.
- sprint: a work iteration inside a project.
- task: a unit of work inside a sprint, with status and priority
  (low/medium/high). Setting status to "completed" stamps the
  completion time.
- memory: a free-standing fact worth remembering, with tags.
- note: text attached to a person, project, or sprint. Notes are
  addressed uniformly: you never need to know which parent kind a
  note hangs off to get, update, or delete it.

## Typical flows

- "What am I working on?" → kb_manifest, then kb_list_tasks with
  status filters.
- "Tell me about X" → kb_search with the query, then kb_get on the
  best hit.
- Capturing something quickly → kb_quick_note (attaches to the
  default project; no parent id needed).
- Drilling into a project → kb_navigate project→sprints, then
  sprint→tasks or sprint→notes.

## Rules

- Deleting a project removes its sprints, tasks, and notes. Deleting
  a sprint removes its tasks and notes. Warn the user before deleting
  anything with children.
- The primary person and protected projects cannot be deleted; do not
  retry on a protection error, tell the user instead.
- Updates are partial: only pass the fields that change.
- Parent references are immutable — to move a task to another sprint,
  recreate it.`
}
