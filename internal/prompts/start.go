// Package prompts implements MCP prompt handlers for the knowledge base.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the kb_start MCP prompt.
// It orients the AI in the knowledge base before it answers anything.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("kb_start",
		mcp.WithPromptDescription(
			"Orient yourself in the personal knowledge base. "+
				"Loads the manifest so follow-up questions can reference "+
				"people, projects, sprints, tasks, and memories by id.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Optional topic to zoom in on after loading the manifest"),
		),
	)
}

// Handle processes the kb_start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := ""
	if args := req.Params.Arguments; args != nil {
		focus = args["focus"]
	}

	instructions := "I want to work with my personal knowledge base.\n\n" +
		"Please:\n" +
		"1. Run `kb_manifest` to load the full picture: people, projects, sprints, tasks, and memories\n" +
		"2. Note the primary person, the default project, and anything marked protected\n" +
		"3. Follow any stored instructions the manifest includes\n" +
		"4. Use the ids from the manifest for every `kb_get`, `kb_update`, or `kb_navigate` call that follows"
	if focus != "" {
		instructions += fmt.Sprintf(
			"\n5. Then run `kb_search` with query '%s' and summarize what the base knows about it", focus)
	}

	return &mcp.GetPromptResult{
		Description: "Orient in the knowledge base",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
