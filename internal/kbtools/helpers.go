// Package kbtools provides the MCP tool handlers for the knowledge
// base operation surface.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (kb.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Handlers never return a Go error for domain outcomes: NotFound,
// Protected, DuplicateEntity, InvalidInput, InvalidNavigation, and
// NoDefaultProject all become tool error results with stable messages.
package kbtools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// optString returns the argument value when present, nil otherwise.
// Partial updates distinguish "absent" from "empty".
func optString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// optBool returns the boolean argument when present, nil otherwise.
func optBool(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// tagsArg parses a comma-separated tag list argument.
func tagsArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// optTags distinguishes an absent tags argument (nil) from a present
// one, so updates can clear a tag set with an empty string.
func optTags(req mcp.CallToolRequest, key string) *[]string {
	if _, ok := req.GetArguments()[key].(string); !ok {
		return nil
	}
	tags := tagsArg(req, key)
	if tags == nil {
		tags = []string{}
	}
	return &tags
}

// errResult maps a domain outcome to a tool error result. Outcome
// messages are already stable and caller-facing; StoreError carries
// the underlying technical message verbatim.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
