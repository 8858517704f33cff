// Package resources implements MCP resource handlers for the knowledge base.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (satchel://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/satchel-mcp/satchel/internal/kb"
)

// Handler manages knowledge base resource endpoints.
type Handler struct {
	store *kb.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store *kb.Store) *Handler {
	return &Handler{store: store}
}

// ManifestResource returns the MCP resource definition for the manifest.
func (h *Handler) ManifestResource() mcp.Resource {
	return mcp.NewResource(
		"satchel://manifest",
		"Knowledge Base Manifest",
		mcp.WithResourceDescription("Every entity in the base with its id, name, child counts, and protection flags"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleManifest returns the freshly built manifest as JSON.
func (h *Handler) HandleManifest(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	m, err := h.store.BuildManifest()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
