// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido backlink tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/backlink"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *api.Service
	resolver *backlink.Resolver
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *api.Service, resolver *backlink.Resolver) *Server {
	s := &Server{svc: svc, resolver: resolver}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Discover all documents that link to the specified document. "+
			"Runs a fresh discovery (served from cache when still valid)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the document to find backlinks for (e.g. folder/note.md)")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a wikilink target to a concrete document path. "+
			"Applies the same cascade the backlink engine uses: direct path, file name, "+
			"then frontmatter alias. Read the raido://link-resolution resource for the rules."),
		mcp.WithString("link", mcp.Required(), mcp.Description("Raw link text as written inside [[...]]")),
		mcp.WithString("source", mcp.Description("Path of the document containing the link (optional)")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("extract_blocks",
		mcp.WithDescription("Extract the content blocks of a document that reference the "+
			"given note name. Each block spans from the start of the referencing line to the "+
			"next horizontal rule, the next reference, or the end of the document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the document to extract blocks from")),
		mcp.WithString("note_name", mcp.Required(), mcp.Description("Name of the referenced note to look for")),
		mcp.WithString("strategy", mcp.Description("Extraction strategy: default or headers-only")),
	), s.extractBlocks)

	s.mcp.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Returns discovery and cache statistics for the backlink engine."),
	), s.getStatistics)

	s.mcp.AddTool(mcp.NewTool("get_link_contract",
		mcp.WithDescription("Returns the canonical Raido link resolution contract. "+
			"Call this to understand how wikilink targets map to document paths."),
	), s.getLinkContract)

	// Resource: link resolution contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://link-resolution", "Link Resolution Contract",
			mcp.WithResourceDescription("Canonical rules for how wikilink targets resolve to document paths."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	backlinks := s.svc.UpdateBacklinks(ctx, path, "mcp", nil)
	if len(backlinks) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(backlinks, "\n")), nil
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := req.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source := ""
	if v, vErr := req.RequireString("source"); vErr == nil {
		source = v
	}

	resolved, ok := s.resolver.Resolve(link, source)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("unresolved: %s", backlink.NormalizeLinkPath(link))), nil
	}
	return mcp.NewToolResultText(resolved), nil
}

func (s *Server) extractBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	noteName, err := req.RequireString("note_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	strategy := ""
	if v, vErr := req.RequireString("strategy"); vErr == nil {
		strategy = v
	}

	blocks, err := s.svc.ExtractBlocks(ctx, path, "", noteName, strategy)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(blocks) == 0 {
		return mcp.NewToolResultText("no blocks found"), nil
	}
	out, _ := json.MarshalIndent(blocks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.svc.Statistics(ctx)
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getLinkContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkResolutionContract), nil
}

func (s *Server) readLinkContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://link-resolution",
			MIMEType: "text/markdown",
			Text:     LinkResolutionContract,
		},
	}, nil
}
