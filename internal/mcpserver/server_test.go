package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/backlink"
	"github.com/starford/raido/internal/dailynotes"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/testutil"
)

func testServer(t *testing.T, docs map[string]string) *Server {
	t.Helper()

	vaultDir, store := testutil.TestVault(t)
	for path, content := range docs {
		testutil.WriteDoc(t, vaultDir, path, content)
	}

	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := index.Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}

	provider := index.NewProvider(db, store)
	classify := dailynotes.New("journal", dailynotes.DefaultLayout).Classify
	resolver := backlink.NewResolver(provider, backlink.DefaultMemoSize, logger)
	discoverer := backlink.NewDiscoverer(provider, resolver, classify, logger)
	cache := backlink.NewCache(backlink.DefaultCacheTTL, backlink.DefaultMaxCacheSize, provider.ModifiedTime)
	coord := backlink.NewCoordinator(discoverer, cache, classify, nil, backlink.DefaultOptions(), logger)
	svc := api.NewService(coord, discoverer, backlink.NewExtractor(logger), provider)

	return New(svc, resolver)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "resolve_link":
		result, err = srv.resolveLink(ctx, req)
	case "extract_blocks":
		result, err = srv.extractBlocks(ctx, req)
	case "get_statistics":
		result, err = srv.getStatistics(ctx, req)
	case "get_link_contract":
		result, err = srv.getLinkContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetBacklinksTool(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "links to [[b]]",
		"b.md": "target",
	})

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "b.md"})
	if got := resultText(r); got != "a.md" {
		t.Errorf("backlinks = %q, want a.md", got)
	}
}

func TestGetBacklinksToolEmpty(t *testing.T) {
	srv := testServer(t, map[string]string{
		"lonely.md": "no inbound links",
	})

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "lonely.md"})
	if got := resultText(r); got != "no backlinks found" {
		t.Errorf("result = %q", got)
	}
}

func TestResolveLinkTool(t *testing.T) {
	srv := testServer(t, map[string]string{
		"folder/note.md": "---\ntitle: Note\naliases:\n  - shortcut\n---\nbody",
	})

	r := callTool(t, srv, "resolve_link", map[string]interface{}{"link": "./folder/note.md#Heading"})
	if got := resultText(r); got != "folder/note.md" {
		t.Errorf("direct resolution = %q, want folder/note.md", got)
	}

	r = callTool(t, srv, "resolve_link", map[string]interface{}{"link": "shortcut"})
	if got := resultText(r); got != "folder/note.md" {
		t.Errorf("alias resolution = %q, want folder/note.md", got)
	}

	r = callTool(t, srv, "resolve_link", map[string]interface{}{"link": "ghost"})
	if got := resultText(r); got != "unresolved: ghost" {
		t.Errorf("missing resolution = %q", got)
	}
}

func TestExtractBlocksTool(t *testing.T) {
	srv := testServer(t, map[string]string{
		"source.md": "intro\nsee [[target]] for details\nmore context\n---\nafter the rule",
		"target.md": "target",
	})

	r := callTool(t, srv, "extract_blocks", map[string]interface{}{
		"path":      "source.md",
		"note_name": "target",
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	text := resultText(r)
	if text == "no blocks found" {
		t.Fatal("expected at least one block")
	}
}

func TestExtractBlocksToolMissingArgs(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "extract_blocks", map[string]interface{}{"path": "source.md"})
	if !r.IsError {
		t.Error("expected error without note_name")
	}
}

func TestGetStatisticsTool(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "links to [[b]]",
		"b.md": "target",
	})
	_ = callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "b.md"})

	r := callTool(t, srv, "get_statistics", map[string]interface{}{})
	if text := resultText(r); text == "" {
		t.Error("statistics returned empty")
	}
}

func TestGetLinkContractTool(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "get_link_contract", map[string]interface{}{})
	if text := resultText(r); text == "" {
		t.Error("contract returned empty")
	}
}
