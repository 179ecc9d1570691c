// Package mcptools exposes read-only changelog operations to MCP clients.
package mcptools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dwarflabs/git-me/internal/changelog"
)

// NewServer registers the changelog tools on a new MCP server.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer("git-me", version)

	repoParam := mcp.WithString("repo_path",
		mcp.Required(),
		mcp.Description("Path to the root of the git repository"),
	)

	s.AddTool(mcp.NewTool("changelog_render",
		mcp.WithDescription("Render a branch changelog as Markdown"),
		repoParam,
		mcp.WithString("branch", mcp.Required(), mcp.Description("Branch name, e.g. feature/login")),
	), HandleRender)

	s.AddTool(mcp.NewTool("changelog_validate",
		mcp.WithDescription("Check that a branch changelog is ASCII, tab free and has entries"),
		repoParam,
		mcp.WithString("branch", mcp.Required(), mcp.Description("Branch name, e.g. feature/login")),
	), HandleValidate)

	s.AddTool(mcp.NewTool("changelog_aggregate_preview",
		mcp.WithDescription("Preview the release changelog without writing it"),
		repoParam,
		mcp.WithString("prefixes", mcp.Description("Comma separated branch prefixes, defaults to feature,hotfix")),
	), HandleAggregatePreview)

	return s
}

// Serve runs the tools over stdio until the client disconnects.
func Serve(version string) error {
	return server.ServeStdio(NewServer(version))
}

func HandleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, br, err := parseBranchParams(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := store.ReadFormatted(br)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render changelog: %v", err)), nil
	}
	return textResult(out), nil
}

func HandleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, br, err := parseBranchParams(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ok, err := store.Verify(br)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("changelog for %s has no entries", br)), nil
	}
	return textResult(fmt.Sprintf("changelog for %s is valid", br)), nil
}

func HandleAggregatePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := repoPath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prefixes := changelog.ReleasePrefixes
	if raw, _ := request.Params.Arguments["prefixes"].(string); raw != "" {
		prefixes = nil
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}
	}

	result, err := changelog.NewStore(root).Collect(prefixes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to collect changelogs: %v", err)), nil
	}
	content := []mcp.Content{mcp.TextContent{Type: "text", Text: changelog.Format(result.Document)}}
	if result.Empty() {
		content = append(content, mcp.TextContent{Type: "text", Text: "warning: there are no changes in this release"})
	}
	if len(result.Skipped) > 0 {
		content = append(content, mcp.TextContent{
			Type: "text",
			Text: "unedited changelogs skipped:\n" + strings.Join(result.Skipped, "\n"),
		})
	}
	return &mcp.CallToolResult{Content: content}, nil
}

func parseBranchParams(request mcp.CallToolRequest) (*changelog.Store, string, error) {
	root, err := repoPath(request)
	if err != nil {
		return nil, "", err
	}
	br, ok := request.Params.Arguments["branch"].(string)
	if !ok || br == "" {
		return nil, "", fmt.Errorf("branch must be a string")
	}
	return changelog.NewStore(root), br, nil
}

func repoPath(request mcp.CallToolRequest) (string, error) {
	rp, ok := request.Params.Arguments["repo_path"].(string)
	if !ok || rp == "" {
		return "", fmt.Errorf("repo_path must be a string")
	}
	abs, err := filepath.Abs(rp)
	if err != nil {
		return "", fmt.Errorf("unable to resolve repo_path: %w", err)
	}
	return abs, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}}}
}
