package mcptools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/changelog"
)

func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult, i int) string {
	t.Helper()
	require.Greater(t, len(res.Content), i)
	c, ok := res.Content[i].(mcp.TextContent)
	require.True(t, ok)
	return c.Text
}

func seed(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	s := changelog.NewStore(root)
	_, err := s.CreateWithMessage("feature/a", "fix X")
	require.NoError(t, err)
	_, err = s.CreateStub("feature/b")
	require.NoError(t, err)
	return root
}

func TestRender(t *testing.T) {
	root := seed(t)
	res, err := HandleRender(context.Background(), request(map[string]interface{}{"repo_path": root, "branch": "feature/a"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "## Artists\n### General\n\n- fix X\n\n## Technical\n", text(t, res, 0))
}

func TestValidate(t *testing.T) {
	root := seed(t)
	res, err := HandleValidate(context.Background(), request(map[string]interface{}{"repo_path": root, "branch": "feature/a"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = HandleValidate(context.Background(), request(map[string]interface{}{"repo_path": root, "branch": "feature/b"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res, 0), "no entries")

	res, err = HandleValidate(context.Background(), request(map[string]interface{}{"branch": "feature/a"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAggregatePreviewWritesNothing(t *testing.T) {
	root := seed(t)
	res, err := HandleAggregatePreview(context.Background(), request(map[string]interface{}{"repo_path": root}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res, 0), "- fix X")
	assert.Contains(t, text(t, res, 1), filepath.Join("feature", "b.yml"))

	entries, err := os.ReadDir(changelog.NewStore(root).Folder())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the feature folder exists")

	res, err = HandleAggregatePreview(context.Background(), request(map[string]interface{}{"repo_path": root, "prefixes": "hotfix"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res, 1), "no changes")
}

func TestNewServerRegistersTools(t *testing.T) {
	assert.NotNil(t, NewServer("test"))
}
