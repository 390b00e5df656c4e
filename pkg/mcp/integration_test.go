package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfix/pkg/mcp"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callRewrite(t *testing.T, session *mcpsdk.ClientSession, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameRewrite,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func decodeRewrite(t *testing.T, result *mcpsdk.CallToolResult) mcp.RewriteOutput {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var out mcp.RewriteOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))

	return out
}

func TestMCPServer_ToolsList(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	assert.Equal(t, []string{mcp.ToolNamePasses, mcp.ToolNameRewrite}, srv.ListToolNames())

	session := connect(t, srv)

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{mcp.ToolNameRewrite, mcp.ToolNamePasses}, toolNames)
}

func TestMCPServer_Rewrite(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callRewrite(t, session, map[string]any{
		"path":    "src/a.ts",
		"content": "try {\n  run();\n} catch (err) {\n  retry();\n}\n",
		"diff":    true,
	})
	assert.False(t, result.IsError)

	out := decodeRewrite(t, result)
	assert.True(t, out.Changed)
	assert.Equal(t, "try {\n  run();\n} catch {\n  retry();\n}\n", out.Content)
	assert.Equal(t, []string{rewrite.PassCatchBinding}, out.Passes)
	assert.Contains(t, out.Diff, "+} catch {\n")
}

func TestMCPServer_RewriteSelectedPasses(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	content := "} catch (err) {\n  console.log(err);\n}\n"

	out := decodeRewrite(t, callRewrite(t, session, map[string]any{
		"path":    "src/a.ts",
		"content": content,
		"passes":  []string{rewrite.PassUnusedVars},
	}))

	assert.False(t, out.Changed)
	assert.Equal(t, content, out.Content)
	assert.Empty(t, out.Passes)
}

func TestMCPServer_RewriteErrors(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty path", map[string]any{"path": "", "content": "x"}},
		{"unknown pass", map[string]any{"path": "a.ts", "content": "x", "passes": []string{"nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, callRewrite(t, session, tt.args).IsError)
		})
	}
}

func TestMCPServer_Passes(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNamePasses,
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var out mcp.PassesOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))

	names := make([]string, 0, len(out.Passes))
	for _, p := range out.Passes {
		names = append(names, p.Name)
	}

	assert.Equal(t, rewrite.PassNames(), names)
}
