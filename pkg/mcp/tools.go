package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameRewrite = "tsfix_rewrite"
	ToolNamePasses  = "tsfix_passes"
)

// Input size limits.
const (
	// MaxContentBytes is the maximum allowed size for inline content (1 MB).
	MaxContentBytes = 1 << 20
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrContentTooLarge indicates the content exceeds the size limit.
	ErrContentTooLarge = errors.New("content exceeds maximum size")
)

// Input types (auto-generate JSON schemas via struct tags).

// RewriteInput is the input schema for the tsfix_rewrite tool.
type RewriteInput struct {
	Content string   `json:"content"          jsonschema:"file content to rewrite"`
	Diff    bool     `json:"diff,omitempty"   jsonschema:"also return a unified diff of the change"`
	Passes  []string `json:"passes,omitempty" jsonschema:"optional list of pass names to run (default: all)"`
	Path    string   `json:"path"             jsonschema:"file path used for kind detection and logger exemption (e.g. src/App.tsx)"`
}

// PassesInput is the input schema for the tsfix_passes tool.
type PassesInput struct{}

// Output types (used as structured output for generic AddTool).

// RewriteOutput is the result of the tsfix_rewrite tool.
type RewriteOutput struct {
	Changed bool     `json:"changed"`
	Content string   `json:"content"`
	Diff    string   `json:"diff,omitempty"`
	Passes  []string `json:"passes"`
}

// PassInfo describes one pass.
type PassInfo struct {
	Description string   `json:"description"`
	Kinds       []string `json:"kinds,omitempty"`
	Name        string   `json:"name"`
}

// PassesOutput is the result of the tsfix_passes tool.
type PassesOutput struct {
	Passes []PassInfo `json:"passes"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult[Output any](err error) (*mcpsdk.CallToolResult, Output, error) {
	var zero Output

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, zero, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult[Output any](value Output) (*mcpsdk.CallToolResult, Output, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult[Output](fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, value, nil
}

// validateRewriteInput checks rewrite input constraints. Empty content is
// valid and comes back unchanged.
func validateRewriteInput(input RewriteInput) error {
	if input.Path == "" {
		return ErrEmptyPath
	}

	if len(input.Content) > MaxContentBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrContentTooLarge, len(input.Content), MaxContentBytes)
	}

	return nil
}
