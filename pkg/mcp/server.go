// Package mcp implements a Model Context Protocol server exposing the rewrite
// pipeline as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
	"github.com/Sumatoshi-tech/tsfix/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "tsfix"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional recorder for rewritten snippets. Nil disables it.
	Metrics *observability.FixMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Policy configures the passes. Nil uses rewrite.DefaultPolicy.
	Policy *rewrite.Policy
}

// Server wraps the MCP SDK server with the tsfix tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.FixMetrics
	tracer  trace.Tracer
	policy  rewrite.Policy
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	policy := rewrite.DefaultPolicy()
	if deps.Policy != nil {
		policy = *deps.Policy
	}

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		policy:  policy,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameRewrite,
		Description: rewriteToolDescription,
	}, withTracing(s.tracer, ToolNameRewrite, s.handleRewrite))

	s.trackTool(ToolNameRewrite)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNamePasses,
		Description: passesToolDescription,
	}, withTracing(s.tracer, ToolNamePasses, s.handlePasses))

	s.trackTool(ToolNamePasses)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input, Output any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, Output, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, Output, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, Output, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		if err != nil || (result != nil && result.IsError) {
			span.SetStatus(codes.Error, "tool call failed")
		}

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

func (s *Server) handleRewrite(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input RewriteInput,
) (*mcpsdk.CallToolResult, RewriteOutput, error) {
	err := validateRewriteInput(input)
	if err != nil {
		return errorResult[RewriteOutput](err)
	}

	pipeline, err := rewrite.SelectPipeline(s.policy, input.Passes)
	if err != nil {
		return errorResult[RewriteOutput](err)
	}

	start := time.Now()

	res, err := pipeline.SafeRun(rewrite.NewSourceFile(input.Path, input.Content))
	if err != nil {
		s.metrics.RecordFile(ctx, observability.OutcomeFailed, nil, time.Since(start))

		return errorResult[RewriteOutput](err)
	}

	outcome := observability.OutcomeUnchanged
	if res.Changed {
		outcome = observability.OutcomeModified
	}

	s.metrics.RecordFile(ctx, outcome, res.Passes, time.Since(start))

	out := RewriteOutput{
		Content: res.Content,
		Changed: res.Changed,
		Passes:  append([]string{}, res.Passes...),
	}

	if input.Diff {
		out.Diff = fixer.UnifiedDiff(input.Path, input.Content, res.Content)
	}

	return jsonResult(out)
}

func (s *Server) handlePasses(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ PassesInput,
) (*mcpsdk.CallToolResult, PassesOutput, error) {
	passes := rewrite.AllPasses(s.policy)

	out := PassesOutput{Passes: make([]PassInfo, 0, len(passes))}

	for _, p := range passes {
		info := PassInfo{Name: p.Name, Description: p.Description}
		for _, k := range p.Kinds {
			info.Kinds = append(info.Kinds, k.String())
		}

		out.Passes = append(out.Passes, info)
	}

	return jsonResult(out)
}

// Tool description constants.
const (
	rewriteToolDescription = "Run the TypeScript/JavaScript cleanup pipeline over one file's content " +
		"(catch bindings, loose any types, unused imports and state, console logging, import order). " +
		"Returns the rewritten content and the passes that changed it."

	passesToolDescription = "List the rewrite passes in pipeline order with their descriptions."
)
