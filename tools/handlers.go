package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/mediawiki-mcp-server/internal/mediawiki"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
	"github.com/olgasafonova/mediawiki-mcp-server/tracing"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	client *mediawiki.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *mediawiki.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)

	var ok bool
	switch spec.Method {
	// Search and read tools
	case "Search":
		ok = register(h, server, tool, spec, h.client.SearchMCP)
	case "GetPageContent":
		ok = register(h, server, tool, spec, h.client.GetPageContentMCP)
	case "GetPageInfo":
		ok = register(h, server, tool, spec, h.client.GetPageInfoMCP)

	// Discovery tools
	case "GetRecentChanges":
		ok = register(h, server, tool, spec, h.client.GetRecentChangesMCP)
	case "ListAllPages":
		ok = register(h, server, tool, spec, h.client.ListAllPagesMCP)
	case "GetSiteInfo":
		ok = register(h, server, tool, spec, h.client.GetSiteInfoMCP)

	// Write tools
	case "EditPage":
		ok = register(h, server, tool, spec, h.client.EditPageMCP)
	case "DeletePage":
		ok = register(h, server, tool, spec, h.client.DeletePageMCP)
	case "CreateDraftPage":
		ok = register(h, server, tool, spec, h.client.CreateDraftPageMCP)
	case "EditDraftPage":
		ok = register(h, server, tool, spec, h.client.EditDraftPageMCP)

	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
		return false
	}
	return ok
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	// The hint defaults to true for writing tools, so state it either way.
	if !spec.ReadOnly {
		annotations.DestructiveHint = ptr(spec.Destructive)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and
// logging. Failures travel inside the result, so the handler never returns
// a protocol error.
func register[Args any, Result mediawiki.Outcome](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) Result,
) bool {
	schema, err := outputSchema[Result]()
	if err != nil {
		h.logger.Error("Output schema inference failed, tool not registered", "tool", spec.Name, "error", err)
		return false
	}
	tool.OutputSchema = schema

	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (_ *mcp.CallToolResult, result Result, _ error) {
		callID := uuid.NewString()
		defer h.recoverPanic(spec.Name, callID, &result)

		ctx, span := tracing.StartToolSpan(ctx, spec.Name, spec.Category, callID, spec.ReadOnly)
		defer span.End()

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result = method(ctx, args)
		duration := time.Since(start).Seconds()

		tracing.EndToolCall(span, duration, result.OK(), result.Failure())
		metrics.RecordRequest(spec.Name, duration, result.OK())
		h.logExecution(spec, callID, duration, args, result)
		return nil, result, nil
	})
	return true
}

// outputSchema infers the result schema for Result and relaxes it so that
// only "success" is required. A failed call carries just success and error,
// which would otherwise break validation against the payload fields.
func outputSchema[Result any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Result](nil)
	if err != nil {
		return nil, err
	}
	schema.Required = []string{"success"}
	return schema, nil
}

// failureSetter is implemented by pointers to every mediawiki result type.
type failureSetter interface {
	SetFailure(msg string)
}

// recoverPanic recovers from panics in tool handlers and turns the pending
// result into a failure.
func (h *HandlerRegistry) recoverPanic(toolName, callID string, result any) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		metrics.RecordRequest(toolName, 0, false)
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"call_id", callID,
			"panic", rec,
			"stack", string(debug.Stack()))

		if r, ok := result.(failureSetter); ok {
			r.SetFailure(fmt.Sprintf("Internal error: %v", rec))
		}
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, callID string, duration float64, args any, result mediawiki.Outcome) {
	attrs := []any{
		"tool", spec.Name,
		"call_id", callID,
		"success", result.OK(),
		"duration_ms", int64(duration * 1000),
	}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case mediawiki.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case mediawiki.GetPageContentArgs:
		attrs = append(attrs, "title", a.Title)
	case mediawiki.GetPageInfoArgs:
		attrs = append(attrs, "title", a.Title)
	case mediawiki.RecentChangesArgs:
		attrs = append(attrs, "limit", a.Limit)
	case mediawiki.ListPagesArgs:
		attrs = append(attrs, "limit", a.Limit)
	case mediawiki.SiteInfoArgs:
		// No args to log
	case mediawiki.EditPageArgs:
		attrs = append(attrs, "title", a.Title, "content_bytes", len(a.Content))
	case mediawiki.DraftPageArgs:
		attrs = append(attrs, "title", a.Title, "content_bytes", len(a.Content))
	case mediawiki.DeletePageArgs:
		attrs = append(attrs, "title", a.Title)
	}

	// Add extractable fields from result
	switch r := result.(type) {
	case mediawiki.SearchResult:
		attrs = append(attrs, "results_count", len(r.Results))
	case mediawiki.RecentChangesResult:
		attrs = append(attrs, "changes", len(r.Changes))
	case mediawiki.ListPagesResult:
		attrs = append(attrs, "pages", len(r.Pages))
	case mediawiki.EditResult:
		if r.OK() {
			attrs = append(attrs, "pageid", r.PageID, "newrevid", r.NewRevID, "new", r.NewPage)
		}
	case mediawiki.DeleteResult:
		if r.OK() {
			attrs = append(attrs, "logid", r.LogID)
		}
	}

	if !result.OK() {
		attrs = append(attrs, "error", result.Failure())
	}

	h.logger.Info("Tool executed", attrs...)
}
