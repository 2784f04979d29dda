package mcp

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/binsr/inspection-report-server/internal/config"
	"github.com/binsr/inspection-report-server/internal/descriptions"
	"github.com/binsr/inspection-report-server/internal/report"
)

// Server represents the MCP server instance
type Server struct {
	config        *config.Config
	reportService *report.Service
	mcpServer     *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, reportService *report.Service) (*Server, error) {
	if reportService == nil {
		return nil, fmt.Errorf("reportService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:        cfg,
		reportService: reportService,
		mcpServer:     mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register report generate tool
	reportGenerateTool := mcp.NewTool(
		"report_generate",
		mcp.WithDescription("Generate a filled TREC inspection report PDF from an inspection record"),
		mcp.WithString("data_path",
			mcp.Required(),
			mcp.Description("Full path to the inspection record JSON file"),
		),
		mcp.WithString("output_path",
			mcp.Description("Optional output PDF path (defaults to a name under the output directory)"),
		),
	)
	s.mcpServer.AddTool(reportGenerateTool, s.handleReportGenerate)

	// Register report preview fields tool
	reportPreviewFieldsTool := mcp.NewTool(
		"report_preview_fields",
		mcp.WithDescription("Preview the template field values an inspection record would produce"),
		mcp.WithString("data_path",
			mcp.Required(),
			mcp.Description("Full path to the inspection record JSON file"),
		),
	)
	s.mcpServer.AddTool(reportPreviewFieldsTool, s.handleReportPreviewFields)

	// Register template validate tool
	templateValidateTool := mcp.NewTool(
		"template_validate",
		mcp.WithDescription("Validate the configured TREC template PDF and its declared form fields"),
	)
	s.mcpServer.AddTool(templateValidateTool, s.handleTemplateValidate)

	// Register inspection summary tool
	inspectionSummaryTool := mcp.NewTool(
		"inspection_summary",
		mcp.WithDescription("Summarize an inspection record: parties, address and line item status counts"),
		mcp.WithString("data_path",
			mcp.Required(),
			mcp.Description("Full path to the inspection record JSON file"),
		),
	)
	s.mcpServer.AddTool(inspectionSummaryTool, s.handleInspectionSummary)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription("Get server information, configuration, template status and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleReportGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataPath, err := request.RequireString("data_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	outputPath := ""
	if out, ok := args["output_path"].(string); ok {
		outputPath = out
	}

	result, err := s.reportService.Generate(ctx, report.GenerateRequest{
		DataPath:   dataPath,
		OutputPath: outputPath,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatGenerateResult(result)), nil
}

func (s *Server) handleReportPreviewFields(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	dataPath, err := request.RequireString("data_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.reportService.PreviewFields(ctx, dataPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPreviewResult(result)), nil
}

func (s *Server) handleTemplateValidate(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	result, err := s.reportService.ValidateTemplate(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatTemplateReport(result)), nil
}

func (s *Server) handleInspectionSummary(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	dataPath, err := request.RequireString("data_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.reportService.InspectionSummary(ctx, dataPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatSummary(result)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo(ctx)), nil
}

// Formatting methods
func (s *Server) formatGenerateResult(result *report.GenerateResult) string {
	text := fmt.Sprintf("Successfully generated report: %s\n", result.OutputPath)
	text += fmt.Sprintf("Run ID: %s\n", result.RunID)
	text += fmt.Sprintf("Report ID: %s\n", result.ReportID)
	text += fmt.Sprintf("Fields written: %d\n", result.FieldsWritten)
	if result.FieldsSkipped > 0 {
		text += fmt.Sprintf("Fields skipped: %d\n", result.FieldsSkipped)
	}
	if result.ParseStats != nil {
		text += fmt.Sprintf("Sections: %d, Items: %d\n", result.ParseStats.Sections, result.ParseStats.Items)
		if result.ParseStats.SkippedSections > 0 || result.ParseStats.SkippedItems > 0 {
			text += fmt.Sprintf("Skipped during parse: %d section(s), %d item(s)\n",
				result.ParseStats.SkippedSections, result.ParseStats.SkippedItems)
		}
	}
	if result.DroppedItems > 0 {
		text += fmt.Sprintf("Dropped items (form capacity): %d\n", result.DroppedItems)
	}
	if result.DroppedComments > 0 {
		text += fmt.Sprintf("Dropped comments (slot capacity): %d\n", result.DroppedComments)
	}
	if len(result.CachedPhotos) > 0 {
		text += fmt.Sprintf("Cached photos: %d\n", len(result.CachedPhotos))
	}
	text += fmt.Sprintf("Duration: %v\n", result.Duration)

	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range result.Warnings {
			text += fmt.Sprintf("  • %s\n", w)
		}
	}

	return text
}

func (s *Server) formatPreviewResult(result *report.FieldPreview) string {
	text := fmt.Sprintf("Field preview for report: %s\n", result.ReportID)
	text += fmt.Sprintf("Mapped fields: %d\n", len(result.Fields))
	if result.Matched > 0 || result.Unmatched > 0 {
		text += fmt.Sprintf("Template match: %d matched, %d unmatched\n", result.Matched, result.Unmatched)
	}
	if result.DroppedItems > 0 {
		text += fmt.Sprintf("Dropped items (form capacity): %d\n", result.DroppedItems)
	}
	if result.DroppedComments > 0 {
		text += fmt.Sprintf("Dropped comments (slot capacity): %d\n", result.DroppedComments)
	}

	text += "\nFields:\n"
	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := result.Fields[name]
		if len(value) > 80 {
			value = value[:77] + "..."
		}
		text += fmt.Sprintf("  %s = %s\n", name, value)
	}

	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range result.Warnings {
			text += fmt.Sprintf("  • %s\n", w)
		}
	}

	return text
}

func (s *Server) formatTemplateReport(result *report.TemplateReport) string {
	text := "Template Validation\n"
	text += fmt.Sprintf("Template: %s\n", result.Info.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Info.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Info.Pages)
	text += fmt.Sprintf("Declared fields: %d\n", result.Info.FieldCount)
	text += fmt.Sprintf("Comment slots declared: %d\n", result.TextSlots)
	text += fmt.Sprintf("Checkbox slots declared: %d\n", result.CheckboxSlots)

	if len(result.MissingRequired) > 0 {
		text += fmt.Sprintf("\n⚠️  Missing required fields (%d):\n", len(result.MissingRequired))
		for _, name := range result.MissingRequired {
			text += fmt.Sprintf("  • %s\n", name)
		}
		text += "\nGeneration will fail until the template declares these fields.\n"
	} else {
		text += "\nAll required header fields are declared. Template is usable.\n"
	}

	return text
}

func (s *Server) formatSummary(result *report.Summary) string {
	text := fmt.Sprintf("Inspection Summary: %s\n", result.ReportID)
	text += fmt.Sprintf("Client: %s\n", result.ClientName)
	text += fmt.Sprintf("Inspector: %s\n", result.InspectorName)
	text += fmt.Sprintf("Property: %s\n", result.Address)
	text += fmt.Sprintf("Sections: %d, Items: %d\n", result.Sections, result.Items)

	text += "\nStatus counts:\n"
	for _, status := range []string{"I", "NI", "NP", "D"} {
		if count := result.StatusCounts[status]; count > 0 {
			text += fmt.Sprintf("  %s: %d\n", statusLabel(status), count)
		}
	}

	if len(result.Deficient) > 0 {
		text += fmt.Sprintf("\nDeficient items (%d):\n", len(result.Deficient))
		for _, item := range result.Deficient {
			text += fmt.Sprintf("  • %s\n", item)
		}
	}

	return text
}

func statusLabel(code string) string {
	switch code {
	case "I":
		return "Inspected"
	case "NI":
		return "Not Inspected"
	case "NP":
		return "Not Present"
	case "D":
		return "Deficient"
	default:
		return code
	}
}

func (s *Server) formatServerInfo(ctx context.Context) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📄 Template: %s\n", s.config.TemplatePath)
	text += fmt.Sprintf("📁 Output Directory: %s\n", s.config.OutputDir)
	text += fmt.Sprintf("📏 Max Template Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	if s.config.CachePhotos {
		text += fmt.Sprintf("🖼️  Photo Cache: %s\n", s.config.ImageCacheDir)
	}
	text += "\n"

	// Template status
	if rep, err := s.reportService.ValidateTemplate(ctx); err != nil {
		text += fmt.Sprintf("⚠️  Template status: unusable (%v)\n\n", err)
	} else if len(rep.MissingRequired) > 0 {
		text += fmt.Sprintf("⚠️  Template status: missing %d required field(s)\n\n", len(rep.MissingRequired))
	} else {
		text += fmt.Sprintf("✅ Template status: ready (%d fields, %d pages)\n\n",
			rep.Info.FieldCount, rep.Info.Pages)
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	names := descriptions.GetAllToolNames()
	sort.Strings(names)
	for _, name := range names {
		summary := descriptions.GetToolDescription(name)
		if idx := strings.Index(summary, "\n"); idx > 0 {
			summary = summary[:idx]
		}
		text += fmt.Sprintf("\n• %s\n", name)
		text += fmt.Sprintf("  %s\n", summary)
	}

	text += "\nStart with template_validate, then report_preview_fields on a record, " +
		"then report_generate to write the filled PDF.\n"

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	} else {
		return s.runStdioMode(ctx)
	}
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting inspection report server in stdio mode")
		log.Printf("Template: %s", s.config.TemplatePath)
		log.Printf("Output directory: %s", s.config.OutputDir)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// For now, we'll just use stdio mode since the mark3labs library
	// handles the transport differently
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
