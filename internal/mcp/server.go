package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/formworks/formfield/internal/config"
	"github.com/formworks/formfield/internal/forms"
	"github.com/formworks/formfield/internal/schema"
	"github.com/formworks/formfield/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server instance
type Server struct {
	config        *config.Config
	formService   *forms.Service
	pathValidator *store.PathValidator
	mcpServer     *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, formService *forms.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if formService == nil {
		return nil, fmt.Errorf("formService cannot be nil")
	}

	// Document paths passed by clients resolve inside the storage directory
	pathValidator, err := store.NewPathValidator(cfg.StorageDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:        cfg,
		formService:   formService,
		pathValidator: pathValidator,
		mcpServer:     mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register form detect fields tool
	formDetectFieldsTool := mcp.NewTool(
		"form_detect_fields",
		mcp.WithDescription("Propose form fields for a PDF document without saving anything"),
		mcp.WithString("pdf_path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, resolved inside the storage directory"),
		),
	)
	s.mcpServer.AddTool(formDetectFieldsTool, s.handleFormDetectFields)

	// Register form create tool
	formCreateTool := mcp.NewTool(
		"form_create",
		mcp.WithDescription("Create a form from a PDF document with automatically detected fields"),
		mcp.WithString("form_name",
			mcp.Required(),
			mcp.Description("Display name for the new form"),
		),
		mcp.WithString("pdf_path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, resolved inside the storage directory"),
		),
	)
	s.mcpServer.AddTool(formCreateTool, s.handleFormCreate)

	// Register form get tool
	formGetTool := mcp.NewTool(
		"form_get",
		mcp.WithDescription("Fetch a form's full definition including every field in its schema"),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
	)
	s.mcpServer.AddTool(formGetTool, s.handleFormGet)

	// Register form list tool
	formListTool := mcp.NewTool(
		"form_list",
		mcp.WithDescription("List every stored form with its id, name, and field count"),
	)
	s.mcpServer.AddTool(formListTool, s.handleFormList)

	// Register form save fields tool
	formSaveFieldsTool := mcp.NewTool(
		"form_save_fields",
		mcp.WithDescription("Replace a form's field schema with an edited field list"),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("fields_json",
			mcp.Required(),
			mcp.Description("JSON array of field objects to store as the complete schema"),
		),
	)
	s.mcpServer.AddTool(formSaveFieldsTool, s.handleFormSaveFields)

	// Register form submit tool
	formSubmitTool := mcp.NewTool(
		"form_submit",
		mcp.WithDescription("Fill a form's fields with values and generate the completed PDF"),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("values_json",
			mcp.Required(),
			mcp.Description(`JSON object mapping field ids to kind-tagged values, `+
				`e.g. {"<field-id>":{"kind":"text","text":"Jane Doe"}}`),
		),
	)
	s.mcpServer.AddTool(formSubmitTool, s.handleFormSubmit)

	// Register form list submissions tool
	formListSubmissionsTool := mcp.NewTool(
		"form_list_submissions",
		mcp.WithDescription("List every submission recorded for a form with its generated document URL"),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
	)
	s.mcpServer.AddTool(formListSubmissionsTool, s.handleFormListSubmissions)

	// Register form server info tool
	formServerInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription("Get server information, available tools, stored documents, and usage guidance"),
	)
	s.mcpServer.AddTool(formServerInfoTool, s.handleFormServerInfo)
}

// Handler functions
func (s *Server) handleFormDetectFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("pdf_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pdfBytes, resolved, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields, err := s.formService.DetectFields(pdfBytes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatDetectFieldsResult(resolved, fields)), nil
}

func (s *Server) handleFormCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formName, err := request.RequireString("form_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := request.RequireString("pdf_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pdfBytes, _, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.formService.CreateForm(formName, pdfBytes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("✅ Created form %q\n", result.Form.FormName)
	responseText += fmt.Sprintf("ID: %s\n", result.Form.ID)
	responseText += fmt.Sprintf("Document: %s\n", result.Form.PDFURL)
	responseText += fmt.Sprintf("Fields detected: %d\n", len(result.Form.Schema.Fields))
	if result.DetectionEmpty {
		responseText += "\n⚠️  No fields were detected in the document. " +
			"Add fields with form_save_fields before submitting.\n"
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	form, err := s.formService.GetForm(formID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatFormResult(form)), nil
}

func (s *Server) handleFormList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formList, err := s.formService.ListForms()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if len(formList) == 0 {
		responseText = "No forms stored yet. Create one with form_create."
	} else {
		responseText = s.formatFormListResult(formList)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormSaveFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldsJSON, err := request.RequireString("fields_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var fields []schema.FormField
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid fields_json: %v", err)), nil
	}

	form, err := s.formService.SaveFields(formID, fields)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("✅ Saved %d field(s) to form %q\n", len(form.Schema.Fields), form.FormName)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	valuesJSON, err := request.RequireString("values_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var values map[string]schema.FieldValue
	if err := json.Unmarshal([]byte(valuesJSON), &values); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid values_json: %v", err)), nil
	}

	result, err := s.formService.Submit(formID, values)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("✅ Submission %s recorded\n", result.Submission.ID)
	responseText += fmt.Sprintf("Form: %s\n", formID)
	responseText += fmt.Sprintf("Generated document: %s\n", result.Submission.GeneratedPDFURL)
	if len(result.Warnings) > 0 {
		responseText += "\nWarnings:\n"
		for _, warning := range result.Warnings {
			responseText += fmt.Sprintf("  ⚠️  %s\n", warning)
		}
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormListSubmissions(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	submissions, err := s.formService.Submissions(formID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if len(submissions) == 0 {
		responseText = fmt.Sprintf("No submissions recorded for form %s", formID)
	} else {
		responseText = s.formatSubmissionListResult(formID, submissions)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.getServerInfo()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatServerInfoResult(result)
	return mcp.NewToolResultText(responseText), nil
}

// readDocument resolves a client-supplied path against the storage
// directory and reads the document bytes.
func (s *Server) readDocument(path string) (data []byte, resolved string, err error) {
	resolved, err = s.pathValidator.NormalizePath(path)
	if err != nil {
		return nil, "", err
	}

	data, err = os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("cannot read document %s: %w", resolved, err)
	}
	return data, resolved, nil
}

// Formatting methods
func (s *Server) formatDetectFieldsResult(source string, fields []schema.FormField) string {
	if len(fields) == 0 {
		return fmt.Sprintf("No fields detected in %s\n\n", source) +
			"⚠️  The document has no form widgets and no recognizable field labels. " +
			"Create the form anyway and add fields manually with form_save_fields."
	}

	text := fmt.Sprintf("Detected %d field(s) in %s\n", len(fields), source)
	text += "\nFields:\n"
	text += s.formatFieldList(fields)
	return text
}

func (s *Server) formatFieldList(fields []schema.FormField) string {
	text := ""
	for i, field := range fields {
		text += fmt.Sprintf("%d. %s\n", i+1, field.Label)
		text += fmt.Sprintf("   ID: %s\n", field.ID)
		text += fmt.Sprintf("   Name: %s\n", field.Name)
		text += fmt.Sprintf("   Type: %s\n", field.Type)
		text += fmt.Sprintf("   Page: %d\n", field.Page)
		text += fmt.Sprintf("   Required: %t\n", field.Required)
		text += fmt.Sprintf("   Geometry: x=%.2f%% y=%.2f%% w=%.2f%% h=%.2f%%\n",
			field.Geometry.X, field.Geometry.Y, field.Geometry.Width, field.Geometry.Height)
		if i < len(fields)-1 {
			text += "\n"
		}
	}
	return text
}

func (s *Server) formatFormResult(form schema.Form) string {
	text := fmt.Sprintf("📋 Form: %s\n", form.FormName)
	text += fmt.Sprintf("ID: %s\n", form.ID)
	text += fmt.Sprintf("Schema type: %s\n", form.Schema.Kind)
	if form.PDFURL != "" {
		text += fmt.Sprintf("Document: %s\n", form.PDFURL)
	}
	text += fmt.Sprintf("Fields: %d\n", len(form.Schema.Fields))

	if len(form.Schema.Fields) > 0 {
		text += "\n"
		text += s.formatFieldList(form.Schema.Fields)
	}

	return text
}

func (s *Server) formatFormListResult(formList []schema.Form) string {
	text := fmt.Sprintf("Found %d form(s)\n", len(formList))
	text += "\nForms:\n"

	for i, form := range formList {
		text += fmt.Sprintf("%d. %s\n", i+1, form.FormName)
		text += fmt.Sprintf("   ID: %s\n", form.ID)
		text += fmt.Sprintf("   Fields: %d\n", len(form.Schema.Fields))
		if i < len(formList)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatSubmissionListResult(formID string, submissions []schema.Submission) string {
	text := fmt.Sprintf("Found %d submission(s) for form %s\n", len(submissions), formID)
	text += "\nSubmissions:\n"

	for i, submission := range submissions {
		text += fmt.Sprintf("%d. %s\n", i+1, submission.ID)
		text += fmt.Sprintf("   Generated document: %s\n", submission.GeneratedPDFURL)
		text += fmt.Sprintf("   Values: %d\n", len(submission.Values))
		if i < len(submissions)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Storage Directory: %s\n", result.StorageDirectory)
	if result.FontDirectory != "" {
		text += fmt.Sprintf("✍️  Font Directory: %s\n", result.FontDirectory)
	}
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🗂  Stored Forms: %d\n\n", result.FormCount)

	// Signature fonts
	if len(result.SignatureFonts) > 0 {
		text += "✍️  Signature Fonts:\n"
		for _, key := range result.SignatureFonts {
			text += fmt.Sprintf("  • %s\n", key)
		}
		text += "\n"
	}

	// Storage contents
	if len(result.StoredDocuments) > 0 {
		text += fmt.Sprintf("📂 Storage Contents (%d PDF files found):\n", len(result.StoredDocuments))
		for i, file := range result.StoredDocuments {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.StoredDocuments)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Storage Contents: No PDF files stored yet\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	// Usage guidance
	text += "\n" + s.getUsageGuidance()

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
		log.Printf("Starting form MCP server in stdio mode")
		log.Printf("Storage directory: %s", s.config.StorageDirectory)
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
