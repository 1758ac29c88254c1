package mcp

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/formworks/formfield/internal/descriptions"
)

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string
	Description string
	Usage       string
	Parameters  string
}

// FileInfo represents information about a stored document
type FileInfo struct {
	Name         string
	Size         int64
	ModifiedTime string
}

// ServerInfoResult represents the result of a server info request
type ServerInfoResult struct {
	ServerName       string
	Version          string
	Mode             string
	StorageDirectory string
	FontDirectory    string
	MaxFileSize      int64
	FormCount        int
	SignatureFonts   []string
	StoredDocuments  []FileInfo
	AvailableTools   []ToolInfo
}

// getServerInfo collects server metadata, stored content, and tool help
func (s *Server) getServerInfo() (*ServerInfoResult, error) {
	formList, err := s.formService.ListForms()
	if err != nil {
		return nil, err
	}

	fonts := make([]string, 0)
	for key := range s.config.FontRegistry() {
		fonts = append(fonts, key)
	}
	sort.Strings(fonts)

	return &ServerInfoResult{
		ServerName:       s.config.ServerName,
		Version:          s.config.Version,
		Mode:             s.config.Mode,
		StorageDirectory: s.config.StorageDirectory,
		FontDirectory:    s.config.FontDirectory,
		MaxFileSize:      s.config.MaxFileSize,
		FormCount:        len(formList),
		SignatureFonts:   fonts,
		StoredDocuments:  s.scanStorageDirectory(),
		AvailableTools:   s.getAvailableTools(),
	}, nil
}

// scanStorageDirectory lists the PDF documents currently stored. The blob
// store writes a single flat level, so one directory read covers it.
func (s *Server) scanStorageDirectory() []FileInfo {
	entries, err := os.ReadDir(s.config.StorageDirectory)
	if err != nil {
		return nil
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}
	return files
}

// getAvailableTools returns information about all available tools
func (s *Server) getAvailableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "form_detect_fields",
			Description: descriptions.GetToolDescription("form_detect_fields"),
			Usage:       "Preview the fields detection would propose for a document before creating a form",
			Parameters:  "pdf_path (required): Path to the PDF file, resolved inside the storage directory",
		},
		{
			Name:        "form_create",
			Description: descriptions.GetToolDescription("form_create"),
			Usage:       "Turn a stored PDF document into a fillable form in one step",
			Parameters:  "form_name (required): Display name; pdf_path (required): Path to the PDF file",
		},
		{
			Name:        "form_get",
			Description: descriptions.GetToolDescription("form_get"),
			Usage:       "Inspect a form's schema before editing fields or building submission values",
			Parameters:  "form_id (required): Identifier of the form",
		},
		{
			Name:        "form_list",
			Description: descriptions.GetToolDescription("form_list"),
			Usage:       "Find form ids when you know a form exists but not its identifier",
			Parameters:  "None",
		},
		{
			Name:        "form_save_fields",
			Description: descriptions.GetToolDescription("form_save_fields"),
			Usage:       "Store an edited field list as the form's complete schema (full replace)",
			Parameters:  "form_id (required): Identifier of the form; fields_json (required): JSON array of field objects",
		},
		{
			Name:        "form_submit",
			Description: descriptions.GetToolDescription("form_submit"),
			Usage:       "Validate values against the schema and generate the filled PDF",
			Parameters:  "form_id (required): Identifier of the form; values_json (required): JSON object keyed by field id",
		},
		{
			Name:        "form_list_submissions",
			Description: descriptions.GetToolDescription("form_list_submissions"),
			Usage:       "Review the submissions recorded for a form and their generated documents",
			Parameters:  "form_id (required): Identifier of the form",
		},
		{
			Name:        "form_server_info",
			Description: descriptions.GetToolDescription("form_server_info"),
			Usage:       "Check server configuration, stored documents, and available fonts",
			Parameters:  "None",
		},
	}
}

// getUsageGuidance returns usage guidance for the server
func (s *Server) getUsageGuidance() string {
	return `Form Workflow Guide:

1. ONBOARD DOCUMENTS:
   - Place PDF documents in the storage directory shown above
   - Use 'form_detect_fields' to preview what detection proposes
   - Use 'form_create' to store the document and persist the detected schema

2. REVIEW AND EDIT:
   - Use 'form_list' to find form ids
   - Use 'form_get' to inspect a form's fields
   - Use 'form_save_fields' to replace the schema after editing

3. FILL AND SUBMIT:
   - Build values keyed by field id with kind "text", "checked", or "signature"
   - Use 'form_submit' to validate required fields and generate the filled PDF
   - Use 'form_list_submissions' to review generated documents

VALUE FORMAT EXAMPLES:
- Text: {"kind":"text","text":"Jane Doe"}
- Checkbox: {"kind":"checked","checked":true}
- Signature: {"kind":"signature","text":"Jane Doe","font":"great-vibes"}

IMPORTANT NOTES:
- pdf_path arguments resolve inside the storage directory
- Signature fonts come from the configured font directory (.ttf/.otf files)
- Unknown font keys fall back to italic Helvetica rather than failing the submission
- Textarea content that does not fit its box is truncated and reported as a warning`
}
