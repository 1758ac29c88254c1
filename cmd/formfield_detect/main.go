package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formworks/formfield/internal/detect"
	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/schema"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := detectFields(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error detecting fields: %v\n", err)
		os.Exit(1)
	}

	// Output results
	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("FormField Detect - Propose form fields for PDF documents")
	fmt.Println()
	fmt.Println("This tool runs the same field detection the form server uses when a document")
	fmt.Println("is onboarded: embedded form widgets are reported where present, and text label")
	fmt.Println("heuristics propose fields on pages without them.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -verbose       Enable verbose output")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  formfield_detect document.pdf")
	fmt.Println("  formfield_detect -format json intake.pdf")
	fmt.Println("  formfield_detect -verbose forms/waiver.pdf")
	fmt.Println()
	fmt.Println("DETECTION SOURCES:")
	fmt.Println("  • Embedded form widgets (AcroForm fields placed in the document)")
	fmt.Println("  • Text label heuristics (trailing-colon labels like 'Email:' or 'Signature:')")
	fmt.Println("  • Label keywords choose the field type: email, phone, date, signature, notes")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  formfield_detect [OPTIONS] <pdf_file>")
}

// DetectionResult represents the complete result of field detection
type DetectionResult struct {
	FilePath   string             `json:"file_path"`
	Success    bool               `json:"success"`
	FieldCount int                `json:"field_count"`
	Fields     []schema.FormField `json:"fields"`
	Error      string             `json:"error,omitempty"`
}

func detectFields(pdfPath string) (*DetectionResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	result := &DetectionResult{
		FilePath: absPath,
		Success:  false,
	}

	if *verbose {
		fmt.Printf("🔍 Analyzing PDF: %s\n", absPath)
		fmt.Println()
	}

	pdfBytes, err := os.ReadFile(absPath)
	if err != nil {
		result.Error = err.Error()
		return result, nil // Don't fail, return error in result
	}

	loader := document.NewLoader(0, *verbose)
	doc, err := loader.Load(pdfBytes)
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	fields := detect.NewDetector(*verbose).Detect(doc)

	result.Success = true
	result.FieldCount = len(fields)
	result.Fields = fields

	if *verbose {
		fmt.Printf("✅ Detection completed successfully\n")
		fmt.Printf("📊 Found %d field(s) across %d page(s)\n", len(fields), doc.PageCount())
		fmt.Println()
	}

	return result, nil
}

func outputResults(result *DetectionResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *DetectionResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *DetectionResult) error {
	if !result.Success {
		fmt.Printf("❌ Field detection failed: %s\n", result.Error)
		return nil
	}

	if result.FieldCount == 0 {
		fmt.Println("⚠️  No form fields detected in the PDF")
		fmt.Println()
		fmt.Println("SUGGESTIONS:")
		fmt.Println("• The document has no embedded form widgets")
		fmt.Println("• No text labels matched the detection heuristics")
		fmt.Println("• The PDF might be scanned/image-based with visual form elements only")
		fmt.Println()
		fmt.Println("TRY:")
		fmt.Println("• Create the form anyway and place fields manually with form_save_fields")
		fmt.Println("• Check the document in a PDF viewer to confirm it has labeled lines")
		return nil
	}

	fmt.Printf("✅ Detected %d form field(s)\n", result.FieldCount)
	fmt.Println()

	for i, field := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, field.Label)
		fmt.Printf("    ID: %s\n", field.ID)
		fmt.Printf("    Name: %s\n", field.Name)
		fmt.Printf("    Type: %s\n", field.Type)
		fmt.Printf("    Page: %d\n", field.Page)
		fmt.Printf("    Position: %.2f%%, %.2f%% (%.2f%% x %.2f%%)\n",
			field.Geometry.X, field.Geometry.Y, field.Geometry.Width, field.Geometry.Height)

		if field.Required {
			fmt.Printf("    Properties: [Required]\n")
		}

		fmt.Println()
	}

	return nil
}

func init() {
	// Custom flag usage
	flag.Usage = func() {
		printHelp()
	}
}
