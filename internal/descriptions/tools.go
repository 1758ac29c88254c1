package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Detection Tools
	FormDetectFieldsDescription = `Propose form fields for a PDF document without saving anything.

**When to use:** Previewing what the detector would find in a PDF before creating a form, or inspecting an unfamiliar document's fillable structure.

**Why it's useful:** Shows exactly which fields would be proposed, where they came from (embedded widgets or text labels), and how they would be typed, so you can judge a document before committing it.

**Examples:**
• Preview detection: "Detect fields in intake-packet.pdf to see what the form builder would start with"
• Triage documents: "Check whether w9-blank.pdf carries real AcroForm widgets or needs label heuristics"
• Debug placement: "List proposed field positions for lease-agreement.pdf page by page"

**Common workflows:**
1. Document Triage: Detect fields → Review proposals → Decide whether to create a form
2. Detection Tuning: Detect fields → Compare against expectations → Adjust the source document
3. Pre-flight Check: Detect fields → Confirm required labels are found → form_create

**Best practices:** Pages with embedded widgets report only widgets; label heuristics apply on pages without them. Nothing is persisted, so this is safe to run repeatedly.`

	// Form Management Tools
	FormCreateDescription = `Create a form from a PDF document with automatically detected fields.

**When to use:** Turning a PDF into a fillable form definition that can be edited, listed, and submitted against.

**Why it's useful:** One call stores the source document, runs field detection, and persists the resulting schema, giving you a form id that every later operation keys on.

**Examples:**
• Onboard a document: "Create a form named 'Client Intake' from intake-packet.pdf"
• Build a library: "Create forms for every template in the storage directory"
• Start from scratch: "Create 'Waiver 2026' from waiver.pdf even if detection finds nothing, then add fields manually"

**Common workflows:**
1. Form Onboarding: form_create → form_get to review the schema → form_save_fields to refine it
2. Bulk Setup: form_create per document → form_list to confirm the catalog
3. Manual Authoring: form_create on a blank document → form_save_fields with hand-built fields

**Best practices:** A document with no detectable fields still creates a valid form; the response notes the empty schema so you know manual editing is needed.`

	FormGetDescription = `Fetch a form's full definition including every field in its schema.

**When to use:** Reviewing a form's current fields, their types, pages, and geometry before editing or submitting.

**Why it's useful:** Returns the authoritative stored schema, which is exactly what form_submit will fill, so you can see required fields and their ids before collecting values.

**Examples:**
• Review a schema: "Get form 8b41… and show which fields are required"
• Prepare a submission: "List the field ids of 'Client Intake' so I can map collected answers"
• Verify an edit: "Fetch the form again after form_save_fields to confirm the change landed"

**Common workflows:**
1. Submission Prep: form_get → map field ids to collected values → form_submit
2. Schema Review: form_get → inspect types and pages → form_save_fields with corrections
3. Audit: form_get → record the schema → compare after later edits

**Best practices:** Field ids are stable once created; use them, not labels, when building submission values.`

	FormListDescription = `List every stored form with its id, name, and field count.

**When to use:** Finding a form id, checking what has been onboarded, or getting an overview of the catalog.

**Why it's useful:** Form ids are generated at creation time; this is the quickest way to recover them without tracking ids yourself.

**Examples:**
• Find an id: "List forms and find the one named 'Client Intake'"
• Catalog check: "Show all forms to see what still needs onboarding"
• Sanity check: "Confirm the form count after a bulk form_create run"

**Common workflows:**
1. Lookup: form_list → pick the id → form_get for details
2. Inventory: form_list → compare against expected documents → onboard the gaps
3. Cleanup Review: form_list → identify stale forms → plan replacements

**Best practices:** Forms are listed in creation order; the newest form is last.`

	FormSaveFieldsDescription = `Replace a form's field schema with an edited field list.

**When to use:** Persisting the result of manual field editing: moved or resized fields, renamed labels, added or removed fields, changed types.

**Why it's useful:** The stored schema is what submissions fill, so edits only take effect once saved. The whole field list is replaced in one atomic write, so the saved state is exactly what you sent.

**Examples:**
• Fix detection: "Save the corrected field list for form 8b41… after moving the signature box"
• Add fields: "Append a checkbox field to 'Waiver 2026' and save the schema"
• Retype fields: "Change the 'dob' field to type date and save"

**Common workflows:**
1. Edit Loop: form_get → adjust fields → form_save_fields → form_get to verify
2. Manual Authoring: form_create on a blank document → build fields → form_save_fields
3. Iterative Refinement: form_save_fields → test with form_submit → adjust and save again

**Best practices:** Send the complete field list, not a delta; this is a full replace. Every field needs a unique id, a known type, and a page that exists in the document.`

	// Submission Tools
	FormSubmitDescription = `Fill a form's fields with values and generate the completed PDF.

**When to use:** Producing a filled document from collected answers: text drawn into text fields, check marks into checked checkboxes, styled signatures into signature fields.

**Why it's useful:** Burns the values into a flattened copy of the original document, stores it, and records the submission, returning the URL of the generated PDF.

**Examples:**
• Complete a form: "Submit form 8b41… with the client's name, email, and signature"
• Partial fill: "Submit with only the fields collected so far; unanswered optional fields stay empty"
• Long answers: "Submit a multi-line 'notes' value and check the truncation warnings"

**Common workflows:**
1. Standard Fill: form_get → collect values by field id → form_submit → fetch the output URL
2. Validation Loop: form_submit → fix reported missing required fields → resubmit
3. Record Keeping: form_submit → form_list_submissions to confirm the history

**Best practices:** Values are keyed by field id. Required fields must be present and non-empty or the submission is rejected before any PDF is generated. Warnings report content that did not fit, such as truncated textarea lines.`

	FormListSubmissionsDescription = `List every submission recorded for a form with its generated document URL.

**When to use:** Reviewing a form's submission history or recovering the URL of a previously generated PDF.

**Why it's useful:** Each successful form_submit stores the filled document and a submission record; this lists them in order so no generated output is lost.

**Examples:**
• Recover output: "Find the PDF generated for the last submission of 'Client Intake'"
• Audit history: "List all submissions of form 8b41… with their timestamps"
• Verify a fill: "Confirm the submission just made is recorded"

**Common workflows:**
1. Output Recovery: form_list_submissions → take the document URL → retrieve the file
2. History Audit: form_list_submissions → review values per submission → flag anomalies
3. Post-submit Check: form_submit → form_list_submissions → confirm the new entry

**Best practices:** Submissions are listed oldest first; the most recent submission is last.`

	// Utility Tools
	FormServerInfoDescription = `Get real-time server status, available tools, and current configuration.

**When to use:** Starting work with the form server, troubleshooting issues, or checking available functionality.

**Why it's useful:** Provides a complete overview of server capabilities, the storage and font configuration, and the current form count for informed decision-making.

**Examples:**
• System check: "Verify the server is ready and all tools are available before onboarding documents"
• Troubleshooting: "Check server info to diagnose why a PDF path isn't being found"
• Capability discovery: "See all available tools and their descriptions for a new project"

**Common workflows:**
1. Session Startup: Check server info → Verify capabilities → Plan the form workflow
2. Debugging: Review server status → Check the storage directory → Verify tool availability
3. Planning: Review available tools → Choose appropriate methods → Execute workflow

**Best practices:** Run at the start of sessions; the storage directory shown here is where pdf_path arguments are resolved.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"form_detect_fields":    FormDetectFieldsDescription,
	"form_create":           FormCreateDescription,
	"form_get":              FormGetDescription,
	"form_list":             FormListDescription,
	"form_save_fields":      FormSaveFieldsDescription,
	"form_submit":           FormSubmitDescription,
	"form_list_submissions": FormListSubmissionsDescription,
	"form_server_info":      FormServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
