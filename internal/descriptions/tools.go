package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Generation Tools
	ReportGenerateDescription = `Generate a filled TREC inspection report PDF from an inspection record.

**When to use:** An inspection record JSON is complete and you need the official TREC form filled and written to disk.

**Why it's useful:** Runs the whole pipeline in one call: parses the record, classifies every line item, maps header, comment and checkbox fields and writes a new PDF without touching the template.

**Examples:**
• Finish an inspection: "Generate the TREC report for inspection-4412.json"
• Custom destination: "Generate the report for walkthrough.json into /srv/reports/final.pdf"
• Re-run after edits: "Regenerate report for inspection-4412.json after the comment fixes"

**Common workflows:**
1. Standard Delivery: Validate template → Generate report → Send PDF to client
2. Review Loop: Preview fields → Fix record data → Generate final report
3. Batch Runs: Generate for each record → Collect warnings → Audit dropped items

**Best practices:** Run template_validate once per template, use report_preview_fields first when the record quality is unknown; warnings about dropped items mean the record exceeds form capacity, not that generation failed.`

	ReportPreviewFieldsDescription = `Preview the field values an inspection record would produce, without writing a PDF.

**When to use:** Before generating, when debugging a record, or when you need to see exactly which template fields get which values.

**Why it's useful:** Shows the complete field mapping including checkbox placement and comment slot usage, and surfaces capacity warnings early while nothing has been written.

**Examples:**
• Pre-flight check: "Preview fields for inspection-4412.json to confirm the client name and date"
• Capacity audit: "Preview a 50-item record to see which items would be dropped"
• Mapping debug: "Check which checkbox slot the roof covering item lands in"

**Common workflows:**
1. Record QA: Preview fields → Review warnings → Fix the record → Generate
2. Template Work: Preview against a new template → Check unmatched fields → Adjust template
3. Capacity Planning: Preview large records → Count dropped items → Split or trim sections

**Best practices:** A preview that fails validation will also fail generation; fix missing required fields (client, date, address, inspector) in the record first.`

	TemplateValidateDescription = `Validate the configured TREC template PDF and its declared form fields.

**When to use:** After installing or replacing the template file, or when generation skips fields unexpectedly.

**Why it's useful:** Confirms the template is a readable PDF, counts its fillable fields and checks that the required header fields and the comment and checkbox slot layout are actually declared.

**Examples:**
• New template: "Validate the template after dropping in trec_rev2024.pdf"
• Troubleshooting: "Check why 'Name of Client' is never filled"
• Periodic check: "Verify the production template before the week's batch runs"

**Common workflows:**
1. Template Rollout: Validate template → Fix missing fields → Generate test report
2. Incident Debug: Validate template → Compare declared slots → Inspect skipped fields
3. Environment Setup: Configure paths → Validate template → Start serving

**Best practices:** Run once after any template change; missing required fields here guarantee every generation run will fail.`

	InspectionSummaryDescription = `Summarize an inspection record: parties, address and line item status counts.

**When to use:** Need a quick look at a record's contents or its deficiency profile without generating anything.

**Why it's useful:** Applies the same status classification the report uses, so the summary's counts match what the filled form will show.

**Examples:**
• Quick triage: "Summarize inspection-4412.json to see how many deficiencies were found"
• Client call prep: "Get the deficient item list for the Pecan Hollow inspection"
• Record sanity check: "Confirm the parsed section and item counts match the source app"

**Common workflows:**
1. Triage: Summarize record → Review deficient items → Prioritize follow-up
2. QA: Summarize → Compare counts to source system → Flag parse issues
3. Reporting Prep: Summarize → Confirm parties and address → Generate report

**Best practices:** Status counts use the report's own classification, so a mismatch with the source app usually means missing photos or comments on deficient items.`

	// Utility Tools
	ServerInfoDescription = `Get real-time server status, configuration and available tools.

**When to use:** Starting work with the report server, troubleshooting configuration, or checking available functionality.

**Why it's useful:** Shows the configured template and output paths, the template's current validity and every available tool in one call.

**Examples:**
• Session startup: "Check server info to confirm the template path before generating"
• Troubleshooting: "See why reports end up in the wrong directory"
• Capability discovery: "List the available tools for a new integration"

**Common workflows:**
1. Session Startup: Check server info → Verify template → Plan generation runs
2. Debugging: Review configuration → Check paths → Verify tool availability
3. Integration: Discover tools → Read descriptions → Wire up client calls

**Best practices:** Run at the start of sessions; an invalid template is reported here before any generation is attempted.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"report_generate":       ReportGenerateDescription,
	"report_preview_fields": ReportPreviewFieldsDescription,
	"template_validate":     TemplateValidateDescription,
	"inspection_summary":    InspectionSummaryDescription,
	"server_info":           ServerInfoDescription,
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
