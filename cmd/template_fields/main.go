package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/binsr/inspection-report-server/internal/pdf"
	"github.com/binsr/inspection-report-server/internal/trec"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	checkLayout  = flag.Bool("check", false, "Check the declared fields against the TREC report layout")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: template PDF path required\n\n")
		printUsage()
		os.Exit(1)
	}

	templatePath := flag.Arg(0)
	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", templatePath)
		os.Exit(1)
	}

	result, err := inspectTemplate(templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inspecting template: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Template Fields - list the fillable form fields of a TREC template PDF")
	fmt.Println()
	fmt.Println("This tool enumerates the AcroForm fields a template declares, which is what")
	fmt.Println("report generation matches field values against.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -check         Check the declared fields against the TREC report layout")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("LAYOUT CHECK:")
	fmt.Println("  With -check, the tool reports which of the expected fields the template")
	fmt.Println("  actually declares:")
	fmt.Println("  • Required header fields (client, date, address, inspector)")
	fmt.Println("  • Sequential comment text slots")
	fmt.Println("  • Per-page checkbox blocks")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  template_fields trec_template.pdf")
	fmt.Println("  template_fields -check trec_template.pdf")
	fmt.Println("  template_fields -format json trec_template.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  template_fields [OPTIONS] <template_pdf>")
}

// TemplateInspection is the complete result for one template file
type TemplateInspection struct {
	FilePath    string              `json:"file_path"`
	Pages       int                 `json:"pages"`
	Size        int64               `json:"size"`
	FieldCount  int                 `json:"field_count"`
	Fields      []pdf.TemplateField `json:"fields"`
	LayoutCheck *LayoutCheck        `json:"layout_check,omitempty"`
}

// LayoutCheck reports how the declared fields line up with the expected
// TREC layout
type LayoutCheck struct {
	RequiredPresent []string `json:"required_present"`
	RequiredMissing []string `json:"required_missing"`
	TextSlots       int      `json:"text_slots_declared"`
	TextSlotsTotal  int      `json:"text_slots_expected"`
	CheckboxSlots   int      `json:"checkbox_slots_declared"`
	CheckboxTotal   int      `json:"checkbox_slots_expected"`
}

func inspectTemplate(path string) (*TemplateInspection, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	tmpl, err := pdf.OpenTemplate(absPath, 0)
	if err != nil {
		return nil, err
	}

	info, err := tmpl.Info()
	if err != nil {
		return nil, err
	}

	fields, err := tmpl.Fields()
	if err != nil {
		return nil, err
	}

	result := &TemplateInspection{
		FilePath:   absPath,
		Pages:      info.Pages,
		Size:       info.Size,
		FieldCount: len(fields),
		Fields:     fields,
	}

	if *checkLayout {
		declared, err := tmpl.DeclaredSet()
		if err != nil {
			return nil, err
		}
		result.LayoutCheck = runLayoutCheck(declared)
	}

	return result, nil
}

func runLayoutCheck(declared map[string]bool) *LayoutCheck {
	check := &LayoutCheck{}

	for _, name := range trec.RequiredFields() {
		if declared[name] {
			check.RequiredPresent = append(check.RequiredPresent, name)
		} else {
			check.RequiredMissing = append(check.RequiredMissing, name)
		}
	}

	textSlots := trec.DefaultTextSlots()
	check.TextSlotsTotal = len(textSlots)
	for _, name := range textSlots {
		if declared[name] {
			check.TextSlots++
		}
	}

	checkboxes := trec.CheckboxFieldNames()
	check.CheckboxTotal = len(checkboxes)
	for _, name := range checkboxes {
		if declared[name] {
			check.CheckboxSlots++
		}
	}

	return check
}

func outputResults(result *TemplateInspection) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *TemplateInspection) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *TemplateInspection) error {
	fmt.Printf("✅ %s\n", result.FilePath)
	fmt.Printf("Pages: %d, Size: %d bytes\n", result.Pages, result.Size)
	fmt.Printf("Declared form fields: %d\n", result.FieldCount)
	fmt.Println()

	for i, field := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, field.Name)
		fmt.Printf("    Type: %s\n", field.Kind)
	}

	if result.LayoutCheck != nil {
		printLayoutCheck(result.LayoutCheck)
	}

	return nil
}

func printLayoutCheck(check *LayoutCheck) {
	fmt.Println()
	fmt.Println("📋 LAYOUT CHECK")
	fmt.Println("===============")

	fmt.Printf("Required header fields: %d/%d declared\n",
		len(check.RequiredPresent), len(check.RequiredPresent)+len(check.RequiredMissing))
	for _, name := range check.RequiredMissing {
		fmt.Printf("  ⚠️  missing: %s\n", name)
	}

	fmt.Printf("Comment text slots: %d/%d declared\n", check.TextSlots, check.TextSlotsTotal)
	fmt.Printf("Checkbox slots: %d/%d declared\n", check.CheckboxSlots, check.CheckboxTotal)

	if len(check.RequiredMissing) == 0 {
		fmt.Println()
		fmt.Println("Template declares every required header field.")
	} else {
		fmt.Println()
		fmt.Println("Report generation will fail until the missing fields are declared.")
	}
}

func init() {
	// Custom flag usage
	flag.Usage = func() {
		printHelp()
	}
}
