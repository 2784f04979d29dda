package trec

import "fmt"

// Header field names declared by the TREC template.
const (
	FieldClientName       = "Name of Client"
	FieldInspectionDate   = "Date of Inspection"
	FieldPropertyAddress  = "Address of Inspected Property"
	FieldInspectorName    = "Name of Inspector"
	FieldInspectorLicense = "TREC License"
	FieldSponsorName      = "Name of Sponsor if applicable"
	FieldSponsorLicense   = "TREC License_2"
	FieldPage2Count       = "Page 2 of"
)

// CheckedValue is the marker written into a checkbox slot that is set.
const CheckedValue = "/Yes"

// TotalPages is the constant page count value replicated into every page's
// page-count slot.
const TotalPages = "6"

// PageConfig describes the checkbox capacity of one template page.
// MaxIndex is the inclusive upper bound on checkbox indices for the page.
type PageConfig struct {
	Page         int
	MaxIndex     int
	ItemsPerPage int
}

// DefaultPageConfig returns the checkbox capacity table of the TREC
// template: 37 line items across pages 3-6, four checkboxes per item.
func DefaultPageConfig() []PageConfig {
	return []PageConfig{
		{Page: 3, MaxIndex: 47, ItemsPerPage: 12},
		{Page: 4, MaxIndex: 39, ItemsPerPage: 10},
		{Page: 5, MaxIndex: 47, ItemsPerPage: 12},
		{Page: 6, MaxIndex: 11, ItemsPerPage: 3},
	}
}

// DefaultTextSlots returns the ordered comment field names of the template.
// Text2 and Text22 exist in the template as layout variants and are not
// usable as sequential comment slots.
func DefaultTextSlots() []string {
	slots := make([]string, 0, 64)
	for i := 1; i <= 66; i++ {
		if i == 2 || i == 22 {
			continue
		}
		slots = append(slots, fmt.Sprintf("Text%d", i))
	}
	return slots
}

// RequiredFields lists the header fields that must be present and
// non-placeholder for a fill to be written at all.
func RequiredFields() []string {
	return []string{
		FieldClientName,
		FieldInspectionDate,
		FieldPropertyAddress,
		FieldInspectorName,
	}
}

// CheckboxFieldNames enumerates every checkbox slot the default page table
// can address.
func CheckboxFieldNames() []string {
	var names []string
	for _, page := range DefaultPageConfig() {
		for i := 0; i <= page.MaxIndex; i++ {
			names = append(names, checkboxField(page.Page, i))
		}
	}
	return names
}

func reportIDField(page int) string {
	return fmt.Sprintf("topmostSubform[0].Page%d[0].TextField1[0]", page)
}

func pageCountField(page int) string {
	return fmt.Sprintf("topmostSubform[0].Page%d[0].TextField2[0]", page)
}

func checkboxField(page, index int) string {
	return fmt.Sprintf("topmostSubform[0].Page%d[0].CheckBox1[%d]", page, index)
}
