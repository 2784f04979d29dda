package pdf

// FieldKind is the coarse type of a template form field.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindCheckbox FieldKind = "checkbox"
	FieldKindRadio    FieldKind = "radio"
	FieldKindSelect   FieldKind = "select"
	FieldKindUnknown  FieldKind = "unknown"
)

// TemplateField is one declared, addressable form field. Name is the fully
// qualified field name, with parent names joined by dots the way AcroForm
// hierarchies address their terminals.
type TemplateField struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
	Page int       `json:"page,omitempty"`
}

// TemplateInfo summarizes a template document for validation reporting.
type TemplateInfo struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	Pages      int    `json:"pages"`
	FieldCount int    `json:"field_count"`
}

// FillStats reports what a fill actually wrote. Skipped names are assigned
// values whose field the template does not declare; the writer drops them
// rather than failing the document.
type FillStats struct {
	Requested    int
	Written      int
	Skipped      int
	SkippedNames []string
}
